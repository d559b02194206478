package ir

import (
	"fmt"
	"strconv"
)

// OperandKind tags the four kinds of abstract value.
type OperandKind uint8

const (
	Argument OperandKind = iota
	Local
	Constant
	Temporary
)

func (k OperandKind) String() string {
	switch k {
	case Argument:
		return "argument"
	case Local:
		return "local"
	case Constant:
		return "constant"
	case Temporary:
		return "temporary"
	}
	return "operand?"
}

// Operand is an abstract value flowing through the stack machine.
//
// Operands have reference semantics: identity is the pointer.
//   - Argument and Local operands are created once per compilation; every
//     load of the same slot yields the same *Operand.
//   - Constant operands are created fresh per instruction.
//   - Temporary operands have exactly one definition (the OperationInfo
//     whose Result they are) and are never mutated after creation.
type Operand struct {
	Kind  OperandKind
	Name  string
	Type  *ClrType
	Index int   // slot index for Argument and Local
	Value int64 // literal for Constant
}

// NewArgument creates the operand for argument slot index.
func NewArgument(index int, t *ClrType) *Operand {
	return &Operand{Kind: Argument, Name: fmt.Sprintf("arg%d", index), Type: t, Index: index}
}

// NewLocal creates the operand for local slot index.
func NewLocal(index int, t *ClrType) *Operand {
	return &Operand{Kind: Local, Name: fmt.Sprintf("loc%d", index), Type: t, Index: index}
}

// NewConstant creates an instruction-local literal operand.
func NewConstant(value int64, t *ClrType) *Operand {
	return &Operand{Kind: Constant, Name: strconv.FormatInt(value, 10), Type: t, Value: value}
}

// NewTemporary creates a single-assignment value. name must be unique
// within the compilation.
func NewTemporary(name string, t *ClrType) *Operand {
	return &Operand{Kind: Temporary, Name: name, Type: t}
}

func (o *Operand) String() string {
	return o.Name
}

// Canonical returns the operand as a canonical-JSON-ready map.
func (o *Operand) Canonical() map[string]any {
	return map[string]any{
		"kind": o.Kind.String(),
		"name": o.Name,
		"type": o.Type.String(),
	}
}

// Parameter is one entry of a method signature's parameter list.
type Parameter struct {
	Position int
	Type     *ClrType
}

// LocalVariable is one entry of a method's local variable signature.
type LocalVariable struct {
	Index int
	Type  *ClrType
}
