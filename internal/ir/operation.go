package ir

import (
	"strings"

	"github.com/roach88/cilsym/internal/cil"
)

// OperationInfo is the fully-resolved record emitted for one instruction.
//
// Operands lists non-stack operands first (in the order the instruction
// needs them), then popped stack operands deepest-first. Result is the
// Temporary the instruction defines, present iff its push behavior is
// non-empty.
type OperationInfo struct {
	Offset    int
	Opcode    cil.Opcode
	ExtOpcode cil.ExtOpcode // meaningful only when Opcode == cil.Prefix1
	Operands  []*Operand
	Result    *Operand
}

// Mnemonic returns the instruction name of the record.
func (op OperationInfo) Mnemonic() string {
	return cil.Mnemonic(op.Opcode, op.ExtOpcode)
}

// String renders the record as one line of SSA text:
//
//	t2 = add t0, t1 : int32
//	stloc.0 loc0, t3
func (op OperationInfo) String() string {
	var b strings.Builder
	if op.Result != nil {
		b.WriteString(op.Result.Name)
		b.WriteString(" = ")
	}
	b.WriteString(op.Mnemonic())
	for i, o := range op.Operands {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(o.Name)
	}
	if op.Result != nil {
		b.WriteString(" : ")
		b.WriteString(op.Result.Type.String())
	}
	return b.String()
}

// Canonical returns the record as a canonical-JSON-ready map. The "result"
// key is absent when the record defines no value.
func (op OperationInfo) Canonical() map[string]any {
	operands := make([]any, len(op.Operands))
	for i, o := range op.Operands {
		operands[i] = o.Canonical()
	}
	m := map[string]any{
		"offset":   op.Offset,
		"opcode":   op.Mnemonic(),
		"operands": operands,
	}
	if op.Result != nil {
		m["result"] = op.Result.Canonical()
	}
	return m
}
