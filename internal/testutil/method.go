package testutil

import (
	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
)

// Method is an in-memory method signature.
type Method struct {
	Params  []ir.Parameter
	Vars    []ir.LocalVariable
	Returns *ir.ClrType
}

// NewMethod creates a signature with the given return type and parameter
// types. Locals are added with WithLocals.
func NewMethod(returns *ir.ClrType, params ...*ir.ClrType) *Method {
	m := &Method{Returns: returns}
	for i, t := range params {
		m.Params = append(m.Params, ir.Parameter{Position: i, Type: t})
	}
	return m
}

// WithLocals appends locals of the given types.
func (m *Method) WithLocals(types ...*ir.ClrType) *Method {
	for _, t := range types {
		m.Vars = append(m.Vars, ir.LocalVariable{Index: len(m.Vars), Type: t})
	}
	return m
}

// Parameters implements engine.Method.
func (m *Method) Parameters() []ir.Parameter { return m.Params }

// Locals implements engine.Method.
func (m *Method) Locals() []ir.LocalVariable { return m.Vars }

// ReturnType implements engine.Method.
func (m *Method) ReturnType() *ir.ClrType { return m.Returns }

// MustAssemble assembles src or panics. Intended for test tables.
func MustAssemble(src string) *cil.Body {
	insns, err := cil.Assemble(src)
	if err != nil {
		panic(err)
	}
	return cil.NewBody(insns...)
}
