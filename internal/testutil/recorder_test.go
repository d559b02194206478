package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
)

func TestRecorder_KeepsOrder(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Process(ir.OperationInfo{Offset: 0, Opcode: cil.Nop}))
	require.NoError(t, r.Process(ir.OperationInfo{Offset: 1, Opcode: cil.Ret}))

	ops := r.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, 0, ops[0].Offset)
	assert.Equal(t, 1, ops[1].Offset)
}

func TestRecorder_FailAt(t *testing.T) {
	r := NewRecorder().FailAt(1)
	require.NoError(t, r.Process(ir.OperationInfo{Offset: 0}))
	assert.ErrorIs(t, r.Process(ir.OperationInfo{Offset: 1}), ErrRejected)
	assert.Equal(t, 1, r.Len())
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Process(ir.OperationInfo{}))
	r.Reset()
	assert.Equal(t, 0, r.Len())
}

func TestMethod_Builders(t *testing.T) {
	types := ir.NewTypeRegistry()
	m := NewMethod(types.Int32, types.Int32, types.Float64).WithLocals(types.Int64)

	require.Len(t, m.Parameters(), 2)
	assert.Equal(t, 1, m.Parameters()[1].Position)
	assert.Same(t, types.Float64, m.Parameters()[1].Type)
	require.Len(t, m.Locals(), 1)
	assert.Same(t, types.Int64, m.Locals()[0].Type)
	assert.Same(t, types.Int32, m.ReturnType())
}

func TestMustAssemble(t *testing.T) {
	body := MustAssemble("ldc.i4.1; ret")
	assert.Equal(t, 2, body.Len())
	assert.Panics(t, func() { MustAssemble("bogus") })
}
