package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
)

func TestRuleOf(t *testing.T) {
	tests := []struct {
		op   cil.Opcode
		ext  cil.ExtOpcode
		want Rule
	}{
		{cil.Add, 0, RuleBinary},
		{cil.Xor, 0, RuleBinary},
		{cil.Neg, 0, RuleUnary},
		{cil.Not, 0, RuleBitwiseNot},
		{cil.BltUnS, 0, RuleBranch},
		{cil.ShrUn, 0, RuleShift},
		{cil.ConvU2, 0, RuleNarrow},
		{cil.ConvOvfU8Un, 0, RuleWiden},
		{cil.ConvRUn, 0, RuleToFloat},
		{cil.Dup, 0, RuleCopy},
		{cil.Prefix1, cil.CltUn, RuleCompare},
		{cil.Prefix1, cil.Ldarg, RuleNone},
		{cil.Ldnull, 0, RuleNone},
	}
	for _, tt := range tests {
		t.Run(cil.Mnemonic(tt.op, tt.ext), func(t *testing.T) {
			assert.Equal(t, tt.want, RuleOf(tt.op, tt.ext))
		})
	}
}

func TestResult_Binary(t *testing.T) {
	tests := []struct {
		left, right ir.Kind
		want        ir.Kind
		ok          bool
	}{
		{ir.KindInt32, ir.KindInt32, ir.KindInt32, true},
		{ir.KindInt64, ir.KindInt64, ir.KindInt64, true},
		{ir.KindInt32, ir.KindNativeInt, ir.KindNativeInt, true},
		{ir.KindNativeInt, ir.KindInt32, ir.KindNativeInt, true},
		{ir.KindFloat64, ir.KindFloat64, ir.KindFloat64, true},
		{ir.KindTypedRef, ir.KindNativeInt, ir.KindTypedRef, true},
		{ir.KindInt32, ir.KindInt64, 0, false},
		{ir.KindFloat32, ir.KindFloat64, 0, false},
		{ir.KindFloat32, ir.KindFloat32, 0, false},
		{ir.KindBool, ir.KindBool, 0, false},
		{ir.KindObjectRef, ir.KindInt32, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.left.String()+"/"+tt.right.String(), func(t *testing.T) {
			got, ok := Result(cil.Add, 0, []ir.Kind{tt.left, tt.right})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResult_BinaryIsSymmetric(t *testing.T) {
	for p, k := range binaryTable {
		got, ok := binaryTable[pair{p.right, p.left}]
		require.True(t, ok, "%s/%s has no mirror", p.left, p.right)
		assert.Equal(t, k, got)
	}
}

func TestResult_Unary(t *testing.T) {
	for _, k := range []ir.Kind{ir.KindInt32, ir.KindInt64, ir.KindNativeInt, ir.KindTypedRef, ir.KindFloat64} {
		got, ok := Result(cil.Neg, 0, []ir.Kind{k})
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := Result(cil.Neg, 0, []ir.Kind{ir.KindBool})
	assert.False(t, ok)

	got, ok := Result(cil.Not, 0, []ir.Kind{ir.KindNativeInt})
	require.True(t, ok)
	assert.Equal(t, ir.KindNativeInt, got)
	_, ok = Result(cil.Not, 0, []ir.Kind{ir.KindFloat64})
	assert.False(t, ok)
}

func TestResult_Shift(t *testing.T) {
	got, ok := Result(cil.Shl, 0, []ir.Kind{ir.KindInt64, ir.KindNativeInt})
	require.True(t, ok)
	assert.Equal(t, ir.KindInt64, got)

	_, ok = Result(cil.Shr, 0, []ir.Kind{ir.KindFloat64, ir.KindInt32})
	assert.False(t, ok)
	_, ok = Result(cil.Shr, 0, []ir.Kind{ir.KindInt32, ir.KindInt64})
	assert.False(t, ok)
}

func TestResult_Conversions(t *testing.T) {
	got, _ := Result(cil.ConvI8, 0, []ir.Kind{ir.KindInt32})
	assert.Equal(t, ir.KindInt64, got)
	got, _ = Result(cil.ConvI8, 0, []ir.Kind{ir.KindFloat64})
	assert.Equal(t, ir.KindInt64, got)
	got, _ = Result(cil.ConvI8, 0, []ir.Kind{ir.KindNativeInt})
	assert.Equal(t, ir.KindNativeInt, got)
	got, _ = Result(cil.ConvR8, 0, []ir.Kind{ir.KindInt64})
	assert.Equal(t, ir.KindFloat64, got)
	got, _ = Result(cil.ConvI1, 0, []ir.Kind{ir.KindInt64})
	assert.Equal(t, ir.KindInt64, got)
}

func TestResult_CompareAndBranch(t *testing.T) {
	got, ok := Result(cil.Prefix1, cil.Ceq, []ir.Kind{ir.KindInt32, ir.KindInt32})
	require.True(t, ok)
	assert.Equal(t, ir.KindBool, got)

	got, ok = Result(cil.BeqS, 0, []ir.Kind{ir.KindInt64, ir.KindInt64})
	require.True(t, ok)
	assert.Equal(t, ir.KindBool, got)
}

func TestResult_NoRule(t *testing.T) {
	_, ok := Result(cil.Ldnull, 0, nil)
	assert.False(t, ok)
	_, ok = Result(cil.Add, 0, []ir.Kind{ir.KindInt32})
	assert.False(t, ok)
}

func TestTable_InferReturnsSingletons(t *testing.T) {
	types := ir.NewTypeRegistry()
	table := New(types)

	got, ok := table.Infer(cil.Add, 0, []*ir.ClrType{types.Int32, types.NativeInt})
	require.True(t, ok)
	assert.Same(t, types.NativeInt, got)

	_, ok = table.Infer(cil.Add, 0, []*ir.ClrType{types.Float32, types.Float64})
	assert.False(t, ok, "inputs are not unified by the table")

	got, ok = table.Infer(cil.Add, 0, []*ir.ClrType{types.StackType(types.Float32), types.Float64})
	require.True(t, ok)
	assert.Same(t, types.Float64, got)
}

func TestRuleNames(t *testing.T) {
	assert.Equal(t, "binary", RuleBinary.String())
	assert.Equal(t, "to-float", RuleToFloat.String())
	assert.Equal(t, "rule?", Rule(99).String())
}
