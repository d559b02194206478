package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
	"github.com/roach88/cilsym/internal/testutil"
)

func assemble(t *testing.T, src string) []cil.Instruction {
	t.Helper()
	insns, err := cil.Assemble(src)
	require.NoError(t, err)
	return insns
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	types := ir.NewTypeRegistry()
	sig := testutil.NewMethod(types.Int32, types.Int32).WithLocals(types.Int32)
	errs := Validate(sig, assemble(t, "ldarg.0; stloc.0; ldloc.0; brtrue.s IL_0007; ldc.i4.0; ret; ldc.i4.1; ret"))
	assert.Empty(t, errs)
}

func TestValidate_EmptyBody(t *testing.T) {
	errs := Validate(testutil.NewMethod(nil), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyBody, errs[0].Code)
	assert.Equal(t, "[E100] method body is empty", errs[0].Error())
}

func TestValidate_CollectsAll(t *testing.T) {
	types := ir.NewTypeRegistry()
	sig := testutil.NewMethod(types.Void, types.Int32)
	body := assemble(t, `
		ldarg.1
		ldloc.s 2
		br.s IL_0004
		ldc.r8 1.0
		ldnull
		call 0x06000001
		nop`)

	errs := Validate(sig, body)
	assert.Equal(t, []string{
		ErrArgumentIndex,
		ErrLocalIndex,
		ErrBadBranchTarget,
		ErrUnsupportedInstruction,
		ErrUnsupportedInstruction,
		ErrUnsupportedInstruction,
		ErrFallsOffEnd,
	}, codes(errs))
	assert.Equal(t, "[E102] IL_0000 ldarg.1: argument 1 out of range (method has 1)", errs[0].Error())
}

func TestValidate_Terminators(t *testing.T) {
	types := ir.NewTypeRegistry()
	sig := testutil.NewMethod(types.Void)
	for _, src := range []string{"ret", "br.s IL_0000", "ldnull; throw", "leave.s IL_0000", "rethrow"} {
		t.Run(src, func(t *testing.T) {
			for _, e := range Validate(sig, assemble(t, src)) {
				assert.NotEqual(t, ErrFallsOffEnd, e.Code)
			}
		})
	}
}

func TestValidate_SwitchTargets(t *testing.T) {
	types := ir.NewTypeRegistry()
	sig := testutil.NewMethod(types.Void, types.Int32)
	// switch at 1 is 1+4+8 bytes; ret at 14.
	errs := Validate(sig, assemble(t, "ldarg.0; switch (IL_000E, IL_0020); ret"))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrBadBranchTarget, errs[0].Code)
	assert.Contains(t, errs[0].Message, "IL_0020")
}

func TestValidate_NoInferenceRule(t *testing.T) {
	types := ir.NewTypeRegistry()
	sig := testutil.NewMethod(types.Int32, types.NativeInt).WithLocals(types.Int32)

	errs := Validate(sig, assemble(t, "ldloca.s 0; pop; ldarg.0; ldind.i4; ret"))
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, ErrUnsupportedInstruction, e.Code)
		assert.Equal(t, "result type has no inference rule", e.Message)
	}
	assert.Equal(t, "ldloca.s", errs[0].Mnemonic)
	assert.Equal(t, "ldind.i4", errs[1].Mnemonic)

	// Loads and literals take their type from the source.
	assert.Empty(t, Validate(sig, assemble(t, "ldloc.0; ldarg.0; pop; ldc.i4.s 7; add; ret")))
}
