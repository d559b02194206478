package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeLoops_StraightLine(t *testing.T) {
	assert.Empty(t, AnalyzeLoops(assemble(t, "ldc.i4.1; ldc.i4.2; add; pop; ret")))
	assert.Empty(t, AnalyzeLoops(nil))
}

func TestAnalyzeLoops_ForwardBranchIsNotALoop(t *testing.T) {
	warnings := AnalyzeLoops(assemble(t, "ldarg.0; brfalse.s IL_0005; ldc.i4.1; ret; ldc.i4.0; ret"))
	assert.Empty(t, warnings)
}

func TestAnalyzeLoops_SelfLoop(t *testing.T) {
	warnings := AnalyzeLoops(assemble(t, "nop; br.s IL_0000"))
	require.Len(t, warnings, 1)
	assert.Equal(t, []int{0, 0}, warnings[0].Path)
	assert.Equal(t, "warning", warnings[0].Level)
	assert.Equal(t, "Loop detected: IL_0000 → IL_0000", warnings[0].Message)
}

func TestAnalyzeLoops_BackEdge(t *testing.T) {
	// IL_0000 ldc.i4.0
	// IL_0001 stloc.0          <- loop header
	// IL_0002 ldloc.0
	// IL_0003 brtrue.s IL_0001
	// IL_0005 ret
	warnings := AnalyzeLoops(assemble(t, "ldc.i4.0; stloc.0; ldloc.0; brtrue.s IL_0001; ret"))
	require.Len(t, warnings, 1)
	assert.Equal(t, []int{1, 1}, warnings[0].Path)
}

func TestAnalyzeLoops_TwoBlockCycle(t *testing.T) {
	// IL_0000 br.s IL_0004
	// IL_0002 nop              block A
	// IL_0003 nop
	// IL_0004 ldc.i4.1         block B
	// IL_0005 brtrue.s IL_0002
	// IL_0007 ret
	warnings := AnalyzeLoops(assemble(t, "br.s IL_0004; nop; nop; ldc.i4.1; brtrue.s IL_0002; ret"))
	require.Len(t, warnings, 1)
	assert.Equal(t, []int{2, 4, 2}, warnings[0].Path)
}
