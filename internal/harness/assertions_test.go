package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/ir"
)

func sumResult(t *testing.T) *Result {
	t.Helper()
	result, err := Run(inline("sum", "ldarg.0; ldarg.1; add; dup; pop; ret", Expectation{Status: "OK"}))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	return result
}

func evaluate(result *Result, a ...Assertion) []error {
	errs := EvaluateAssertions(result, a, nil)
	if errs == nil {
		return nil
	}
	return errs.Errors
}

func TestAssertRecordText(t *testing.T) {
	r := sumResult(t)

	assert.Empty(t, evaluate(r, Assertion{Type: AssertRecordText, Record: 2, Text: "t2 = add t0, t1 : int32"}))
	assert.Len(t, evaluate(r, Assertion{Type: AssertRecordText, Record: 2, Text: "t2 = sub t0, t1 : int32"}), 1)
	assert.Len(t, evaluate(r, Assertion{Type: AssertRecordText, Record: 99, Text: "x"}), 1)
}

func TestAssertResultType(t *testing.T) {
	r := sumResult(t)

	assert.Empty(t, evaluate(r, Assertion{Type: AssertResultType, Record: 3, ResultType: "int32"}))
	assert.Len(t, evaluate(r, Assertion{Type: AssertResultType, Record: 3, ResultType: "int64"}), 1)
	assert.Len(t, evaluate(r, Assertion{Type: AssertResultType, Record: 5, ResultType: "int32"}), 1, "ret has no result")
}

func TestAssertNoResult(t *testing.T) {
	r := sumResult(t)

	assert.Empty(t, evaluate(r, Assertion{Type: AssertNoResult, Record: 4}))
	assert.Len(t, evaluate(r, Assertion{Type: AssertNoResult, Record: 0}), 1)
}

func TestAssertOpcodeOrder(t *testing.T) {
	r := sumResult(t)

	assert.Empty(t, evaluate(r, Assertion{Type: AssertOpcodeOrder, Opcodes: []string{"ldarg.0", "ldarg.1", "add", "dup", "pop", "ret"}}))

	errs := evaluate(r, Assertion{Type: AssertOpcodeOrder, Opcodes: []string{"ldarg.0", "add"}})
	require.Len(t, errs, 1)
	var ae *AssertionError
	require.ErrorAs(t, errs[0], &ae)
	assert.Equal(t, "ldarg.0, add", ae.Expected)
	assert.Len(t, ae.Stream, 6)
}

func TestAssertSameOperand(t *testing.T) {
	r := sumResult(t)
	zero := 0

	// dup pushes its one result twice; pop and ret consume the same operand.
	assert.Empty(t, evaluate(r, Assertion{Type: AssertSameOperand, Refs: []Ref{
		{Record: 3},
		{Record: 4, Operand: &zero},
		{Record: 5, Operand: &zero},
	}}))
	assert.Len(t, evaluate(r, Assertion{Type: AssertSameOperand, Refs: []Ref{
		{Record: 0},
		{Record: 1},
	}}), 1)
}

func TestAssertSameOperand_BadRef(t *testing.T) {
	r := sumResult(t)
	five := 5

	assert.Len(t, evaluate(r, Assertion{Type: AssertSameOperand, Refs: []Ref{{Record: 0}, {Record: 0, Operand: &five}}}), 1)
	assert.Len(t, evaluate(r, Assertion{Type: AssertSameOperand, Refs: []Ref{{Record: 4}, {Record: 0}}}), 1)
}

func TestAssertDistinctOperand(t *testing.T) {
	r := sumResult(t)
	zero := 0

	assert.Empty(t, evaluate(r, Assertion{Type: AssertDistinctOperand, Refs: []Ref{{Record: 0}, {Record: 1}, {Record: 2}}}))
	assert.Len(t, evaluate(r, Assertion{Type: AssertDistinctOperand, Refs: []Ref{{Record: 2}, {Record: 5, Operand: &zero}}}), 0,
		"ret consumes the dup result, not the add result")
	assert.Len(t, evaluate(r, Assertion{Type: AssertDistinctOperand, Refs: []Ref{{Record: 3}, {Record: 5, Operand: &zero}}}), 1)
}

func TestAssertUniqueResults(t *testing.T) {
	r := sumResult(t)
	assert.Empty(t, evaluate(r, Assertion{Type: AssertUniqueResults}))

	types := ir.NewTypeRegistry()
	t0 := ir.NewTemporary("t0", types.Int32)
	shared := &Result{Operations: []ir.OperationInfo{
		{Result: t0},
		{Result: ir.NewTemporary("t0", types.Int32)},
	}}
	assert.Len(t, evaluate(shared, Assertion{Type: AssertUniqueResults}), 1)
}

func TestAssertStoredStream_RequiresStore(t *testing.T) {
	r := sumResult(t)

	errs := evaluate(r, Assertion{Type: AssertStoredStream})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "requires store context")
}

func TestAssertStoredStream_EmptyStore(t *testing.T) {
	r := sumResult(t)
	st := openStore(t)

	errs := EvaluateAssertions(r, []Assertion{{Type: AssertStoredStream}}, &AssertionContext{
		Store:         st,
		Ctx:           context.Background(),
		CompilationID: "missing",
	})
	require.NotNil(t, errs)
	assert.Len(t, errs.Errors, 1)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     "record_text",
		Expected: `"a"`,
		Actual:   `"b"`,
		Stream:   []string{"ret"},
	}
	assert.Equal(t, "Assertion failed: record_text\n  Expected: \"a\"\n  Actual: \"b\"\n\nFull stream:\n  [0] ret\n", err.Error())
}
