package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/cilsym/internal/ir"
	"github.com/roach88/cilsym/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Stream   []string // Full stream for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull stream:\n")
	for i, line := range e.Stream {
		fmt.Fprintf(&buf, "  [%d] %s\n", i, line)
	}

	return buf.String()
}

// AssertionContext provides store access for stored_stream assertions.
type AssertionContext struct {
	Store         *store.Store
	Ctx           context.Context
	CompilationID string
}

// EvaluateAssertions evaluates all assertions against the result and
// returns every failure, or nil when all hold.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) *multierror.Error {
	var errs *multierror.Error

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertRecordText:
			err = assertRecordText(result, a)
		case AssertResultType:
			err = assertResultType(result, a)
		case AssertNoResult:
			err = assertNoResult(result, a)
		case AssertOpcodeOrder:
			err = assertOpcodeOrder(result, a)
		case AssertSameOperand:
			err = assertSameOperand(result, a)
		case AssertDistinctOperand:
			err = assertDistinctOperand(result, a)
		case AssertUniqueResults:
			err = assertUniqueResults(result)
		case AssertStoredStream:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("stored_stream requires store context")
			} else {
				err = assertStoredStream(actx, result)
			}
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}

		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("assertion[%d]: %w", i, err))
		}
	}

	return errs
}

func failure(result *Result, typ, expected, actual string) error {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Stream:   result.Lines,
	}
}

func recordAt(result *Result, typ string, i int) (ir.OperationInfo, error) {
	if i >= len(result.Operations) {
		return ir.OperationInfo{}, failure(result, typ,
			fmt.Sprintf("record %d", i),
			fmt.Sprintf("stream has %d records", len(result.Operations)))
	}
	return result.Operations[i], nil
}

func assertRecordText(result *Result, a Assertion) error {
	op, err := recordAt(result, AssertRecordText, a.Record)
	if err != nil {
		return err
	}
	if got := op.String(); got != a.Text {
		return failure(result, AssertRecordText, fmt.Sprintf("record %d %q", a.Record, a.Text), fmt.Sprintf("%q", got))
	}
	return nil
}

func assertResultType(result *Result, a Assertion) error {
	op, err := recordAt(result, AssertResultType, a.Record)
	if err != nil {
		return err
	}
	if op.Result == nil {
		return failure(result, AssertResultType, fmt.Sprintf("record %d result of type %s", a.Record, a.ResultType), "no result")
	}
	if got := op.Result.Type.String(); got != a.ResultType {
		return failure(result, AssertResultType, fmt.Sprintf("record %d result of type %s", a.Record, a.ResultType), got)
	}
	return nil
}

func assertNoResult(result *Result, a Assertion) error {
	op, err := recordAt(result, AssertNoResult, a.Record)
	if err != nil {
		return err
	}
	if op.Result != nil {
		return failure(result, AssertNoResult, fmt.Sprintf("record %d without result", a.Record), op.Result.Name)
	}
	return nil
}

func assertOpcodeOrder(result *Result, a Assertion) error {
	got := make([]string, len(result.Operations))
	for i, op := range result.Operations {
		got[i] = op.Mnemonic()
	}
	if !slices.Equal(got, a.Opcodes) {
		return failure(result, AssertOpcodeOrder, strings.Join(a.Opcodes, ", "), strings.Join(got, ", "))
	}
	return nil
}

func resolveRef(result *Result, typ string, r Ref) (*ir.Operand, error) {
	op, err := recordAt(result, typ, r.Record)
	if err != nil {
		return nil, err
	}
	if r.Operand == nil {
		if op.Result == nil {
			return nil, failure(result, typ, r.String(), "record defines no value")
		}
		return op.Result, nil
	}
	if *r.Operand < 0 || *r.Operand >= len(op.Operands) {
		return nil, failure(result, typ, r.String(), fmt.Sprintf("record has %d operands", len(op.Operands)))
	}
	return op.Operands[*r.Operand], nil
}

func assertSameOperand(result *Result, a Assertion) error {
	first, err := resolveRef(result, AssertSameOperand, a.Refs[0])
	if err != nil {
		return err
	}
	for _, r := range a.Refs[1:] {
		o, err := resolveRef(result, AssertSameOperand, r)
		if err != nil {
			return err
		}
		if o != first {
			return failure(result, AssertSameOperand,
				fmt.Sprintf("%s is %s", r, a.Refs[0]),
				fmt.Sprintf("%s (%s) differs from %s (%s)", r, o.Name, a.Refs[0], first.Name))
		}
	}
	return nil
}

func assertDistinctOperand(result *Result, a Assertion) error {
	seen := make(map[*ir.Operand]Ref, len(a.Refs))
	for _, r := range a.Refs {
		o, err := resolveRef(result, AssertDistinctOperand, r)
		if err != nil {
			return err
		}
		if prev, dup := seen[o]; dup {
			return failure(result, AssertDistinctOperand,
				fmt.Sprintf("%s distinct from %s", r, prev),
				fmt.Sprintf("both are %s", o.Name))
		}
		seen[o] = r
	}
	return nil
}

func assertUniqueResults(result *Result) error {
	names := make(map[string]int)
	ptrs := make(map[*ir.Operand]int)
	for i, op := range result.Operations {
		if op.Result == nil {
			continue
		}
		if j, dup := names[op.Result.Name]; dup {
			return failure(result, AssertUniqueResults, "unique result names",
				fmt.Sprintf("%s defined by records %d and %d", op.Result.Name, j, i))
		}
		if j, dup := ptrs[op.Result]; dup {
			return failure(result, AssertUniqueResults, "one definition per result",
				fmt.Sprintf("records %d and %d share a result", j, i))
		}
		names[op.Result.Name] = i
		ptrs[op.Result] = i
	}
	return nil
}

func assertStoredStream(actx *AssertionContext, result *Result) error {
	stored, err := actx.Store.ReadOperations(actx.Ctx, actx.CompilationID)
	if err != nil {
		return err
	}
	if len(stored) != len(result.Operations) {
		return failure(result, AssertStoredStream,
			fmt.Sprintf("%d stored records", len(result.Operations)),
			fmt.Sprintf("%d", len(stored)))
	}
	for i, rec := range stored {
		if got := rec.String(); got != result.Lines[i] {
			return failure(result, AssertStoredStream,
				fmt.Sprintf("record %d stored as %q", i, result.Lines[i]),
				fmt.Sprintf("%q", got))
		}
	}
	return nil
}
