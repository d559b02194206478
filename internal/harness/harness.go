package harness

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roach88/cilsym/internal/compiler"
	"github.com/roach88/cilsym/internal/engine"
	"github.com/roach88/cilsym/internal/ir"
	"github.com/roach88/cilsym/internal/method"
	"github.com/roach88/cilsym/internal/store"
)

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger handed to the compiler.
//
// Default: zerolog.Nop()
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) {
		h.log = l
	}
}

// Harness is the test execution engine for one scenario.
type Harness struct {
	store *store.Store
	types *ir.TypeRegistry
	log   zerolog.Logger
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Resolve the scenario's method against a fresh type registry
//  2. Compile it through a ListingBackend
//  3. Write the compilation to a fresh in-memory store
//  4. Check the expectation and evaluate assertions
//
// A non-nil error means the scenario could not be executed at all (for
// example, its method file is malformed). A compilation that fails is a
// normal outcome, reported in Result.Status.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(store.NewFixedGenerator("scenario-"+scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store: st,
		types: ir.NewTypeRegistry(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	m, err := h.resolveMethod(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ctx := context.Background()
	result := NewResult()

	res, cerr := compiler.Compile(m, compiler.NewListingBackend(),
		compiler.WithTypes(h.types),
		compiler.WithLogger(h.log),
	)
	result.Status = string(res.Status)
	result.Digest = res.Digest
	result.record(res.Operations)
	if code, ok := engine.CodeOf(cerr); ok {
		result.ErrorCode = string(code)
	}

	errMsg := ""
	if cerr != nil {
		errMsg = cerr.Error()
	}
	c, err := st.WriteCompilation(ctx, store.Compilation{
		Method:           m.Name,
		Signature:        m.Signature(),
		Status:           result.Status,
		Error:            errMsg,
		InstructionCount: len(m.Body),
		Digest:           res.Digest,
	}, res.Operations)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	result.CompilationID = c.ID

	for _, msg := range checkExpectation(scenario.Expect, result) {
		result.AddError(msg)
	}

	actx := &AssertionContext{
		Store:         st,
		Ctx:           ctx,
		CompilationID: c.ID,
	}
	if err := EvaluateAssertions(result, scenario.Assertions, actx); err != nil {
		for _, e := range err.Errors {
			result.AddError(e.Error())
		}
	}

	return result, nil
}

func (h *Harness) resolveMethod(s *Scenario) (*method.Method, error) {
	if s.Method != nil {
		return s.Method.Build(h.types)
	}

	methods, err := method.LoadFile(s.MethodFile, h.types)
	if err != nil {
		return nil, err
	}
	if s.MethodName == "" {
		if len(methods) != 1 {
			return nil, fmt.Errorf("%s holds %d methods; method_name is required", s.MethodFile, len(methods))
		}
		return methods[0], nil
	}
	for _, m := range methods {
		if m.Name == s.MethodName {
			return m, nil
		}
	}
	return nil, fmt.Errorf("method %q not found in %s", s.MethodName, s.MethodFile)
}

func checkExpectation(want Expectation, got *Result) []string {
	var errs []string
	if got.Status != want.Status {
		errs = append(errs, fmt.Sprintf("status: expected %s, got %s", want.Status, got.Status))
	}
	if want.ErrorCode != "" && got.ErrorCode != want.ErrorCode {
		errs = append(errs, fmt.Sprintf("error_code: expected %s, got %q", want.ErrorCode, got.ErrorCode))
	}
	if want.Records != nil && len(got.Operations) != *want.Records {
		errs = append(errs, fmt.Sprintf("records: expected %d, got %d", *want.Records, len(got.Operations)))
	}
	return errs
}
