package harness

import (
	"github.com/roach88/cilsym/internal/ir"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the expectation and every assertion hold.
	Pass bool `json:"pass"`

	// Status is the compiler.Status of the compilation.
	Status string `json:"status"`

	// ErrorCode is the engine error code when the engine failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Operations is the emitted stream (the accepted prefix on failure).
	Operations []ir.OperationInfo `json:"-"`

	// Lines renders Operations as SSA text, one line per record.
	Lines []string `json:"lines"`

	// Digest is the stream digest; empty unless Status is OK.
	Digest string `json:"digest,omitempty"`

	// CompilationID is the ID the stream was stored under.
	CompilationID string `json:"compilation_id"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Lines:  []string{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) record(ops []ir.OperationInfo) {
	r.Operations = ops
	r.Lines = make([]string, len(ops))
	for i, op := range ops {
		r.Lines[i] = op.String()
	}
}
