package compiler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/engine"
	"github.com/roach88/cilsym/internal/ir"
)

// Status is the outcome of one compilation.
type Status string

const (
	StatusOK             Status = "OK"
	StatusUnsupported    Status = "UNSUPPORTED"
	StatusTypeError      Status = "TYPE_ERROR"
	StatusInvalidProgram Status = "INVALID_PROGRAM"
	StatusBackendFailed  Status = "BACKEND_FAILED"
)

// SizeUnknown is the CodeHandle size of backends that cannot report one.
const SizeUnknown = -1

// CodeHandle locates the code a backend produced. Its lifetime belongs to
// the caller.
type CodeHandle struct {
	Address uintptr
	Size    int
}

// Method is what Compile needs from a method: its signature, the registry
// its signature types belong to and a restartable body.
type Method interface {
	engine.Method
	Types() *ir.TypeRegistry
	Source() cil.Source
}

// Backend consumes the operation stream and produces code.
//
// Process is called once per instruction between Begin and Finish. Finish
// is only called when every instruction was translated.
type Backend interface {
	engine.Processor
	Begin(m Method) error
	Finish() (CodeHandle, error)
}

// Result describes a finished compilation.
//
// Operations holds every record the backend accepted, so on failure it is
// the prefix up to the failing instruction. Code and Digest are only set
// when Status is StatusOK.
type Result struct {
	Status     Status
	Code       CodeHandle
	Operations []ir.OperationInfo
	Digest     string
	Err        error
}

// streamDigest is replaced in tests.
var streamDigest = ir.StreamDigest

// Option configures Compile.
type Option func(*options)

type options struct {
	types      *ir.TypeRegistry
	log        zerolog.Logger
	engineOpts []engine.Option
}

// WithTypes sets the registry used for inference results. It must be the
// registry the method's signature types came from.
//
// Default: m.Types(), or a new registry when that is nil.
func WithTypes(types *ir.TypeRegistry) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithLogger sets the logger for compile lifecycle messages. The same
// logger is handed to the stack machine for per-step debug output.
//
// Default: zerolog.Nop()
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithEngineOptions passes options through to the stack machine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// Compile translates m through backend. The returned Result is never nil;
// err is non-nil exactly when Result.Status is not StatusOK.
func Compile(m Method, backend Backend, opts ...Option) (*Result, error) {
	o := &options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.types == nil {
		o.types = m.Types()
	}
	if o.types == nil {
		o.types = ir.NewTypeRegistry()
	}

	log := o.log.With().Str("method", nameOf(m)).Logger()
	start := time.Now()
	res := &Result{}
	log.Info().Msg("compile starting")

	if err := backend.Begin(m); err != nil {
		return fail(log, res, StatusBackendFailed, fmt.Errorf("backend begin: %w", err))
	}

	collect := engine.ProcessorFunc(func(op ir.OperationInfo) error {
		res.Operations = append(res.Operations, op)
		return nil
	})
	engineOpts := append([]engine.Option{engine.WithLogger(o.log)}, o.engineOpts...)
	machine := engine.New(m, o.types, engine.Tee(backend, collect), engineOpts...)

	if _, err := machine.Run(m.Source()); err != nil {
		return fail(log, res, StatusOf(err), err)
	}

	code, err := backend.Finish()
	if err != nil {
		return fail(log, res, StatusBackendFailed, fmt.Errorf("backend finish: %w", err))
	}

	digest, err := streamDigest(res.Operations)
	if err != nil {
		return fail(log, res, StatusBackendFailed, err)
	}
	res.Code = code
	res.Digest = digest
	res.Status = StatusOK

	log.Info().
		Int("instructions", len(res.Operations)).
		Str("status", string(res.Status)).
		Str("digest", digest).
		Dur("elapsed", time.Since(start)).
		Msg("compile finished")
	return res, nil
}

func fail(log zerolog.Logger, res *Result, status Status, err error) (*Result, error) {
	res.Status = status
	res.Err = err
	log.Warn().
		Int("instructions", len(res.Operations)).
		Str("status", string(status)).
		Err(err).
		Msg("compile failed")
	return res, err
}

// StatusOf maps a translation error to the Status reported for it.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	code, ok := engine.CodeOf(err)
	if !ok {
		return StatusBackendFailed
	}
	switch code {
	case engine.ErrCodeUnsupportedOperand:
		return StatusUnsupported
	case engine.ErrCodeMissingTypeTableEntry:
		return StatusTypeError
	case engine.ErrCodeStackUnderflow, engine.ErrCodeInvalidOperandIndex:
		return StatusInvalidProgram
	default:
		return StatusBackendFailed
	}
}

func nameOf(m Method) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}
