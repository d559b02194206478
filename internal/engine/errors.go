package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/cilsym/internal/cil"
)

// Error represents a fatal condition detected while replaying a body.
//
// Engine errors include:
//   - Unsupported operand: unhandled literal loads, Varpop outside ret,
//     Varpush and Pushref-class instructions
//   - Missing type table entry: operand types with no inference rule
//   - Stack underflow: fewer stack slots than the instruction pops
//   - Invalid operand index: argument/local slot outside the signature
//   - Processor failed: the Processor rejected a record
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Offset is the IL offset of the failing instruction.
	Offset int

	// Opcode and Ext identify the failing instruction.
	Opcode cil.Opcode
	Ext    cil.ExtOpcode

	// Err is the underlying error, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedOperand indicates an instruction form the engine
	// does not handle.
	ErrCodeUnsupportedOperand ErrorCode = "UNSUPPORTED_OPERAND"

	// ErrCodeMissingTypeTableEntry indicates an input type combination with
	// no inference rule.
	ErrCodeMissingTypeTableEntry ErrorCode = "MISSING_TYPE_TABLE_ENTRY"

	// ErrCodeStackUnderflow indicates an instruction popped more slots than
	// the simulated stack holds.
	ErrCodeStackUnderflow ErrorCode = "STACK_UNDERFLOW"

	// ErrCodeInvalidOperandIndex indicates an argument/local index outside
	// the method signature.
	ErrCodeInvalidOperandIndex ErrorCode = "INVALID_OPERAND_INDEX"

	// ErrCodeProcessorFailed indicates the Processor returned an error.
	ErrCodeProcessorFailed ErrorCode = "PROCESSOR_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s at IL_%04X", e.Code, e.Message, e.Offset)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Mnemonic returns the name of the failing instruction.
func (e *Error) Mnemonic() string {
	return cil.Mnemonic(e.Opcode, e.Ext)
}

// CodeOf extracts the ErrorCode from err. Uses errors.As to handle wrapped
// errors.
func CodeOf(err error) (ErrorCode, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return "", false
}

// IsUnsupported returns true if err is an unsupported-operand error.
func IsUnsupported(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeUnsupportedOperand
}

// IsMissingEntry returns true if err is a missing-type-table-entry error.
func IsMissingEntry(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeMissingTypeTableEntry
}

// IsStackUnderflow returns true if err is a stack-underflow error.
func IsStackUnderflow(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeStackUnderflow
}

func newError(code ErrorCode, in cil.Instruction, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  in.Offset,
		Opcode:  in.Op,
		Ext:     in.Ext,
	}
}
