package engine

import "github.com/roach88/cilsym/internal/ir"

// Processor consumes the operation stream.
//
// Process is called exactly once per instruction, in program order, and
// synchronously: the Machine does not read the next instruction until it
// returns. A non-nil error aborts the compilation.
type Processor interface {
	Process(op ir.OperationInfo) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(op ir.OperationInfo) error

// Process implements Processor.
func (f ProcessorFunc) Process(op ir.OperationInfo) error {
	return f(op)
}

// Tee returns a Processor that forwards each record to every processor in
// order, stopping at the first error.
func Tee(procs ...Processor) Processor {
	return ProcessorFunc(func(op ir.OperationInfo) error {
		for _, p := range procs {
			if err := p.Process(op); err != nil {
				return err
			}
		}
		return nil
	})
}
