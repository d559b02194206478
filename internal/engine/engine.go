package engine

import (
	"github.com/rs/zerolog"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/infer"
	"github.com/roach88/cilsym/internal/ir"
)

// Method is the signature view the Machine is built from.
type Method interface {
	Parameters() []ir.Parameter
	Locals() []ir.LocalVariable
	ReturnType() *ir.ClrType
}

// Machine is the symbolic stack machine for one compilation.
//
// INVARIANTS:
//   - args and locals are built once in New and never replaced; loads of
//     the same slot always yield the same *ir.Operand
//   - every Temporary on the stack was the Result of exactly one emitted
//     record
//   - once err is set, no further record is emitted
type Machine struct {
	types   *ir.TypeRegistry
	table   *infer.Table
	proc    Processor
	names   *Namer
	log     zerolog.Logger
	retType *ir.ClrType

	args   []*ir.Operand
	locals []*ir.Operand
	stack  []*ir.Operand

	emitted int
	err     error
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for per-instruction debug output.
//
// Default: zerolog.Nop()
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) {
		m.log = l
	}
}

// WithNamer replaces the Machine's Temporary name generator.
func WithNamer(n *Namer) Option {
	return func(m *Machine) {
		m.names = n
	}
}

// New creates a Machine for method, resolving types through types and
// emitting records to proc.
func New(method Method, types *ir.TypeRegistry, proc Processor, opts ...Option) *Machine {
	m := &Machine{
		types:   types,
		table:   infer.New(types),
		proc:    proc,
		names:   NewNamer(),
		log:     zerolog.Nop(),
		retType: method.ReturnType(),
	}

	params := method.Parameters()
	m.args = make([]*ir.Operand, len(params))
	for i, p := range params {
		m.args[i] = ir.NewArgument(p.Position, p.Type)
	}
	locals := method.Locals()
	m.locals = make([]*ir.Operand, len(locals))
	for i, l := range locals {
		m.locals[i] = ir.NewLocal(l.Index, l.Type)
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run replays src from its first instruction to its end. It returns the
// number of records emitted, which on success equals the number of
// instructions.
func (m *Machine) Run(src cil.Source) (int, error) {
	src.Reset()
	for {
		in, ok := src.Next()
		if !ok {
			return m.emitted, m.err
		}
		if err := m.Step(in); err != nil {
			return m.emitted, err
		}
	}
}

// Step processes one instruction.
func (m *Machine) Step(in cil.Instruction) error {
	if m.err != nil {
		return m.err
	}
	if err := m.step(in); err != nil {
		m.err = err
		m.log.Debug().
			Int("offset", in.Offset).
			Str("opcode", in.Mnemonic()).
			Err(err).
			Msg("step failed")
		return err
	}
	return nil
}

func (m *Machine) step(in cil.Instruction) error {
	info, ok := cil.Lookup(in.Op, in.Ext)
	if !ok {
		return newError(ErrCodeUnsupportedOperand, in, "undefined opcode %s", in.Mnemonic())
	}

	operands, source, err := m.nonStackOperands(in)
	if err != nil {
		return err
	}

	popped, err := m.pop(in, info.Pop)
	if err != nil {
		return err
	}
	operands = append(operands, popped...)

	result, err := m.result(in, info.Push, source, popped)
	if err != nil {
		return err
	}

	switch info.Push {
	case cil.Push0:
	case cil.Push1, cil.Pushi, cil.Pushi8, cil.Pushr4, cil.Pushr8:
		m.stack = append(m.stack, result)
	case cil.Push1Push1:
		m.stack = append(m.stack, result, result)
	}

	op := ir.OperationInfo{
		Offset:    in.Offset,
		Opcode:    in.Op,
		ExtOpcode: in.Ext,
		Operands:  operands,
		Result:    result,
	}

	m.log.Debug().
		Int("offset", in.Offset).
		Str("op", op.String()).
		Int("depth", len(m.stack)).
		Msg("step")

	if err := m.proc.Process(op); err != nil {
		e := newError(ErrCodeProcessorFailed, in, "processor rejected %s", in.Mnemonic())
		e.Err = err
		return e
	}
	m.emitted++
	return nil
}

// nonStackOperands resolves operands that come from the instruction itself
// rather than the stack. source is set when the instruction loads a value
// (its Result copies the source's type).
func (m *Machine) nonStackOperands(in cil.Instruction) (operands []*ir.Operand, source *ir.Operand, err error) {
	var slot *ir.Operand
	load := true

	switch in.Op {
	case cil.Ldarg0, cil.Ldarg1, cil.Ldarg2, cil.Ldarg3:
		slot, err = m.arg(in, int(in.Op-cil.Ldarg0))
	case cil.LdargS:
		slot, err = m.arg(in, int(in.Imm))
	case cil.Ldloc0, cil.Ldloc1, cil.Ldloc2, cil.Ldloc3:
		slot, err = m.local(in, int(in.Op-cil.Ldloc0))
	case cil.LdlocS:
		slot, err = m.local(in, int(in.Imm))
	case cil.LdcI4M1, cil.LdcI40, cil.LdcI41, cil.LdcI42, cil.LdcI43,
		cil.LdcI44, cil.LdcI45, cil.LdcI46, cil.LdcI47, cil.LdcI48:
		slot = ir.NewConstant(int64(in.Op)-int64(cil.LdcI40), m.types.Int32)
	case cil.LdcI4S, cil.LdcI4:
		slot = ir.NewConstant(in.Imm, m.types.Int32)
	case cil.LdcI8, cil.LdcR4, cil.LdcR8:
		return nil, nil, newError(ErrCodeUnsupportedOperand, in, "%s not yet handled", in.Mnemonic())
	case cil.Stloc0, cil.Stloc1, cil.Stloc2, cil.Stloc3:
		slot, err = m.local(in, int(in.Op-cil.Stloc0))
		load = false
	case cil.StlocS:
		slot, err = m.local(in, int(in.Imm))
		load = false
	case cil.StargS:
		slot, err = m.arg(in, int(in.Imm))
		load = false
	case cil.Prefix1:
		switch in.Ext {
		case cil.Ldarg:
			slot, err = m.arg(in, int(in.Imm))
		case cil.Ldloc:
			slot, err = m.local(in, int(in.Imm))
		case cil.Starg:
			slot, err = m.arg(in, int(in.Imm))
			load = false
		case cil.Stloc:
			slot, err = m.local(in, int(in.Imm))
			load = false
		}
	}

	if err != nil || slot == nil {
		return nil, nil, err
	}
	if load {
		source = slot
	}
	return []*ir.Operand{slot}, source, nil
}

func (m *Machine) arg(in cil.Instruction, i int) (*ir.Operand, error) {
	if i < 0 || i >= len(m.args) {
		return nil, newError(ErrCodeInvalidOperandIndex, in, "argument %d out of range (method has %d)", i, len(m.args))
	}
	return m.args[i], nil
}

func (m *Machine) local(in cil.Instruction, i int) (*ir.Operand, error) {
	if i < 0 || i >= len(m.locals) {
		return nil, newError(ErrCodeInvalidOperandIndex, in, "local %d out of range (method has %d)", i, len(m.locals))
	}
	return m.locals[i], nil
}

// pop removes the instruction's stack operands and returns them
// deepest-first.
func (m *Machine) pop(in cil.Instruction, behavior cil.PopBehavior) ([]*ir.Operand, error) {
	n, ok := behavior.Count()
	switch {
	case ok:
	case behavior == cil.PopAll:
		n = len(m.stack)
	case behavior == cil.Varpop && in.Op == cil.Ret:
		n = 0
		if m.retType != nil && m.retType.Kind() != ir.KindVoid {
			n = 1
		}
	default:
		return nil, newError(ErrCodeUnsupportedOperand, in, "%s pop behavior of %s not handled", behavior, in.Mnemonic())
	}

	if n > len(m.stack) {
		return nil, newError(ErrCodeStackUnderflow, in, "%s pops %d, stack holds %d", in.Mnemonic(), n, len(m.stack))
	}
	base := len(m.stack) - n
	popped := make([]*ir.Operand, n)
	copy(popped, m.stack[base:])
	m.stack = m.stack[:base]
	return popped, nil
}

// result allocates the Temporary the instruction defines, or nil when its
// push behavior is empty.
func (m *Machine) result(in cil.Instruction, push cil.PushBehavior, source *ir.Operand, popped []*ir.Operand) (*ir.Operand, error) {
	switch push {
	case cil.Push0:
		return nil, nil
	case cil.Push1, cil.Pushi, cil.Pushi8, cil.Pushr4, cil.Pushr8, cil.Push1Push1:
	default:
		return nil, newError(ErrCodeUnsupportedOperand, in, "%s push behavior of %s not handled", push, in.Mnemonic())
	}

	if source != nil {
		return ir.NewTemporary(m.names.NextName(), source.Type), nil
	}
	if infer.RuleOf(in.Op, in.Ext) == infer.RuleNone {
		return nil, newError(ErrCodeUnsupportedOperand, in, "%s has no inference rule", in.Mnemonic())
	}

	inputs := make([]*ir.ClrType, len(popped))
	for i, o := range popped {
		inputs[i] = m.types.StackType(o.Type)
	}
	t, ok := m.table.Infer(in.Op, in.Ext, inputs)
	if !ok {
		return nil, newError(ErrCodeMissingTypeTableEntry, in, "no %s rule for %s %v", infer.RuleOf(in.Op, in.Ext), in.Mnemonic(), inputs)
	}
	return ir.NewTemporary(m.names.NextName(), t), nil
}

// Depth returns the current evaluation stack depth.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Stack returns a copy of the evaluation stack, bottom first.
func (m *Machine) Stack() []*ir.Operand {
	out := make([]*ir.Operand, len(m.stack))
	copy(out, m.stack)
	return out
}

// Arguments returns the argument operands in signature order.
func (m *Machine) Arguments() []*ir.Operand {
	return m.args
}

// Locals returns the local operands in signature order.
func (m *Machine) Locals() []*ir.Operand {
	return m.locals
}

// Emitted returns the number of records handed to the Processor.
func (m *Machine) Emitted() int {
	return m.emitted
}
