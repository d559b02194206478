package compiler

import (
	"fmt"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/engine"
	"github.com/roach88/cilsym/internal/infer"
)

// Validation error codes (E100-E199)
const (
	ErrEmptyBody              = "E100" // body has no instructions
	ErrBadBranchTarget        = "E101" // target is not an instruction boundary
	ErrArgumentIndex          = "E102" // argument slot outside the signature
	ErrLocalIndex             = "E103" // local slot outside the signature
	ErrFallsOffEnd            = "E104" // last instruction does not leave the method
	ErrUnsupportedInstruction = "E105" // instruction the stack machine rejects
)

// ValidationError represents one static problem in a method body.
type ValidationError struct {
	Code     string `json:"code"`
	Offset   int    `json:"offset"`
	Mnemonic string `json:"mnemonic,omitempty"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Mnemonic != "" {
		return fmt.Sprintf("[%s] IL_%04X %s: %s", e.Code, e.Offset, e.Mnemonic, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks body against m's signature without running it.
// Returns all errors found (does not fail-fast).
func Validate(m engine.Method, body []cil.Instruction) []ValidationError {
	if len(body) == 0 {
		return []ValidationError{{Code: ErrEmptyBody, Message: "method body is empty"}}
	}

	var errs []ValidationError
	report := func(in cil.Instruction, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Code:     code,
			Offset:   in.Offset,
			Mnemonic: in.Mnemonic(),
			Message:  fmt.Sprintf(format, args...),
		})
	}

	starts := make(map[int]bool, len(body))
	for _, in := range body {
		starts[in.Offset] = true
	}
	nargs, nlocals := len(m.Parameters()), len(m.Locals())

	for _, in := range body {
		for _, t := range branchTargets(in) {
			if !starts[t] {
				report(in, ErrBadBranchTarget, "target IL_%04X is not an instruction boundary", t)
			}
		}

		if kind, idx, ok := slotOf(in); ok {
			switch {
			case kind == slotArg && idx >= nargs:
				report(in, ErrArgumentIndex, "argument %d out of range (method has %d)", idx, nargs)
			case kind == slotLocal && idx >= nlocals:
				report(in, ErrLocalIndex, "local %d out of range (method has %d)", idx, nlocals)
			}
		}

		if reason := unsupported(in); reason != "" {
			report(in, ErrUnsupportedInstruction, "%s", reason)
		}
	}

	if last := body[len(body)-1]; !noFallThrough(last) {
		report(last, ErrFallsOffEnd, "control falls off the end of the body")
	}
	return errs
}

type slotKind int

const (
	slotArg slotKind = iota
	slotLocal
)

func slotOf(in cil.Instruction) (slotKind, int, bool) {
	switch in.Op {
	case cil.Ldarg0, cil.Ldarg1, cil.Ldarg2, cil.Ldarg3:
		return slotArg, int(in.Op - cil.Ldarg0), true
	case cil.Ldloc0, cil.Ldloc1, cil.Ldloc2, cil.Ldloc3:
		return slotLocal, int(in.Op - cil.Ldloc0), true
	case cil.Stloc0, cil.Stloc1, cil.Stloc2, cil.Stloc3:
		return slotLocal, int(in.Op - cil.Stloc0), true
	case cil.LdargS, cil.LdargaS, cil.StargS:
		return slotArg, int(in.Imm), true
	case cil.LdlocS, cil.LdlocaS, cil.StlocS:
		return slotLocal, int(in.Imm), true
	case cil.Prefix1:
		switch in.Ext {
		case cil.Ldarg, cil.Ldarga, cil.Starg:
			return slotArg, int(in.Imm), true
		case cil.Ldloc, cil.Ldloca, cil.Stloc:
			return slotLocal, int(in.Imm), true
		}
	}
	return 0, 0, false
}

// unsupported predicts the instructions the stack machine rejects by
// metadata alone.
func unsupported(in cil.Instruction) string {
	switch in.Op {
	case cil.LdcI8, cil.LdcR4, cil.LdcR8:
		return "literal loads of this width are not handled"
	}
	info := in.Info()
	switch {
	case info.Pop == cil.Varpop && in.Op != cil.Ret:
		return "variable pop count is not handled"
	case info.Push == cil.Varpush:
		return "variable push count is not handled"
	case info.Push == cil.Pushref:
		return "object references are not handled"
	case info.Push != cil.Push0 && !loadsValue(in) && infer.RuleOf(in.Op, in.Ext) == infer.RuleNone:
		return "result type has no inference rule"
	}
	return ""
}

// loadsValue reports whether in copies an argument, local or literal, so
// its result type comes from the source rather than the inference table.
func loadsValue(in cil.Instruction) bool {
	switch in.Op {
	case cil.Ldarg0, cil.Ldarg1, cil.Ldarg2, cil.Ldarg3, cil.LdargS,
		cil.Ldloc0, cil.Ldloc1, cil.Ldloc2, cil.Ldloc3, cil.LdlocS,
		cil.LdcI4M1, cil.LdcI40, cil.LdcI41, cil.LdcI42, cil.LdcI43,
		cil.LdcI44, cil.LdcI45, cil.LdcI46, cil.LdcI47, cil.LdcI48,
		cil.LdcI4S, cil.LdcI4:
		return true
	case cil.Prefix1:
		return in.Ext == cil.Ldarg || in.Ext == cil.Ldloc
	}
	return false
}

// branchTargets returns the absolute offsets in may transfer control to,
// excluding fall-through.
func branchTargets(in cil.Instruction) []int {
	switch in.Info().Inline {
	case cil.ShortInlineBrTarget, cil.InlineBrTarget:
		return []int{int(in.Imm)}
	case cil.InlineSwitch:
		return in.Targets
	}
	return nil
}

// noFallThrough reports whether control never reaches the instruction
// after in.
func noFallThrough(in cil.Instruction) bool {
	switch in.Op {
	case cil.Ret, cil.Throw, cil.Jmp, cil.Endfinally, cil.Br, cil.BrS, cil.Leave, cil.LeaveS:
		return true
	case cil.Prefix1:
		return in.Ext == cil.Rethrow || in.Ext == cil.Endfilter
	}
	return false
}
