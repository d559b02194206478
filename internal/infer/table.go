// Package infer implements the stack-verification type inference table:
// a pure function from an opcode and its (unified) input types to the type
// of the value the instruction pushes.
//
// The table never unifies its inputs. Callers collapse Float32 to Float64
// (ir.TypeRegistry.StackType) before asking; an un-unified float pair has
// no entry.
package infer

import (
	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
)

// Rule names the inference category an opcode belongs to.
type Rule uint8

const (
	RuleNone Rule = iota
	RuleCompare
	RuleBinary
	RuleUnary
	RuleBitwiseNot
	RuleBranch
	RuleShift
	RuleNarrow
	RuleWiden
	RuleToFloat
	RuleCopy
)

var ruleNames = [...]string{
	RuleNone:       "none",
	RuleCompare:    "compare",
	RuleBinary:     "binary",
	RuleUnary:      "unary",
	RuleBitwiseNot: "not",
	RuleBranch:     "branch",
	RuleShift:      "shift",
	RuleNarrow:     "narrow",
	RuleWiden:      "widen",
	RuleToFloat:    "to-float",
	RuleCopy:       "copy",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "rule?"
}

// RuleOf returns the inference category of (op, ext).
func RuleOf(op cil.Opcode, ext cil.ExtOpcode) Rule {
	if op == cil.Prefix1 {
		switch ext {
		case cil.Ceq, cil.Cgt, cil.CgtUn, cil.Clt, cil.CltUn:
			return RuleCompare
		}
		return RuleNone
	}

	switch op {
	case cil.Add, cil.Sub, cil.Mul, cil.Div, cil.Rem,
		cil.AddOvf, cil.AddOvfUn, cil.SubOvf, cil.SubOvfUn, cil.MulOvf, cil.MulOvfUn,
		cil.And, cil.Or, cil.Xor, cil.DivUn, cil.RemUn:
		return RuleBinary
	case cil.Neg:
		return RuleUnary
	case cil.Not:
		return RuleBitwiseNot
	case cil.Beq, cil.BeqS, cil.Bge, cil.BgeS, cil.BgeUn, cil.BgeUnS,
		cil.Bgt, cil.BgtS, cil.BgtUn, cil.BgtUnS, cil.Ble, cil.BleS, cil.BleUn, cil.BleUnS,
		cil.Blt, cil.BltS, cil.BltUn, cil.BltUnS, cil.BneUn, cil.BneUnS:
		return RuleBranch
	case cil.Shl, cil.Shr, cil.ShrUn:
		return RuleShift
	case cil.ConvI1, cil.ConvU1, cil.ConvI2, cil.ConvU2, cil.ConvI4, cil.ConvU4,
		cil.ConvOvfI1, cil.ConvOvfU1, cil.ConvOvfI2, cil.ConvOvfU2, cil.ConvOvfI4, cil.ConvOvfU4,
		cil.ConvOvfI1Un, cil.ConvOvfU1Un, cil.ConvOvfI2Un, cil.ConvOvfU2Un, cil.ConvOvfI4Un, cil.ConvOvfU4Un,
		cil.ConvI, cil.ConvU, cil.ConvOvfI, cil.ConvOvfU, cil.ConvOvfIUn, cil.ConvOvfUUn:
		return RuleNarrow
	case cil.ConvI8, cil.ConvU8, cil.ConvOvfI8, cil.ConvOvfU8, cil.ConvOvfI8Un, cil.ConvOvfU8Un:
		return RuleWiden
	case cil.ConvR4, cil.ConvR8, cil.ConvRUn:
		return RuleToFloat
	case cil.Dup:
		return RuleCopy
	}
	return RuleNone
}

type pair struct {
	left, right ir.Kind
}

// binaryTable is keyed on the ordered (left, right) pair and populated
// symmetrically.
var binaryTable = map[pair]ir.Kind{
	{ir.KindInt32, ir.KindInt32}:         ir.KindInt32,
	{ir.KindInt64, ir.KindInt64}:         ir.KindInt64,
	{ir.KindInt32, ir.KindNativeInt}:     ir.KindNativeInt,
	{ir.KindNativeInt, ir.KindInt32}:     ir.KindNativeInt,
	{ir.KindNativeInt, ir.KindNativeInt}: ir.KindNativeInt,
	{ir.KindFloat64, ir.KindFloat64}:     ir.KindFloat64,
	{ir.KindInt32, ir.KindTypedRef}:      ir.KindTypedRef,
	{ir.KindNativeInt, ir.KindTypedRef}:  ir.KindTypedRef,
	{ir.KindTypedRef, ir.KindInt32}:      ir.KindTypedRef,
	{ir.KindTypedRef, ir.KindNativeInt}:  ir.KindTypedRef,
	{ir.KindTypedRef, ir.KindTypedRef}:   ir.KindTypedRef,
}

// shiftTable maps the shifted value to the result; the amount must be
// Int32 or NativeInt.
var shiftTable = map[ir.Kind]ir.Kind{
	ir.KindInt32:     ir.KindInt32,
	ir.KindInt64:     ir.KindInt64,
	ir.KindNativeInt: ir.KindNativeInt,
}

var negKinds = map[ir.Kind]bool{
	ir.KindInt32:     true,
	ir.KindInt64:     true,
	ir.KindNativeInt: true,
	ir.KindTypedRef:  true,
	ir.KindFloat64:   true,
}

var notKinds = map[ir.Kind]bool{
	ir.KindInt32:     true,
	ir.KindInt64:     true,
	ir.KindNativeInt: true,
}

// Result returns the kind pushed by (op, ext) for the given input kinds,
// ordered deepest-first. ok is false when the opcode has no entry or the
// input combination is undefined.
func Result(op cil.Opcode, ext cil.ExtOpcode, in []ir.Kind) (ir.Kind, bool) {
	switch RuleOf(op, ext) {
	case RuleCompare, RuleBranch:
		return ir.KindBool, true
	case RuleBinary:
		if len(in) != 2 {
			return 0, false
		}
		k, ok := binaryTable[pair{in[0], in[1]}]
		return k, ok
	case RuleShift:
		if len(in) != 2 || (in[1] != ir.KindInt32 && in[1] != ir.KindNativeInt) {
			return 0, false
		}
		k, ok := shiftTable[in[0]]
		return k, ok
	case RuleUnary:
		if len(in) != 1 || !negKinds[in[0]] {
			return 0, false
		}
		return in[0], true
	case RuleBitwiseNot:
		if len(in) != 1 || !notKinds[in[0]] {
			return 0, false
		}
		return in[0], true
	case RuleNarrow, RuleCopy:
		if len(in) != 1 {
			return 0, false
		}
		return in[0], true
	case RuleWiden:
		if len(in) != 1 {
			return 0, false
		}
		if in[0] == ir.KindFloat64 || in[0] == ir.KindInt32 {
			return ir.KindInt64, true
		}
		return in[0], true
	case RuleToFloat:
		return ir.KindFloat64, true
	}
	return 0, false
}

// Table resolves Result kinds to the singletons of one TypeRegistry.
type Table struct {
	types *ir.TypeRegistry
}

// New creates a Table over types.
func New(types *ir.TypeRegistry) *Table {
	return &Table{types: types}
}

// Infer is Result over ClrTypes. Input types must already be unified.
func (t *Table) Infer(op cil.Opcode, ext cil.ExtOpcode, in []*ir.ClrType) (*ir.ClrType, bool) {
	kinds := make([]ir.Kind, len(in))
	for i, typ := range in {
		kinds[i] = typ.Kind()
	}
	k, ok := Result(op, ext, kinds)
	if !ok {
		return nil, false
	}
	return t.types.ByKind(k), true
}
