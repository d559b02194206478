package cil

// PopBehavior describes how many evaluation stack slots an instruction
// consumes, and what verification types it expects there.
type PopBehavior uint8

const (
	Pop0 PopBehavior = iota
	Pop1
	Popi
	Popref
	Pop1Pop1
	PopiPopi
	PopiPopi8
	PopiPopr4
	PopiPopr8
	PoprefPop1
	PopiPop1
	PoprefPopi
	PopiPopiPopi
	PoprefPopiPopi
	PoprefPopiPopi8
	PoprefPopiPopr4
	PoprefPopiPopr8
	PoprefPopiPopref
	PoprefPopiPop1
	PopAll
	Varpop
)

var popNames = [...]string{
	Pop0:             "Pop0",
	Pop1:             "Pop1",
	Popi:             "Popi",
	Popref:           "Popref",
	Pop1Pop1:         "Pop1_pop1",
	PopiPopi:         "Popi_popi",
	PopiPopi8:        "Popi_popi8",
	PopiPopr4:        "Popi_popr4",
	PopiPopr8:        "Popi_popr8",
	PoprefPop1:       "Popref_pop1",
	PopiPop1:         "Popi_pop1",
	PoprefPopi:       "Popref_popi",
	PopiPopiPopi:     "Popi_popi_popi",
	PoprefPopiPopi:   "Popref_popi_popi",
	PoprefPopiPopi8:  "Popref_popi_popi8",
	PoprefPopiPopr4:  "Popref_popi_popr4",
	PoprefPopiPopr8:  "Popref_popi_popr8",
	PoprefPopiPopref: "Popref_popi_popref",
	PoprefPopiPop1:   "Popref_popi_pop1",
	PopAll:           "PopAll",
	Varpop:           "Varpop",
}

func (p PopBehavior) String() string {
	if int(p) < len(popNames) {
		return popNames[p]
	}
	return "Pop?"
}

// Count returns the fixed number of slots the behavior consumes.
// ok is false for PopAll and Varpop, whose arity depends on the stack or
// on the call site.
func (p PopBehavior) Count() (n int, ok bool) {
	switch p {
	case Pop0:
		return 0, true
	case Pop1, Popi, Popref:
		return 1, true
	case Pop1Pop1, PopiPopi, PopiPopi8, PopiPopr4, PopiPopr8,
		PoprefPop1, PopiPop1, PoprefPopi:
		return 2, true
	case PopiPopiPopi, PoprefPopiPopi, PoprefPopiPopi8, PoprefPopiPopr4,
		PoprefPopiPopr8, PoprefPopiPopref, PoprefPopiPop1:
		return 3, true
	default:
		return 0, false
	}
}

// PushBehavior describes what an instruction leaves on the evaluation stack.
type PushBehavior uint8

const (
	Push0 PushBehavior = iota
	Push1
	Pushi
	Pushi8
	Pushr4
	Pushr8
	Pushref
	Push1Push1
	Varpush
)

var pushNames = [...]string{
	Push0:      "Push0",
	Push1:      "Push1",
	Pushi:      "Pushi",
	Pushi8:     "Pushi8",
	Pushr4:     "Pushr4",
	Pushr8:     "Pushr8",
	Pushref:    "Pushref",
	Push1Push1: "Push1_push1",
	Varpush:    "Varpush",
}

func (p PushBehavior) String() string {
	if int(p) < len(pushNames) {
		return pushNames[p]
	}
	return "Push?"
}

// OperandKind is the encoding of the inline (immediate) operand that
// follows an opcode in the IL byte stream.
type OperandKind uint8

const (
	InlineNone OperandKind = iota
	ShortInlineI
	InlineI
	InlineI8
	ShortInlineR
	InlineR
	ShortInlineVar
	InlineVar
	ShortInlineBrTarget
	InlineBrTarget
	InlineSwitch
	InlineMethod
	InlineField
	InlineType
	InlineString
	InlineSig
	InlineTok
)

// Size returns the encoded size in bytes of the operand, excluding the
// variable-length target table of InlineSwitch.
func (k OperandKind) Size() int {
	switch k {
	case InlineNone:
		return 0
	case ShortInlineI, ShortInlineVar, ShortInlineBrTarget:
		return 1
	case InlineVar:
		return 2
	case InlineI8, InlineR:
		return 8
	default:
		return 4
	}
}
