package cil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Instruction is one decoded instruction.
//
// Imm carries the inline operand: the literal for ldc.i4/ldc.i8, the raw
// IEEE-754 bits for ldc.r4/ldc.r8, the slot index for *arg/*loc forms,
// the metadata token for InlineMethod/Field/Type/String/Sig/Tok, and the
// absolute target offset for branches. Targets holds the absolute offsets
// of a switch table.
type Instruction struct {
	Offset  int
	Op      Opcode
	Ext     ExtOpcode
	Imm     int64
	Targets []int
}

// Info returns the instruction's metadata. Instructions produced by Decode
// or Assemble always have metadata; a zero Info is returned otherwise.
func (in Instruction) Info() Info {
	info, _ := Lookup(in.Op, in.Ext)
	return info
}

// Mnemonic returns the instruction name.
func (in Instruction) Mnemonic() string {
	return Mnemonic(in.Op, in.Ext)
}

// Size returns the encoded size of the instruction in bytes.
func (in Instruction) Size() int {
	n := 1
	if in.Op == Prefix1 {
		n = 2
	}
	info := in.Info()
	n += info.Inline.Size()
	if info.Inline == InlineSwitch {
		n += 4 * len(in.Targets)
	}
	return n
}

// Float returns Imm reinterpreted as the float literal of ldc.r4/ldc.r8.
func (in Instruction) Float() float64 {
	if in.Op == LdcR4 {
		return float64(math.Float32frombits(uint32(in.Imm)))
	}
	return math.Float64frombits(uint64(in.Imm))
}

func (in Instruction) String() string {
	info := in.Info()
	var b strings.Builder
	fmt.Fprintf(&b, "IL_%04X: %s", in.Offset, in.Mnemonic())
	switch info.Inline {
	case InlineNone:
	case ShortInlineR, InlineR:
		b.WriteString(" " + strconv.FormatFloat(in.Float(), 'g', -1, 64))
	case ShortInlineBrTarget, InlineBrTarget:
		fmt.Fprintf(&b, " IL_%04X", in.Imm)
	case InlineSwitch:
		labels := make([]string, len(in.Targets))
		for i, t := range in.Targets {
			labels[i] = fmt.Sprintf("IL_%04X", t)
		}
		b.WriteString(" (" + strings.Join(labels, ", ") + ")")
	case InlineMethod, InlineField, InlineType, InlineString, InlineSig, InlineTok:
		fmt.Fprintf(&b, " 0x%08X", uint32(in.Imm))
	default:
		b.WriteString(" " + strconv.FormatInt(in.Imm, 10))
	}
	return b.String()
}

// Source is a restartable, forward-only instruction iterator.
type Source interface {
	// Reset rewinds the source to the first instruction.
	Reset()
	// Next returns the next instruction; ok is false at the end of the body.
	Next() (in Instruction, ok bool)
}

// Body is a Source over an in-memory instruction list.
type Body struct {
	insns []Instruction
	pos   int
}

// NewBody creates a Body over insns. The slice is not copied.
func NewBody(insns ...Instruction) *Body {
	return &Body{insns: insns}
}

// Reset implements Source.
func (b *Body) Reset() { b.pos = 0 }

// Next implements Source.
func (b *Body) Next() (Instruction, bool) {
	if b.pos >= len(b.insns) {
		return Instruction{}, false
	}
	in := b.insns[b.pos]
	b.pos++
	return in, true
}

// Len returns the number of instructions in the body.
func (b *Body) Len() int { return len(b.insns) }

// Instructions returns the underlying instruction list.
func (b *Body) Instructions() []Instruction { return b.insns }
