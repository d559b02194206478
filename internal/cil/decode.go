package cil

import (
	"encoding/binary"
	"fmt"
)

// DecodeError reports malformed IL at a byte offset.
type DecodeError struct {
	Offset  int
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("IL_%04X: %s", e.Offset, e.Message)
}

// Decode decodes a method body's IL bytes into instructions.
//
// Branch operands are converted from relative displacements to absolute
// offsets. Decode validates encoding only; it does not verify stack
// behavior.
func Decode(code []byte) ([]Instruction, error) {
	var insns []Instruction
	for pos := 0; pos < len(code); {
		in := Instruction{Offset: pos, Op: Opcode(code[pos])}
		p := pos + 1
		if in.Op == Prefix1 {
			if p >= len(code) {
				return nil, &DecodeError{Offset: pos, Message: "truncated two-byte opcode"}
			}
			in.Ext = ExtOpcode(code[p])
			p++
		}
		info, ok := Lookup(in.Op, in.Ext)
		if !ok {
			return nil, &DecodeError{Offset: pos, Message: fmt.Sprintf("undefined %s", in.Mnemonic())}
		}

		size := info.Inline.Size()
		if p+size > len(code) {
			return nil, &DecodeError{Offset: pos, Message: fmt.Sprintf("truncated operand for %s", info.Name)}
		}
		raw := code[p : p+size]
		p += size

		switch info.Inline {
		case InlineNone:
		case ShortInlineI:
			in.Imm = int64(int8(raw[0]))
		case ShortInlineVar:
			in.Imm = int64(raw[0])
		case InlineVar:
			in.Imm = int64(binary.LittleEndian.Uint16(raw))
		case InlineI:
			in.Imm = int64(int32(binary.LittleEndian.Uint32(raw)))
		case InlineI8, InlineR:
			in.Imm = int64(binary.LittleEndian.Uint64(raw))
		case ShortInlineR:
			in.Imm = int64(binary.LittleEndian.Uint32(raw))
		case ShortInlineBrTarget:
			in.Imm = int64(p + int(int8(raw[0])))
		case InlineBrTarget:
			in.Imm = int64(p + int(int32(binary.LittleEndian.Uint32(raw))))
		case InlineSwitch:
			n := int(binary.LittleEndian.Uint32(raw))
			if n < 0 || p+4*n > len(code) {
				return nil, &DecodeError{Offset: pos, Message: "truncated switch table"}
			}
			end := p + 4*n
			in.Targets = make([]int, n)
			for i := 0; i < n; i++ {
				rel := int32(binary.LittleEndian.Uint32(code[p+4*i:]))
				in.Targets[i] = end + int(rel)
			}
			p = end
		default:
			in.Imm = int64(binary.LittleEndian.Uint32(raw))
		}

		insns = append(insns, in)
		pos = p
	}
	return insns, nil
}

// Encode is the inverse of Decode.
func Encode(insns []Instruction) []byte {
	var out []byte
	for _, in := range insns {
		out = append(out, byte(in.Op))
		if in.Op == Prefix1 {
			out = append(out, byte(in.Ext))
		}
		info := in.Info()
		next := in.Offset + in.Size()
		switch info.Inline {
		case InlineNone:
		case ShortInlineI, ShortInlineVar:
			out = append(out, byte(in.Imm))
		case InlineVar:
			out = binary.LittleEndian.AppendUint16(out, uint16(in.Imm))
		case InlineI8, InlineR:
			out = binary.LittleEndian.AppendUint64(out, uint64(in.Imm))
		case ShortInlineBrTarget:
			out = append(out, byte(int8(int(in.Imm)-next)))
		case InlineBrTarget:
			out = binary.LittleEndian.AppendUint32(out, uint32(int32(int(in.Imm)-next)))
		case InlineSwitch:
			out = binary.LittleEndian.AppendUint32(out, uint32(len(in.Targets)))
			for _, t := range in.Targets {
				out = binary.LittleEndian.AppendUint32(out, uint32(int32(t-next)))
			}
		default:
			out = binary.LittleEndian.AppendUint32(out, uint32(in.Imm))
		}
	}
	return out
}
