package cil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type opPair struct {
	op  Opcode
	ext ExtOpcode
}

var mnemonics = func() map[string]opPair {
	m := make(map[string]opPair)
	All(func(op Opcode, ext ExtOpcode, info Info) {
		m[info.Name] = opPair{op, ext}
	})
	return m
}()

// ParseMnemonic resolves an instruction name such as "ldc.i4.s" or "ceq".
func ParseMnemonic(name string) (Opcode, ExtOpcode, bool) {
	p, ok := mnemonics[strings.ToLower(name)]
	return p.op, p.ext, ok
}

// AssembleError reports a malformed line of assembly text.
type AssembleError struct {
	Line    int
	Text    string
	Message string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.Text)
}

// Assemble parses textual IL into instructions with encoded offsets.
//
// Statements are separated by newlines or semicolons. "//" starts a comment.
// An optional "IL_xxxx:" label prefix is accepted and ignored. Branch
// targets are absolute offsets written either as IL_xxxx (hex) or as an
// integer; switch tables are parenthesized, comma-separated targets.
//
//	ldc.i4.1; ldc.i4.2; add
//	ldc.i4.s -5
//	brtrue.s IL_0010
func Assemble(src string) ([]Instruction, error) {
	var insns []Instruction
	offset := 0
	for lineNo, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if strings.HasPrefix(stmt, "IL_") {
				if i := strings.Index(stmt, ":"); i >= 0 {
					stmt = strings.TrimSpace(stmt[i+1:])
				}
			}
			if stmt == "" {
				continue
			}
			in, err := assembleOne(stmt)
			if err != nil {
				return nil, &AssembleError{Line: lineNo + 1, Text: stmt, Message: err.Error()}
			}
			in.Offset = offset
			offset += in.Size()
			insns = append(insns, in)
		}
	}
	return insns, nil
}

func assembleOne(stmt string) (Instruction, error) {
	name, arg, _ := strings.Cut(stmt, " ")
	arg = strings.TrimSpace(arg)
	op, ext, ok := ParseMnemonic(name)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown instruction %s", name)
	}
	in := Instruction{Op: op, Ext: ext}
	info := in.Info()

	if info.Inline == InlineNone {
		if arg != "" {
			return Instruction{}, fmt.Errorf("%s takes no operand", info.Name)
		}
		return in, nil
	}
	if arg == "" {
		return Instruction{}, fmt.Errorf("%s requires an operand", info.Name)
	}

	var err error
	switch info.Inline {
	case ShortInlineI:
		in.Imm, err = parseInt(arg, math.MinInt8, math.MaxInt8)
	case ShortInlineVar:
		in.Imm, err = parseInt(arg, 0, math.MaxUint8)
	case InlineVar:
		in.Imm, err = parseInt(arg, 0, math.MaxUint16)
	case InlineI:
		in.Imm, err = parseInt(arg, math.MinInt32, math.MaxInt32)
	case InlineI8:
		in.Imm, err = strconv.ParseInt(arg, 0, 64)
	case ShortInlineR:
		var f float64
		f, err = strconv.ParseFloat(arg, 32)
		in.Imm = int64(math.Float32bits(float32(f)))
	case InlineR:
		var f float64
		f, err = strconv.ParseFloat(arg, 64)
		in.Imm = int64(math.Float64bits(f))
	case ShortInlineBrTarget, InlineBrTarget:
		var t int
		t, err = parseTarget(arg)
		in.Imm = int64(t)
	case InlineSwitch:
		list := strings.TrimSuffix(strings.TrimPrefix(arg, "("), ")")
		for _, s := range strings.Split(list, ",") {
			t, terr := parseTarget(strings.TrimSpace(s))
			if terr != nil {
				return Instruction{}, terr
			}
			in.Targets = append(in.Targets, t)
		}
	default:
		in.Imm, err = parseInt(arg, 0, math.MaxUint32)
	}
	if err != nil {
		return Instruction{}, fmt.Errorf("%s operand: %w", info.Name, err)
	}
	return in, nil
}

func parseInt(s string, lo, hi int64) (int64, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func parseTarget(s string) (int, error) {
	if strings.HasPrefix(s, "IL_") {
		n, err := strconv.ParseUint(s[3:], 16, 32)
		return int(n), err
	}
	n, err := strconv.ParseInt(s, 0, 32)
	return int(n), err
}
