package store

import (
	"fmt"
	"strings"
)

// Compilation is one stored compile attempt.
type Compilation struct {
	ID               string `json:"id"`
	Seq              int64  `json:"seq"`
	Method           string `json:"method"`
	Signature        string `json:"signature"`
	Status           string `json:"status"`
	Error            string `json:"error,omitempty"`
	InstructionCount int    `json:"instruction_count"`
	Digest           string `json:"digest,omitempty"` // empty unless Status is OK
	EngineVersion    string `json:"engine_version"`
	StreamVersion    string `json:"stream_version"`
}

func (c Compilation) String() string {
	return fmt.Sprintf("#%d %s %s", c.Seq, c.Signature, c.Status)
}

// OperandRecord is an operand flattened for storage. Pointer identity is
// not kept; two records naming the same slot share Kind and Name.
type OperandRecord struct {
	Kind string `cbor:"1,keyasint" json:"kind"`
	Name string `cbor:"2,keyasint" json:"name"`
	Type string `cbor:"3,keyasint" json:"type"`
}

// OperationRecord is one stored operation of a compilation's stream.
type OperationRecord struct {
	Index    int             `json:"index"`
	Offset   int             `json:"offset"`
	Opcode   string          `json:"opcode"`
	Operands []OperandRecord `json:"operands"`
	Result   *OperandRecord  `json:"result,omitempty"`
	Hash     string          `json:"hash"`
}

// String renders the record the way ir.OperationInfo does.
func (r OperationRecord) String() string {
	var b strings.Builder
	if r.Result != nil {
		b.WriteString(r.Result.Name)
		b.WriteString(" = ")
	}
	b.WriteString(r.Opcode)
	for i, o := range r.Operands {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(o.Name)
	}
	if r.Result != nil {
		b.WriteString(" : ")
		b.WriteString(r.Result.Type)
	}
	return b.String()
}
