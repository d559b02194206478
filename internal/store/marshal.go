package store

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/roach88/cilsym/internal/ir"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("store: cbor enc mode: %v", err))
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("store: cbor dec mode: %v", err))
	}
}

func flatten(o *ir.Operand) OperandRecord {
	return OperandRecord{
		Kind: o.Kind.String(),
		Name: o.Name,
		Type: o.Type.String(),
	}
}

// Record flattens op into its stored form. Index and Hash are left for the
// caller.
func Record(op ir.OperationInfo) OperationRecord {
	r := OperationRecord{
		Offset:   op.Offset,
		Opcode:   op.Mnemonic(),
		Operands: make([]OperandRecord, len(op.Operands)),
	}
	for i, o := range op.Operands {
		r.Operands[i] = flatten(o)
	}
	if op.Result != nil {
		res := flatten(op.Result)
		r.Result = &res
	}
	return r
}

func marshalOperands(ops []OperandRecord) ([]byte, error) {
	if ops == nil {
		ops = []OperandRecord{}
	}
	data, err := encMode.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshal operands: %w", err)
	}
	return data, nil
}

func unmarshalOperands(data []byte) ([]OperandRecord, error) {
	var ops []OperandRecord
	if err := decMode.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("unmarshal operands: %w", err)
	}
	if ops == nil {
		ops = []OperandRecord{}
	}
	return ops, nil
}

// marshalResult returns nil for a record with no result, stored as NULL.
func marshalResult(r *OperandRecord) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := encMode.Marshal(*r)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return data, nil
}

func unmarshalResult(data []byte) (*OperandRecord, error) {
	if data == nil {
		return nil, nil
	}
	var r OperandRecord
	if err := decMode.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &r, nil
}
