package method

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
)

// Method is a resolved method: signature types are registry singletons
// and the body is decoded.
type Method struct {
	Name    string
	Returns *ir.ClrType
	Params  []ir.Parameter
	Vars    []ir.LocalVariable
	Body    []cil.Instruction

	types *ir.TypeRegistry
}

// Parameters implements engine.Method.
func (m *Method) Parameters() []ir.Parameter { return m.Params }

// Locals implements engine.Method.
func (m *Method) Locals() []ir.LocalVariable { return m.Vars }

// ReturnType implements engine.Method.
func (m *Method) ReturnType() *ir.ClrType { return m.Returns }

// Types returns the registry the signature types were resolved against.
func (m *Method) Types() *ir.TypeRegistry { return m.types }

// Source returns a fresh restartable iterator over the body.
func (m *Method) Source() cil.Source {
	return cil.NewBody(m.Body...)
}

// String returns the method name.
func (m *Method) String() string { return m.Name }

// Signature renders the method header, e.g. "int32 Add(int32, int32)".
func (m *Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type.String()
	}
	return fmt.Sprintf("%s %s(%s)", m.Returns, m.Name, strings.Join(params, ", "))
}

// Description is the file form of a method, shared by the YAML and CUE
// loaders.
type Description struct {
	Name    string   `yaml:"name" json:"name,omitempty"`
	Returns string   `yaml:"returns" json:"returns,omitempty"`
	Params  []string `yaml:"params" json:"params,omitempty"`
	Locals  []string `yaml:"locals" json:"locals,omitempty"`
	Body    string   `yaml:"body" json:"body,omitempty"`
	IL      string   `yaml:"il" json:"il,omitempty"`
}

// Build resolves d against types. An empty Returns means void.
func (d Description) Build(types *ir.TypeRegistry) (*Method, error) {
	if d.Name == "" {
		return nil, &LoadError{Code: ErrCodeMissingField, Message: "method name is required"}
	}

	m := &Method{Name: d.Name, Returns: types.Void, types: types}
	if d.Returns != "" {
		t, err := resolve(types, d.Returns, "returns")
		if err != nil {
			return nil, err
		}
		m.Returns = t
	}
	for i, name := range d.Params {
		t, err := resolve(types, name, fmt.Sprintf("params[%d]", i))
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, ir.Parameter{Position: i, Type: t})
	}
	for i, name := range d.Locals {
		t, err := resolve(types, name, fmt.Sprintf("locals[%d]", i))
		if err != nil {
			return nil, err
		}
		m.Vars = append(m.Vars, ir.LocalVariable{Index: i, Type: t})
	}

	body, err := d.decodeBody()
	if err != nil {
		return nil, err
	}
	m.Body = body
	return m, nil
}

func (d Description) decodeBody() ([]cil.Instruction, error) {
	hasBody := strings.TrimSpace(d.Body) != ""
	hasIL := strings.TrimSpace(d.IL) != ""

	switch {
	case hasBody && hasIL:
		return nil, &LoadError{Code: ErrCodeInvalidBody, Message: fmt.Sprintf("method %s: body and il are mutually exclusive", d.Name)}
	case hasBody:
		insns, err := cil.Assemble(d.Body)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidBody, Message: fmt.Sprintf("method %s: %v", d.Name, err)}
		}
		return insns, nil
	case hasIL:
		raw, err := hex.DecodeString(strings.Join(strings.Fields(d.IL), ""))
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidBody, Message: fmt.Sprintf("method %s: il: %v", d.Name, err)}
		}
		insns, err := cil.Decode(raw)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidBody, Message: fmt.Sprintf("method %s: il: %v", d.Name, err)}
		}
		return insns, nil
	default:
		return nil, &LoadError{Code: ErrCodeMissingField, Message: fmt.Sprintf("method %s: one of body or il is required", d.Name)}
	}
}

func resolve(types *ir.TypeRegistry, name, field string) (*ir.ClrType, error) {
	t, ok := types.Lookup(name)
	if !ok {
		return nil, &LoadError{Code: ErrCodeUnknownType, Message: fmt.Sprintf("%s: unknown type %q", field, name)}
	}
	return t, nil
}
