package method

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cilsym/internal/ir"
)

// LoadMode controls how errors are handled when loading several files.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// schema closes the CUE method form so misspelled fields are reported with
// their position.
const schema = `
#Method: {
	name?:    string
	returns?: string
	params?: [...string]
	locals?: [...string]
	body?: string
	il?:   string
}
method: [string]: #Method
`

// LoadFile loads every method declared in path. The format is chosen by
// extension: .yaml/.yml or .cue.
func LoadFile(path string, types *ir.TypeRegistry) ([]*Method, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "method file not found", File: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), File: path}
	}
	return Parse(data, path, types)
}

// Parse decodes methods from data, using filename to pick the format and
// to label errors.
func Parse(data []byte, filename string, types *ir.TypeRegistry) ([]*Method, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return ParseYAML(data, filename, types)
	case ".cue":
		return ParseCUE(data, filename, types)
	}
	return nil, &LoadError{Code: ErrCodeUnsupportedFormat, Message: "expected .yaml, .yml or .cue", File: filename}
}

// LoadFiles loads methods from every path. In LoadModeCollectAll the
// returned error aggregates one entry per failing file.
func LoadFiles(paths []string, types *ir.TypeRegistry, mode LoadMode) ([]*Method, error) {
	var (
		all  []*Method
		errs *multierror.Error
	)
	for _, p := range paths {
		methods, err := LoadFile(p, types)
		if err != nil {
			if mode == LoadModeFailFast {
				return all, err
			}
			errs = multierror.Append(errs, err)
			continue
		}
		all = append(all, methods...)
	}
	return all, errs.ErrorOrNil()
}

// ParseYAML decodes one method per YAML document.
func ParseYAML(data []byte, filename string, types *ir.TypeRegistry) ([]*Method, error) {
	var methods []*Method
	seen := make(map[string]bool)

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		err := decoder.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), File: filename}
		}
		if len(node.Content) == 0 {
			continue
		}

		var d Description
		if err := node.Decode(&d); err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), File: filename, Line: node.Line}
		}
		line := node.Content[0].Line
		if seen[d.Name] {
			return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("duplicate method %s", d.Name), File: filename, Line: line}
		}
		seen[d.Name] = true

		m, err := d.Build(types)
		if err != nil {
			return nil, at(err, filename, line, token.NoPos)
		}
		methods = append(methods, m)
	}

	if len(methods) == 0 {
		return nil, &LoadError{Code: ErrCodeMissingField, Message: "no methods declared", File: filename}
	}
	return methods, nil
}

// ParseCUE decodes the methods declared under the top-level "method"
// struct, in source order. A method without an explicit name takes its
// field label.
func ParseCUE(data []byte, filename string, types *ir.TypeRegistry) ([]*Method, error) {
	ctx := cuecontext.New()
	sch := ctx.CompileString(schema, cue.Filename("method.schema.cue"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, filename)
	}
	v = sch.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, filename)
	}

	decls := v.LookupPath(cue.ParsePath("method"))
	if !decls.Exists() {
		return nil, &LoadError{Code: ErrCodeMissingField, Message: "no method declarations", File: filename}
	}
	iter, err := decls.Fields()
	if err != nil {
		return nil, formatCUEError(err, filename)
	}

	var methods []*Method
	for iter.Next() {
		val := iter.Value()
		var d Description
		if err := val.Decode(&d); err != nil {
			return nil, formatCUEError(err, filename)
		}
		if d.Name == "" {
			d.Name = iter.Label()
		}
		m, err := d.Build(types)
		if err != nil {
			return nil, at(err, filename, 0, val.Pos())
		}
		methods = append(methods, m)
	}

	if len(methods) == 0 {
		return nil, &LoadError{Code: ErrCodeMissingField, Message: "no method declarations", File: filename}
	}
	return methods, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, filename string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeParse, Message: err.Error(), File: filename}
	}

	first := errs[0]
	le := &LoadError{Code: ErrCodeParse, Message: first.Error(), File: filename}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
