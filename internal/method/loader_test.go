package method

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/cil"
	"github.com/roach88/cilsym/internal/ir"
)

func TestLoadFile_YAML(t *testing.T) {
	types := ir.NewTypeRegistry()
	methods, err := LoadFile("testdata/add.yaml", types)
	require.NoError(t, err)
	require.Len(t, methods, 1)

	m := methods[0]
	assert.Equal(t, "Add", m.Name)
	assert.Equal(t, "int32 Add(int32, int32)", m.Signature())
	assert.Len(t, m.Body, 4)
}

func TestLoadFile_CUE(t *testing.T) {
	types := ir.NewTypeRegistry()
	methods, err := LoadFile("testdata/methods.cue", types)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	assert.Equal(t, "Identity", methods[0].Name, "label names an unnamed method")
	assert.Same(t, types.Int64, methods[0].ReturnType())
	assert.Equal(t, []cil.Opcode{cil.Ldarg0, cil.Ret}, []cil.Opcode{methods[0].Body[0].Op, methods[0].Body[1].Op})

	assert.Equal(t, "WidenToLong", methods[1].Name)
	require.Len(t, methods[1].Locals(), 1)
	assert.Len(t, methods[1].Body, 5)
}

func TestParseYAML_MultipleDocuments(t *testing.T) {
	src := `
name: A
body: ret
---
name: B
returns: int32
il: "16 2A"
`
	methods, err := ParseYAML([]byte(src), "multi.yaml", ir.NewTypeRegistry())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "A", methods[0].Name)
	assert.Equal(t, "B", methods[1].Name)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		line int
	}{
		{"syntax", "name: [", ErrCodeParse, 0},
		{"wrong shape", "name: A\nparams: 3\n", ErrCodeParse, 0},
		{"duplicate", "name: A\nbody: ret\n---\nname: A\nbody: ret\n", ErrCodeParse, 0},
		{"unknown type", "name: A\nreturns: money\nbody: ret\n", ErrCodeUnknownType, 1},
		{"empty", "", ErrCodeMissingField, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src), "m.yaml", ir.NewTypeRegistry())
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code)
			assert.Equal(t, "m.yaml", le.File)
			if tt.line > 0 {
				assert.Equal(t, tt.line, le.Line)
			}
		})
	}
}

func TestParseCUE_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"syntax", "method: {", ErrCodeParse},
		{"unknown field", `method: A: {body: "ret", bogus: 1}`, ErrCodeParse},
		{"wrong type", `method: A: {body: 3}`, ErrCodeParse},
		{"no methods", `other: 1`, ErrCodeMissingField},
		{"unknown type", `method: A: {returns: "money", body: "ret"}`, ErrCodeUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.src), "m.cue", ir.NewTypeRegistry())
			code, ok := CodeOf(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestParseCUE_SyntaxErrorHasPosition(t *testing.T) {
	_, err := ParseCUE([]byte("method: {\n"), "broken.cue", ir.NewTypeRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestLoadFile_Errors(t *testing.T) {
	types := ir.NewTypeRegistry()

	_, err := LoadFile("testdata/missing.yaml", types)
	code, _ := CodeOf(err)
	assert.Equal(t, ErrCodeNotFound, code)

	_, err = Parse([]byte("{}"), "m.json", types)
	code, _ = CodeOf(err)
	assert.Equal(t, ErrCodeUnsupportedFormat, code)
}

func TestLoadFiles_Modes(t *testing.T) {
	types := ir.NewTypeRegistry()
	dir := t.TempDir()
	bad1 := filepath.Join(dir, "bad1.yaml")
	bad2 := filepath.Join(dir, "bad2.yaml")
	require.NoError(t, os.WriteFile(bad1, []byte("name: X\nbody: frob\n"), 0o644))
	require.NoError(t, os.WriteFile(bad2, []byte("name: Y\n"), 0o644))
	paths := []string{"testdata/add.yaml", bad1, bad2}

	methods, err := LoadFiles(paths, types, LoadModeFailFast)
	require.Error(t, err)
	assert.Len(t, methods, 1)
	_, isMulti := err.(*multierror.Error)
	assert.False(t, isMulti)

	methods, err = LoadFiles(paths, types, LoadModeCollectAll)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Len(t, methods, 1)

	methods, err = LoadFiles([]string{"testdata/add.yaml", "testdata/methods.cue"}, types, LoadModeCollectAll)
	require.NoError(t, err)
	assert.Len(t, methods, 3)
}
