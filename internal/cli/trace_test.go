package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cilsym/internal/queryir"
	"github.com/roach88/cilsym/internal/store"
)

// recordProject compiles Add and Mixed into the project's store and
// returns the project directory with the ID of each compilation.
func recordProject(t *testing.T) (dir, addID, mixedID string) {
	t.Helper()
	dir = projectDir(t, "")
	a := writeFile(t, dir, "add.yaml", addMethod)
	m := writeFile(t, dir, "mixed.yaml", mixedMethod)

	out, err := execute(t, dir, "--format", "json", "compile", a, m, "--save")
	require.Error(t, err, "Mixed fails to compile")
	require.Equal(t, ExitFailure, GetExitCode(err))

	var resp compileResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Methods, 2)
	return dir, resp.Data.Methods[0].ID, resp.Data.Methods[1].ID
}

func TestTraceList(t *testing.T) {
	dir, _, _ := recordProject(t)

	out, err := execute(t, dir, "trace")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ #1 int32 Add(int32, int32) OK")
	assert.Contains(t, out, "✗ #2 int64 Mixed(int32, int64) TYPE_ERROR")
	assert.Contains(t, out, "4 instruction(s)")
}

func TestTraceListByMethod(t *testing.T) {
	dir, _, _ := recordProject(t)

	out, err := execute(t, dir, "--format", "json", "trace", "--method", "Mixed")
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   []store.Compilation `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Mixed", resp.Data[0].Method)
	assert.Equal(t, "TYPE_ERROR", resp.Data[0].Status)
	assert.Empty(t, resp.Data[0].Digest)
	assert.NotEmpty(t, resp.Data[0].Error)
}

func TestTraceListEmptyMatch(t *testing.T) {
	dir, _, _ := recordProject(t)

	out, err := execute(t, dir, "trace", "--method", "Nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No compilations recorded.")

	out, err = execute(t, dir, "--format", "json", "trace", "--method", "Nope")
	require.NoError(t, err)
	assert.Contains(t, out, `"data":[]`)
}

func TestTraceByID(t *testing.T) {
	dir, addID, _ := recordProject(t)

	out, err := execute(t, dir, "trace", "--id", addID)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 int32 Add(int32, int32) OK")
	assert.Contains(t, out, "  IL_0002  t2 = add t0, t1 : int32\n")
	assert.Contains(t, out, "  IL_0003  ret t2\n")
}

func TestTraceByIDJSON(t *testing.T) {
	dir, _, mixedID := recordProject(t)

	out, err := execute(t, dir, "--format", "json", "trace", "--id", mixedID)
	require.NoError(t, err)

	var resp struct {
		Data CompilationTrace `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, mixedID, resp.Data.Compilation.ID)
	require.Len(t, resp.Data.Operations, 2)
	assert.Equal(t, "ldarg.1", resp.Data.Operations[1].Opcode)
	require.NotNil(t, resp.Data.Operations[1].Result)
	assert.Equal(t, "int64", resp.Data.Operations[1].Result.Type)
}

func TestTraceUnknownID(t *testing.T) {
	dir, _, _ := recordProject(t)

	_, err := execute(t, dir, "trace", "--id", "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceOpcodes(t *testing.T) {
	dir, _, _ := recordProject(t)

	out, err := execute(t, dir, "--format", "json", "trace", "--opcodes")
	require.NoError(t, err)

	var resp struct {
		Data []store.OpcodeCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []store.OpcodeCount{
		{Opcode: "ldarg.0", Count: 2},
		{Opcode: "ldarg.1", Count: 2},
		{Opcode: "add", Count: 1},
		{Opcode: "ret", Count: 1},
	}, resp.Data)
}

func TestTraceNonExistentDatabase(t *testing.T) {
	dir := projectDir(t, "")

	_, err := execute(t, dir, "trace", "--db", filepath.Join(dir, "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "store not found")
}

func TestTraceRejectsArgs(t *testing.T) {
	dir := projectDir(t, "")

	_, err := execute(t, dir, "trace", "extra")
	require.Error(t, err)
}

func TestTraceWhere(t *testing.T) {
	dir, _, _ := recordProject(t)

	out, err := execute(t, dir, "trace", "--where", "status=TYPE_ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Mixed")
	assert.NotContains(t, out, "Add(")

	out, err = execute(t, dir, "trace", "--where", "signature^=int32 ", "--where", "seq=1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 int32 Add(int32, int32) OK")
	assert.NotContains(t, out, "Mixed")
}

func TestTraceRecords(t *testing.T) {
	dir, _, _ := recordProject(t)

	out, err := execute(t, dir, "trace", "--records", "--where", "opcode^=ldarg.")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"#1 Add  IL_0000  t0 = ldarg.0 arg0 : int32\n"+
		"#1 Add  IL_0001  t1 = ldarg.1 arg1 : int32\n"+
		"#2 Mixed  IL_0000  t0 = ldarg.0 arg0 : int32\n"+
		"#2 Mixed  IL_0001  t1 = ldarg.1 arg1 : int64\n", out)

	out, err = execute(t, dir, "--format", "json", "trace", "--records", "--where", "result_type=int64")
	require.NoError(t, err)
	var resp struct {
		Data []store.OperationMatch `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Mixed", resp.Data[0].Method)
	assert.Equal(t, 1, resp.Data[0].Record.Offset)

	out, err = execute(t, dir, "trace", "--records", "--where", "il_offset=9")
	require.NoError(t, err)
	assert.Contains(t, out, "No records match.")
}

func TestTraceBadWhere(t *testing.T) {
	dir, _, _ := recordProject(t)

	for _, where := range []string{"noequals", "color=red", "seq=one", "opcode=add", "seq^=1"} {
		t.Run(where, func(t *testing.T) {
			_, err := execute(t, dir, "trace", "--where", where)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestParseWhere(t *testing.T) {
	p, err := parseWhere(queryir.Operations, "il_offset=2")
	require.NoError(t, err)
	assert.Equal(t, queryir.Equals{Field: "il_offset", Value: queryir.Int(2)}, p)

	p, err = parseWhere(queryir.Operations, "opcode^=conv.")
	require.NoError(t, err)
	assert.Equal(t, queryir.Prefix{Field: "opcode", Prefix: "conv."}, p)

	p, err = parseWhere(queryir.Compilations, "error=a=b")
	require.Error(t, err, "error is not a filterable field")
	assert.Nil(t, p)

	p, err = parseWhere(queryir.Compilations, "method=a=b")
	require.NoError(t, err)
	assert.Equal(t, queryir.Equals{Field: "method", Value: queryir.String("a=b")}, p)
}
