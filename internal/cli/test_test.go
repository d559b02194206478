package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")
	harnessGolden    = filepath.Join("..", "harness", "testdata", "golden")
)

const passingScenario = `name: add_ok
description: "Add compiles"
method:
  name: Add
  returns: int32
  params: [int32, int32]
  body: "ldarg.0; ldarg.1; add; ret"
expect:
  status: OK
  records: 4
`

const failingScenario = `name: add_wrong
description: "Add does not type-error"
method:
  name: Add
  returns: int32
  params: [int32, int32]
  body: "ldarg.0; ldarg.1; add; ret"
expect:
  status: TYPE_ERROR
`

func TestTestCommandMissingArgs(t *testing.T) {
	dir := projectDir(t, "")
	_, err := execute(t, dir, "test")
	require.Error(t, err)
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	dir := projectDir(t, "")
	_, err := execute(t, dir, "test", filepath.Join(dir, "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	dir := projectDir(t, "")
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.Mkdir(scenarios, 0755))

	out, err := execute(t, dir, "test", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")

	out, err = execute(t, dir, "--format", "json", "test", scenarios)
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Zero(t, resp.Data.Total)
	assert.NotNil(t, resp.Data.Scenarios)
}

func TestTestCommandHarnessSuite(t *testing.T) {
	dir := projectDir(t, "")

	out, err := execute(t, dir, "test", harnessScenarios, "--golden", harnessGolden)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ add_int32")
	assert.Contains(t, out, "✓ mixed_add")
	assert.Contains(t, out, "6 passed, 0 failed, 6 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := projectDir(t, "")

	out, err := execute(t, dir, "--format", "json", "test", harnessScenarios, "--filter", "add_*")
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, "add_int32", resp.Data.Scenarios[0].Name)
	assert.True(t, resp.Data.Scenarios[0].Pass)
	assert.Equal(t, "OK", resp.Data.Scenarios[0].Status)
}

func TestTestCommandBadFilter(t *testing.T) {
	dir := projectDir(t, "")
	_, err := execute(t, dir, "test", harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailure(t *testing.T) {
	dir := projectDir(t, "")
	scenarios := filepath.Join(dir, "scenarios")
	writeFile(t, scenarios, "add_ok.yaml", passingScenario)
	writeFile(t, scenarios, "add_wrong.yaml", failingScenario)

	out, err := execute(t, dir, "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ add_ok")
	assert.Contains(t, out, "✗ add_wrong")
	assert.Contains(t, out, "status: expected TYPE_ERROR, got OK")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommandUnloadableScenario(t *testing.T) {
	dir := projectDir(t, "")
	scenarios := filepath.Join(dir, "scenarios")
	writeFile(t, scenarios, "broken.yaml", "name: broken\n")

	out, err := execute(t, dir, "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdate(t *testing.T) {
	dir := projectDir(t, "")
	scenarios := filepath.Join(dir, "scenarios")
	golden := filepath.Join(dir, "golden")
	writeFile(t, scenarios, "add_ok.yaml", passingScenario)

	// No golden file yet.
	_, err := execute(t, dir, "test", scenarios, "--golden", golden)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, dir, "test", scenarios, "--golden", golden, "--update")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(golden, "add_ok.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"add_ok"`)

	_, err = execute(t, dir, "test", scenarios, "--golden", golden)
	require.NoError(t, err)

	// A stale snapshot is reported as a mismatch.
	writeFile(t, golden, "add_ok.golden", `{"scenario_name":"add_ok","status":"OK","stream":[]}`)
	out, err := execute(t, dir, "test", scenarios, "--golden", golden)
	require.Error(t, err)
	assert.Contains(t, out, "golden mismatch")
}

func TestTestCommandUpdateRequiresGolden(t *testing.T) {
	dir := projectDir(t, "")
	_, err := execute(t, dir, "test", harnessScenarios, "--update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFilterScenarios(t *testing.T) {
	files := []string{"s/add_int32.yaml", "s/mixed_add.yml", "s/underflow.yaml"}

	got, err := filterScenarios(files, "")
	require.NoError(t, err)
	assert.Equal(t, files, got)

	got, err = filterScenarios(files, "*add*")
	require.NoError(t, err)
	assert.Equal(t, []string{"s/add_int32.yaml", "s/mixed_add.yml"}, got)

	got, err = filterScenarios(files, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}
