package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios_SortedYAMLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.YAML"), []byte{}, 0644))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.YAML"),
	}, paths)
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunSuite_Examples(t *testing.T) {
	paths, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	results, err := RunSuite(paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for _, r := range results {
		assert.True(t, r.Result.Pass, "%s: %v", r.Path, r.Result.Errors)
	}
}

func TestRunSuite_CollectsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte(minimalScenario), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("name: [oops"), 0644))

	results, err := RunSuite([]string{bad, good})
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "minimal", results[0].Scenario.Name)
}
