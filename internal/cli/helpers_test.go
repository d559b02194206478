package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const addMethod = `name: Add
returns: int32
params: [int32, int32]
body: "ldarg.0; ldarg.1; add; ret"
`

const mixedMethod = `name: Mixed
returns: int64
params: [int32, int64]
body: "ldarg.0; ldarg.1; add; ret"
`

// projectDir creates a directory holding a cilsym.toml whose store lives
// inside it.
func projectDir(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "cilsym.toml", "[output]\ncolor = \"never\"\n\n[store]\npath = \"log.db\"\n"+extra)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command against the project in dir and returns
// stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--config", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}
