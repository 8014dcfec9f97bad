package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated pair of config and data directories.
type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	t.Setenv("CELLAR_CONFIG_DIR", "")
	t.Setenv("CELLAR_DATA_DIR", "")
	return testEnv{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes one cellar invocation in-process and returns its stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

// mustRun is run that fails the test on error.
func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "cellar %v\n%s", args, out)
	return out
}

// sampleEnv returns an environment initialized with the sample tables.
func sampleEnv(t *testing.T) testEnv {
	t.Helper()
	e := newTestEnv(t)
	e.mustRun(t, "init", "--sample")
	return e
}

// writeTheme installs a theme directory with a theme.json under root.
func writeTheme(t *testing.T, root, id, name, version string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	meta := `{"name": "` + name + `", "version": "` + version + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme.json"), []byte(meta), 0o644))
}
