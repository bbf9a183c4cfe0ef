package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/budgetviz/budgetviz/internal/commands"
)

const fixture = "../../testdata/upi_passbook.csv"

func runBudgetviz(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newProject initializes a project in a temp dir and returns its path.
func newProject(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	_, _, err := runBudgetviz(t, dir, append([]string{"init", dir}, extra...)...)
	require.NoError(t, err)
	return dir
}

func copyFixture(t *testing.T, dst string) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
	return dst
}

func stageImport(t *testing.T, dir string) string {
	t.Helper()
	return copyFixture(t, filepath.Join(dir, "import", "upi_passbook.csv"))
}
