package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetviz/budgetviz/internal/config"
	"github.com/budgetviz/budgetviz/internal/store"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runBudgetviz(t, dir, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized budgetviz project at")

	for _, d := range []string{"data", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	_, err = os.Stat(filepath.Join(dir, "data", "db.json"))
	assert.NoError(t, err)
}

func TestInit_Config(t *testing.T) {
	dir := newProject(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_SQLite(t *testing.T) {
	dir := newProject(t, "--driver", "sqlite")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, store.DriverSQLite, cfg.Store.Driver)

	_, err = os.Stat(filepath.Join(dir, "data", "db.sqlite"))
	assert.NoError(t, err)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := newProject(t)

	_, _, err := runBudgetviz(t, dir, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runBudgetviz(t, dir, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestInit_UnknownDriver(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runBudgetviz(t, dir, "init", dir, "--driver", "postgres")
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInit_ForceReplacesInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  driver: postgres\n"), 0o644))

	_, _, err := runBudgetviz(t, dir, "init", dir, "--force")
	require.NoError(t, err)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, store.DriverJSON, cfg.Store.Driver)
}

func TestInit_IgnoresConfigInWorkingDir(t *testing.T) {
	badDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(badDir, config.FileName), []byte("log:\n  level: loud\n"), 0o644))
	target := t.TempDir()

	_, _, err := runBudgetviz(t, badDir, "init", target)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(target, config.FileName))
	assert.NoError(t, err)
}
