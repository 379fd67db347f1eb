package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, []string{"**/*.rs"}, cfg.Project.Include)
	assert.Equal(t, "inkanalyzer.db", cfg.Storage.DBPath)
	assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  root: contracts
  exclude: ["**/generated/**"]
storage:
  db_path: scans.db
scan:
  workers: 2
`), 0o644))

	t.Setenv("INKANALYZER_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "contracts", cfg.Project.Root)
	assert.Equal(t, []string{"**/*.rs"}, cfg.Project.Include)
	assert.Equal(t, []string{"**/generated/**"}, cfg.Project.Exclude)
	assert.Equal(t, "scans.db", cfg.Storage.DBPath)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("INKANALYZER_DB", "override.db")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "override.db", cfg.Storage.DBPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("project: [unclosed"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)

	t.Setenv("INKANALYZER_WORKERS", "many")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
