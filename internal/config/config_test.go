package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKBOARD_DATA_DIR", dir)
	t.Setenv("TASKBOARD_DB", "")
	t.Setenv("TASKBOARD_LOG_FILE", "")
	t.Setenv("TASKBOARD_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "taskboard.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "taskboard.log"), cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKBOARD_DATA_DIR", dir)
	t.Setenv("TASKBOARD_DB", "/tmp/custom.db")
	t.Setenv("TASKBOARD_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadXDGFallback(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("TASKBOARD_DATA_DIR", "")
	t.Setenv("XDG_DATA_HOME", xdg)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(xdg, "taskboard"), cfg.DataDir)
	assert.DirExists(t, cfg.DataDir)
}
