package config

import (
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "wait", cfg.Engine.BusyPolicy)
	assert.Equal(t, "auto", cfg.Display.Backend)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, 5, cfg.Input.MinEventGapMs)
	assert.Equal(t, 10, cfg.Input.DragSteps)
	assert.Equal(t, 50, cfg.Input.DragStepPauseMs)
	assert.Equal(t, 3000, cfg.Session.LaunchInitialWaitMs)
	assert.Equal(t, 20, cfg.Session.LaunchPollMax)
	assert.Equal(t, []int{200, 300, 500}, cfg.Session.ActivationSettleMs)
	assert.Equal(t, 2000, cfg.Dialogs.VisibilityTimeoutMs)
	assert.Equal(t, 5000, cfg.Planner.MaxPrimitives)
	assert.True(t, cfg.Journal.Enabled)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".paintd", "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.BusyPolicy = "reject"
	cfg.Session.ProcessName = "paint-test"
	cfg.Journal.Type = "memory"
	cfg.Input.DragSteps = 25

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "reject", loaded.Engine.BusyPolicy)
	assert.Equal(t, "paint-test", loaded.Session.ProcessName)
	assert.Equal(t, "memory", loaded.Journal.Type)
	assert.Equal(t, 25, loaded.Input.DragSteps)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultConfig().Dialogs.SettleMs, loaded.Dialogs.SettleMs)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "engine:\n  busy_policy: reject\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "reject", cfg.Engine.BusyPolicy)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, DefaultConfig().Session.ProcessName, cfg.Session.ProcessName)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [broken"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
