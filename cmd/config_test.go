package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	tempDir := t.TempDir()

	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to change back to original dir: %v", err)
		}
	}()

	require.NoError(t, os.Chdir(tempDir))

	err = configInitCmd.RunE(configInitCmd, []string{})
	require.NoError(t, err)

	configPath := filepath.Join(tempDir, ".paintd", "config.yaml")
	assert.FileExists(t, configPath)

	configData, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(configData), "server:")
	assert.Contains(t, string(configData), "journal:")
	assert.Contains(t, string(configData), "session:")
}

func TestConfigInitExistingConfig(t *testing.T) {
	tempDir := t.TempDir()

	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to change back to original dir: %v", err)
		}
	}()

	require.NoError(t, os.Chdir(tempDir))

	require.NoError(t, os.MkdirAll(".paintd", 0755))
	require.NoError(t, os.WriteFile(".paintd/config.yaml", []byte("server:\n  port: 9999\n"), 0644))

	err = configInitCmd.RunE(configInitCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, configInitCmd.Flags().Set("overwrite", "true"))
	defer func() {
		_ = configInitCmd.Flags().Set("overwrite", "false")
	}()

	err = configInitCmd.RunE(configInitCmd, []string{})
	require.NoError(t, err)

	configData, err := os.ReadFile(".paintd/config.yaml")
	require.NoError(t, err)
	assert.NotContains(t, string(configData), "9999")
}

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"9000", 9000},
		{"0", 0},
		{"true", true},
		{"false", false},
		{"wait", "wait"},
		{"127.0.0.1", "127.0.0.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseConfigValue(tt.in), "value %q", tt.in)
	}
}
