package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/paintmcp/paintd/config"
)

func TestGetConfigFromViperWithoutViper(t *testing.T) {
	orig := V
	t.Cleanup(func() { V = orig })
	V = nil

	cfg, err := getConfigFromViper()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestGetConfigFromViperOverrides(t *testing.T) {
	orig := V
	t.Cleanup(func() { V = orig })

	V = viper.New()
	V.SetConfigType("yaml")

	defaults, err := yaml.Marshal(config.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, V.ReadConfig(bytes.NewReader(defaults)))

	V.Set("server.port", 9000)
	V.Set("journal.type", "memory")
	V.Set("engine.busy_policy", "reject")

	cfg, err := getConfigFromViper()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Journal.Type)
	assert.Equal(t, "reject", cfg.Engine.BusyPolicy)

	// Untouched keys keep their defaults
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "/mcp", cfg.Server.MCPPath)
	assert.Equal(t, "mspaint", cfg.Session.ProcessName)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "stdio", "console", "guide", "history", "status", "config", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
