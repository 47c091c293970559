package utils

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	config "github.com/paintmcp/paintd/config"
)

func TestRateLimiterDisabledAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false})

	for i := 0; i < 1000; i++ {
		require.NoError(t, rl.CheckAndRecord("move"))
	}
	assert.Equal(t, 0, rl.GetCurrentCount())
}

func TestRateLimiterEnforcesWindowLimit(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:             true,
		MaxActionsPerWindow: 3,
		WindowSeconds:       60,
	})

	require.NoError(t, rl.CheckAndRecord("click"))
	require.NoError(t, rl.CheckAndRecord("click"))
	require.NoError(t, rl.CheckAndRecord("click"))

	err := rl.CheckAndRecord("click")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Equal(t, 3, rl.GetCurrentCount())
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:             true,
		MaxActionsPerWindow: 1,
		WindowSeconds:       60,
	})

	require.NoError(t, rl.CheckAndRecord("drag"))
	require.Error(t, rl.CheckAndRecord("drag"))

	rl.Reset()
	assert.Equal(t, 0, rl.GetCurrentCount())
	require.NoError(t, rl.CheckAndRecord("drag"))
}
