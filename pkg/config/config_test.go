package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 2500, cfg.Analysis.MaxChunkWords)
	assert.True(t, cfg.Retry.Enabled)
	assert.False(t, cfg.CircuitBreaker.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("DRAMATIS_PROVIDER", "anthropic")
	t.Setenv("DRAMATIS_MODEL", "claude-sonnet-4-5")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.LLM.Model)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, 9090, cfg.Server.Port)
}
