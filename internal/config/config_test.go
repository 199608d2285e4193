package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.NarrativeTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LIFERPG_DB", "/tmp/custom.db")
	t.Setenv("LIFERPG_MODEL", "gemini-2.5-pro")
	t.Setenv("LIFERPG_NARRATIVE_TIMEOUT", "5s")
	t.Setenv("LIFERPG_LOG", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 5*time.Second, cfg.NarrativeTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}
