package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advisor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  api_key: file-key
  model: gemini-2.5-pro
  timeout: 45s
logging:
  debug: true
`), 0o644))
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ADVISOR_MODEL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model())
	assert.Equal(t, 45*time.Second, cfg.GeminiTimeout())
	assert.True(t, cfg.Logging.Debug)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Gemini.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY overrides file key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")

		cfg := &Config{Gemini: GeminiConfig{APIKey: "file-key"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	})

	t.Run("ADVISOR_DEBUG enables debug logging", func(t *testing.T) {
		t.Setenv("ADVISOR_DEBUG", "true")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.Debug)
	})
}

func TestModel_ReadsEnvAtCallTime(t *testing.T) {
	t.Setenv("ADVISOR_MODEL", "")
	cfg := &Config{Gemini: GeminiConfig{Model: "gemini-2.5-flash"}}
	assert.Equal(t, "gemini-2.5-flash", cfg.Model())

	// The env var is consulted on every call, not cached at load time.
	t.Setenv("ADVISOR_MODEL", "gemini-3-pro-preview")
	assert.Equal(t, "gemini-3-pro-preview", cfg.Model())
}

func TestGeminiTimeout_InvalidFallsBackToZero(t *testing.T) {
	cfg := &Config{Gemini: GeminiConfig{Timeout: "soon"}}
	assert.Equal(t, time.Duration(0), cfg.GeminiTimeout())
}
