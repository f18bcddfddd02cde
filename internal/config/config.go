// Package config loads advisor configuration from an optional YAML file
// with environment variable overrides. The API credential is read once at
// startup; the default model is re-read from the environment on every
// request so operators can rotate models without a restart.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full advisor configuration.
type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig configures the chat provider.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration string, e.g. "30s"
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides. A missing file is not an error; env-only configuration is
// supported.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env overrides
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("ADVISOR_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if base := os.Getenv("ADVISOR_BASE_URL"); base != "" {
		c.Gemini.BaseURL = base
	}
	if debug := os.Getenv("ADVISOR_DEBUG"); debug == "1" || debug == "true" {
		c.Logging.Debug = true
	}
}

// Model resolves the default model at call time: the ADVISOR_MODEL
// environment variable wins over the config file. Empty means "use the
// provider default".
func (c *Config) Model() string {
	if model := os.Getenv("ADVISOR_MODEL"); model != "" {
		return model
	}
	return c.Gemini.Model
}

// GeminiTimeout parses the configured timeout; zero means "use the provider
// default".
func (c *Config) GeminiTimeout() time.Duration {
	if c.Gemini.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Gemini.Timeout)
	if err != nil {
		return 0
	}
	return d
}
