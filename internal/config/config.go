// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration. Every field has a working
// default except the Gemini key, which gates narrative generation only.
type Config struct {
	DBPath           string        `env:"LIFERPG_DB"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiModel      string        `env:"LIFERPG_MODEL"             envDefault:"gemini-2.0-flash"`
	NarrativeTimeout time.Duration `env:"LIFERPG_NARRATIVE_TIMEOUT" envDefault:"30s"`
	LogLevel         string        `env:"LIFERPG_LOG"               envDefault:"warn"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
