// Package config loads runtime configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the sales agent server.
type Config struct {
	// DataDir holds the deal snapshot and the customer-memory database.
	DataDir string `env:"SALESAGENT_DATA_DIR"`

	// GroqAPIKey enables the LLM-backed qualification evaluator. When
	// empty the server still runs; qualification falls back to the safe
	// verdict.
	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL"`
	GroqModel   string `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`

	// ReadinessThreshold is the BANT count that triggers automatic
	// advancement out of Qualification.
	ReadinessThreshold int `env:"SALESAGENT_READINESS_THRESHOLD" envDefault:"4"`
}

// Load parses configuration from the environment, filling defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".salesagent")
	}
	return cfg, nil
}
