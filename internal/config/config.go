package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Capabilities switch optional pipeline stages on and off. A disabled stage
// is simply not wired: the loop runs without it rather than erroring.
type Capabilities struct {
	Curator        bool `json:"curator"`
	Sampling       bool `json:"sampling"`
	SignalObserver bool `json:"signal_observer"`
}

// Config represents the flat sage configuration.
type Config struct {
	Version              string       `json:"version"`
	ScoreThreshold       float64      `json:"score_threshold"`
	SampleRate           float64      `json:"sample_rate"`
	WindowHours          int          `json:"window_hours"`
	OracleModel          string       `json:"oracle_model"`
	OracleTimeoutSeconds int          `json:"oracle_timeout_seconds"`
	Capabilities         Capabilities `json:"capabilities"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version:              "1",
		ScoreThreshold:       0.8,
		SampleRate:           0.005,
		WindowHours:          24,
		OracleModel:          "gpt-4o-mini",
		OracleTimeoutSeconds: 30,
		Capabilities: Capabilities{
			Curator:        true,
			Sampling:       true,
			SignalObserver: true,
		},
	}
}

// LoadConfig reads .sage/config.json from the specified directory.
// Resolution order: cwd only (the database path resolves separately).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".sage", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault reads the config from dir, falling back to defaults when the
// file is absent. A malformed file is still an error.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.json to directory.
func SaveConfig(dir string, cfg *Config) error {
	sageDir := filepath.Join(dir, ".sage")
	if err := os.MkdirAll(sageDir, 0755); err != nil {
		return fmt.Errorf("failed to create .sage dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(sageDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
