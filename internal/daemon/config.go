// Package daemon manages the Millrun server lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all server configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Solver    SolverConfig    `toml:"solver"`
	Storage   StorageConfig   `toml:"storage"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SolverConfig controls search behavior for API solves.
type SolverConfig struct {
	TimeBudget      string `toml:"time_budget"`
	Workers         int    `toml:"workers"`
	ViolationWeight int64  `toml:"violation_weight"`
	HorizonFactor   int    `toml:"horizon_factor"`
}

// StorageConfig controls run-history persistence.
type StorageConfig struct {
	History bool   `toml:"history"`
	Dir     string `toml:"dir"`
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := millrunHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8414,
		},
		Solver: SolverConfig{
			TimeBudget:      "60s",
			Workers:         0, // auto = NumCPU capped at 8
			ViolationWeight: 1000,
			HorizonFactor:   3,
		},
		Storage: StorageConfig{
			History: true,
			Dir:     filepath.Join(homeDir, "data"),
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "millrun.log"),
		},
	}
}

// LoadConfig reads config from ~/.millrun/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(millrunHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.millrun/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(millrunHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Budget parses the solver time budget, falling back to one minute.
func (c SolverConfig) Budget() time.Duration {
	d, err := time.ParseDuration(c.TimeBudget)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// millrunHome returns the Millrun data directory.
func millrunHome() string {
	if env := os.Getenv("MILLRUN_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".millrun")
}

// MillrunHome is exported for use by other packages.
func MillrunHome() string {
	return millrunHome()
}
