// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"photonic-sparam/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Models contains predictor model configuration
	Models ModelsConfig `json:"models"`

	// Sweep contains the default wavelength sweep
	Sweep SweepConfig `json:"sweep"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Storage contains run storage configuration
	Storage StorageConfig `json:"storage"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ModelsConfig contains predictor model settings
type ModelsConfig struct {
	// Packs maps a predictor name to a coefficient pack path.
	// Names without an entry use the built-in analytic model.
	Packs map[string]string `json:"packs,omitempty"`
}

// SweepConfig contains the default wavelength sweep settings
type SweepConfig struct {
	// Band selects a named wavelength band preset
	Band string `json:"band,omitempty"`

	// StartUM is the first wavelength in micrometers
	StartUM float64 `json:"start_um"`

	// StopUM is the last wavelength in micrometers
	StopUM float64 `json:"stop_um"`

	// Points is the number of wavelength points
	Points int `json:"points"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// Precision is the number of digits printed for magnitudes
	Precision int `json:"precision"`

	// ShowPhase includes phase columns in tabular output
	ShowPhase bool `json:"show_phase"`
}

// StorageConfig contains run storage settings
type StorageConfig struct {
	// Backend is the store backend (memory, file, sqlite)
	Backend string `json:"backend"`

	// Path is the file-store directory or sqlite database path
	Path string `json:"path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	runDir := filepath.Join(homeDir, ".photonic-sparam", "runs")

	return &Config{
		Version: "1.0",
		Models: ModelsConfig{
			Packs: map[string]string{},
		},
		Sweep: SweepConfig{
			StartUM: 1.5,
			StopUM:  1.6,
			Points:  101,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			Precision:     6,
			ShowPhase:     true,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    runDir,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
