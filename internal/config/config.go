// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/S-COULIBALY/express-quote-sub008/core/money"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains computation settings
	Engine EngineConfig `json:"engine"`

	// Rules contains rule source settings
	Rules RulesConfig `json:"rules"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig contains computation settings
type EngineConfig struct {
	// DefaultCurrency is the computation currency
	DefaultCurrency money.Currency `json:"default_currency"`

	// FloorThreshold overrides the lift floor threshold when positive
	FloorThreshold int `json:"floor_threshold,omitempty"`
}

// RulesConfig locates the rule source
type RulesConfig struct {
	// Driver selects the rule source: file or sqlite
	Driver string `json:"driver"`

	// Path is the rule file (yaml, hcl) or database path
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
	rulesPath := filepath.Join(homeDir, ".express-quote", "rules.yaml")

	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			DefaultCurrency: money.CurrencyEUR,
		},
		Rules: RulesConfig{
			Driver: "file",
			Path:   rulesPath,
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
