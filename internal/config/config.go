// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (gemrecon.yaml)
//  2. Environment variables (fallback)
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Matching MatchingConfig `yaml:"matching"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MatchingConfig holds the matching engine tunables.
type MatchingConfig struct {
	MaxCombinationSize int      `yaml:"max_combination_size"`
	AmountTolerance    float64  `yaml:"amount_tolerance"`
	BlacklistPrefixes  []string `yaml:"blacklist_prefixes"`
	TrackPaymentStatus bool     `yaml:"track_payment_status"`
}

// StorageConfig holds database configuration. An empty path disables
// cross-run persistence entirely.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file. Environment variables referenced
// inside the file (e.g. ${GEMRECON_DB_PATH}) are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := LoadFromEnv()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	return &Config{
		Matching: MatchingConfig{
			MaxCombinationSize: getEnvInt("GEMRECON_MAX_COMBO", 4),
			AmountTolerance:    getEnvFloat("GEMRECON_TOLERANCE", 0.01),
			BlacklistPrefixes:  []string{"ACB", "DCB"},
			TrackPaymentStatus: true,
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("GEMRECON_DB_PATH", "gemrecon.db"),
		},
		Server: ServerConfig{
			Port:           getEnvInt("GEMRECON_PORT", 8080),
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// LoadOrEnv tries to load from gemrecon.yaml, falls back to environment
// variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("gemrecon.yaml")
}

// LoadOrEnvWithPath tries the given path first, falls back to environment
// variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			return v
		}
	}
	return fallback
}
