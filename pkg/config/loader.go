package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, PIXEDIT_CONFIG env, ./pixedit.yaml)
//  3. .env in the working directory
//  4. Environment variable overrides
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	// .env is optional; like godotenv.Load it never overrides variables that
	// are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. PIXEDIT_CONFIG environment variable
// 3. ./pixedit.yaml in the current directory
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("PIXEDIT_CONFIG"); envPath != "" {
		return envPath
	}
	if _, err := os.Stat("pixedit.yaml"); err == nil {
		return "pixedit.yaml"
	}
	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps PIXEDIT_* environment variables to config fields.
// Malformed numeric or boolean values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PIXEDIT_BLUR_BACKEND"); v != "" {
		cfg.Engine.BlurBackend = v
	}
	if v := os.Getenv("PIXEDIT_SHARPEN_EDGE"); v != "" {
		cfg.Engine.SharpenEdge = v
	}
	if v := os.Getenv("PIXEDIT_HISTORY_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxEntries = n
		}
	}
	if v := os.Getenv("PIXEDIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PIXEDIT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("PIXEDIT_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}
