// Package config provides configuration for the pixedit host.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (explicit path, PIXEDIT_CONFIG env, ./pixedit.yaml)
//  3. .env file in the working directory (never overrides the real environment)
//  4. Environment variable overrides (PIXEDIT_ prefix)
//  5. Validation
package config

import (
	"log/slog"
	"strings"

	"github.com/Fepozopo/pixedit/pkg/stdimg"
)

// Config holds all configuration for pixedit.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig selects transform backends.
type EngineConfig struct {
	BlurBackend string `yaml:"blur_backend"` // "gaussian" or "imaging", default: "gaussian"
	SharpenEdge string `yaml:"sharpen_edge"` // "passthrough" or "clamp", default: "passthrough"
}

// HistoryConfig holds undo history settings.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries"` // 0 = unlimited, default: 0
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error; default: "info"
	Format string `yaml:"format"` // "text" or "json", default: "text"
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			BlurBackend: "gaussian",
			SharpenEdge: "passthrough",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// EdgePolicy returns the sharpen border policy named by SharpenEdge.
func (c EngineConfig) EdgePolicy() stdimg.EdgePolicy {
	if strings.EqualFold(c.SharpenEdge, "clamp") {
		return stdimg.EdgeClamp
	}
	return stdimg.EdgePassThrough
}

// SlogLevel returns the slog level named by Level; unknown names map to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
