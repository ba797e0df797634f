package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	switch c.Engine.BlurBackend {
	case "gaussian", "imaging":
		// valid
	default:
		errs = append(errs, fmt.Errorf("engine.blur_backend must be \"gaussian\" or \"imaging\", got %q", c.Engine.BlurBackend))
	}

	switch strings.ToLower(c.Engine.SharpenEdge) {
	case "passthrough", "clamp":
		// valid
	default:
		errs = append(errs, fmt.Errorf("engine.sharpen_edge must be \"passthrough\" or \"clamp\", got %q", c.Engine.SharpenEdge))
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("history.max_entries must be >= 0, got %d", c.History.MaxEntries))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}

	switch c.Log.Format {
	case "text", "json":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
