package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration field %s: %s", e.Field, e.Reason)
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for internally inconsistent or
// out-of-range values. Called after defaults and after env overrides.
func Validate(cfg *Config) error {
	if cfg.Engine.MaxSpiralLoops < 1 {
		return &ValidationError{Field: "engine.max_spiral_loops", Reason: "must be at least 1"}
	}
	if cfg.Cache.MemoryThresholdBytes < 0 {
		return &ValidationError{Field: "cache.memory_threshold_bytes", Reason: "must not be negative"}
	}
	if cfg.Cache.MemoryThresholdBytes > 0 && cfg.Cache.SQLite.Path == "" {
		return &ValidationError{
			Field:  "cache.sqlite.path",
			Reason: "required when a memory threshold enables eviction",
		}
	}
	if cfg.Cache.SQLite.BusyTimeout < 0 {
		return &ValidationError{Field: "cache.sqlite.busy_timeout", Reason: "must not be negative"}
	}
	if cfg.Cache.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Cache.Retention.Schedule); err != nil {
			return &ValidationError{
				Field:  "cache.retention.schedule",
				Reason: "not a valid cron expression: " + err.Error(),
			}
		}
	}
	if cfg.Parameters.Watch && cfg.Parameters.Dir == "" {
		return &ValidationError{Field: "parameters.dir", Reason: "required when watch is enabled"}
	}
	if !validLevels[cfg.Logging.Level] {
		return &ValidationError{Field: "logging.level", Reason: "must be one of debug, info, warn, error"}
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return &ValidationError{Field: "logging.format", Reason: "must be text or json"}
	}
	return nil
}
