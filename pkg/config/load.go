package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies LEXCORE_SECTION_FIELD environment overrides (e.g.
// LEXCORE_ENGINE_MAX_SPIRAL_LOOPS). Environment variables always take
// precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("LEXCORE_ENGINE_MAX_SPIRAL_LOOPS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Engine.MaxSpiralLoops = n
		}
	}
	if val := os.Getenv("LEXCORE_ENGINE_FULL_TRACE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Engine.FullTrace = b
		}
	}

	if val := os.Getenv("LEXCORE_CACHE_MEMORY_THRESHOLD_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Cache.MemoryThresholdBytes = n
		}
	}
	if val := os.Getenv("LEXCORE_CACHE_SQLITE_PATH"); val != "" {
		cfg.Cache.SQLite.Path = val
	}
	if val := os.Getenv("LEXCORE_CACHE_SQLITE_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.SQLite.WALMode = b
		}
	}
	if val := os.Getenv("LEXCORE_CACHE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("LEXCORE_CACHE_RETENTION_MAX_AGE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.Retention.MaxAge = d
		}
	}
	if val := os.Getenv("LEXCORE_CACHE_RETENTION_SCHEDULE"); val != "" {
		cfg.Cache.Retention.Schedule = val
	}

	if val := os.Getenv("LEXCORE_PARAMETERS_DIR"); val != "" {
		cfg.Parameters.Dir = val
	}
	if val := os.Getenv("LEXCORE_PARAMETERS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Parameters.Watch = b
		}
	}
	if val := os.Getenv("LEXCORE_PARAMETERS_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Parameters.DebounceInterval = d
		}
	}

	if val := os.Getenv("LEXCORE_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("LEXCORE_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("LEXCORE_TELEMETRY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Enabled = b
		}
	}
	if val := os.Getenv("LEXCORE_TELEMETRY_NAMESPACE"); val != "" {
		cfg.Telemetry.Namespace = val
	}
}
