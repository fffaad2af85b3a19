package config

import "time"

// Config is the root configuration document.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Cache      CacheConfig      `yaml:"cache"`
	Parameters ParametersConfig `yaml:"parameters"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// EngineConfig tunes the evaluation orchestrator.
type EngineConfig struct {
	// MaxSpiralLoops caps same-variable re-entries at different periods
	// before the branch falls back to the variable's default.
	MaxSpiralLoops int `yaml:"max_spiral_loops"`

	// FullTrace enables the tree-building tracer for every simulation,
	// regardless of per-request trace flags.
	FullTrace bool `yaml:"full_trace"`
}

// CacheConfig tunes the per-variable value cache.
type CacheConfig struct {
	// MemoryThresholdBytes caps each holder's in-memory tier. Zero
	// disables eviction.
	MemoryThresholdBytes int64 `yaml:"memory_threshold_bytes"`

	// SQLite configures the secondary tier. An empty path disables it.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention controls pruning of abandoned secondary-tier rows.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the secondary cache store.
type SQLiteConfig struct {
	Path        string        `yaml:"path"`
	WALMode     bool          `yaml:"wal_mode"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig controls secondary-tier pruning.
type RetentionConfig struct {
	MaxAge time.Duration `yaml:"max_age"`

	// Schedule is a standard cron expression. Empty disables scheduled
	// pruning.
	Schedule string `yaml:"schedule"`
}

// ParametersConfig locates the rule set's parameter files.
type ParametersConfig struct {
	// Dir is the directory tree of parameter YAML files. Empty means the
	// rule set ships its own embedded parameters.
	Dir string `yaml:"dir"`

	// Watch reloads parameters when files under Dir change.
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces bursts of file events into one reload.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// TelemetryConfig controls metrics collection.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}

// ApplyDefaults fills unset fields with production defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.MaxSpiralLoops <= 0 {
		cfg.Engine.MaxSpiralLoops = 1
	}
	if cfg.Cache.SQLite.Path != "" {
		if cfg.Cache.SQLite.BusyTimeout <= 0 {
			cfg.Cache.SQLite.BusyTimeout = 5 * time.Second
		}
	}
	if cfg.Cache.Retention.MaxAge <= 0 {
		cfg.Cache.Retention.MaxAge = 24 * time.Hour
	}
	if cfg.Parameters.DebounceInterval <= 0 {
		cfg.Parameters.DebounceInterval = 100 * time.Millisecond
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Telemetry.Namespace == "" {
		cfg.Telemetry.Namespace = "lexcore"
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
