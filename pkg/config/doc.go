// Package config defines the engine's YAML configuration surface.
//
// Configuration loads in layers: file values, then defaults for anything
// unset, then LEXCORE_* environment overrides, then validation. The loaded
// Config is read-only after startup; components receive the sections they
// need at construction time.
package config
