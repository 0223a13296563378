// Package config defines process configuration and its loading order:
// defaults, then an optional YAML file, then OPK_-prefixed environment
// variables.
package config

import (
	"errors"
)

// Config contains batch-run configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ExportDir is the root of the export tree.
	ExportDir string `koanf:"export_dir"`

	// Tolerance is the linear export tolerance in mm.
	Tolerance float64 `koanf:"tolerance"`

	// AngularTolerance is the angular export tolerance in radians.
	AngularTolerance float64 `koanf:"angular_tolerance"`

	// StemType selects the switch socket: cherry or alps.
	StemType string `koanf:"stem_type"`

	// ScoopStyle selects the non-convex scoop: dish or saddle.
	ScoopStyle string `koanf:"scoop_style"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		ExportDir:        "export",
		Tolerance:        0.0005,
		AngularTolerance: 0.05,
		StemType:         "alps",
		ScoopStyle:       "dish",
	}
}

// Validate checks cross-field consistency after loading.
func (c *Config) Validate() error {
	if c.ExportDir == "" {
		return errors.New("export_dir must not be empty")
	}
	if c.Tolerance <= 0 {
		return errors.New("tolerance must be positive")
	}
	if c.AngularTolerance <= 0 {
		return errors.New("angular_tolerance must be positive")
	}
	return nil
}
