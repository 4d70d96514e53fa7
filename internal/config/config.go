// Package config defines the configuration structures for molcraft.
// No I/O or parsing logic lives in this file — only plain data types and
// validation; loading is in loader.go, defaults in defaults.go.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"` // "stdout" | "stderr" | file path
}

// AnalysisConfig holds the numeric policy of the analysis façade.  These are
// engine-wide defaults; per-call parameters (thresholds, counts, timeouts)
// still arrive from the caller.
type AnalysisConfig struct {
	// FingerprintBits is the width of the hashed fingerprint methods.
	// The structural-keys method ignores it (fixed 166-key width).
	FingerprintBits int `mapstructure:"fingerprint_bits"`

	// MorganRadius is the neighborhood radius of the circular fingerprint.
	MorganRadius int `mapstructure:"morgan_radius"`

	// MCSTimeout bounds the common-substructure search when the caller does
	// not supply a timeout.
	MCSTimeout time.Duration `mapstructure:"mcs_timeout"`

	// ConformerMaxIterations caps force-field minimization iterations per
	// conformer when the caller supplies none.
	ConformerMaxIterations int `mapstructure:"conformer_max_iterations"`

	// RenderMaxWidth / RenderMaxHeight bound requested image dimensions at
	// the HTTP boundary (the façade itself does not range-check).
	RenderMaxWidth  int `mapstructure:"render_max_width"`
	RenderMaxHeight int `mapstructure:"render_max_height"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Analysis.FingerprintBits < 64 {
		return fmt.Errorf("config: analysis.fingerprint_bits must be >= 64, got %d", c.Analysis.FingerprintBits)
	}
	if c.Analysis.MorganRadius < 0 || c.Analysis.MorganRadius > 6 {
		return fmt.Errorf("config: analysis.morgan_radius %d is out of range [0, 6]", c.Analysis.MorganRadius)
	}
	if c.Analysis.MCSTimeout <= 0 {
		return fmt.Errorf("config: analysis.mcs_timeout must be positive")
	}
	if c.Analysis.ConformerMaxIterations < 1 {
		return fmt.Errorf("config: analysis.conformer_max_iterations must be >= 1, got %d",
			c.Analysis.ConformerMaxIterations)
	}
	if c.Analysis.RenderMaxWidth < 16 || c.Analysis.RenderMaxHeight < 16 {
		return fmt.Errorf("config: analysis render bounds must be >= 16 pixels")
	}

	return nil
}
