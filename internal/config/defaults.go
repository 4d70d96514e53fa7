package config

import "time"

// ApplyDefaults fills in platform defaults for every unset field of cfg.
// Explicitly set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Analysis.FingerprintBits == 0 {
		cfg.Analysis.FingerprintBits = 2048
	}
	if cfg.Analysis.MorganRadius == 0 {
		cfg.Analysis.MorganRadius = 2
	}
	if cfg.Analysis.MCSTimeout == 0 {
		cfg.Analysis.MCSTimeout = 10 * time.Second
	}
	if cfg.Analysis.ConformerMaxIterations == 0 {
		cfg.Analysis.ConformerMaxIterations = 200
	}
	if cfg.Analysis.RenderMaxWidth == 0 {
		cfg.Analysis.RenderMaxWidth = 2000
	}
	if cfg.Analysis.RenderMaxHeight == 0 {
		cfg.Analysis.RenderMaxHeight = 2000
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
// Metrics exposition is enabled by default.
func NewDefaultConfig() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}
