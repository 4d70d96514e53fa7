package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 2048, cfg.Analysis.FingerprintBits)
	assert.Equal(t, 2, cfg.Analysis.MorganRadius)
	assert.Equal(t, 10*time.Second, cfg.Analysis.MCSTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Analysis.FingerprintBits = 1024
	ApplyDefaults(cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 1024, cfg.Analysis.FingerprintBits)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"fingerprint bits too small", func(c *Config) { c.Analysis.FingerprintBits = 8 }},
		{"morgan radius too large", func(c *Config) { c.Analysis.MorganRadius = 9 }},
		{"negative mcs timeout", func(c *Config) { c.Analysis.MCSTimeout = -time.Second }},
		{"zero conformer iterations", func(c *Config) { c.Analysis.ConformerMaxIterations = 0 }},
		{"render bound too small", func(c *Config) { c.Analysis.RenderMaxWidth = 4 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
