package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all molcraft settings.
const envPrefix = "MOLCRAFT"

// newViper builds a pre-configured Viper instance: YAML file type, MOLCRAFT_
// env prefix, automatic env binding, and a key replacer mapping "." to "_"
// so that nested keys like "server.port" resolve to "MOLCRAFT_SERVER_PORT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges MOLCRAFT_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLCRAFT_* environment variables,
// with no config file required.  Preferred for containerized deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// Discover searches the conventional locations (./molcraft.yaml,
// ~/.molcraft/config.yaml, /etc/molcraft/config.yaml) and loads the first
// file found; when none exists it returns defaults.
func Discover() (*Config, error) {
	searchPaths := []string{"./molcraft.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".molcraft", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/molcraft/config.yaml")

	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return NewDefaultConfig(), nil
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified.  Intended for hot-reloading
// non-critical settings such as the log level; callers apply only the safe
// subset of changes at runtime.  If a changed file fails to parse or
// validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
