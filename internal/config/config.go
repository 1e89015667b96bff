// Package config loads and watches the griddesk configuration file.
// Configuration lives in ~/.griddesk/config.yaml; a handful of environment
// variables override the file for scripted use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all griddesk configuration.
type Config struct {
	// Fleet API connection
	API APIConfig `yaml:"api"`

	// Console appearance
	UI UIConfig `yaml:"ui"`

	// Local aggregate cache
	Cache CacheConfig `yaml:"cache"`

	// Categorized file logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the fleet REST client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"` // Go duration string, e.g. "30s"
}

// UIConfig configures the console appearance.
type UIConfig struct {
	Theme string `yaml:"theme"` // "light" or "dark"
}

// CacheConfig configures the local SQLite snapshot cache.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the debug-gated category log files.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api/v1",
			Timeout: "30s",
		},
		UI: UIConfig{
			Theme: "light",
		},
		Cache: CacheConfig{
			Path: filepath.Join(HomeDir(), "cache.db"),
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// HomeDir returns the griddesk state directory (~/.griddesk).
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".griddesk"
	}
	return filepath.Join(home, ".griddesk")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load reads the config file at path, layering it over defaults and then
// applying environment overrides. A missing file is not an error; defaults
// plus environment win.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// APITimeout parses the configured request timeout, falling back to 30s.
func (c Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GRIDDESK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GRIDDESK_TOKEN"); v != "" {
		c.API.Token = v
	}
	if os.Getenv("GRIDDESK_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
	}
}
