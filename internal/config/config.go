// Package config provides configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is where the service listens when run locally.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout of zero leaves requests unbounded.
	DefaultTimeout time.Duration = 0
	// DefaultRefreshInterval is how often the watch session reloads.
	DefaultRefreshInterval = 30 * time.Second
	// DefaultNotificationTTL is how long a banner stays up.
	DefaultNotificationTTL = 3 * time.Second
	// DefaultLogLevel keeps the terminal quiet unless something goes wrong.
	DefaultLogLevel = "warn"
)

// Config holds the client settings (read-only after load).
type Config struct {
	Server          ServerConfig  `yaml:"server,omitempty"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	NotificationTTL time.Duration `yaml:"notification_ttl,omitempty"`
	// People are offered by the name quick-select.
	People   []string `yaml:"people,omitempty"`
	LogLevel string   `yaml:"log_level,omitempty"`
}

// ServerConfig holds where and how to reach the entry/exit service.
type ServerConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		RefreshInterval: DefaultRefreshInterval,
		NotificationTTL: DefaultNotificationTTL,
		LogLevel:        DefaultLogLevel,
	}
}

// DefaultPath returns ~/.config/entrylog/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "entrylog", "config.yaml")
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error. A .env file in the working directory is loaded first so
// its variables can override the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ENTRYLOG_URL"); url != "" {
		c.Server.BaseURL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must not be empty")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive")
	}
	if c.NotificationTTL <= 0 {
		return fmt.Errorf("notification_ttl must be positive")
	}
	return nil
}
