// Package config handles configuration loading and validation for derma.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	UI       UIConfig       `yaml:"ui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// ServerConfig holds connection settings for the diagnosis API.
type ServerConfig struct {
	// BaseURL is the root of the API, e.g. http://localhost:8000.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds bounds each request including the upload body.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// DatabaseConfig tunes the local history cache pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	// ToastSeconds is how long transient notifications stay visible.
	ToastSeconds int `yaml:"toast_seconds"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		UI: UIConfig{
			ToastSeconds: 5,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaults.Server.BaseURL
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = defaults.Server.TimeoutSeconds
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.UI.ToastSeconds == 0 {
		c.UI.ToastSeconds = defaults.UI.ToastSeconds
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url must use http or https, got %q", c.Server.BaseURL)
	}

	if c.Server.TimeoutSeconds < 1 {
		return fmt.Errorf("server.timeout_seconds must be at least 1")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.UI.ToastSeconds < 1 {
		return fmt.Errorf("ui.toast_seconds must be at least 1")
	}

	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// ToastTTL returns how long a transient notification stays on screen.
func (c *Config) ToastTTL() time.Duration {
	return time.Duration(c.UI.ToastSeconds) * time.Second
}

// CookiesFile returns the path to the persisted session cookies.
func (c *Config) CookiesFile() string {
	return filepath.Join(c.DataDir, "cookies.json")
}
