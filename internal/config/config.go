// Package config loads and validates the bot configuration. Values come
// from a YAML file with environment variable expansion; a .env file next to
// the process is loaded first so secrets like the bot token can stay out of
// the config file.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Window   WindowConfig   `yaml:"window"`
	Token    string         `yaml:"token"` // exact text a valid post must match
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Language LanguageConfig `yaml:"language"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// TelegramConfig holds transport credentials.
type TelegramConfig struct {
	BotToken string `yaml:"token"`
}

// WindowConfig positions the daily one-minute window on the wall clock.
type WindowConfig struct {
	Hour     int    `yaml:"hour"`
	Minute   int    `yaml:"minute"`
	Timezone string `yaml:"timezone"`

	loc *time.Location
}

// Location returns the parsed timezone. Valid after Validate.
func (w *WindowConfig) Location() *time.Location { return w.loc }

// SnapshotConfig controls state persistence.
type SnapshotConfig struct {
	Path       string `yaml:"path"`
	Schedule   string `yaml:"schedule"` // cron expression for periodic dumps
	OnShutdown *bool  `yaml:"on_shutdown,omitempty"`
}

// WriteOnShutdown reports whether a final snapshot is taken on graceful
// shutdown. Defaults to true when unset.
func (s *SnapshotConfig) WriteOnShutdown() bool {
	return s.OnShutdown == nil || *s.OnShutdown
}

// LanguageConfig defines the default locale and the supported set.
type LanguageConfig struct {
	Default   string   `yaml:"default"`
	Supported []string `yaml:"supported"`
}

// MetricsConfig enables the optional Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Load reads, expands and validates the configuration at configPath.
// Validation failures are fatal by design: the process must not start
// serving with a broken window time or timezone.
func Load(configPath string) (*Config, error) {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Token == "" {
		c.Token = "1337"
	}
	if c.Window.Timezone == "" {
		c.Window.Timezone = "Europe/Berlin"
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "leetbot-state.json"
	}
	if c.Snapshot.Schedule == "" {
		c.Snapshot.Schedule = "*/5 * * * *"
	}
	if c.Language.Default == "" {
		c.Language.Default = "de"
	}
	if len(c.Language.Supported) == 0 {
		c.Language.Supported = []string{"de", "en"}
	}
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.token must be set")
	}
	if c.Window.Hour < 0 || c.Window.Hour > 23 {
		return fmt.Errorf("window.hour must be between 0 and 23, got %d", c.Window.Hour)
	}
	if c.Window.Minute < 0 || c.Window.Minute > 59 {
		return fmt.Errorf("window.minute must be between 0 and 59, got %d", c.Window.Minute)
	}
	loc, err := time.LoadLocation(c.Window.Timezone)
	if err != nil {
		return fmt.Errorf("invalid window.timezone %q: %w", c.Window.Timezone, err)
	}
	c.Window.loc = loc

	if c.Token == "" {
		return fmt.Errorf("token must not be empty")
	}
	if c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path must be set")
	}
	if !slices.Contains(c.Language.Supported, c.Language.Default) {
		return fmt.Errorf("language.default %q is not in language.supported %v",
			c.Language.Default, c.Language.Supported)
	}
	return nil
}
