// Package config handles configuration loading and validation for shoptoast.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/styles"
	"github.com/hay-kot/shoptoast/internal/tui/toast"
)

// Config holds the application configuration.
type Config struct {
	Toast   ToastConfig   `yaml:"toast"`
	TUI     TUIConfig     `yaml:"tui"`
	Metrics MetricsConfig `yaml:"metrics"`
	Replay  ReplayConfig  `yaml:"replay"`
	// Dir is the directory relative replay patterns resolve against. Set by
	// Load, not read from the file.
	Dir string `yaml:"-"`
}

// ToastConfig holds the notification timing values. SuppressionWindow and
// LedgerExpiry are independent; the only constraint between them is that the
// expiry is not shorter than the suppression window.
type ToastConfig struct {
	SuppressionWindow time.Duration `yaml:"suppression_window"`
	LedgerExpiry      time.Duration `yaml:"ledger_expiry"`
	DefaultDuration   time.Duration `yaml:"default_duration"`
	ExitDelay         time.Duration `yaml:"exit_delay"`
}

// TUIConfig holds terminal presentation settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// MetricsConfig holds the debug HTTP server settings.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 disables the server
}

// ReplayConfig lists notification scripts to replay on startup.
type ReplayConfig struct {
	Scripts []string `yaml:"scripts"` // doublestar glob patterns
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toast: ToastConfig{
			SuppressionWindow: notify.DefaultSuppressionWindow,
			LedgerExpiry:      notify.DefaultLedgerExpiry,
			DefaultDuration:   notify.DefaultDuration,
			ExitDelay:         toast.DefaultExitDelay,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads and validates configuration from the given path. If configPath
// is empty or doesn't exist, defaults are returned.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation. It is used by commands that report
// validation errors themselves.
func Read(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
		cfg.Dir = filepath.Dir(configPath)
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toast.SuppressionWindow == 0 {
		c.Toast.SuppressionWindow = defaults.Toast.SuppressionWindow
	}
	if c.Toast.LedgerExpiry == 0 {
		c.Toast.LedgerExpiry = defaults.Toast.LedgerExpiry
	}
	if c.Toast.DefaultDuration == 0 {
		c.Toast.DefaultDuration = defaults.Toast.DefaultDuration
	}
	if c.Toast.ExitDelay == 0 {
		c.Toast.ExitDelay = defaults.Toast.ExitDelay
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// ScriptPatterns returns the replay patterns resolved against the config
// file's directory.
func (c *Config) ScriptPatterns() []string {
	out := make([]string, 0, len(c.Replay.Scripts))
	for _, p := range c.Replay.Scripts {
		if c.Dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(c.Dir, p)
		}
		out = append(out, p)
	}
	return out
}
