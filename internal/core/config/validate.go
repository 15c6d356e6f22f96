package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/shoptoast/internal/core/styles"
)

// Validate checks that the configuration is valid. Errors are returned as
// criterio.FieldErrors keyed by YAML path.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateToast(),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		c.validateMetrics(),
		c.validateReplay(),
	)
}

func (c *Config) validateToast() error {
	var errs criterio.FieldErrorsBuilder

	durations := []struct {
		field string
		value time.Duration
	}{
		{"toast.suppression_window", c.Toast.SuppressionWindow},
		{"toast.ledger_expiry", c.Toast.LedgerExpiry},
		{"toast.default_duration", c.Toast.DefaultDuration},
		{"toast.exit_delay", c.Toast.ExitDelay},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errs = errs.Append(d.field, fmt.Errorf("must be positive, got %s", d.value))
		}
	}

	if c.Toast.LedgerExpiry < c.Toast.SuppressionWindow {
		errs = errs.Append("toast.ledger_expiry", fmt.Errorf(
			"must be at least suppression_window (%s), got %s",
			c.Toast.SuppressionWindow, c.Toast.LedgerExpiry,
		))
	}

	return errs.ToError()
}

func (c *Config) validateReplay() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Replay.Scripts {
		if !doublestar.ValidatePathPattern(pattern) {
			errs = errs.Append(fmt.Sprintf("replay.scripts[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return criterio.NewFieldErrors("metrics.port", fmt.Errorf("must be between 0 and 65535, got %d", c.Metrics.Port))
	}
	return nil
}

// ValidateFile checks that configPath, when set, is a readable file.
// A missing file is fine: defaults are used.
func ValidateFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
