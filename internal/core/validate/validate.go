// Package validate provides shared validation functions for notification input.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/shoptoast/internal/core/notify"
)

// Message validates a notification message is non-empty after trimming whitespace.
func Message(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

// Category validates the name of a notification category.
func Category(name string) error {
	if _, ok := notify.ParseCategory(name); !ok {
		return fmt.Errorf("unknown category %q (available: %v)", name, notify.Categories)
	}
	return nil
}

// Duration validates an optional display duration. An empty string selects
// the default duration.
func Duration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	return nil
}

// Offset validates a non-negative replay offset such as "1.5s".
func Offset(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid offset %q", s)
	}
	if d < 0 {
		return fmt.Errorf("offset must not be negative, got %s", d)
	}
	return nil
}

// MessageField returns a criterio validator for notification messages.
func MessageField(field, msg string) error {
	return criterio.Run(field, msg, Message)
}

// CategoryField returns a criterio validator for category names.
func CategoryField(field, name string) error {
	return criterio.Run(field, name, Category)
}
