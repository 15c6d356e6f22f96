package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/shoptoast/internal/core/config"
	"github.com/hay-kot/shoptoast/internal/metrics"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Metrics collects notification counters for the debug endpoint
	Metrics *metrics.Metrics
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "shoptoast", "config.yaml")
}

// DefaultLogFile returns the log file the interactive demo writes to when no
// --log-file is given, so log lines never land on the alternate screen.
// On macOS: ~/Library/Logs/shoptoast/shoptoast.log
// On Linux: $XDG_STATE_HOME/shoptoast/shoptoast.log (defaults to ~/.local/state/shoptoast/shoptoast.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "shoptoast", "shoptoast.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "shoptoast", "shoptoast.log")
	}

	return filepath.Join(home, ".local", "state", "shoptoast", "shoptoast.log")
}
