package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultMode = ModeClone

	// Concurrency defaults
	DefaultWorkers = 4

	// HTTP defaults
	DefaultHTTPTimeout = 10 * time.Minute

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitdown"
	}
	return filepath.Join(home, ".gitdown")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Mode:          DefaultMode,
		SSH:           false,
		StrictCleanup: false,
		Options:       map[string]any{},
		HTTP: HTTPConfig{
			Timeout: DefaultHTTPTimeout,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
