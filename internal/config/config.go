package config

import (
	"fmt"
	"strings"
	"time"
)

// Fetch modes accepted by the mode key
const (
	ModeClone    = "clone"
	ModeDownload = "download"
)

// Config represents the application configuration
type Config struct {
	Mode          string            `mapstructure:"mode" yaml:"mode"`
	SSH           bool              `mapstructure:"ssh" yaml:"ssh"`
	StrictCleanup bool              `mapstructure:"strict_cleanup" yaml:"strict_cleanup"`
	Options       map[string]any    `mapstructure:"options" yaml:"options"`
	HTTP          HTTPConfig        `mapstructure:"http" yaml:"http"`
	Concurrency   ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Logging       LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// HTTPConfig contains archive download settings
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ConcurrencyConfig contains batch settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate normalises the configuration, replacing out of range values with
// defaults. It fails only for values that have no sensible fallback.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case "":
		c.Mode = DefaultMode
	case ModeClone, ModeDownload:
	default:
		return fmt.Errorf("invalid mode %q: must be %s or %s", c.Mode, ModeClone, ModeDownload)
	}

	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.HTTP.Timeout < time.Second {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	switch c.Logging.Format {
	case "pretty", "json":
	case "":
		c.Logging.Format = DefaultLogFormat
	default:
		return fmt.Errorf("invalid logging.format %q: must be pretty or json", c.Logging.Format)
	}
	if c.Options == nil {
		c.Options = map[string]any{}
	}
	return nil
}
