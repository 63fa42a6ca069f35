package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/gitdown/internal/reference"
)

// Config represents the complete manifest configuration
type Config struct {
	Sources []Source `yaml:"sources" json:"sources" toml:"sources"`
	Options Options  `yaml:"options" json:"options" toml:"options"`
}

// Source is one repository to materialise
type Source struct {
	Ref     string         `yaml:"ref" json:"ref" toml:"ref"`
	Dest    string         `yaml:"dest,omitempty" json:"dest,omitempty" toml:"dest,omitempty"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty" toml:"options,omitempty"`
}

// Options represents global manifest options
type Options struct {
	ContinueOnError bool   `yaml:"continue_on_error" json:"continue_on_error" toml:"continue_on_error"`
	Output          string `yaml:"output,omitempty" json:"output,omitempty" toml:"output,omitempty"`
	Concurrency     int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// Destination returns the directory the source is materialised into. An
// empty Dest falls back to the repository name; relative paths are placed
// under base.
func (s Source) Destination(base string) (string, error) {
	dest := s.Dest
	if dest == "" {
		d, err := reference.Parse(s.Ref)
		if err != nil {
			return "", err
		}
		dest = d.DefaultDirName()
	}
	if base != "" && !filepath.IsAbs(dest) {
		dest = filepath.Join(base, dest)
	}
	return filepath.Clean(dest), nil
}

// Validate validates the manifest configuration
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]int, len(c.Sources))
	for i, src := range c.Sources {
		if src.Ref == "" {
			return fmt.Errorf("source %d: %w", i, ErrEmptyRef)
		}
		if _, err := reference.Parse(src.Ref); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}

		dest, err := src.Destination(c.Options.Output)
		if err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		if prev, ok := seen[dest]; ok {
			return fmt.Errorf("source %d: %w: %s (also used by source %d)", i, ErrDuplicateDest, dest, prev)
		}
		seen[dest] = i
	}
	return nil
}

// DefaultOptions returns options with sensible defaults. A zero
// Concurrency defers to the configured worker count.
func DefaultOptions() Options {
	return Options{
		ContinueOnError: false,
		Output:          ".",
		Concurrency:     0,
	}
}

// withDefaults fills an unset output and clears a negative concurrency
func (o *Options) withDefaults() {
	if o.Output == "" {
		o.Output = DefaultOptions().Output
	}
	if o.Concurrency < 0 {
		o.Concurrency = 0
	}
}
