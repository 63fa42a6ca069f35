package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// unmarshalFunc decodes one manifest encoding
type unmarshalFunc func(data []byte, v any) error

var decoders = map[string]unmarshalFunc{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
	".toml": toml.Unmarshal,
}

// Extensions returns the manifest file extensions the loader understands
func Extensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Loader reads manifests from a filesystem and validates them
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a manifest loader reading from the OS filesystem
func NewLoader() *Loader {
	return NewLoaderWithFs(afero.NewOsFs())
}

// NewLoaderWithFs creates a manifest loader reading from fs
func NewLoaderWithFs(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load reads the manifest at path. The format follows the file extension.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := afero.ReadFile(l.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return l.LoadFromBytes(data, filepath.Ext(path))
}

// LoadReader reads a whole manifest from r, e.g. standard input
func (l *Loader) LoadReader(r io.Reader, ext string) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return l.LoadFromBytes(data, ext)
}

// LoadFromBytes decodes data in the format named by ext, fills in option
// defaults and validates the result.
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Config, error) {
	ext = strings.ToLower(ext)
	unmarshal, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedExt, ext, strings.Join(Extensions(), ", "))
	}

	var cfg Config
	if err := unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	cfg.Options.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
