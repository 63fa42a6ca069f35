package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/gitdown/internal/domain"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load("/nonexistent/path/manifest.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoader_Load_ValidYAML(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.yaml", `
sources:
  - ref: github:org/repo#v1.2.0
    dest: vendor/repo
  - ref: gitlab:group/project
    options:
      depth: 1
      shallow: true
options:
  output: ./output
  continue_on_error: true
`)

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 2)
	assert.Equal(t, "github:org/repo#v1.2.0", cfg.Sources[0].Ref)
	assert.Equal(t, "vendor/repo", cfg.Sources[0].Dest)
	assert.Equal(t, "gitlab:group/project", cfg.Sources[1].Ref)
	assert.Equal(t, map[string]any{"depth": 1, "shallow": true}, cfg.Sources[1].Options)
	assert.True(t, cfg.Options.ContinueOnError)
	assert.Equal(t, "./output", cfg.Options.Output)
	assert.Zero(t, cfg.Options.Concurrency)
}

func TestLoader_Load_ValidJSON(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.json", `{
		"sources": [
			{"ref": "github:org/a"},
			{"ref": "direct:https://example.com/b.zip", "options": {"strip": 0}}
		],
		"options": {
			"output": "./output",
			"concurrency": 10
		}
	}`)

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 2)
	assert.Equal(t, "direct:https://example.com/b.zip", cfg.Sources[1].Ref)
	assert.Equal(t, float64(0), cfg.Sources[1].Options["strip"])
	assert.Equal(t, 10, cfg.Options.Concurrency)
}

func TestLoader_Load_ValidTOML(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.toml", `
[options]
continue_on_error = true
output = "deps"

[[sources]]
ref = "github:org/a#main"
dest = "a"

[[sources]]
ref = "bitbucket:team/b"

[sources.options]
extract = false
headers = { Authorization = "Bearer x" }
`)

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 2)
	assert.Equal(t, "github:org/a#main", cfg.Sources[0].Ref)
	assert.Equal(t, "a", cfg.Sources[0].Dest)
	assert.Equal(t, "bitbucket:team/b", cfg.Sources[1].Ref)
	assert.Equal(t, false, cfg.Sources[1].Options["extract"])
	assert.Equal(t, map[string]any{"Authorization": "Bearer x"}, cfg.Sources[1].Options["headers"])
	assert.True(t, cfg.Options.ContinueOnError)
	assert.Equal(t, "deps", cfg.Options.Output)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.yaml", `
sources:
  - ref: github:org/repo
invalid_yaml: [unclosed
`)

	cfg, err := loader.Load(manifestPath)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoader_Load_InvalidJSON(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.json", `{invalid json content}`)

	cfg, err := loader.Load(manifestPath)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.toml", `[[sources]
ref = `)

	cfg, err := loader.Load(manifestPath)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoader_Load_UnsupportedExtension(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.txt", "content")

	cfg, err := loader.Load(manifestPath)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrUnsupportedExt)
}

func TestLoader_Load_YMLExtension(t *testing.T) {
	loader := NewLoader()

	manifestPath := writeManifest(t, "test.yml", `
sources:
  - ref: a/b
`)

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 1)
}

func TestLoader_Load_ReadError(t *testing.T) {
	loader := NewLoader()

	manifestPath := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.Mkdir(manifestPath, 0755))

	cfg, err := loader.Load(manifestPath)

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read manifest")
}

func TestLoader_Load_MemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/sources.yaml", []byte("sources:\n  - ref: a/b\n"), 0644))

	cfg, err := NewLoaderWithFs(fs).Load("/work/sources.yaml")

	require.NoError(t, err)
	assert.Equal(t, "a/b", cfg.Sources[0].Ref)

	_, err = NewLoaderWithFs(fs).Load("/work/missing.yaml")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFromBytes_CaseInsensitiveExt(t *testing.T) {
	loader := NewLoader()

	for _, ext := range []string{".YAML", ".Yml", ".JSON", ".TOML"} {
		t.Run(ext, func(t *testing.T) {
			var data string
			switch ext {
			case ".JSON":
				data = `{"sources": [{"ref": "a/b"}]}`
			case ".TOML":
				data = "[[sources]]\nref = \"a/b\"\n"
			default:
				data = "sources:\n  - ref: a/b\n"
			}

			cfg, err := loader.LoadFromBytes([]byte(data), ext)
			require.NoError(t, err)
			assert.Len(t, cfg.Sources, 1)
		})
	}
}

func TestLoadFromBytes_Validation(t *testing.T) {
	loader := NewLoader()

	t.Run("no sources", func(t *testing.T) {
		_, err := loader.LoadFromBytes([]byte("options:\n  output: x\n"), ".yaml")
		assert.ErrorIs(t, err, ErrNoSources)
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, err := loader.LoadFromBytes([]byte("sources:\n  - ref: nope\n"), ".yaml")
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
		assert.Contains(t, err.Error(), "source 0")
	})

	t.Run("duplicate destination", func(t *testing.T) {
		_, err := loader.LoadFromBytes([]byte(`
sources:
  - ref: github:a/lib
  - ref: gitlab:b/lib
`), ".yaml")
		assert.ErrorIs(t, err, ErrDuplicateDest)
	})
}

func TestOptions_withDefaults(t *testing.T) {
	t.Run("empty options get defaults", func(t *testing.T) {
		var opts Options
		opts.withDefaults()

		assert.Equal(t, ".", opts.Output)
		assert.Zero(t, opts.Concurrency)
	})

	t.Run("custom options preserved", func(t *testing.T) {
		opts := Options{Output: "deps", Concurrency: 2, ContinueOnError: true}
		opts.withDefaults()

		assert.Equal(t, "deps", opts.Output)
		assert.Equal(t, 2, opts.Concurrency)
		assert.True(t, opts.ContinueOnError)
	})

	t.Run("negative concurrency cleared", func(t *testing.T) {
		opts := Options{Concurrency: -1}
		opts.withDefaults()
		assert.Zero(t, opts.Concurrency)
	})
}

func TestLoader_LoadReader(t *testing.T) {
	cfg, err := NewLoader().LoadReader(strings.NewReader("sources:\n  - ref: gitlab:g/p#dev\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "gitlab:g/p#dev", cfg.Sources[0].Ref)

	_, err = NewLoader().LoadReader(iotest.ErrReader(errors.New("closed pipe")), ".yaml")
	assert.ErrorContains(t, err, "closed pipe")
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".json", ".toml", ".yaml", ".yml"}, Extensions())
}

func TestErrors(t *testing.T) {
	errs := []error{ErrNoSources, ErrEmptyRef, ErrDuplicateDest, ErrInvalidFormat, ErrFileNotFound, ErrUnsupportedExt}
	for _, err := range errs {
		assert.NotEmpty(t, err.Error())
	}
}
