package git

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/utils"
)

func TestMergeOptions(t *testing.T) {
	t.Run("later layers win", func(t *testing.T) {
		merged, err := MergeOptions(
			map[string]any{"checkout": "master", "shallow": true},
			map[string]any{"shallow": false, "depth": 3},
			map[string]any{"checkout": "v1"},
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"checkout": "v1", "shallow": false, "depth": 3}, merged)
	})

	t.Run("keys match case-insensitively", func(t *testing.T) {
		merged, err := MergeOptions(
			map[string]any{"checkout": "master", "shallow": true},
			map[string]any{"Checkout": "dev", "SHALLOW": false},
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"checkout": "dev", "shallow": false}, merged)

		opts, err := decodeOptions[domain.CloneOptions](merged, utils.NewNopLogger())
		require.NoError(t, err)
		assert.Equal(t, "dev", opts.Checkout)
		assert.False(t, opts.Shallow)
	})

	t.Run("nil layers are skipped", func(t *testing.T) {
		merged, err := MergeOptions(map[string]any{"strip": 1}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"strip": 1}, merged)
	})

	t.Run("headers merge per key", func(t *testing.T) {
		merged, err := MergeOptions(
			map[string]any{"headers": map[string]string{"accept": "application/zip"}},
			map[string]any{"headers": map[string]any{"Accept": "application/octet-stream", "X-Token": "a"}},
			map[string]any{"Headers": map[string]any{"x-token": "b", "User-Agent": "gitdown"}},
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"accept":     "application/octet-stream",
			"x-token":    "b",
			"user-agent": "gitdown",
		}, merged["headers"])
	})

	t.Run("layers without headers leave them out", func(t *testing.T) {
		merged, err := MergeOptions(map[string]any{"extract": true})
		require.NoError(t, err)
		assert.NotContains(t, merged, "headers")
	})

	t.Run("invalid headers", func(t *testing.T) {
		_, err := MergeOptions(map[string]any{"headers": 42})
		assert.Error(t, err)
	})

	t.Run("does not modify layers", func(t *testing.T) {
		base := map[string]any{"shallow": true}
		_, err := MergeOptions(base, map[string]any{"shallow": false})
		require.NoError(t, err)
		assert.Equal(t, true, base["shallow"])
	})
}

func TestDecodeOptions_Download(t *testing.T) {
	logger := utils.NewNopLogger()

	tests := []struct {
		name     string
		input    map[string]any
		expected domain.DownloadOptions
	}{
		{
			name: "typed values",
			input: map[string]any{
				"extract":   true,
				"strip":     1,
				"file_mode": os.FileMode(0o666),
				"headers":   map[string]any{"accept": "application/zip"},
			},
			expected: domain.DownloadOptions{
				Extract:  true,
				Strip:    1,
				FileMode: 0o666,
				Headers:  map[string]string{"accept": "application/zip"},
			},
		},
		{
			name:     "strings from flags",
			input:    map[string]any{"extract": "false", "strip": "2", "file_mode": "644", "filename": "a.zip"},
			expected: domain.DownloadOptions{Extract: false, Strip: 2, FileMode: 0o644, Filename: "a.zip"},
		},
		{
			name:     "prefixed octal",
			input:    map[string]any{"file_mode": "0o755"},
			expected: domain.DownloadOptions{FileMode: 0o755},
		},
		{
			name:     "leading zero octal",
			input:    map[string]any{"file_mode": "0600"},
			expected: domain.DownloadOptions{FileMode: 0o600},
		},
		{
			name:     "integer mode",
			input:    map[string]any{"file_mode": 420},
			expected: domain.DownloadOptions{FileMode: 0o644},
		},
		{
			name:     "unknown keys ignored",
			input:    map[string]any{"strip": 0, "bogus": "x"},
			expected: domain.DownloadOptions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeOptions[domain.DownloadOptions](tt.input, logger)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeOptions_Clone(t *testing.T) {
	got, err := decodeOptions[domain.CloneOptions](map[string]any{
		"checkout":           "dev",
		"shallow":            "true",
		"depth":              "5",
		"single_branch":      1,
		"recurse_submodules": true,
		"remote_name":        "upstream",
	}, utils.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, domain.CloneOptions{
		Checkout:          "dev",
		Shallow:           true,
		Depth:             5,
		SingleBranch:      true,
		RecurseSubmodules: true,
		RemoteName:        "upstream",
	}, got)
}

func TestDecodeOptions_Errors(t *testing.T) {
	logger := utils.NewNopLogger()

	_, err := decodeOptions[domain.DownloadOptions](map[string]any{"file_mode": "rw-r--r--"}, logger)
	assert.Error(t, err)

	_, err = decodeOptions[domain.CloneOptions](map[string]any{"depth": "deep"}, logger)
	assert.Error(t, err)
}
