package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSentinelErrors verifies sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check string
	}{
		{"ErrInvalidReference", ErrInvalidReference, "invalid repository reference"},
		{"ErrCloneFailed", ErrCloneFailed, "clone failed"},
		{"ErrDownloadFailed", ErrDownloadFailed, "download failed"},
		{"ErrCleanupFailed", ErrCleanupFailed, "cleanup failed"},
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrUnauthorized", ErrUnauthorized, "authentication required"},
		{"ErrUnsupportedArchive", ErrUnsupportedArchive, "unsupported archive"},
		{"ErrUnsupportedScheme", ErrUnsupportedScheme, "unsupported URL scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.check)
		})
	}
}

// TestFetchError tests FetchError methods
func TestFetchError(t *testing.T) {
	t.Run("Error prefers URL over ref", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		err := NewFetchError(ErrCloneFailed, "github:a/b", "https://github.com/a/b.git", baseErr)

		assert.Contains(t, err.Error(), "clone failed")
		assert.Contains(t, err.Error(), "https://github.com/a/b.git")
		assert.Contains(t, err.Error(), "connection refused")
		assert.NotContains(t, err.Error(), "github:a/b")
	})

	t.Run("Error without URL uses ref", func(t *testing.T) {
		err := NewFetchError(ErrInvalidReference, "nope", "", nil)

		assert.Equal(t, "invalid repository reference for nope", err.Error())
	})

	t.Run("Is matches kind and cause", func(t *testing.T) {
		cause := NewStatusError("https://example.com/a.zip", 404)
		err := fmt.Errorf("wrapped: %w", NewFetchError(ErrDownloadFailed, "", cause.URL, cause))

		assert.ErrorIs(t, err, ErrDownloadFailed)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrCloneFailed)
	})

	t.Run("As extracts the cause", func(t *testing.T) {
		cause := NewStatusError("https://example.com/a.zip", 500)
		err := NewFetchError(ErrDownloadFailed, "", cause.URL, cause)

		var statusErr *StatusError
		assert.True(t, errors.As(err, &statusErr))
		assert.Equal(t, 500, statusErr.StatusCode)
	})
}

func TestStatusError_Unwrap(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
		{500, nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := NewStatusError("https://example.com", tt.code)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.code))
			if tt.want == nil {
				assert.Nil(t, err.Unwrap())
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
