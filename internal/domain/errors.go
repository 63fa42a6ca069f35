package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidReference indicates a shorthand matched neither the direct nor the hosted form
	ErrInvalidReference = errors.New("invalid repository reference")

	// ErrCloneFailed indicates the clone capability reported an error
	ErrCloneFailed = errors.New("clone failed")

	// ErrDownloadFailed indicates the download-and-extract capability reported an error
	ErrDownloadFailed = errors.New("download failed")

	// ErrCleanupFailed indicates the version control metadata could not be removed after a clone
	ErrCleanupFailed = errors.New("cleanup failed")

	// ErrNotFound indicates the remote resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the remote rejected the request
	ErrUnauthorized = errors.New("authentication required")

	// ErrUnsupportedArchive indicates the downloaded payload is not a known archive format
	ErrUnsupportedArchive = errors.New("unsupported archive format")

	// ErrUnsupportedScheme indicates a URL scheme the download capability cannot fetch
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// FetchError carries the failure class of a fetch together with its cause.
// errors.Is matches both Kind and anything in the Err chain.
type FetchError struct {
	Kind error
	Ref  string
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	target := e.Ref
	if e.URL != "" {
		target = e.URL
	}
	if e.Err == nil {
		return fmt.Sprintf("%v for %s", e.Kind, target)
	}
	return fmt.Sprintf("%v for %s: %v", e.Kind, target, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewFetchError creates a new FetchError
func NewFetchError(kind error, ref, url string, err error) *FetchError {
	return &FetchError{
		Kind: kind,
		Ref:  ref,
		URL:  url,
		Err:  err,
	}
}

// StatusError reports a non-success HTTP response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// Unwrap maps well known status codes onto sentinel errors
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}

// NewStatusError creates a new StatusError
func NewStatusError(url string, statusCode int) *StatusError {
	return &StatusError{
		URL:        url,
		StatusCode: statusCode,
	}
}
