package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNoSources indicates the manifest has no sources defined
	ErrNoSources = errors.New("manifest must contain at least one source")

	// ErrEmptyRef indicates a source is missing the required ref field
	ErrEmptyRef = errors.New("source ref cannot be empty")

	// ErrDuplicateDest indicates two sources resolve to the same destination
	ErrDuplicateDest = errors.New("duplicate destination")

	// ErrInvalidFormat indicates the manifest file could not be decoded
	ErrInvalidFormat = errors.New("manifest must be valid YAML, JSON or TOML")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, .json or .toml)")
)
