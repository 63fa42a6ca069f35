package git

import (
	"fmt"
	"strings"
)

// Mode selects how a repository is materialised
type Mode string

const (
	ModeClone    Mode = "clone"
	ModeDownload Mode = "download"
)

// MetadataDir is the version control directory removed after a clone
const MetadataDir = ".git"

// ParseMode converts a configuration value into a Mode. An empty value
// selects ModeClone.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeClone:
		return ModeClone, nil
	case ModeDownload:
		return ModeDownload, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q (expected clone or download)", s)
	}
}

// Settings is the construction-time configuration of a strategy. It is not
// modified after the strategy is built.
type Settings struct {
	Mode          Mode
	UseSSH        bool
	Options       map[string]any
	StrictCleanup bool
}

// FetchResult contains the result of a repository fetch operation
type FetchResult struct {
	LocalPath string // Destination the repository was materialised into
	URL       string // Retrieval URL handed to the capability
	Branch    string // Branch or revision requested
	Method    string // "clone" or "download"
}
