package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// MaxFilenameLength is the maximum length for a filename
const MaxFilenameLength = 200

// Windows reserved names
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// invalidCharsRegex matches invalid filename characters
var invalidCharsRegex = regexp.MustCompile(`[<>:"|?*\\/]`)

// multipleDashesRegex matches runs of spaces/dashes/underscores
var multipleDashesRegex = regexp.MustCompile(`[-_\s]+`)

// FSRemover deletes paths on an afero filesystem
type FSRemover struct {
	fs afero.Fs
}

// NewFSRemover creates a remover over fs. A nil fs means the OS filesystem.
func NewFSRemover(fs afero.Fs) *FSRemover {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FSRemover{fs: fs}
}

// RemoveAll removes path and any children. A missing path is not an error.
func (r *FSRemover) RemoveAll(path string) error {
	return r.fs.RemoveAll(path)
}

// SanitizeFilename sanitizes a string for use as a filename
func SanitizeFilename(name string) string {
	name = invalidCharsRegex.ReplaceAllString(name, "-")
	name = multipleDashesRegex.ReplaceAllString(name, "-")

	ext := filepath.Ext(name)
	base := strings.Trim(strings.TrimSuffix(name, ext), "- ")
	name = base + ext

	upper := strings.ToUpper(name)
	if windowsReserved[strings.TrimSuffix(upper, filepath.Ext(upper))] {
		name = "_" + name
	}

	if len(name) > MaxFilenameLength {
		ext := filepath.Ext(name)
		name = name[:MaxFilenameLength-len(ext)] + ext
	}

	if name == "" || name == "." || name == ".." {
		name = "download"
	}

	return name
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
