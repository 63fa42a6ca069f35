package domain

import "os"

// CloneOptions are passed to the clone capability.
type CloneOptions struct {
	Checkout          string `mapstructure:"checkout"`
	Shallow           bool   `mapstructure:"shallow"`
	Depth             int    `mapstructure:"depth"`
	SingleBranch      bool   `mapstructure:"single_branch"`
	RecurseSubmodules bool   `mapstructure:"recurse_submodules"`
	RemoteName        string `mapstructure:"remote_name"`
}

// DownloadOptions are passed to the download-and-extract capability.
type DownloadOptions struct {
	Extract  bool              `mapstructure:"extract"`
	Strip    int               `mapstructure:"strip"`
	FileMode os.FileMode       `mapstructure:"file_mode"`
	Headers  map[string]string `mapstructure:"headers"`
	Filename string            `mapstructure:"filename"`
}
