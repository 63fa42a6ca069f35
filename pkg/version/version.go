package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Name is the program name used in version strings and the User-Agent
const Name = "gitdown"

// Set with -ldflags "-X github.com/quantmind-br/gitdown/pkg/version.Version=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "unknown"
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get returns the version info. Values not set at link time are taken from
// the module build info when the binary was built with "go install".
func Get() Info {
	info := Info{
		Version:   Version,
		BuildTime: BuildTime,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "unknown":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.BuildTime == "unknown":
			info.BuildTime = s.Value
		}
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s %s/%s)",
		Name, i.Version, i.Commit, i.BuildTime, i.GoVersion, i.OS, i.Arch)
}

// Short returns the bare version
func Short() string {
	return Get().Version
}

// Full returns the version with build details
func Full() string {
	return Get().String()
}

// UserAgent identifies archive downloads, e.g. "gitdown/1.2.3 (linux/amd64)"
func UserAgent() string {
	i := Get()
	return fmt.Sprintf("%s/%s (%s/%s)", Name, i.Version, i.OS, i.Arch)
}
