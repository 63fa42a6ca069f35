package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setVersion(t *testing.T, v, built, commit string) {
	t.Helper()
	origV, origB, origC := Version, BuildTime, Commit
	t.Cleanup(func() { Version, BuildTime, Commit = origV, origB, origC })
	Version, BuildTime, Commit = v, built, commit
}

func setBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGet_LinkerValues(t *testing.T) {
	setVersion(t, "1.2.3", "2026-01-05T00:00:00Z", "deadbeef")
	setBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "cafebabe"}},
	})

	info := Get()
	require.Equal(t, "1.2.3", info.Version)
	require.Equal(t, "2026-01-05T00:00:00Z", info.BuildTime)
	require.Equal(t, "deadbeef", info.Commit)
	require.Equal(t, runtime.Version(), info.GoVersion)
	require.Equal(t, runtime.GOOS, info.OS)
	require.Equal(t, runtime.GOARCH, info.Arch)

	assert.Equal(t, "1.2.3", Short())
	assert.Contains(t, Full(), "gitdown 1.2.3")
	assert.Contains(t, info.String(), "gitdown 1.2.3 (commit: deadbeef, built: 2026-01-05T00:00:00Z")
}

func TestGet_BuildInfoFallback(t *testing.T) {
	setVersion(t, "dev", "unknown", "unknown")
	setBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.5.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123abcd"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
			{Key: "GOOS", Value: "linux"},
		},
	})

	info := Get()
	assert.Equal(t, "v0.5.0", info.Version)
	assert.Equal(t, "0123abcd", info.Commit)
	assert.Equal(t, "2026-03-01T10:00:00Z", info.BuildTime)
}

func TestGet_DevelBuild(t *testing.T) {
	setVersion(t, "dev", "unknown", "unknown")
	setBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	assert.Equal(t, "dev", Short())

	setBuildInfo(t, nil)
	assert.Equal(t, "dev", Short())
}

func TestUserAgent(t *testing.T) {
	setVersion(t, "0.4.0", "unknown", "unknown")

	assert.Equal(t, "gitdown/0.4.0 ("+runtime.GOOS+"/"+runtime.GOARCH+")", UserAgent())
}
