package reference

import (
	"path"
	"strings"
)

// Kind identifies where a reference points
type Kind string

const (
	KindDirect    Kind = "direct"
	KindGitHub    Kind = "github"
	KindGitLab    Kind = "gitlab"
	KindBitbucket Kind = "bitbucket"
)

// DefaultBranch is used when a shorthand carries no #branch fragment
const DefaultBranch = "master"

// defaultOrigins maps hosted providers to their public hosts
var defaultOrigins = map[Kind]string{
	KindGitHub:    "github.com",
	KindGitLab:    "gitlab.com",
	KindBitbucket: "bitbucket.org",
}

// DefaultOrigin returns the public host of a hosted provider
func DefaultOrigin(kind Kind) string {
	return defaultOrigins[kind]
}

// IsHosted reports whether kind is one of the hosted providers
func (k Kind) IsHosted() bool {
	_, ok := defaultOrigins[k]
	return ok
}

// Descriptor is the parsed form of a shorthand. URL is only set for direct
// references; Origin, Owner and Name only for hosted ones.
type Descriptor struct {
	Kind   Kind
	URL    string
	Origin string
	Owner  string
	Name   string
	Branch string
}

// IsDirect reports whether the descriptor names a fully qualified URL
func (d Descriptor) IsDirect() bool {
	return d.Kind == KindDirect
}

// String renders the canonical shorthand for the descriptor
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	b.WriteString(":")
	if d.IsDirect() {
		b.WriteString(d.URL)
	} else {
		if d.Origin != "" && d.Origin != DefaultOrigin(d.Kind) {
			b.WriteString(d.Origin)
			b.WriteString(":")
		}
		b.WriteString(d.Owner)
		b.WriteString("/")
		b.WriteString(d.Name)
	}
	if d.Branch != "" && d.Branch != DefaultBranch {
		b.WriteString("#")
		b.WriteString(d.Branch)
	}
	return b.String()
}

// DefaultDirName returns a directory name suitable for materialising the
// reference when the caller gives no destination.
func (d Descriptor) DefaultDirName() string {
	if !d.IsDirect() {
		return d.Name
	}

	trimmed := d.URL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if i := strings.LastIndex(trimmed, ":"); i >= 0 && !strings.Contains(trimmed[i:], "/") {
		// scp-like git@host:repo
		trimmed = trimmed[i+1:]
	}

	name := path.Base(trimmed)
	for _, ext := range []string{".git", ".zip", ".tar.gz", ".tgz"} {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" || name == "." || name == "/" {
		return "repo"
	}
	return name
}
