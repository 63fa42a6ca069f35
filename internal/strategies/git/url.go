package git

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/reference"
)

var schemePattern = regexp.MustCompile(`(?i)^(f|ht)tps?://`)

// BuildURL turns a descriptor into the URL handed to the clone or download
// capability. Direct references are returned verbatim.
func BuildURL(d reference.Descriptor, mode Mode, useSSH bool) (string, error) {
	if d.IsDirect() {
		return d.URL, nil
	}
	if !d.Kind.IsHosted() {
		return "", fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidReference, d.Kind)
	}

	origin := d.Origin
	if origin == "" {
		origin = reference.DefaultOrigin(d.Kind)
	}
	if !schemePattern.MatchString(origin) {
		if useSSH {
			origin = "git@" + origin
		} else {
			origin = "https://" + origin
		}
	}

	sep := "/"
	if strings.HasPrefix(origin, "git@") {
		sep = ":"
	}
	base := origin + sep + d.Owner + "/" + d.Name

	branch := d.Branch
	if branch == "" {
		branch = reference.DefaultBranch
	}

	switch mode {
	case ModeClone:
		return base + ".git", nil
	case ModeDownload:
		switch d.Kind {
		case reference.KindGitLab:
			return base + "/repository/archive.zip?ref=" + branch, nil
		case reference.KindBitbucket:
			return base + "/get/" + branch + ".zip", nil
		default:
			return base + "/archive/" + branch + ".zip", nil
		}
	default:
		return "", fmt.Errorf("unknown fetch mode %q", mode)
	}
}
