package reference

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/gitdown/internal/domain"
)

const directPrefix = "direct:"

// hostedProviders are tried as a leading "<provider>:" token, in order
var hostedProviders = []Kind{KindGitHub, KindGitLab, KindBitbucket}

// Parser turns shorthand strings into descriptors
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses shorthand with a zero Parser
func Parse(shorthand string) (Descriptor, error) {
	return NewParser().Parse(shorthand)
}

// Parse tries the direct form first and the hosted form second. The first
// form that matches wins.
func (p *Parser) Parse(shorthand string) (Descriptor, error) {
	if d, ok := parseDirect(shorthand); ok {
		return d, nil
	}
	if d, ok := parseHosted(shorthand); ok {
		return d, nil
	}
	return Descriptor{}, invalid(shorthand)
}

func invalid(shorthand string) error {
	return fmt.Errorf("%w: %q", domain.ErrInvalidReference, shorthand)
}

// splitBranch splits "<body>#<branch>" at the first '#'. A trailing '#'
// with nothing after it does not match.
func splitBranch(s string) (body, branch string, ok bool) {
	body, branch, found := strings.Cut(s, "#")
	if !found {
		return body, DefaultBranch, true
	}
	if branch == "" {
		return "", "", false
	}
	return body, branch, true
}

func parseDirect(s string) (Descriptor, bool) {
	rest, found := strings.CutPrefix(s, directPrefix)
	if !found {
		return Descriptor{}, false
	}

	url, branch, ok := splitBranch(rest)
	if !ok || url == "" {
		return Descriptor{}, false
	}

	return Descriptor{
		Kind:   KindDirect,
		URL:    url,
		Branch: branch,
	}, true
}

func parseHosted(s string) (Descriptor, bool) {
	body, branch, ok := splitBranch(s)
	if !ok || body == "" {
		return Descriptor{}, false
	}

	kind := KindGitHub
	for _, provider := range hostedProviders {
		if rest, found := strings.CutPrefix(body, string(provider)+":"); found {
			kind = provider
			body = rest
			break
		}
	}

	slash := strings.LastIndex(body, "/")
	if slash < 0 {
		return Descriptor{}, false
	}

	var origin string
	if colon := strings.LastIndex(body[:slash], ":"); colon >= 0 {
		origin = body[:colon]
		if origin == "" {
			return Descriptor{}, false
		}
		body = body[colon+1:]
		slash -= colon + 1
	}

	owner, name := body[:slash], body[slash+1:]
	if name == "" || !validOwner(owner) {
		return Descriptor{}, false
	}

	if origin == "" {
		origin = DefaultOrigin(kind)
	}

	return Descriptor{
		Kind:   kind,
		Origin: origin,
		Owner:  owner,
		Name:   name,
		Branch: branch,
	}, true
}

// validOwner rejects empty owners and owners with empty path segments
// ("a//b", "/a", "a/").
func validOwner(owner string) bool {
	if owner == "" {
		return false
	}
	for _, seg := range strings.Split(owner, "/") {
		if seg == "" {
			return false
		}
	}
	return true
}
