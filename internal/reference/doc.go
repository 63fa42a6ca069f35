// Package reference parses repository shorthand strings.
//
// Two forms are recognised, tried in order:
//
//	direct:<url>[#<branch>]
//	[<provider>:][<origin>:]<owner>/<name>[#<branch>]
//
// Provider is one of github, gitlab or bitbucket and defaults to github.
// Origin defaults to the provider's public host. The segment after the
// last slash is the repository name; everything between the origin and
// that slash is the owner, which lets GitLab subgroups through
// ("gitlab:group/sub/project"). Branch defaults to master.
//
// Usage:
//
//	d, err := reference.Parse("gitlab:git.example.com:group/project#dev")
//	if errors.Is(err, domain.ErrInvalidReference) {
//	    // neither form matched
//	}
package reference
