package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/utils"
)

// Client is the go-git entry point Cloner depends on. Tests substitute it
// to observe the computed clone options.
type Client interface {
	PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error)
}

var _ Client = (*RealClient)(nil)

// RealClient implements Client using go-git
type RealClient struct{}

// NewClient creates a new RealClient
func NewClient() *RealClient {
	return &RealClient{}
}

// PlainCloneContext calls git.PlainCloneContext
func (c *RealClient) PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error) {
	return git.PlainCloneContext(ctx, path, isBare, o)
}

var _ domain.Cloner = (*Cloner)(nil)

// Cloner is the clone capability. It clones into a working tree and leaves
// the requested revision checked out.
type Cloner struct {
	client Client
	logger *utils.Logger
}

// ClonerOptions contains options for creating a Cloner
type ClonerOptions struct {
	Client Client
	Logger *utils.Logger
}

// NewCloner creates a Cloner. A nil Client means go-git.
func NewCloner(opts ClonerOptions) *Cloner {
	client := opts.Client
	if client == nil {
		client = NewClient()
	}
	return &Cloner{
		client: client,
		logger: opts.Logger.OrNop().WithComponent("git"),
	}
}

// Clone clones url into dest. Shallow clones fetch only the checkout branch
// at depth 1 (or opts.Depth); full clones fetch everything and then check
// out opts.Checkout, which may be a branch, tag or commit.
func (c *Cloner) Clone(ctx context.Context, url, dest string, opts domain.CloneOptions) error {
	remote := opts.RemoteName
	if remote == "" {
		remote = git.DefaultRemoteName
	}

	co := &git.CloneOptions{
		URL:        url,
		RemoteName: remote,
		Depth:      opts.Depth,
		Tags:       git.AllTags,
	}
	if opts.Shallow && co.Depth == 0 {
		co.Depth = 1
	}
	if opts.RecurseSubmodules {
		co.RecurseSubmodules = git.DefaultSubmoduleRecursionDepth
	}

	singleBranch := opts.Shallow || opts.SingleBranch
	if singleBranch && opts.Checkout != "" {
		co.ReferenceName = plumbing.NewBranchReferenceName(opts.Checkout)
		co.SingleBranch = true
		co.Tags = git.NoTags
	}

	c.logger.Debug().
		Str("url", utils.RedactURL(url)).
		Str("checkout", opts.Checkout).
		Int("depth", co.Depth).
		Bool("single_branch", co.SingleBranch).
		Msg("Cloning repository")

	repo, err := c.client.PlainCloneContext(ctx, dest, false, co)
	if err != nil {
		return fmt.Errorf("git clone %s: %w", utils.RedactURL(url), err)
	}

	if singleBranch || opts.Checkout == "" {
		return nil
	}

	return c.checkout(repo, opts.Checkout, remote)
}

func (c *Cloner) checkout(repo *git.Repository, rev, remote string) error {
	head, err := repo.Head()
	if err == nil && head.Name().IsBranch() && head.Name().Short() == rev {
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(remote, rev), true)
	if err == nil {
		c.logger.Debug().Str("branch", rev).Msg("Checking out remote branch")
		return wt.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(rev),
			Hash:   remoteRef.Hash(),
			Create: true,
			Force:  true,
		})
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("lookup %s/%s: %w", remote, rev, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return fmt.Errorf("resolve revision %q: %w", rev, err)
	}

	c.logger.Debug().Str("revision", rev).Str("hash", hash.String()).Msg("Checking out revision")
	return wt.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	})
}
