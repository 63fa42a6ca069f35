package git

import (
	"context"
	"path/filepath"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/reference"
	"github.com/quantmind-br/gitdown/internal/utils"
)

var _ Strategy = (*CloneStrategy)(nil)

// CloneStrategy materialises a reference with the clone capability and then
// removes the version control metadata from the working tree.
type CloneStrategy struct {
	settings Settings
	cloner   domain.Cloner
	remover  domain.Remover
	logger   *utils.Logger
}

type CloneStrategyOptions struct {
	Settings Settings
	Cloner   domain.Cloner
	Remover  domain.Remover
	Logger   *utils.Logger
}

func NewCloneStrategy(opts CloneStrategyOptions) *CloneStrategy {
	return &CloneStrategy{
		settings: opts.Settings,
		cloner:   opts.Cloner,
		remover:  opts.Remover,
		logger:   opts.Logger.OrNop(),
	}
}

func (s *CloneStrategy) Name() string {
	return string(ModeClone)
}

func (s *CloneStrategy) Fetch(ctx context.Context, d reference.Descriptor, dest string, callOpts map[string]any) (*FetchResult, error) {
	ref := d.String()

	url, err := BuildURL(d, ModeClone, s.settings.UseSSH)
	if err != nil {
		return nil, err
	}

	baseline := map[string]any{
		"checkout": d.Branch,
		"shallow":  d.Branch == reference.DefaultBranch,
	}
	merged, err := MergeOptions(baseline, s.settings.Options, callOpts)
	if err != nil {
		return nil, domain.NewFetchError(domain.ErrCloneFailed, ref, url, err)
	}
	opts, err := decodeOptions[domain.CloneOptions](merged, s.logger)
	if err != nil {
		return nil, domain.NewFetchError(domain.ErrCloneFailed, ref, url, err)
	}

	s.logger.Info().
		Str("url", utils.RedactURL(url)).
		Str("checkout", opts.Checkout).
		Bool("shallow", opts.Shallow).
		Str("dest", dest).
		Msg("Cloning repository")

	if err := s.cloner.Clone(ctx, url, dest, opts); err != nil {
		return nil, domain.NewFetchError(domain.ErrCloneFailed, ref, url, err)
	}

	metadata := filepath.Join(dest, MetadataDir)
	if err := s.remover.RemoveAll(metadata); err != nil {
		if s.settings.StrictCleanup {
			return nil, domain.NewFetchError(domain.ErrCleanupFailed, ref, url, err)
		}
		s.logger.Warn().Err(err).Str("path", metadata).Msg("Failed to remove repository metadata")
	}

	branch := opts.Checkout
	if branch == "" {
		branch = d.Branch
	}

	return &FetchResult{
		LocalPath: dest,
		URL:       url,
		Branch:    branch,
		Method:    s.Name(),
	}, nil
}
