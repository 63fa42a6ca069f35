package git

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/reference"
	"github.com/quantmind-br/gitdown/internal/utils"
)

// DefaultFileMode is applied to extracted files unless overridden
const DefaultFileMode os.FileMode = 0o666

var _ Strategy = (*ArchiveStrategy)(nil)

// ArchiveStrategy materialises a reference by downloading and extracting
// the provider's archive of the branch.
type ArchiveStrategy struct {
	settings   Settings
	downloader domain.Downloader
	logger     *utils.Logger
}

type ArchiveStrategyOptions struct {
	Settings   Settings
	Downloader domain.Downloader
	Logger     *utils.Logger
}

func NewArchiveStrategy(opts ArchiveStrategyOptions) *ArchiveStrategy {
	return &ArchiveStrategy{
		settings:   opts.Settings,
		downloader: opts.Downloader,
		logger:     opts.Logger.OrNop(),
	}
}

func (s *ArchiveStrategy) Name() string {
	return string(ModeDownload)
}

func (s *ArchiveStrategy) Fetch(ctx context.Context, d reference.Descriptor, dest string, callOpts map[string]any) (*FetchResult, error) {
	ref := d.String()

	archiveURL, err := BuildURL(d, ModeDownload, s.settings.UseSSH)
	if err != nil {
		return nil, err
	}
	if !utils.IsHTTPURL(archiveURL) {
		return nil, domain.NewFetchError(domain.ErrDownloadFailed, ref, archiveURL,
			fmt.Errorf("%w: %s", domain.ErrUnsupportedScheme, archiveURL))
	}

	baseline := map[string]any{
		"extract":   true,
		"strip":     1,
		"file_mode": DefaultFileMode,
		headersKey: map[string]string{"accept": "application/zip"},
	}
	merged, err := MergeOptions(baseline, s.settings.Options, callOpts)
	if err != nil {
		return nil, domain.NewFetchError(domain.ErrDownloadFailed, ref, archiveURL, err)
	}
	opts, err := decodeOptions[domain.DownloadOptions](merged, s.logger)
	if err != nil {
		return nil, domain.NewFetchError(domain.ErrDownloadFailed, ref, archiveURL, err)
	}

	s.logger.Info().
		Str("url", utils.RedactURL(archiveURL)).
		Bool("extract", opts.Extract).
		Int("strip", opts.Strip).
		Str("dest", dest).
		Msg("Downloading archive")

	if err := s.downloader.Download(ctx, archiveURL, dest, opts); err != nil {
		return nil, domain.NewFetchError(domain.ErrDownloadFailed, ref, archiveURL, err)
	}

	return &FetchResult{
		LocalPath: dest,
		URL:       archiveURL,
		Branch:    d.Branch,
		Method:    s.Name(),
	}, nil
}
