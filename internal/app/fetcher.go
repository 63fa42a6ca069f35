package app

import (
	"context"
	"fmt"
	"time"

	"github.com/quantmind-br/gitdown/internal/config"
	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/fetcher"
	"github.com/quantmind-br/gitdown/internal/reference"
	"github.com/quantmind-br/gitdown/internal/strategies/git"
	"github.com/quantmind-br/gitdown/internal/utils"
)

// StrategyFactory builds the strategy a Fetcher dispatches to
type StrategyFactory func(git.Settings, *git.StrategyDependencies) (git.Strategy, error)

// Fetcher resolves shorthand references and materialises them on disk
type Fetcher struct {
	config   *config.Config
	settings git.Settings
	parser   *reference.Parser
	strategy git.Strategy
	logger   *utils.Logger
}

// FetcherOptions contains options for creating a Fetcher
type FetcherOptions struct {
	Config          *config.Config
	Verbose         bool
	Logger          *utils.Logger
	Dependencies    *git.StrategyDependencies
	StrategyFactory StrategyFactory
}

// NewFetcher creates a Fetcher. The strategy is selected once from the
// configured mode and reused for every fetch.
func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	mode, err := git.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	settings := git.Settings{
		Mode:          mode,
		UseSSH:        cfg.SSH,
		Options:       cfg.Options,
		StrictCleanup: cfg.StrictCleanup,
	}

	deps := git.StrategyDependencies{}
	if opts.Dependencies != nil {
		deps = *opts.Dependencies
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	if mode == git.ModeDownload && deps.Downloader == nil {
		deps.Downloader = fetcher.NewDownloader(fetcher.DownloaderOptions{
			Timeout: cfg.HTTP.Timeout,
			Logger:  logger,
		})
	}

	factory := opts.StrategyFactory
	if factory == nil {
		factory = git.NewStrategy
	}

	strategy, err := factory(settings, &deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create strategy: %w", err)
	}

	return &Fetcher{
		config:   cfg,
		settings: settings,
		parser:   reference.NewParser(),
		strategy: strategy,
		logger:   logger,
	}, nil
}

// StrategyName returns the name of the selected strategy
func (f *Fetcher) StrategyName() string {
	return f.strategy.Name()
}

// Fetch materialises shorthand into dest
func (f *Fetcher) Fetch(ctx context.Context, shorthand, dest string) (*git.FetchResult, error) {
	return f.FetchWithOptions(ctx, shorthand, dest, nil)
}

// FetchWithOptions materialises shorthand into dest. callOpts take
// precedence over the configured options. An empty dest is replaced with
// the repository name.
func (f *Fetcher) FetchWithOptions(ctx context.Context, shorthand, dest string, callOpts map[string]any) (*git.FetchResult, error) {
	startTime := time.Now()

	d, err := f.parser.Parse(shorthand)
	if err != nil {
		return nil, domain.NewFetchError(domain.ErrInvalidReference, shorthand, "", err)
	}
	if dest == "" {
		dest = d.DefaultDirName()
	}
	dest = utils.ExpandPath(dest)

	logger := f.logger.WithRef(shorthand).WithDest(dest)
	logger.Debug().
		Str("kind", string(d.Kind)).
		Str("branch", d.Branch).
		Str("strategy", f.strategy.Name()).
		Msg("Parsed reference")

	result, err := f.strategy.Fetch(ctx, d, dest, callOpts)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("Fetch cancelled")
		}
		return nil, err
	}

	logger.Info().
		Str("url", result.URL).
		Str("method", result.Method).
		Dur("duration", time.Since(startTime)).
		Msg("Fetch completed")

	return result, nil
}

// Resolve returns the URL a fetch of shorthand would retrieve, without
// touching the network or the filesystem
func (f *Fetcher) Resolve(shorthand string) (string, error) {
	d, err := f.parser.Parse(shorthand)
	if err != nil {
		return "", domain.NewFetchError(domain.ErrInvalidReference, shorthand, "", err)
	}
	return git.BuildURL(d, f.settings.Mode, f.settings.UseSSH)
}
