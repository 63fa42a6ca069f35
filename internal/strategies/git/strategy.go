package git

import (
	"fmt"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/fetcher"
	gitclient "github.com/quantmind-br/gitdown/internal/git"
	"github.com/quantmind-br/gitdown/internal/utils"
)

// StrategyDependencies are the capabilities a strategy dispatches to. Nil
// fields are filled with the go-git cloner, the HTTP downloader and an
// OS filesystem remover.
type StrategyDependencies struct {
	Cloner     domain.Cloner
	Downloader domain.Downloader
	Remover    domain.Remover
	Logger     *utils.Logger
}

// NewStrategy selects the clone or download strategy for settings.Mode.
// The choice is fixed for the lifetime of the returned Strategy.
func NewStrategy(settings Settings, deps *StrategyDependencies) (Strategy, error) {
	if deps == nil {
		deps = &StrategyDependencies{}
	}
	logger := deps.Logger.OrNop()

	mode := settings.Mode
	if mode == "" {
		mode = ModeClone
	}

	switch mode {
	case ModeClone:
		cloner := deps.Cloner
		if cloner == nil {
			cloner = gitclient.NewCloner(gitclient.ClonerOptions{Logger: logger})
		}
		remover := deps.Remover
		if remover == nil {
			remover = utils.NewFSRemover(nil)
		}
		return NewCloneStrategy(CloneStrategyOptions{
			Settings: settings,
			Cloner:   cloner,
			Remover:  remover,
			Logger:   logger.WithComponent("clone"),
		}), nil
	case ModeDownload:
		downloader := deps.Downloader
		if downloader == nil {
			downloader = fetcher.NewDownloader(fetcher.DownloaderOptions{Logger: logger})
		}
		return NewArchiveStrategy(ArchiveStrategyOptions{
			Settings:   settings,
			Downloader: downloader,
			Logger:     logger.WithComponent("download"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", settings.Mode)
	}
}
