// Package git turns parsed repository references into files on disk.
//
// A Strategy is chosen once from Settings.Mode:
//   - CloneStrategy: clones with go-git, then removes the .git directory
//   - ArchiveStrategy: downloads the provider archive and extracts it
//
// Options are merged in layers (strategy baseline, construction options,
// call options) and decoded into domain.CloneOptions or
// domain.DownloadOptions.
//
// Usage:
//
//	strategy, err := git.NewStrategy(git.Settings{Mode: git.ModeDownload}, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := strategy.Fetch(ctx, descriptor, "out", nil)
package git
