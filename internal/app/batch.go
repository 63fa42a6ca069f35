package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantmind-br/gitdown/internal/manifest"
	"github.com/quantmind-br/gitdown/internal/strategies/git"
	"github.com/quantmind-br/gitdown/internal/utils"
)

// SourceResult is the outcome of one manifest source
type SourceResult struct {
	Source   manifest.Source
	Dest     string
	Result   *git.FetchResult
	Error    error
	Duration time.Duration
}

// FetchAll fetches every source of the manifest on the worker pool. Results
// are index-aligned with manifestCfg.Sources. Unless continue_on_error is
// set, the first failure cancels the sources that have not started yet.
func (f *Fetcher) FetchAll(ctx context.Context, manifestCfg *manifest.Config) ([]SourceResult, error) {
	startTime := time.Now()
	sources := manifestCfg.Sources
	total := len(sources)
	continueOnError := manifestCfg.Options.ContinueOnError

	f.logger.Info().
		Int("sources", total).
		Bool("continue_on_error", continueOnError).
		Str("output", manifestCfg.Options.Output).
		Msg("Starting batch fetch")

	results := make([]SourceResult, total)
	if total == 0 {
		return results, nil
	}

	workers := manifestCfg.Options.Concurrency
	if workers <= 0 {
		workers = f.config.Concurrency.Workers
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var firstError error
	var firstErrorMu sync.Mutex

	indexes := make([]int, total)
	for i := range indexes {
		indexes[i] = i
	}

	errs := utils.ParallelForEach(runCtx, indexes, workers, func(ctx context.Context, idx int) error {
		sourceStart := time.Now()
		source := sources[idx]

		dest, err := source.Destination(manifestCfg.Options.Output)
		var result *git.FetchResult
		if err == nil {
			result, err = f.FetchWithOptions(ctx, source.Ref, dest, source.Options)
		}

		results[idx] = SourceResult{
			Source:   source,
			Dest:     dest,
			Result:   result,
			Error:    err,
			Duration: time.Since(sourceStart),
		}

		if err != nil {
			f.logger.Error().
				Err(err).
				Int("source_idx", idx).
				Str("ref", source.Ref).
				Msg("Source fetch failed")

			firstErrorMu.Lock()
			if firstError == nil {
				firstError = fmt.Errorf("source %s failed: %w", source.Ref, err)
			}
			firstErrorMu.Unlock()

			if !continueOnError {
				cancel()
			}
		}
		return err
	})

	// Sources skipped after cancellation never ran
	for idx, err := range errs {
		if err != nil && results[idx].Error == nil {
			results[idx] = SourceResult{Source: sources[idx], Error: err}
		}
	}

	if ctx.Err() != nil {
		f.logger.Warn().Msg("Batch fetch cancelled")
		return results, ctx.Err()
	}

	failed := len(utils.CollectErrors(errs))

	f.logger.Info().
		Dur("total_duration", time.Since(startTime)).
		Int("total", total).
		Int("success", total-failed).
		Int("failed", failed).
		Msg("Batch fetch completed")

	if firstError == nil {
		return results, nil
	}
	if !continueOnError {
		return results, firstError
	}
	return results, fmt.Errorf("batch completed with %d/%d failures: %w", failed, total, firstError)
}
