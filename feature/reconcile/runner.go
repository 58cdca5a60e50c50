package reconcile

import (
	"context"
	"io"
	"time"

	"feed-sync/feature/feed"

	"go.uber.org/zap"
)

// progressEvery is how many offers pass between progress callbacks.
const progressEvery = 1000

// Runner drives one full synchronization: parse, validate, chunked
// reconciliation, and optionally the missing sweep. The pipeline is strictly
// sequential; the only suspension points are feed reads and store round trips.
type Runner struct {
	repo     Repository
	opts     Options
	logger   *zap.Logger
	progress ProgressFunc
}

// NewRunner creates a runner with the given catalog access and policies.
func NewRunner(repo Repository, opts Options, logger *zap.Logger) *Runner {
	return &Runner{repo: repo, opts: opts, logger: logger}
}

// OnProgress installs an optional progress observer.
func (r *Runner) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

// Run consumes the whole feed from stream and returns the aggregated stats.
// feedSize is used only for progress reporting; pass -1 when unknown.
// Any returned error is fatal; chunks committed before it remain applied.
func (r *Runner) Run(ctx context.Context, stream io.Reader, feedSize int64) (Stats, error) {
	started := time.Now()
	stats := Stats{}

	parser := feed.NewParser(stream, r.logger)
	engine := NewEngine(r.repo, r.opts, &stats, time.Now(), r.logger)

	// External ids observed in the feed; owned by this loop, read only by
	// the sweep once ingestion is complete.
	seen := make(map[string]struct{})

	for {
		offer, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}

		stats.TotalOffers++
		cand, ok := feed.Validate(offer)
		if !ok {
			stats.IgnoredOffers++
			continue
		}
		stats.ParsedOffers++

		if r.opts.MarkMissing {
			seen[cand.ExternalID] = struct{}{}
		}
		if err := engine.Add(ctx, cand); err != nil {
			return stats, err
		}

		if r.progress != nil && stats.TotalOffers%progressEvery == 0 {
			r.progress(StageParse, parser.Pos(), feedSize)
		}
	}

	if err := engine.Flush(ctx); err != nil {
		return stats, err
	}

	if r.opts.MarkMissing {
		sweepStarted := time.Now()
		marked, err := Sweep(ctx, r.repo, seen, r.opts.PageSize, r.progress)
		stats.MarkedUnavailable = int(marked)
		stats.SweepDuration = time.Since(sweepStarted)
		if err != nil {
			return stats, err
		}
	}

	stats.TotalDuration = time.Since(started)
	stats.ParseDuration = stats.TotalDuration - stats.StoreDuration - stats.SweepDuration

	return stats, nil
}
