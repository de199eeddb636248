// internal/batch/batch.go
package batch

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/openfield/internal/report"
	"github.com/xkilldash9x/openfield/internal/stats"
	"github.com/xkilldash9x/openfield/internal/walk"
)

// Outcome is the result of a finished batch. Summaries are ordered by run
// index, not by completion order.
type Outcome struct {
	BatchID   string           `json:"batch_id"`
	BaseSeed  int64            `json:"base_seed"`
	Summaries []report.Summary `json:"runs"`
	Aggregate stats.Aggregate  `json:"aggregate"`
}

// Runner executes independent simulations in parallel. Each run owns its
// engine and random stream, so no state is shared between workers.
type Runner struct {
	concurrency      int
	progressInterval time.Duration
	logger           *zap.Logger
}

// NewRunner creates a runner with at most concurrency runs in flight.
// A non-positive concurrency means one run at a time.
func NewRunner(concurrency int, progressInterval time.Duration, logger *zap.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		concurrency:      concurrency,
		progressInterval: progressInterval,
		logger:           logger.Named("batch"),
	}
}

// Run performs runs simulations of base. Run i uses seed base.Seed+i; a zero
// base seed is replaced by a clock-derived one first and a negative one is
// rejected, so no run lands on the clock seed. The first failing run
// cancels the rest and its error is returned.
func (r *Runner) Run(ctx context.Context, base walk.Config, runs int) (*Outcome, error) {
	if runs < 1 {
		return nil, fmt.Errorf("batch: runs must be positive, got %d", runs)
	}
	if err := walk.ValidateSeed(base.Seed); err != nil {
		return nil, err
	}
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}
	if base.Seed > math.MaxInt64-int64(runs-1) {
		return nil, fmt.Errorf("batch: base seed %d leaves no room for %d consecutive seeds", base.Seed, runs)
	}
	// Per-run progress lines would interleave; the batch reports its own.
	base.ProgressInterval = 0

	out := &Outcome{
		BatchID:   uuid.NewString(),
		BaseSeed:  base.Seed,
		Summaries: make([]report.Summary, runs),
	}
	logger := r.logger.With(zap.String("batch_id", out.BatchID))
	logger.Info("Starting batch",
		zap.Int("runs", runs),
		zap.Int("concurrency", r.concurrency),
		zap.Int64("base_seed", base.Seed),
	)

	var completed atomic.Int64
	progress := &rate.Sometimes{Interval: r.progressInterval}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := 0; i < runs; i++ {
		if groupCtx.Err() != nil {
			break
		}
		index := i
		g.Go(func() error {
			cfg := base
			cfg.Seed = base.Seed + int64(index)

			engine, err := walk.New(cfg, logger.With(zap.Int("run", index)))
			if err != nil {
				return fmt.Errorf("batch: run %d: %w", index, err)
			}
			res, err := engine.Run(groupCtx)
			if err != nil {
				return fmt.Errorf("batch: run %d: %w", index, err)
			}
			out.Summaries[index] = report.NewSummary(res)

			done := completed.Add(1)
			if r.progressInterval > 0 {
				progress.Do(func() {
					logger.Info("Batch progress", zap.Int64("completed", done), zap.Int("runs", runs))
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Batch aborted", zap.Int64("completed", completed.Load()), zap.Error(err))
		return nil, err
	}
	// The loop may have stopped early without any worker failing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reports := make([]stats.Report, runs)
	for i, s := range out.Summaries {
		reports[i] = s.Stats
	}
	out.Aggregate = stats.Combine(reports)

	logger.Info("Batch finished", zap.Int("runs", runs))
	return out, nil
}
