package retention

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/pkg/clock"
)

// DefaultBatchSize bounds a single delete statement when the caller does
// not choose one.
const DefaultBatchSize = 1000

// Options configures a cleanup run.
type Options struct {
	// Days is the retention horizon; events older than now minus Days
	// days are eligible for deletion. Must be > 0.
	Days int
	// BatchSize caps the rows removed per delete statement. Must be > 0.
	BatchSize int
	// DryRun reports the eligible count without deleting anything.
	DryRun bool
	// Progress, when set, is invoked after every committed batch.
	Progress func(batchDeleted, totalDeleted int64)
}

// Result reports what a cleanup run saw and did.
type Result struct {
	Cutoff        time.Time
	TotalEligible int64
	TotalDeleted  int64
	DryRun        bool
}

// Service deletes events past the retention horizon in bounded batches.
type Service struct {
	store  Store
	logger logging.Logger
	clock  clock.Clock
}

// NewService creates a retention service.
func NewService(store Store, logger logging.Logger) *Service {
	return NewServiceWithClock(store, logger, clock.RealClock{})
}

// NewServiceWithClock creates a retention service with an injected clock
// for deterministic tests.
func NewServiceWithClock(store Store, logger logging.Logger, clk clock.Clock) *Service {
	return &Service{
		store:  store,
		logger: logger,
		clock:  clk,
	}
}

// Cleanup counts and then deletes events older than the cutoff, in
// sequential batches of at most opts.BatchSize rows, until a batch removes
// nothing. A persistence error mid-loop aborts the run; the Result still
// carries the count deleted so far.
//
// Batches must not overlap: they all target the same "older than cutoff"
// rows, so the loop is strictly sequential and concurrent cleanup runs for
// the same horizon are the caller's responsibility to avoid. Each batch is
// its own statement, so a caller canceling the context between batches
// loses nothing beyond the batches already committed.
func (s *Service) Cleanup(ctx context.Context, opts Options) (Result, error) {
	if opts.Days <= 0 {
		return Result{}, NewValidationError("days must be greater than 0, got %d", opts.Days)
	}
	if opts.BatchSize <= 0 {
		return Result{}, NewValidationError("batch size must be greater than 0, got %d", opts.BatchSize)
	}

	cutoff := s.clock.Now().UTC().AddDate(0, 0, -opts.Days)
	result := Result{Cutoff: cutoff, DryRun: opts.DryRun}

	eligible, err := s.store.CountOlderThan(ctx, cutoff)
	if err != nil {
		return result, fmt.Errorf("count eligible events: %w", err)
	}
	result.TotalEligible = eligible

	if eligible == 0 {
		s.logger.Info("no events past retention horizon",
			zap.Time("cutoff", cutoff))
		return result, nil
	}

	if opts.DryRun {
		s.logger.Info("dry run, skipping deletion",
			zap.Time("cutoff", cutoff),
			zap.Int64("eligible", eligible))
		return result, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		deleted, err := s.store.DeleteOlderThan(ctx, cutoff, opts.BatchSize)
		if err != nil {
			return result, fmt.Errorf("delete batch after %d deleted: %w", result.TotalDeleted, err)
		}
		if deleted == 0 {
			break
		}

		result.TotalDeleted += deleted
		if opts.Progress != nil {
			opts.Progress(deleted, result.TotalDeleted)
		}
	}

	s.logger.Info("retention cleanup finished",
		zap.Time("cutoff", cutoff),
		zap.Int64("eligible", result.TotalEligible),
		zap.Int64("deleted", result.TotalDeleted))

	return result, nil
}
