package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/retention"
)

// Engine runs retention cleanups on a cron schedule. Jobs are wrapped with
// SkipIfStillRunning so overlapping runs for the same horizon cannot race;
// the retention loop itself carries no lock.
type Engine struct {
	cron      *cron.Cron
	cleaner   Cleaner
	logger    logging.Logger
	schedule  string
	days      int
	batchSize int
}

// NewEngine constructs a scheduler that cleans up events older than days,
// in batches of batchSize, on the given cron schedule.
func NewEngine(cleaner Cleaner, logger logging.Logger, schedule string, days, batchSize int) *Engine {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Engine{
		cron:      c,
		cleaner:   cleaner,
		logger:    logger,
		schedule:  schedule,
		days:      days,
		batchSize: batchSize,
	}
}

// Run registers the cleanup job and blocks until the context is canceled.
func (e *Engine) Run(ctx context.Context) error {
	if _, err := e.cron.AddFunc(e.schedule, func() { e.runCleanup(ctx) }); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", e.schedule, err)
	}

	e.logger.Info("retention scheduler started",
		zap.String("schedule", e.schedule),
		zap.Int("days", e.days),
		zap.Int("batch_size", e.batchSize))

	e.cron.Start()
	<-ctx.Done()

	// Let an in-flight cleanup finish its current batch before returning.
	stopCtx := e.cron.Stop()
	<-stopCtx.Done()

	return ctx.Err()
}

func (e *Engine) runCleanup(ctx context.Context) {
	result, err := e.cleaner.Cleanup(ctx, retention.Options{
		Days:      e.days,
		BatchSize: e.batchSize,
		Progress: func(batchDeleted, totalDeleted int64) {
			e.logger.Debug("retention batch committed",
				zap.Int64("batch_deleted", batchDeleted),
				zap.Int64("total_deleted", totalDeleted))
		},
	})
	if err != nil {
		e.logger.Error("scheduled retention cleanup failed",
			zap.Int64("deleted_before_failure", result.TotalDeleted),
			zap.Error(err))
		return
	}

	e.logger.Info("scheduled retention cleanup finished",
		zap.Int64("eligible", result.TotalEligible),
		zap.Int64("deleted", result.TotalDeleted))
}
