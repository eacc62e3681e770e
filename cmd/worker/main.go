package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/redirectsync"
	"github.com/fourohfour/notfound-tracker/internal/retention"
	"github.com/fourohfour/notfound-tracker/internal/scheduler"
	"github.com/fourohfour/notfound-tracker/internal/storage"
	"github.com/fourohfour/notfound-tracker/pkg/config"
)

// The worker runs the two background halves of the tracker: cron-scheduled
// retention cleanups and the redirect-created Kafka consumer.
func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.OpenMySQL(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	retentionSvc := retention.NewService(store, logger)
	engine := scheduler.NewEngine(retentionSvc, logger,
		cfg.RetentionSchedule, cfg.RetentionDays, cfg.RetentionBatchSize)

	syncSvc := redirectsync.NewService(store, logger)
	consumer, err := redirectsync.NewConsumer(cfg.KafkaBrokers, cfg.RedirectTopic, cfg.RedirectGroupID, syncSvc, logger)
	if err != nil {
		logger.Fatal("failed to build redirect consumer", zap.Error(err))
	}
	defer consumer.Close()

	errs := make(chan error, 2)
	go func() { errs <- engine.Run(ctx) }()
	go func() { errs <- consumer.Run(ctx) }()

	err = <-errs
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", zap.Error(err))
		_ = logger.Sync()
		log.Fatalf("worker stopped: %v", err)
	}

	logger.Info("worker stopped")
	_ = logger.Sync()
}
