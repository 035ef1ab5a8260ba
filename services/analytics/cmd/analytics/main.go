package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/movie-platform/internal/platform/db"
	"github.com/example/movie-platform/internal/platform/logging"
	"github.com/example/movie-platform/internal/platform/natsconn"
	"github.com/example/movie-platform/internal/platform/run"
	"github.com/example/movie-platform/services/analytics/internal/config"
	"github.com/example/movie-platform/services/analytics/internal/consumer"
	"github.com/example/movie-platform/services/analytics/internal/handler"
	"github.com/example/movie-platform/services/analytics/internal/sink"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Error("migrate", zap.Error(err))
		run.Exit(1)
	}

	pool, err := db.OpenDSN(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		log.Error("nats connect", zap.Error(err))
		run.Exit(1)
	}
	defer nc.Close()

	dispatcher := handler.New(sink.NewPostgres(pool), log)

	c, err := consumer.New(nc, dispatcher, cfg.NATSBatchSize, cfg.BatchIntervalMs, log)
	if err != nil {
		log.Error("consumer init", zap.Error(err))
		run.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("analytics consumer started")
	c.Run(ctx)
	log.Info("analytics consumer stopped")
	run.Exit(0)
}
