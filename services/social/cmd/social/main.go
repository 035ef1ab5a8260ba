package main

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/movie-platform/internal/platform/analytics"
	"github.com/example/movie-platform/internal/platform/auth"
	"github.com/example/movie-platform/internal/platform/config"
	"github.com/example/movie-platform/internal/platform/db"
	"github.com/example/movie-platform/internal/platform/httpserver"
	"github.com/example/movie-platform/internal/platform/logging"
	"github.com/example/movie-platform/internal/platform/natsconn"
	"github.com/example/movie-platform/internal/platform/run"
	"github.com/example/movie-platform/services/social/internal/handlers"
	"github.com/example/movie-platform/services/social/internal/store"
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

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		log.Error("JWT_SECRET is required")
		run.Exit(1)
	}
	verifier := auth.JWTVerifier{Secret: []byte(secret)}

	comments, closePool := initComments(cfg, log)
	if closePool != nil {
		defer closePool()
	}

	pub, closeNATS := initPublisher(log)
	if closeNATS != nil {
		defer closeNATS()
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)
	r.Get("/v1/comments/{comment_id}", handlers.GetComment(comments))
	r.Get("/v1/reports/most-active-commenters", handlers.MostActiveCommenters(comments))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/movies/{movie_id}/comments", handlers.CreateComment(comments, pub))
		r.Put("/v1/comments/{comment_id}", handlers.UpdateComment(comments))
		r.Delete("/v1/comments/{comment_id}", handlers.DeleteComment(comments, pub))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initComments selects the CommentStore backend. In production
// (APP_ENV=production) Postgres is mandatory.
func initComments(cfg config.AppConfig, log *zap.Logger) (store.CommentStore, func()) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		if cfg.IsProduction() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory comment store (development only)")
		return store.NewInMemoryCommentStore(), nil
	}

	if err := db.Migrate(dsn); err != nil {
		log.Error("migrate", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	pool, err := db.OpenDSN(context.Background(), dsn)
	if err != nil {
		if cfg.IsProduction() {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory comment store", zap.Error(err))
		return store.NewInMemoryCommentStore(), nil
	}

	log.Info("comment store: postgres")
	return store.NewPostgresCommentStore(pool, log), pool.Close
}

// initPublisher connects to NATS best-effort; without NATS the publisher is a
// no-op stub and comment operations proceed unaffected.
func initPublisher(log *zap.Logger) (*analytics.Publisher, func()) {
	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, analytics events disabled", zap.Error(err))
		return analytics.New(nil, log), nil
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream unavailable, analytics events disabled", zap.Error(err))
		nc.Close()
		return analytics.New(nil, log), nil
	}
	return analytics.New(js, log), nc.Close
}
