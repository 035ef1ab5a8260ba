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
	accountscfg "github.com/example/movie-platform/services/accounts/internal/config"
	"github.com/example/movie-platform/services/accounts/internal/handlers"
	"github.com/example/movie-platform/services/accounts/internal/store"
	"github.com/example/movie-platform/services/accounts/internal/tokens"
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

	acfg, err := accountscfg.LoadAccounts()
	if err != nil {
		log.Error("accounts config", zap.Error(err))
		run.Exit(1)
	}

	users, closePool := initUsers(cfg, log)
	if closePool != nil {
		defer closePool()
	}

	tk := tokens.Service{Secret: acfg.JWTSecret, AccessTokenTTL: acfg.AccessTokenTTL}
	verifier := auth.JWTVerifier{Secret: acfg.JWTSecret}

	pub, closeNATS := initPublisher(log)
	if closeNATS != nil {
		defer closeNATS()
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)
	r.Post("/v1/users", handlers.Register(users, tk, pub))
	r.Post("/v1/sessions", handlers.Login(users, tk, pub))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Delete("/v1/sessions", handlers.Logout(users))
		r.Get("/v1/users/me", handlers.Me(users))
		r.Put("/v1/users/me/preferences", handlers.UpdatePreferences(users))
		r.Delete("/v1/users/me", handlers.DeleteAccount(users, pub))
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

// initUsers selects the UserStore backend. In production (APP_ENV=production)
// it requires a working Postgres connection and terminates otherwise.
func initUsers(cfg config.AppConfig, log *zap.Logger) (store.UserStore, func()) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		if cfg.IsProduction() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory user store (development only)")
		return store.NewInMemoryUserStore(), nil
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
		log.Warn("postgres unavailable, falling back to in-memory user store", zap.Error(err))
		return store.NewInMemoryUserStore(), nil
	}

	log.Info("user store: postgres")
	return store.NewPostgresUserStore(pool, log), pool.Close
}

// initPublisher connects to NATS best-effort; without NATS the publisher is a
// no-op stub and account operations proceed unaffected.
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
