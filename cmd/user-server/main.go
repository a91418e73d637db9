// Package main is the entry point for the user service HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Adarsh-2019/user-service/internal/auth"
	cachememory "github.com/Adarsh-2019/user-service/internal/cache/memory"
	cacheredis "github.com/Adarsh-2019/user-service/internal/cache/redis"
	"github.com/Adarsh-2019/user-service/internal/config"
	"github.com/Adarsh-2019/user-service/internal/handler"
	"github.com/Adarsh-2019/user-service/internal/metrics"
	"github.com/Adarsh-2019/user-service/internal/pkg/crypto"
	"github.com/Adarsh-2019/user-service/internal/repository"
	"github.com/Adarsh-2019/user-service/internal/repository/postgres"
	"github.com/Adarsh-2019/user-service/internal/repository/sqlite"
	"github.com/Adarsh-2019/user-service/internal/service"
	"github.com/Adarsh-2019/user-service/internal/token"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting user service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Database
	userRepo, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Cache
	if cfg.Cache.Enabled {
		cache, closeCache, err := openCache(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeCache()
		userRepo = repository.NewCachedUserRepository(userRepo, cache, cfg.Cache.UserTTL, logger)
	}

	// Core components: hashing cost and signing key are read once here and
	// immutable for the process lifetime.
	hasher := crypto.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := token.NewManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	userService := service.NewUserService(userRepo, hasher, tokens, logger)

	// Metrics
	var instrument func(http.Handler) http.Handler
	if cfg.Metrics.Enabled {
		m := metrics.New()
		instrument = m.Middleware
		go serveMetrics(cfg.Metrics, m, logger)
	}

	router := handler.NewRouter(handler.RouterConfig{
		UserHandler:    handler.NewUserHandler(userService, logger),
		AuthHandler:    handler.NewAuthHandler(userService, logger),
		AuthMiddleware: auth.Middleware(tokens, logger),
		Metrics:        instrument,
		Database:       db,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// openStore connects to the configured database, runs migrations and
// returns the user repository.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.UserRepository, repository.DatabaseHealth, error) {
	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewUserRepository(db), db, nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewUserRepository(db), db, nil
}

// openCache returns the configured cache backend and a cleanup function.
func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Cache, func(), error) {
	if cfg.Redis.Enabled {
		cache, err := cacheredis.NewCache(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return cache, func() { _ = cache.Close() }, nil
	}

	cache := cachememory.NewCache()
	return cache, cache.Stop, nil
}

// serveMetrics runs the Prometheus exposition endpoint on its own listener.
func serveMetrics(cfg config.MetricsConfig, m *metrics.Metrics, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().Str("addr", addr).Str("path", cfg.Path).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
