// Command api runs the traffic monitoring dashboard API server. The process
// loads its dataset from the warehouse exactly once at startup, builds an
// immutable in-memory snapshot, and serves every request from it.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"ttmon/internal/api/handlers"
	"ttmon/internal/config"
	"ttmon/internal/core"
	"ttmon/internal/db"
	"ttmon/internal/deploy"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting",
		slog.String("environment", cfg.Environment),
		slog.String("deployment", cfg.Deployment),
		slog.String("version", cfg.Build.Version),
		slog.String("commit", cfg.Build.Commit),
	)

	profile, ok := deploy.Lookup(cfg.Deployment)
	if !ok {
		return errors.New("unknown deployment profile: " + cfg.Deployment)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Database.LoadTimeout)
	snapshot, err := db.LoadSnapshot(loadCtx, pool, cfg.Database.Schema, profile)
	cancel()
	if err != nil {
		pool.Close()
		return err
	}
	logger.Info("snapshot loaded",
		slog.Int("daily_rows", len(snapshot.Daily)),
		slog.Int("weekly_rows", len(snapshot.Weekly)),
		slog.Int("baseline_rows", len(snapshot.Baseline)),
		slog.Int("weeks", len(snapshot.Weeks)),
		slog.Int("months", len(snapshot.Months)),
	)

	server, err := core.NewServer(cfg, snapshot, logger)
	if err != nil {
		pool.Close()
		return err
	}
	server.Metrics.SetSnapshotRows(len(snapshot.Daily) + len(snapshot.Weekly))
	server.HealthProbes = append(server.HealthProbes, db.NewPoolProbe(pool))
	server.V1RouteRegistrars = append(server.V1RouteRegistrars,
		handlers.NewComparisonHandler(snapshot, logger).Routes,
		handlers.NewTrendHandler(snapshot, logger).Routes,
		handlers.NewOptionsHandler(snapshot, logger).Routes,
		handlers.NewSelectionHandler(snapshot, server.Validator, logger).Routes,
	)
	server.MountRoutes()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", httpServer.Addr))
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Environment == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
