// bold is the BOL extractor daemon: the extraction pipeline behind a JSON
// HTTP API, with optional run history in an embedded SQLite store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/aworks-dev/bol-extractor/internal/common"
	"github.com/aworks-dev/bol-extractor/internal/profile"
	"github.com/aworks-dev/bol-extractor/internal/repository"
	"github.com/aworks-dev/bol-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := profile.Default()
	if cfg.Pipeline.ProfilePath != "" {
		loaded, err := profile.Load(cfg.Pipeline.ProfilePath)
		if err != nil {
			logger.Error("loading extraction profile", "error", err)
			os.Exit(1)
		}
		p = loaded
	}

	var runs repository.RunRepository
	if cfg.Store.Path != "" {
		db, err := repository.Open(ctx, repository.Config{Path: cfg.Store.Path, BusyTimeout: 5 * time.Second}, logger)
		if err != nil {
			logger.Error("opening run history store", "error", err)
			os.Exit(1)
		}
		defer repository.Close(db, logger)
		if err := repository.HealthCheck(ctx, db, 3*time.Second); err != nil {
			logger.Error("run history store health failed", "error", err)
			os.Exit(1)
		}
		runs = repository.NewRunRepository(db, logger)
	}

	svc := server.NewService(p, runs, logger)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      svc.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
