package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/bootstrap"
	"resumeforge/internal/shared/config"
	"resumeforge/internal/shared/server"
	"resumeforge/internal/shared/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logger, err := telemetry.Init(telemetry.Options{JSON: cfg.LogJSON, Debug: cfg.LogDebug})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	defer func() { _ = app.Close() }()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.start", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("server.shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server.shutdown failed", zap.Error(err))
		}
	}
}
