package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumeforge/internal/bootstrap"
	"resumeforge/internal/shared/config"
	"resumeforge/internal/shared/server"
	"resumeforge/internal/shared/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}
	logger, err := telemetry.Init(telemetry.Options{JSON: cfg.LogJSON, Debug: cfg.LogDebug})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.start", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
