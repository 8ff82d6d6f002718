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

	"asset-tracking-api/internal"
	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/logger"
	"asset-tracking-api/internal/store"
)

func main() {
	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, lg); err != nil {
		lg.Error("server stopped", "error", err)
		lg.Sync()
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	dialect, err := store.DialectFor(cfg.DBDriver)
	if err != nil {
		return err
	}
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	st := store.New(db, dialect)
	defer func() {
		if err := st.Close(); err != nil {
			lg.Warn("close database", "error", err)
		}
	}()

	applied, err := st.Migrate(ctx)
	if err != nil {
		return err
	}
	lg.Info("schema ready", "driver", cfg.DBDriver, "applied", len(applied))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           internal.NewServer(cfg, st, lg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Starting Asset Tracking API server",
			"addr", cfg.Addr,
			"data_model", cfg.DataModel,
			"allowed_origins", cfg.AllowedOrigins,
			"metrics", cfg.EnableMetrics,
			"swagger", cfg.EnableSwagger,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
