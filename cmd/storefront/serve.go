package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/metrics"
	lessonrepo "github.com/kailas-cloud/storefront/internal/repository/lesson"
	orderrepo "github.com/kailas-cloud/storefront/internal/repository/order"
	chiTransport "github.com/kailas-cloud/storefront/internal/transport/chi"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	lessonuc "github.com/kailas-cloud/storefront/internal/usecase/lesson"
	orderuc "github.com/kailas-cloud/storefront/internal/usecase/order"
	searchuc "github.com/kailas-cloud/storefront/internal/usecase/search"
	"github.com/kailas-cloud/storefront/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, env, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		logger.Info("Starting storefront API server",
			zap.String("version", version.Version),
			zap.String("commit", version.Commit),
			zap.String("env", env),
			zap.Int("http_port", cfg.HTTP.Port),
			zap.String("db_driver", cfg.Database.Driver),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		metrics.RegisterStoreMetrics()

		return serve(ctx, cfg, newHandler(cfg, store, logger), logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newHandler is the composition root for the HTTP API.
func newHandler(cfg config.Config, store db.Store, logger *zap.Logger) http.Handler {
	instrumented := metrics.NewInstrumentedStore(store, logger)

	lessons := lessonrepo.New(instrumented, cfg.Storage.Lessons)
	orders := orderrepo.New(instrumented, cfg.Storage.Orders)

	server := chiTransport.NewServer(
		lessonuc.New(lessons),
		orderuc.New(orders),
		searchuc.New(lessons),
		healthuc.New(store),
		logger,
	).WithImagesDir(cfg.Static.ImagesDir)

	return chiTransport.NewRouter(server, logger)
}

// serve listens until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, handler http.Handler, logger *zap.Logger) error {
	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
