package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/db/memory"
	"github.com/kailas-cloud/storefront/internal/db/mongodb"
	dbRedis "github.com/kailas-cloud/storefront/internal/db/redis"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
)

// newStore creates the store for the configured driver.
func newStore(cfg config.Config) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Database.Driver {
	case config.DriverMongo:
		store, err = mongodb.NewStore(mongodb.Config{
			URI:            cfg.Database.URI,
			Database:       cfg.Database.Name,
			ConnectTimeout: time.Duration(cfg.Database.ReadinessTimeout) * time.Second,
		})
	case config.DriverRedis, config.DriverValkey:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Database.Addrs,
			Username:  cfg.Database.Username,
			Password:  cfg.Database.Password,
			DB:        cfg.Database.DB,
			KeyPrefix: cfg.Storage.KeyPrefix,
		})
	case config.DriverMemory:
		store = memory.New()
	default:
		return nil, fmt.Errorf("%w: %q", db.ErrUnknownDriver, cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
	}
	return store, nil
}

// openStore creates the store and blocks until it answers or the readiness timeout expires.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	return store, nil
}

// loadRuntime loads configuration for the current ENV and builds the logger.
func loadRuntime() (config.Config, *zap.Logger, string, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, env, nil
}
