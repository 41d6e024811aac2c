package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/trails-api/internal/config"
	"github.com/pkordes/trails-api/internal/repo"
	"github.com/pkordes/trails-api/internal/service"
	"github.com/pkordes/trails-api/internal/storage"
	"github.com/pkordes/trails-api/migrations"
)

// app holds the dependencies every subcommand shares.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	pool   *pgxpool.Pool
	trails *service.TrailService
	repo   repo.TrailRepo
	store  storage.Storage
}

// bootstrap loads config, configures logging, connects to Postgres, applies
// pending migrations and opens cover storage. The caller must call close.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if err := migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		pool.Close()
		return nil, err
	}

	trailRepo := repo.NewTrailRepo(pool)
	return &app{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		repo:   trailRepo,
		store:  store,
		trails: service.NewTrailService(trailRepo, store),
	}, nil
}

func (a *app) close() {
	a.pool.Close()
}

// migrate brings the schema up to date through a database/sql handle that
// shares the pool's connections.
func migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("migrations applied", "count", n)
	return nil
}

// newStorage builds the cover photo backend named by STORAGE_DRIVER.
func newStorage(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	if cfg.Driver == config.StorageS3 {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	}

	disk, err := storage.NewDisk(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return disk, nil
}
