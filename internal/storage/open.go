package storage

import (
	"context"
	"fmt"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/pkg/logger"
	redisClient "github.com/ikkim/storefront/pkg/redis"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Open builds the backend named by cfg.Storage.Driver. The returned close
// function releases whatever connection the driver opened.
func Open(ctx context.Context, cfg *config.Config) (Backend, func() error, error) {
	noop := func() error { return nil }

	logger.Info("Opening profile storage", map[string]interface{}{
		"driver": cfg.Storage.Driver,
	})

	switch cfg.Storage.Driver {
	case DriverMemory, "":
		return NewMemoryBackend(), noop, nil

	case DriverFile:
		b, err := NewFileBackend(cfg.Storage.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil

	case DriverRedis:
		client, err := redisClient.Connect(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisBackend(client, cfg.Storage.ProfileTTL), func() error {
			return redisClient.Close(client)
		}, nil

	case DriverPostgres:
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return NewGormBackend(db.GetDB()), db.Close, nil

	case DriverS3:
		b, err := NewS3Backend(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
