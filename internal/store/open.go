package store

import (
	"context"
	"fmt"

	"github.com/mikedutoitzs/floogleads/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open builds the Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*Store, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Driver {
	case "", "file":
		backend, err = NewFileBackend(cfg.StatePath)
	case "sqlite":
		backend, err = NewSQLiteBackend(cfg.SQLitePath, cfg.Key)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err = rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			err = fmt.Errorf("unable to connect to Redis: %w", err)
			break
		}
		backend = NewRedisBackend(rdb, cfg.Key)
	case "postgres":
		backend, err = NewPostgresBackend(ctx, cfg.PostgresURL, cfg.Key)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("State store ready", zap.String("driver", cfg.Driver))
	return New(backend, logger), nil
}
