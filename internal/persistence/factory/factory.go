// Package factory opens the persistence store selected by configuration.
package factory

import (
	"context"
	"fmt"

	"github.com/example/campus-scheduler/internal/config"
	"github.com/example/campus-scheduler/internal/persistence"
	"github.com/example/campus-scheduler/internal/persistence/memory"
	redisstore "github.com/example/campus-scheduler/internal/persistence/redis"
	"github.com/example/campus-scheduler/internal/persistence/sqlite"
)

// Open returns the store named by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (persistence.Store, error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLite.DSN)
	case "redis":
		return redisstore.Open(ctx, redisstore.Options{
			Addr:      cfg.Redis.Addr,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("factory: unknown storage backend %q", cfg.Backend)
	}
}
