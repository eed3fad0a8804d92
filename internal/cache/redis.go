package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/inmohub/realty-api/internal/config"
)

// New returns a connected Redis client, or nil when no address is
// configured. Callers treat a nil client as "caching/limiting disabled".
func New(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
