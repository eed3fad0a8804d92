package property

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/inmohub/realty-api/internal/domain/property"
)

const statsCacheKey = "stats:properties"

type GetStats struct {
	repo  domain.Repository
	cache *redis.Client
	ttl   time.Duration
}

func NewGetStats(repo domain.Repository, cache *redis.Client, ttl time.Duration) *GetStats {
	return &GetStats{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// Execute serves the published-catalog aggregate, from Redis when a
// fresh copy exists. Cache failures fall through to the store.
func (uc *GetStats) Execute(ctx context.Context) (*domain.Stats, error) {

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached domain.Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			uc.cache.Set(ctx, statsCacheKey, raw, uc.ttl)
		}
	}

	return stats, nil
}
