package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "stats:"

// StatsCache is a Redis-backed cache-aside layer for per-owner statistics.
// Entries carry a short TTL and are invalidated on every task mutation, so
// a hit always reflects the owner's current tasks.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves cached statistics for an owner.
// Returns false on a cache miss.
func (c *StatsCache) Get(ctx context.Context, ownerID string, dest *domain.Statistics) (bool, error) {
	data, err := c.client.Get(ctx, statsKeyPrefix+ownerID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // cache miss
		}
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return true, nil
}

// Set stores statistics for an owner with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, ownerID string, stats *domain.Statistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, statsKeyPrefix+ownerID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Invalidate drops the cached statistics for an owner.
func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) error {
	if err := c.client.Del(ctx, statsKeyPrefix+ownerID).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}
