package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/account-manager/internal/config"
	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/services"
)

const (
	statsVersionKey = "accounts:stats:version"
	statsKeyPrefix  = "accounts:stats:v"

	// loadTimeout bounds a shared load, which outlives any single caller.
	loadTimeout = 10 * time.Second
)

var _ services.StatsCache = (*StatsCache)(nil)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// StatsCache is a read-through cache for account statistics. Invalidation
// bumps a version counter so stale entries are never read again and simply
// expire. A nil *StatsCache, or one without a client, calls the loader
// directly.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns cached statistics or loads, stores and returns fresh ones.
// Redis failures degrade to calling the loader.
func (c *StatsCache) Get(ctx context.Context, loader services.StatsLoader) (entities.AccountStats, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key, err := c.key(ctx)
	if err != nil {
		log.Printf("Stats cache unavailable, loading directly: %v", err)
		return loader(ctx)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var stats entities.AccountStats
		if jsonErr := json.Unmarshal(payload, &stats); jsonErr == nil {
			return stats, nil
		}
	case !errors.Is(err, redis.Nil):
		log.Printf("Stats cache read failed, loading directly: %v", err)
		return loader(ctx)
	}

	// Callers joining the flight wait on their own ctx; the load itself must
	// not be cancelled when the caller that started it goes away.
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		stats, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(stats); err == nil {
			if err := c.client.Set(loadCtx, key, raw, c.ttl).Err(); err != nil {
				log.Printf("Stats cache write failed: %v", err)
			}
		}
		return stats, nil
	})

	select {
	case <-ctx.Done():
		return entities.AccountStats{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return entities.AccountStats{}, res.Err
		}
		return res.Val.(entities.AccountStats), nil
	}
}

// Invalidate makes every previously cached entry unreachable.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, statsVersionKey).Err()
}

// Ping reports whether Redis is reachable. It is a no-op without a client.
func (c *StatsCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Enabled reports whether a Redis client is configured.
func (c *StatsCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *StatsCache) key(ctx context.Context) (string, error) {
	ver, err := c.client.Get(ctx, statsVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s%d", statsKeyPrefix, ver), nil
}
