package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vrpengine/internal/domain"
	"vrpengine/internal/platform/obs"
)

// RedisMatrixCache is the low-latency counterpart to the SQL-backed
// caches, for deployments that already run Redis for other shared
// state. Keys are namespaced under "vrp:matrix:".
type RedisMatrixCache struct {
	Client *redis.Client
}

func NewRedisMatrixCache(client *redis.Client) *RedisMatrixCache {
	return &RedisMatrixCache{Client: client}
}

func redisKey(fingerprint string) string { return "vrp:matrix:" + fingerprint }

func (c *RedisMatrixCache) Get(ctx context.Context, fingerprint string) (_ *domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "cache.redis.Get")(&err)

	raw, err := c.Client.Get(ctx, redisKey(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("matrix cache get: %w", err)
	}

	m, ok, err := decodeMatrix(raw)
	if err != nil {
		return nil, false, fmt.Errorf("matrix cache get: %w", err)
	}
	return m, ok, nil
}

func (c *RedisMatrixCache) Put(ctx context.Context, fingerprint string, m *domain.DistanceMatrix, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "cache.redis.Put")(&err)

	payload, err := encodeMatrix(m, time.Now(), ttl)
	if err != nil {
		return fmt.Errorf("matrix cache put: %w", err)
	}

	if err := c.Client.Set(ctx, redisKey(fingerprint), payload, ttl).Err(); err != nil {
		return fmt.Errorf("matrix cache put: %w", err)
	}
	return nil
}
