package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxJitterMinutes = 5

func NewRedisCache(client *redis.Client) *RedisCache {
	ttls := make(map[Kind]time.Duration, len(DefaultTTLs))
	for k, v := range DefaultTTLs {
		ttls[k] = v
	}
	return &RedisCache{
		client:  client,
		ttls:    ttls,
		baseTTL: 5 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	ttls    map[Kind]time.Duration
	baseTTL time.Duration
}

// WithTTL overrides the TTL used for kind.
func (r *RedisCache) WithTTL(kind Kind, ttl time.Duration) *RedisCache {
	r.ttls[kind] = ttl
	return r
}

func (r *RedisCache) Get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Set(ctx context.Context, kind Kind, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := r.client.Set(ctx, cacheKey(key), data, r.ttl(kind)).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// ttl spreads expiry over a few minutes so entries written together do not
// all miss at once.
func (r *RedisCache) ttl(kind Kind) time.Duration {
	base, ok := r.ttls[kind]
	if !ok {
		base = r.baseTTL
	}
	jitter := time.Duration(rand.Intn(maxJitterMinutes)) * time.Minute
	return base + jitter
}

func cacheKey(key string) string {
	return fmt.Sprintf("catalog:%s", key)
}
