package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL matches how long the Storefront API keeps an abandoned cart.
const DefaultTTL = 90 * 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: DefaultTTL}
}

// RedisStore keeps a session -> cart key and its reverse under the same TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *RedisStore) Get(ctx context.Context, session string) (string, error) {
	id, err := r.client.Get(ctx, sessionKey(session)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return id, nil
}

func (r *RedisStore) Set(ctx context.Context, session, cartID string) error {
	old, err := r.client.Get(ctx, sessionKey(session)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis get failed: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if old != "" && old != cartID {
			pipe.Del(ctx, cartKey(old))
		}
		pipe.Set(ctx, sessionKey(session), cartID, r.ttl)
		pipe.Set(ctx, cartKey(cartID), session, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, session string) error {
	id, err := r.client.Get(ctx, sessionKey(session)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := r.client.Del(ctx, sessionKey(session), cartKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) SessionFor(ctx context.Context, cartID string) (string, error) {
	session, err := r.client.Get(ctx, cartKey(cartID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return session, nil
}

func sessionKey(session string) string {
	return fmt.Sprintf("cart-id:%s", session)
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart-session:%s", cartID)
}
