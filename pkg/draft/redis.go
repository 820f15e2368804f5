package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores blobs as plain string values.
type RedisBackend struct {
	client *redis.Client
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisClient builds a client for the given address and database.
func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Ping checks connectivity.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, fmt.Errorf("draft: redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("draft: redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
