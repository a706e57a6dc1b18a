package repositories

import (
	"context"
	"errors"
	"fmt"

	"golang-storefront/pkg/cache"
)

type redisKVStore struct {
	cache *cache.RedisCache
}

// NewRedisKVStore stores values as plain Redis strings without expiry.
func NewRedisKVStore(c *cache.RedisCache) KVStore {
	return &redisKVStore{cache: c}
}

func (r *redisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.cache.GetBytes(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache.GetBytes: %w", err)
	}
	return value, nil
}

func (r *redisKVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.cache.SetBytes(ctx, key, value, 0); err != nil {
		return fmt.Errorf("cache.SetBytes: %w", err)
	}
	return nil
}

func (r *redisKVStore) Delete(ctx context.Context, key string) error {
	if err := r.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache.Delete: %w", err)
	}
	return nil
}
