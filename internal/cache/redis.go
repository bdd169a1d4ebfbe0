// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"seoul-estate-search/internal/common/config"
	"seoul-estate-search/internal/estate"

	"github.com/redis/go-redis/v9"
)

// RedisStore caches search results in redis with the TTL as key expiry.
// Used when the process-local cache is not enough (multiple replicas).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a redis-backed store from config.
func NewRedis(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisStore{client: rdb, ttl: ttl}
}

// NewRedisWithClient wraps an existing client (used by tests with miniredis).
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping tests the redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*estate.SearchResult, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var result estate.SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, false, nil
	}
	return &result, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value *estate.SearchResult) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal search result: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
