package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface check
var _ Store = (*RedisStore)(nil)

// RedisStore implements Store on a Redis client.
type RedisStore struct {
	client *redis.Client
}

// ConnectRedis creates a Redis-backed store from a URL and verifies the
// connection.
func ConnectRedis(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value at key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// SetWithExpiry stores value at key with a TTL.
func (s *RedisStore) SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys, returning how many existed.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	return n, nil
}

// ListKeys returns the keys matching a glob pattern.
func (s *RedisStore) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("list keys %s: %w", pattern, err)
	}
	return keys, nil
}

// AppendToList pushes value onto the tail of the list at key, returning the
// new length.
func (s *RedisStore) AppendToList(ctx context.Context, key, value string) (int64, error) {
	n, err := s.client.RPush(ctx, key, value).Result()
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", key, err)
	}
	return n, nil
}

// RangeList returns list elements between start and stop inclusive;
// negative indices count from the tail.
func (s *RedisStore) RangeList(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := s.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("range %s: %w", key, err)
	}
	return vals, nil
}

// TrimList keeps only the list elements between start and stop inclusive.
func (s *RedisStore) TrimList(ctx context.Context, key string, start, stop int64) error {
	if err := s.client.LTrim(ctx, key, start, stop).Err(); err != nil {
		return fmt.Errorf("trim %s: %w", key, err)
	}
	return nil
}

// SetExpiry resets the TTL on an existing key.
func (s *RedisStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
