package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDedupeStore implements DedupeStore on Redis so multiple instances
// share dedupe state.
type RedisDedupeStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisDedupeStore connects to Redis and returns the store. The
// connection is verified with a ping before returning.
func NewRedisDedupeStore(cfg RedisConfig) (*RedisDedupeStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupeStore{
		client:    client,
		keyPrefix: "notify:dedupe:",
	}, nil
}

// NewRedisDedupeStoreWithClient creates a store on an existing Redis client.
// Useful when sharing a client across components.
func NewRedisDedupeStoreWithClient(client *redis.Client, keyPrefix string) *RedisDedupeStore {
	if keyPrefix == "" {
		keyPrefix = "notify:dedupe:"
	}
	return &RedisDedupeStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkDone records the key with a TTL using SETNX, so concurrent sweeps
// across instances agree on which one acted first.
func (s *RedisDedupeStore) MarkDone(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark key as done: %w", err)
	}

	return result, nil
}

// IsDone reports whether the key is present and unexpired.
func (s *RedisDedupeStore) IsDone(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}

	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisDedupeStore) Close() error {
	return s.client.Close()
}

var _ DedupeStore = (*RedisDedupeStore)(nil)
