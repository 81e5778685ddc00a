package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"helios-dashboard/internal/idhash"
)

// DefaultRedisPrefix namespaces dashboard keys in a shared Redis.
const DefaultRedisPrefix = "helios"

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr   string
	DB     int
	Prefix string
}

// RedisStore is a Store shared by every dashboard process pointing at the same Redis.
// Keys are prefix:session:sha256(key) and carry no expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) redisKey(session string, key Key) string {
	return idhash.ComputeSessionKey(s.prefix, session, idhash.ComputeCacheKeyID(key.Shape, key.Args...))
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, session string, key Key) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.redisKey(session, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, session string, key Key, value []byte) error {
	if err := s.client.Set(ctx, s.redisKey(session, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Purge implements Store by scanning the session namespace.
func (s *RedisStore) Purge(ctx context.Context, session string) error {
	pattern := idhash.ComputeSessionKey(s.prefix, session, "*")

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
