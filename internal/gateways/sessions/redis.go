package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "orbital:session:"

// Config holds configuration for the Redis session storage
type Config struct {
	RedisClient *redis.Client
	// KeyPrefix namespaces session keys. Defaults to "orbital:session:".
	KeyPrefix string
}

// RedisStorage keeps sessions in Redis and lets key expiry handle the TTL.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed session storage and checks the connection.
func NewRedis(cfg *Config) (*RedisStorage, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStorage{
		client: cfg.RedisClient,
		prefix: prefix,
	}, nil
}

func (r *RedisStorage) key(id string) string {
	return r.prefix + id
}

func (r *RedisStorage) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return data, nil
}

func (r *RedisStorage) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
