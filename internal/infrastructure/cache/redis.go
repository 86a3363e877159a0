package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tobias-fyi/subwise/internal/domain/entity"
	"github.com/tobias-fyi/subwise/internal/domain/service"
	"github.com/tobias-fyi/subwise/internal/infrastructure/config"
)

// KeyPrefix namespaces ranking entries in Redis
const KeyPrefix = "subwise:rank:"

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisCache stores msgpack encoded rankings in Redis
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a Redis backed cache. A zero ttl keeps entries forever.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) service.PredictionCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached ranking for key
func (c *RedisCache) Get(ctx context.Context, key string) ([]entity.Recommendation, bool, error) {
	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached ranking: %w", err)
	}

	var recs []entity.Recommendation
	if err := msgpack.Unmarshal(data, &recs); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached ranking: %w", err)
	}
	return recs, true, nil
}

// Set stores recs under key
func (c *RedisCache) Set(ctx context.Context, key string, recs []entity.Recommendation) error {
	data, err := msgpack.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to encode ranking: %w", err)
	}
	if err := c.client.Set(ctx, KeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ranking: %w", err)
	}
	return nil
}
