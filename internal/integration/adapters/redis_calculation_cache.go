package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/domain/entity"
)

// redisCalculationCache implements the adapter.CalculationCache interface.
type redisCalculationCache struct {
	client *redis.Client
}

// NewRedisCalculationCache creates a calculation cache on an existing Redis client.
// The caller keeps ownership of the client.
func NewRedisCalculationCache(client *redis.Client) adapter.CalculationCache {
	return &redisCalculationCache{
		client: client,
	}
}

// Get returns the cached result, or nil on a miss.
func (c *redisCalculationCache) Get(ctx context.Context, key string) (*entity.CalculationResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation from cache: %w", err)
	}

	var result entity.CalculationResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal cached calculation: %w", err)
	}
	return &result, nil
}

// Set stores the result under key.
func (c *redisCalculationCache) Set(ctx context.Context, key string, result *entity.CalculationResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal calculation: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set calculation in cache: %w", err)
	}
	return nil
}
