package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dashboardKeyPrefix = "dashboard:"

// RedisDashboardCache implements DashboardCache on Redis, suitable for
// deployments with more than one API instance.
type RedisDashboardCache struct {
	client *redis.Client
}

// NewRedisDashboardCache connects to Redis and verifies the connection
func NewRedisDashboardCache(addr, password string, db int) (*RedisDashboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDashboardCache{client: client}, nil
}

// NewRedisDashboardCacheWithClient wraps an existing client, useful for tests
// or sharing one connection pool across components.
func NewRedisDashboardCacheWithClient(client *redis.Client) *RedisDashboardCache {
	return &RedisDashboardCache{client: client}
}

// Get fetches a cached payload
func (c *RedisDashboardCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, dashboardKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}
	return payload, true, nil
}

// Set stores a payload with a TTL
func (c *RedisDashboardCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, dashboardKeyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// InvalidateYear drops every cached view that covers the year
func (c *RedisDashboardCache) InvalidateYear(ctx context.Context, year int) error {
	pattern := dashboardKeyPrefix + "*" + yearPrefix(year) + "*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan dashboard cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}
