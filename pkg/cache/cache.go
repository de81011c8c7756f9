package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"plantcare-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// Cache is a JSON document cache backed by redis. It stores small transient
// values (background job results, dependency snapshots) with a TTL.
type Cache struct {
	client *redis.Client
	config Config
	stats  *cacheStats
}

// cacheStats tracks cache performance metrics.
type cacheStats struct {
	mu          sync.RWMutex
	totalHits   int64
	totalMisses int64
}

// Stats provides cache performance metrics.
type Stats struct {
	HitRate     float64 `json:"hitRate"`
	MissRate    float64 `json:"missRate"`
	TotalHits   int64   `json:"totalHits"`
	TotalMisses int64   `json:"totalMisses"`
}

// New creates a redis-backed cache.
func New(redisClient *redis.Client, config Config) *Cache {
	return &Cache{
		client: redisClient,
		config: config,
		stats:  &cacheStats{},
	}
}

// Get retrieves a value into dest. It returns false with a nil error on a
// cache miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.GetClient().Get(ctx, c.buildKey(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			c.recordMiss()
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	c.recordHit()
	return true, nil
}

// Set stores a value as JSON with the given TTL. A zero TTL uses the
// configured default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if ttl <= 0 {
		ttl = c.config.DefaultTTL
	}

	return c.client.GetClient().Set(ctx, c.buildKey(key), data, ttl).Err()
}

// Delete removes a key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.GetClient().Del(ctx, c.buildKey(key)).Err()
}

// Stats returns cache performance statistics.
func (c *Cache) Stats() Stats {
	c.stats.mu.RLock()
	hits := c.stats.totalHits
	misses := c.stats.totalMisses
	c.stats.mu.RUnlock()

	total := hits + misses
	var hitRate, missRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
		missRate = float64(misses) / float64(total)
	}

	return Stats{
		HitRate:     hitRate,
		MissRate:    missRate,
		TotalHits:   hits,
		TotalMisses: misses,
	}
}

// HealthCheck verifies cache connectivity.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.client.GetClient().Ping(ctx).Err()
}

func (c *Cache) buildKey(key string) string {
	return c.config.KeyPrefix + key
}

func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.totalHits++
	c.stats.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.totalMisses++
	c.stats.mu.Unlock()
}
