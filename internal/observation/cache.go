package observation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/redis/go-redis/v9"
)

// Cache stores sightings by key with a time-to-live
type Cache interface {
	Get(ctx context.Context, key string) ([]models.Sighting, bool, error)
	Set(ctx context.Context, key string, sightings []models.Sighting, ttl time.Duration) error
}

type memoryEntry struct {
	sightings []models.Sighting
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a cached value; expired entries are dropped and reported as misses
func (c *MemoryCache) Get(ctx context.Context, key string) ([]models.Sighting, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.sightings, true, nil
}

// Set stores a value until ttl elapses
func (c *MemoryCache) Set(ctx context.Context, key string, sightings []models.Sighting, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		sightings: sightings,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCache shares cached sightings between server instances
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps a connected redis client
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "birding:obs:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get reads a cached value; redis expiry enforces the TTL
func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Sighting, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	var sightings []models.Sighting
	if err := json.Unmarshal(data, &sightings); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return sightings, true, nil
}

// Set writes a value with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, sightings []models.Sighting, ttl time.Duration) error {
	data, err := json.Marshal(sightings)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
