// Package memory holds in-process adapters used when Postgres or Valkey are disabled.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/samirrijal/butterflyguide/internal/core/ports"
)

// CleanupInterval is how often expired keys are purged in the background.
const CleanupInterval = time.Minute

// Cache implements ports.CacheService on top of go-cache.
type Cache struct {
	items *cache.Cache
	// takeMu serializes Take so a key is handed out once.
	takeMu sync.Mutex
}

// NewCache creates an empty cache. Keys never expire unless Set gives a TTL.
func NewCache() *Cache {
	return &Cache{items: cache.New(cache.NoExpiration, CleanupInterval)}
}

// Get returns a copy of the stored value or ports.ErrCacheMiss.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return append([]byte(nil), v.([]byte)...), nil
}

// Set stores a copy of value for ttlSeconds. A non-positive TTL keeps the key until deleted.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := cache.NoExpiration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Take returns the value and removes the key.
func (c *Cache) Take(ctx context.Context, key string) ([]byte, error) {
	c.takeMu.Lock()
	defer c.takeMu.Unlock()

	v, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.items.Delete(key)
	return v, nil
}

// Len counts stored keys, including expired ones not yet purged.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
