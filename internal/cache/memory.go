package cache

import (
	"time"

	"github.com/ppiankov/morphprod/internal/model"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements Cache on top of go-cache
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. A zero ttl keeps entries for the
// whole run.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get retrieves a triple
func (c *MemoryCache) Get(key string) (model.Counts, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(model.Counts), true
	}
	return model.Counts{}, false
}

// Set stores a triple with the default expiration
func (c *MemoryCache) Set(key string, value model.Counts) {
	c.cache.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes a triple
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes everything
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached items, expired ones included
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
