package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// PageCache is a bounded in-process cache for rendered page contexts.
// Entries expire as a whole after their TTL; there is no partial
// invalidation. Construct one and inject it where needed, the TTL is
// chosen by the caller on every Set.
type PageCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

func NewPageCache(capacity int) (*PageCache, error) {
	l, err := lru.New[string, CacheItem](capacity)
	if err != nil {
		return nil, err
	}
	return &PageCache{lruCache: l}, nil
}

// Set stores data under key for the given TTL.
func (c *PageCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil when missing or expired.
func (c *PageCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete drops a single entry.
func (c *PageCache) Delete(key string) {
	c.lruCache.Remove(key)
}
