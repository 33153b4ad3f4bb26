// Package cache is the time-boxed result memo placed in front of the
// dashboard computation.
//
// Entries expire lazily: an expired entry is treated as absent on lookup and
// overwritten by the next store. There is no background sweep. Concurrent
// misses on the same key each run the computation; the last writer wins.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Status tells the caller whether a value was served from the cache.
type Status string

const (
	Hit  Status = "HIT"
	Miss Status = "MISS"
)

// Cache is an in-memory, process-local key/value memo. It is safe for
// concurrent use.
type Cache struct {
	store *gocache.Cache
}

// New returns an empty cache. A cleanup interval of 0 keeps go-cache from
// starting its janitor goroutine.
func New() *Cache {
	return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
}

// GetOrCompute returns the unexpired value stored under key, or runs compute,
// stores its result for ttl and returns it. A failed compute is never stored.
// A ttl of zero or less bypasses the cache entirely.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (any, Status, error) {
	return Fetch(c, key, ttl, compute)
}

// Fetch is the typed form of GetOrCompute. A stored value of a different type
// is treated as a miss and overwritten.
func Fetch[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, Status, error) {
	if ttl > 0 {
		if cached, found := c.store.Get(key); found {
			if value, ok := cached.(T); ok {
				return value, Hit, nil
			}
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, Miss, err
	}

	if ttl > 0 {
		c.store.Set(key, value, ttl)
	}
	return value, Miss, nil
}

// Invalidate removes key.
func (c *Cache) Invalidate(key string) {
	c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Flush()
}

// Len returns the number of stored entries, including expired entries that
// have not been overwritten yet.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
