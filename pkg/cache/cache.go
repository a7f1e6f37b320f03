// Package cache provides the in-memory, time-bounded response cache shared
// by the service layer and the proxy. Entries expire lazily on read; there
// is no background sweep and no capacity bound.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/revlens-ai/revlens/pkg/models"
)

// DefaultTTL is how long a cached response stays valid.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a map-backed cache with a single TTL for all entries.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source, used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds a deterministic cache key from an endpoint and its filters.
// Filter ordering does not matter and empty/nil values are excluded, so two
// logically identical (endpoint, filters) pairs always produce the same key.
func Key(endpoint string, filters models.Filters) string {
	qs := filters.Encode()
	if qs == "" {
		return endpoint
	}
	return endpoint + "?" + qs
}

// Get returns the stored value while the entry is younger than the TTL.
// An expired entry is evicted and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores a value with a fresh timestamp, unconditionally replacing any
// prior entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len counts only entries that have not yet expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Sub(e.storedAt) < c.ttl {
			n++
		}
	}
	return n
}

// Stats reports cache performance metrics.
func (c *Cache) Stats() models.CacheStats {
	return models.CacheStats{
		Entries: int64(c.Len()),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
