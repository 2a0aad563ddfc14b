package signals

import (
	"sync"
	"time"

	"github.com/maxcole/trendscout/internal/models"
)

// DefaultTTL is how long one merged SignalsResult stays fresh.
const DefaultTTL = 60 * time.Second

// Cache stores merged signal results keyed by category+interests. The
// interface exists so tests can control the clock instead of waiting out
// the TTL.
type Cache interface {
	Get(key string) (models.SignalsResult, bool)
	Set(key string, result models.SignalsResult)
}

type cacheEntry struct {
	at   time.Time
	data models.SignalsResult
}

// MemoryCache is the production cache: a process-wide map with a TTL check
// at read time. There is no eviction beyond expiry and no invalidation
// API. Two near-simultaneous fetches racing at the TTL boundary are
// acceptable; the second write simply wins.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a cache with the given TTL. A zero ttl means
// DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the cache clock. Test hook.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(key string) (models.SignalsResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return models.SignalsResult{}, false
	}
	if c.now().Sub(entry.at) >= c.ttl {
		delete(c.entries, key)
		return models.SignalsResult{}, false
	}
	return entry.data, true
}

func (c *MemoryCache) Set(key string, result models.SignalsResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{at: c.now(), data: result}
}
