package clientkey

import (
	"sync"
	"time"
)

// DefaultTTL is how long an acquired client key is reused.
const DefaultTTL = 10 * time.Minute

type cachedKey struct {
	value      string
	obtainedAt time.Time
}

// Cache is a single-slot store for the most recently acquired key. Entries
// expire lazily on read; Set always overwrites (last write wins).
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	entry *cachedKey
}

// NewCache returns an empty cache. A zero ttl selects DefaultTTL and a nil
// clock selects time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now}
}

// Get returns the cached key while it is younger than the TTL.
func (c *Cache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil || c.now().Sub(c.entry.obtainedAt) >= c.ttl {
		return "", false
	}
	return c.entry.value, true
}

// Set stores value, stamped with the current time.
func (c *Cache) Set(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &cachedKey{value: value, obtainedAt: c.now()}
}
