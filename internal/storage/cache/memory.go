// Package cache implements the response cache with pluggable backends.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
)

// MemoryCache is an in-process cache with per-entry TTLs. Expired entries
// are dropped lazily on read and swept whenever the map grows past the
// sweep threshold.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *common.Logger
	now     func() time.Time // injectable for tests
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

const sweepThreshold = 4096

// NewMemoryCache creates a new in-process cache.
func NewMemoryCache(logger *common.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the cached value for the key, or ok=false on miss or expiry.
func (c *MemoryCache) Get(ctx context.Context, key interfaces.CacheKey) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key.String()]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key.String())
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores the value under the key for the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key interfaces.CacheKey, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= sweepThreshold {
		c.sweepLocked()
	}
	c.entries[key.String()] = memoryEntry{
		value:   value,
		expires: c.now().Add(ttl),
	}
	return nil
}

// Close releases the entry map.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

func (c *MemoryCache) sweepLocked() {
	now := c.now()
	removed := 0
	for k, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("Swept expired cache entries")
	}
}

// Ensure MemoryCache implements Cache
var _ interfaces.Cache = (*MemoryCache)(nil)
