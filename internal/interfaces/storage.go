package interfaces

import (
	"context"
	"fmt"
	"time"
)

// CacheKey identifies one logical upstream request. Caching is keyed by what
// was asked for, never by which relay answered.
type CacheKey struct {
	Endpoint string
	Symbol   string
	Params   string
}

// String renders the key in endpoint/symbol/params form for storage backends.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Endpoint, k.Symbol, k.Params)
}

// Cache is the injected response cache capability. Writes are
// last-write-wins with a TTL; no transactional guarantees are made.
type Cache interface {
	// Get returns the cached value for the key, or ok=false on miss or
	// expiry.
	Get(ctx context.Context, key CacheKey) (value []byte, ok bool)

	// Set stores the value under the key for the given TTL.
	Set(ctx context.Context, key CacheKey, value []byte, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}
