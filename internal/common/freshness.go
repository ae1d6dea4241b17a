// Package common provides shared utilities for drip
package common

import "time"

// Freshness TTLs for cached upstream responses. Price data moves daily,
// dividend and yield figures are slow.
const (
	FreshnessQuote      = 1 * time.Hour
	FreshnessSeries     = 1 * time.Hour
	FreshnessEnrichment = 24 * time.Hour
	FreshnessDividends  = 7 * 24 * time.Hour
	FreshnessScreener   = 6 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
