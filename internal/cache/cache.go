// Package cache provides the TTL result cache that bounds call volume
// against the rate-limited upstream provider.
package cache

import (
	"context"
	"strconv"
)

// Store is the result cache contract. Get and Set never fail from the
// caller's point of view: any storage or serialization problem degrades
// to a cache miss.
type Store interface {
	// Get unmarshals the cached value for key into dest and reports
	// whether a live (unexpired) entry was found.
	Get(ctx context.Context, key string, dest interface{}) bool

	// Set stores value under key with the store's TTL.
	Set(ctx context.Context, key string, value interface{})
}

// Stable cache key builders. Entries are idempotent re-derivations of
// upstream truth, so a same-key overwrite is harmless.
const MoversKey = "market_movers"

func QuoteKey(symbol string) string {
	return "quote:" + symbol
}

func TimeSeriesKey(symbol string, size int) string {
	return "timeseries:" + symbol + ":" + strconv.Itoa(size)
}

func ProfileKey(symbol string) string {
	return "profile:" + symbol
}

func FundamentalsKey(symbol string) string {
	return "fundamentals:" + symbol
}
