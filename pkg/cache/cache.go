// Package cache stores routing results and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: zstd-compressed entries under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys from content hashes and the options that affect the
// output, so a changed circuit, device or router setting never hits a stale
// entry:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RouteKey(cache.Hash(circuitText), cache.Hash(archText), cache.RouteKeyOpts{
//	    Finder: "approx", Estimator: "geo", Order: "program",
//	})
//
// [ScopedKeyer] prefixes every key, which keeps several users or projects
// apart on a shared Redis.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long entries live unless configured otherwise.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
