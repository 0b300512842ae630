// Package cache provides the local key/value stores behind fleeting's
// time-to-live cache.
//
// # Overview
//
// A [Store] is a raw byte store that may drop entries on its own: the
// in-memory store evicts under capacity pressure, Redis and Mongo expire
// keys, and an operator may clear any of them. [TTLCache] layers the
// freshness rules on top of a Store: every value is wrapped in an [Entry]
// recording when it was stored and for how many minutes it stays fresh, and
// anything that is absent, evicted, expired, or undecodable reads as a miss.
//
// # Backends
//
//   - [SQLiteStore]: a single-file database under the cache directory (default)
//   - [FileStore]: one JSON file per key
//   - [MemoryStore]: bounded in-process store backed by ristretto
//   - [RedisStore]: shared Redis instance
//   - [MongoStore]: shared MongoDB collection
//   - [NullStore]: stores nothing, every read misses
//
// [Open] builds a Store from [Options].
//
// # Keys
//
// Keys are opaque strings. Callers namespace them (for example
// "github:/repos/mozilla/openbadges/forks"); [Scoped] adds a further prefix
// when several API hosts share one store.
package cache

import (
	"context"
	"time"
)

// Store is a raw key/value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the bytes stored under key. A missing or evicted key is
	// reported as (nil, false, nil), never as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value. A positive
	// ttl lets the store reclaim the entry after that long; zero keeps it
	// until evicted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Clearer is implemented by stores that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
