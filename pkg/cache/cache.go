// Package cache provides the artifact cache used around the render core.
//
// The engine itself never caches: composing a card is a pure function of its
// design and order id. Callers that render the same order repeatedly (the batch
// command, the HTTP surface) wrap the engine with a [Cache] keyed by a [Keyer].
//
// # Backends
//
//   - [NullCache]: stores nothing. The default.
//   - [FileCache]: JSON entries under a directory, for CLI usage.
//   - [RedisCache]: a shared Redis or Valkey instance, for the server.
//
// # Keys
//
// [DefaultKeyer] derives keys from a SHA-256 hash of the canonical design JSON
// plus the render options, so any change to the design produces a new key.
// [ScopedKeyer] prefixes every key, e.g. with the release version.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. The boolean reports a hit; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLArtifact bounds how long rendered PDFs, SVG pages and PNG proofs are
// kept.
const TTLArtifact = 7 * 24 * time.Hour
