// Package cache stores raw registry responses between runs.
//
// Only transport data is cached (version lists and per-release metadata as
// returned by the registry). Resolution results are never stored: every run
// starts from an empty resolution map and rebuilds it from these responses.
//
// Backends:
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI default)
//   - [RedisCache]: shared cache for several API instances
//   - [MongoCache]: shared cache with TTL documents
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// HTTPKey builds the key under which a registry response is cached.
// The namespace separates registries ("pypi:"), key is typically the
// request path.
func HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
