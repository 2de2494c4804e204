// Package cache provides the byte caches behind the bundle pipeline.
//
// Backends:
//   - FileCache: one JSON file per entry, used by the CLI
//   - MemoryCache: bounded LRU, used by the HTTP service
//   - RedisCache: shared cache for several service replicas
//   - NullCache: disables caching
//
// Keys are produced by a [Keyer] so that every stage of the pipeline hashes
// its inputs the same way regardless of the backend.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time to live.
//
// A miss is reported as (nil, false, nil). Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Time to live per pipeline stage.
const (
	TTLSpec   = 30 * 24 * time.Hour
	TTLBundle = 7 * 24 * time.Hour
)
