package domain

import (
	"context"
	"time"
)

// Cache is the idempotency-cache collaborator: a report keyed by
// idempotency key plus a content hash of the uploaded table, so a client
// retry within the TTL gets back the same bytes instead of re-running
// detection. It is not a query-able history store.
type Cache interface {
	// Get retrieves a value from cache. Returns nil, nil if key not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping checks connectivity/health.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error
}

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache backend: "memory" or "redis"
	Type string

	// In-process LRU settings
	LocalMaxSize int
	LocalTTL     time.Duration

	// Redis settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}
