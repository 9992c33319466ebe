package cache

import (
	"fmt"

	"github.com/ringwatch/ringwatch/internal/domain"
)

// New builds the idempotency cache selected by cfg.Type: "memory" for the
// in-process LRUCache (default), "redis" for a RedisCache.
func New(cfg domain.CacheConfig) (domain.Cache, error) {
	switch cfg.Type {
	case "", "memory":
		return NewLRUCache(cfg.LocalMaxSize), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
