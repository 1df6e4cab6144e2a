package cache

import (
	"github.com/flexprice/entitlement-engine/internal/config"
	"github.com/flexprice/entitlement-engine/internal/logger"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	CacheTypeInMemory CacheType = "inmemory"
)

// Initialize returns the cache selected by configuration
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache system", "type", cfg.Cache.Type, "expiry", cfg.Cache.Expiry)

	var cache Cache
	switch CacheType(cfg.Cache.Type) {
	case CacheTypeInMemory:
		fallthrough
	default:
		InitializeInMemoryCache(cfg.Cache.Expiry)
		cache = GetInMemoryCache()
	}

	return cache
}
