package cache

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// ExpiryDefaultInMemory applies when no expiry is configured
	ExpiryDefaultInMemory = 30 * time.Minute
	cleanupInterval       = 10 * time.Minute
)

// InMemoryCache implements Cache on top of go-cache
type InMemoryCache struct {
	cache *gocache.Cache
}

var (
	inMemoryCache *InMemoryCache
	inMemoryOnce  sync.Once
)

// NewInMemoryCache creates a cache whose entries expire after defaultExpiry
// unless Set is given an explicit expiration.
func NewInMemoryCache(defaultExpiry time.Duration) *InMemoryCache {
	if defaultExpiry <= 0 {
		defaultExpiry = ExpiryDefaultInMemory
	}
	return &InMemoryCache{
		cache: gocache.New(defaultExpiry, cleanupInterval),
	}
}

// InitializeInMemoryCache sets up the shared instance once
func InitializeInMemoryCache(defaultExpiry time.Duration) {
	inMemoryOnce.Do(func() {
		inMemoryCache = NewInMemoryCache(defaultExpiry)
	})
}

func GetInMemoryCache() *InMemoryCache {
	InitializeInMemoryCache(ExpiryDefaultInMemory)
	return inMemoryCache
}

func (c *InMemoryCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

// Set stores value; a zero expiration uses the cache default
func (c *InMemoryCache) Set(key string, value interface{}, expiration time.Duration) {
	if expiration == 0 {
		expiration = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush() {
	c.cache.Flush()
}

func (c *InMemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}
