package cache

import "time"

// Cache is a process local key/value store with per entry expiry
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, expiration time.Duration)
	Delete(key string)
	DeleteByPrefix(prefix string)
	Flush()
	ItemCount() int
}
