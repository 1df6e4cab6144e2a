package cache

import "strings"

// UnmarshalCacheValue converts a cached value back to *T.
// Returns nil and false when the value is missing or of another type.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}
	typed, ok := value.(*T)
	return typed, ok
}

// Key joins parts into a namespaced cache key
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
