package cache

import "time"

// Cache is a TTL cache keyed by string.
type Cache interface {
	// Get returns (value, true) if found, (nil, false) if not found or expired.
	Get(key string) (any, bool)

	// Set stores a value with a TTL. It may be dropped by admission policy,
	// in which case it returns false.
	Set(key string, value any, ttl time.Duration) bool

	// Delete removes a value.
	Delete(key string)

	// Clear removes all values.
	Clear()

	// Close releases resources. The cache is unusable afterwards.
	Close()
}
