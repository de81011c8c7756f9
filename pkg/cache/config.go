package cache

import "time"

// Config holds cache key layout and default TTL behavior.
type Config struct {
	// DefaultTTL applies when a caller passes a zero TTL.
	DefaultTTL time.Duration `json:"defaultTTL"`

	// KeyPrefix namespaces all cache keys.
	KeyPrefix string `json:"keyPrefix"`
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 5 * time.Minute,
		KeyPrefix:  "plantcare:",
	}
}
