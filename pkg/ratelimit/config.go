package ratelimit

import (
	"time"
)

// Config holds the rate limiting policy. It is read-only after the limiter
// is constructed.
type Config struct {
	// MaxCalls is the number of requests a client may make per window.
	MaxCalls int `json:"maxCalls"`

	// Window is the length of the fixed window.
	Window time.Duration `json:"window"`

	// ExemptPaths are request paths that bypass rate limiting entirely
	// (health checks, readiness probes).
	ExemptPaths []string `json:"exemptPaths"`

	// PurgeInterval controls how often expired client windows are swept
	// from memory.
	PurgeInterval time.Duration `json:"purgeInterval"`

	// Enabled toggles rate limiting on/off.
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns the default rate limiting configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxCalls:      100,
		Window:        time.Minute,
		ExemptPaths:   []string{"/health", "/health/detailed"},
		PurgeInterval: 5 * time.Minute,
		Enabled:       true,
	}
}

// exemptSet builds a lookup set from the configured exempt paths.
func (c *Config) exemptSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExemptPaths))
	for _, p := range c.ExemptPaths {
		set[p] = struct{}{}
	}
	return set
}
