package config

import "time"

// CacheConfig controls the Redis copy of the board snapshot.  The board
// is rebuilt on a miss and every assignment change moves readers to a new
// generation key, so TTL only bounds staleness against writes made
// outside this service.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads BOARD_CACHE_* variables.  Defaults are used when
// variables are not set.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled: envBool("BOARD_CACHE_ENABLED", true),
		TTL:     envDur("BOARD_CACHE_TTL", 5*time.Second),
		Prefix:  envStr("BOARD_CACHE_PREFIX", "liftboard"),
	}
	if c.TTL <= 0 {
		c.Enabled = false
	}
	return c
}
