package config

import (
	"github.com/coral-mesh/swd/internal/constants"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Log: LogConfig{
			Level:  constants.DefaultLogLevel,
			Pretty: true,
		},
		Cache: CacheConfig{
			Size: constants.DefaultCacheSize,
		},
		Output: OutputConfig{
			Format: constants.DefaultOutputFormat,
		},
	}
}
