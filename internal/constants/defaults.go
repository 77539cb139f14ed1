// Package constants defines shared configuration constants and defaults.
package constants

// Registry defaults.
const (
	// DefaultCacheSize is the number of loaded models kept by the registry.
	DefaultCacheSize = 16

	// MaxCacheSize bounds the registry size accepted from configuration.
	MaxCacheSize = 4096
)

// Output defaults.
const (
	DefaultLogLevel = "warn"

	DefaultOutputFormat = "table"
)

// MaxStreamSize bounds SWD files read from disk and lz4 frames after
// decompression.
const MaxStreamSize = 256 << 20
