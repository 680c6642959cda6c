package models

// Configuration models

// CacheConfig holds local cache database configuration
type CacheConfig struct {
	Provider string            // sqlite, mongodb
	URI      string            // Connection URI or file path
	Database string            // Database name
	Options  map[string]string // Provider-specific options
}
