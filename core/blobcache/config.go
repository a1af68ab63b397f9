package blobcache

// Config holds configuration for the content-addressed blob cache.
type Config struct {
	// Dir is the directory holding the blob files and the index database.
	Dir string `mapstructure:"dir" default:"./cache"`
	// MaxSizeMB is the eviction threshold in megabytes. 0 disables eviction.
	MaxSizeMB int64 `mapstructure:"max_size_mb" default:"512"`
}

// MaxBytes returns the eviction threshold in bytes.
func (c Config) MaxBytes() int64 {
	return c.MaxSizeMB * 1024 * 1024
}
