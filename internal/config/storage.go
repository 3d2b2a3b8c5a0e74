package config

import "errors"

// Default storage locations.
const (
	// DefaultDataDir is where per-target datasets are persisted.
	DefaultDataDir = "data"
	// DefaultCacheDir is where discovery cache entries are persisted.
	DefaultCacheDir = "cache"
)

// StorageConfig holds on-disk storage locations.
type StorageConfig struct {
	// DataDir is the root directory for per-target datasets.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// CacheDir is the directory for discovery cache entries.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must be specified")
	}
	if c.CacheDir == "" {
		return errors.New("cache_dir must be specified")
	}
	return nil
}
