// Package config provides configuration management for the matchcrawl
// application. It handles loading, validation, and access to configuration
// values from YAML files and environment variables via Viper.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *AppConfig
	// GetCrawlerConfig returns the crawler configuration.
	GetCrawlerConfig() *CrawlerConfig
	// GetBrowserConfig returns the browser configuration.
	GetBrowserConfig() *BrowserConfig
	// GetStorageConfig returns the storage configuration.
	GetStorageConfig() *StorageConfig
	// GetLogConfig returns the logger configuration.
	GetLogConfig() *logger.Config
	// GetTargets returns the statically configured crawl targets.
	GetTargets() []TargetConfig
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface.
var _ Interface = (*Config)(nil)

// Config represents the application configuration.
type Config struct {
	// App holds application-level settings.
	App AppConfig `mapstructure:"app" yaml:"app"`
	// Crawler holds crawl pacing, pagination, and discovery settings.
	Crawler CrawlerConfig `mapstructure:"crawler" yaml:"crawler"`
	// Browser holds headless browser settings.
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	// Storage holds on-disk storage locations.
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	// Log holds logger settings.
	Log logger.Config `mapstructure:"log" yaml:"log"`
	// Targets is the optional static list of crawl targets.
	Targets []TargetConfig `mapstructure:"targets" yaml:"targets"`
}

// TargetConfig is one statically configured crawl target.
type TargetConfig struct {
	// Region is the region natural key.
	Region string `mapstructure:"region" yaml:"region"`
	// Competition is the competition natural key.
	Competition string `mapstructure:"competition" yaml:"competition"`
	// Season is the season natural key.
	Season string `mapstructure:"season" yaml:"season"`
	// SeasonURL is the URL of the season results page.
	SeasonURL string `mapstructure:"season_url" yaml:"season_url"`
}

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *AppConfig { return &c.App }

// GetCrawlerConfig returns the crawler configuration.
func (c *Config) GetCrawlerConfig() *CrawlerConfig { return &c.Crawler }

// GetBrowserConfig returns the browser configuration.
func (c *Config) GetBrowserConfig() *BrowserConfig { return &c.Browser }

// GetStorageConfig returns the storage configuration.
func (c *Config) GetStorageConfig() *StorageConfig { return &c.Storage }

// GetLogConfig returns the logger configuration.
func (c *Config) GetLogConfig() *logger.Config { return &c.Log }

// GetTargets returns the statically configured crawl targets.
func (c *Config) GetTargets() []TargetConfig { return c.Targets }

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Crawler.Validate(); err != nil {
		return fmt.Errorf("crawler: %w", err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	for i := range c.Targets {
		if err := c.Targets[i].Validate(); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks that a static target names its full hierarchy.
func (t *TargetConfig) Validate() error {
	if t.Region == "" {
		return ErrMissingRegion
	}
	if t.Competition == "" {
		return ErrMissingCompetition
	}
	if t.SeasonURL == "" {
		return ErrMissingSeasonURL
	}
	return nil
}

// Load builds a Config from the settings Viper has already read
// (config file, environment, defaults). Duration strings such as "7s"
// and "168h" are decoded via mapstructure hooks.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
