package config

import (
	"errors"
	"time"
)

// Default crawler configuration values.
const (
	// DefaultBaseURL is the score site the adapter is rooted at.
	DefaultBaseURL = "https://www.scoreflash.example"
	// DefaultRecordDelay is the base delay between record fetches.
	DefaultRecordDelay = 3 * time.Second
	// DefaultRecordJitter is the maximum random delay added per record.
	DefaultRecordJitter = 2 * time.Second
	// DefaultCompetitionDelay is the delay between competition targets.
	DefaultCompetitionDelay = 10 * time.Second
	// DefaultRegionDelay is the delay between regions.
	DefaultRegionDelay = 30 * time.Second
	// DefaultCacheTTL is the discovery cache validity window.
	DefaultCacheTTL = 168 * time.Hour // 7 days
	// DefaultNoProgressThreshold is how many stalled pagination
	// iterations are tolerated before declaring convergence.
	DefaultNoProgressThreshold = 3
	// DefaultMaxIterations is the pagination safety ceiling.
	DefaultMaxIterations = 50
	// DefaultLoadSignalTimeout bounds the wait for the background
	// data-load signal after a "show more" click.
	DefaultLoadSignalTimeout = 5 * time.Second
	// DefaultSettleMin is the minimum randomized settle delay.
	DefaultSettleMin = 500 * time.Millisecond
	// DefaultSettleMax is the maximum randomized settle delay.
	DefaultSettleMax = 1500 * time.Millisecond
)

// CrawlerConfig holds crawl pacing, pagination, and discovery settings.
type CrawlerConfig struct {
	// BaseURL is the root URL of the score site.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// RecordDelay is the base delay applied after each record fetch.
	RecordDelay time.Duration `mapstructure:"record_delay" yaml:"record_delay"`
	// RecordJitter is the upper bound of the random delay added to
	// RecordDelay per record.
	RecordJitter time.Duration `mapstructure:"record_jitter" yaml:"record_jitter"`
	// CompetitionDelay is the delay applied after each target.
	CompetitionDelay time.Duration `mapstructure:"competition_delay" yaml:"competition_delay"`
	// RegionDelay is the delay applied when the run moves to a new region.
	RegionDelay time.Duration `mapstructure:"region_delay" yaml:"region_delay"`
	// CacheTTL is the discovery cache validity window.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	// NoProgressThreshold is the number of pagination iterations without
	// new items before convergence.
	NoProgressThreshold int `mapstructure:"no_progress_threshold" yaml:"no_progress_threshold"`
	// MaxIterations is the hard pagination iteration ceiling.
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
	// LoadSignalTimeout bounds the wait for the data-load signal after
	// a "show more" click.
	LoadSignalTimeout time.Duration `mapstructure:"load_signal_timeout" yaml:"load_signal_timeout"`
	// SettleMin and SettleMax bound the randomized settle delay applied
	// after each click.
	SettleMin time.Duration `mapstructure:"settle_min" yaml:"settle_min"`
	SettleMax time.Duration `mapstructure:"settle_max" yaml:"settle_max"`
	// RefetchNonFinal makes records whose status is not final eligible
	// for re-extraction on later runs.
	RefetchNonFinal bool `mapstructure:"refetch_non_final" yaml:"refetch_non_final"`
}

// Validate validates the crawler configuration.
func (c *CrawlerConfig) Validate() error {
	if c.RecordDelay < 0 {
		return errors.New("record_delay must be non-negative")
	}
	if c.RecordJitter < 0 {
		return errors.New("record_jitter must be non-negative")
	}
	if c.CompetitionDelay < 0 {
		return errors.New("competition_delay must be non-negative")
	}
	if c.RegionDelay < 0 {
		return errors.New("region_delay must be non-negative")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache_ttl must be positive")
	}
	if c.NoProgressThreshold < 1 {
		return errors.New("no_progress_threshold must be positive")
	}
	if c.MaxIterations < 1 {
		return errors.New("max_iterations must be positive")
	}
	if c.SettleMax < c.SettleMin {
		return errors.New("settle_max must not be less than settle_min")
	}
	return nil
}
