package config

import (
	"errors"
	"time"
)

// Default browser configuration values.
const (
	// DefaultNavigationTimeout is the timeout for a single page navigation.
	DefaultNavigationTimeout = 30 * time.Second
	// DefaultSelectorTimeout is the timeout for waiting on a selector.
	DefaultSelectorTimeout = 10 * time.Second
)

// BrowserConfig holds headless browser settings.
type BrowserConfig struct {
	// Headless launches the browser without a visible window.
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// RemoteURL is the WebSocket URL of an external browser instance.
	// Empty means launch a local browser.
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	// UserAgent overrides the browser's user agent when non-empty.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// NavigationTimeout is the timeout for a single page navigation.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// SelectorTimeout is the timeout for waiting on a selector.
	SelectorTimeout time.Duration `mapstructure:"selector_timeout" yaml:"selector_timeout"`
}

// Validate validates the browser configuration.
func (c *BrowserConfig) Validate() error {
	if c.NavigationTimeout < 0 {
		return errors.New("navigation_timeout must be non-negative")
	}
	if c.SelectorTimeout < 0 {
		return errors.New("selector_timeout must be non-negative")
	}
	return nil
}
