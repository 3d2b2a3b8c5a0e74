package config

import "fmt"

// AppConfig represents application-specific configuration settings.
type AppConfig struct {
	// Name is the name of the application.
	Name string `mapstructure:"name" yaml:"name"`
	// Version is the version of the application.
	Version string `mapstructure:"version" yaml:"version"`
	// Environment is the application environment (development, staging, production).
	Environment string `mapstructure:"environment" yaml:"environment"`
	// Debug indicates whether debug mode is enabled.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// Validate checks if the application configuration is valid.
func (c *AppConfig) Validate() error {
	switch c.Environment {
	case "", "development", "staging", "production":
		// Valid environment; empty falls back to development.
	default:
		return fmt.Errorf("%w: %s", ErrInvalidEnvironment, c.Environment)
	}
	return nil
}
