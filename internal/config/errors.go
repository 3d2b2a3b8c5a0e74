package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidEnvironment is returned for an unknown environment name.
	ErrInvalidEnvironment = errors.New("invalid environment")
	// ErrMissingRegion is returned when a target omits its region.
	ErrMissingRegion = errors.New("target region must be specified")
	// ErrMissingCompetition is returned when a target omits its competition.
	ErrMissingCompetition = errors.New("target competition must be specified")
	// ErrMissingSeasonURL is returned when a target omits its season URL.
	ErrMissingSeasonURL = errors.New("target season_url must be specified")
)
