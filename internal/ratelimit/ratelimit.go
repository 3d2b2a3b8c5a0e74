// Package ratelimit provides the three-tier delay primitive that paces
// the crawl: per-record, per-competition, and per-region waits. It is a
// pure timing component; retry policy lives with the caller.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Tier identifies the granularity of a wait.
type Tier int

const (
	// TierRecord is the delay between individual record fetches.
	TierRecord Tier = iota
	// TierCompetition is the delay between competition targets.
	TierCompetition
	// TierRegion is the delay between regions.
	TierRegion
)

// String returns the tier name for logging.
func (t Tier) String() string {
	switch t {
	case TierRecord:
		return "record"
	case TierCompetition:
		return "competition"
	case TierRegion:
		return "region"
	default:
		return "unknown"
	}
}

// Limiter computes and awaits delays between crawl operations. The
// record tier additionally applies uniform random jitter so request
// timing does not look machine-regular.
type Limiter struct {
	recordDelay      time.Duration
	recordJitter     time.Duration
	competitionDelay time.Duration
	regionDelay      time.Duration
	rng              *rand.Rand
	logger           logger.Interface
}

// New creates a limiter from the crawler configuration.
func New(cfg *config.CrawlerConfig, log logger.Interface) *Limiter {
	return &Limiter{
		recordDelay:      cfg.RecordDelay,
		recordJitter:     cfg.RecordJitter,
		competitionDelay: cfg.CompetitionDelay,
		regionDelay:      cfg.RegionDelay,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:           log.WithComponent("ratelimit"),
	}
}

// Delay returns the next delay for the given tier. Record-tier delays
// include fresh jitter on every call.
func (l *Limiter) Delay(tier Tier) time.Duration {
	switch tier {
	case TierRecord:
		d := l.recordDelay
		if l.recordJitter > 0 {
			d += time.Duration(l.rng.Int63n(int64(l.recordJitter)))
		}
		return d
	case TierCompetition:
		return l.competitionDelay
	case TierRegion:
		return l.regionDelay
	default:
		return 0
	}
}

// Wait sleeps for the tier's delay or until the context is done,
// whichever comes first.
func (l *Limiter) Wait(ctx context.Context, tier Tier) error {
	d := l.Delay(tier)
	if d <= 0 {
		return ctx.Err()
	}

	l.logger.Debug("Waiting before next operation", "tier", tier.String(), "delay", d)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
