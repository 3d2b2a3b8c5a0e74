package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/ratelimit"
)

func newTestLimiter(cfg *config.CrawlerConfig) *ratelimit.Limiter {
	return ratelimit.New(cfg, logger.NewNoOp())
}

func TestDelayPerTier(t *testing.T) {
	l := newTestLimiter(&config.CrawlerConfig{
		RecordDelay:      10 * time.Millisecond,
		CompetitionDelay: 20 * time.Millisecond,
		RegionDelay:      30 * time.Millisecond,
	})

	assert.Equal(t, 10*time.Millisecond, l.Delay(ratelimit.TierRecord))
	assert.Equal(t, 20*time.Millisecond, l.Delay(ratelimit.TierCompetition))
	assert.Equal(t, 30*time.Millisecond, l.Delay(ratelimit.TierRegion))
}

func TestRecordJitterBounds(t *testing.T) {
	base := 10 * time.Millisecond
	jitter := 5 * time.Millisecond
	l := newTestLimiter(&config.CrawlerConfig{
		RecordDelay:  base,
		RecordJitter: jitter,
	})

	for i := 0; i < 100; i++ {
		d := l.Delay(ratelimit.TierRecord)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+jitter)
	}
}

func TestJitterOnlyAppliesToRecordTier(t *testing.T) {
	l := newTestLimiter(&config.CrawlerConfig{
		RecordJitter:     time.Hour,
		CompetitionDelay: time.Millisecond,
		RegionDelay:      time.Millisecond,
	})

	assert.Equal(t, time.Millisecond, l.Delay(ratelimit.TierCompetition))
	assert.Equal(t, time.Millisecond, l.Delay(ratelimit.TierRegion))
}

func TestWaitCompletes(t *testing.T) {
	l := newTestLimiter(&config.CrawlerConfig{
		CompetitionDelay: 5 * time.Millisecond,
	})

	start := time.Now()
	err := l.Wait(context.Background(), ratelimit.TierCompetition)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestWaitZeroDelayReturnsImmediately(t *testing.T) {
	l := newTestLimiter(&config.CrawlerConfig{})

	err := l.Wait(context.Background(), ratelimit.TierRegion)
	require.NoError(t, err)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	l := newTestLimiter(&config.CrawlerConfig{
		RegionDelay: time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := l.Wait(ctx, ratelimit.TierRegion)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
