// Package pagination drives "show more results" loops to convergence.
// It implements a small state machine — Loading, Clicking, Settling,
// Converged — over an abstract Driver so the convergence protocol stays
// independent of any page layout.
package pagination

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// ErrNoMoreControl is returned by Driver.ClickMore when the "show more"
// control is absent from the page.
var ErrNoMoreControl = errors.New("no more-results control present")

// Driver is the page-side half of the pagination protocol.
type Driver interface {
	// CountItems returns the number of result items currently visible.
	CountItems(ctx context.Context) (int, error)
	// ClickMore attempts to click the "show more" control. It returns
	// ErrNoMoreControl when the control is absent.
	ClickMore(ctx context.Context) error
	// WaitLoadSignal blocks until the background data load triggered by
	// the last click is observed, or the context is done. A timeout is
	// not an error condition for the caller; it simply falls through to
	// the settle delay.
	WaitLoadSignal(ctx context.Context) error
	// ListIDs returns the ids of all visible items in document order.
	ListIDs(ctx context.Context) ([]string, error)
}

// Reason records why the loop converged.
type Reason string

const (
	// ReasonControlGone: the "show more" control disappeared or the
	// click failed, which is the normal end of a fully revealed list.
	ReasonControlGone Reason = "control_gone"
	// ReasonNoProgress: the threshold of stalled iterations was reached.
	ReasonNoProgress Reason = "no_progress"
	// ReasonCeiling: the hard iteration ceiling was hit. This is a
	// safety valve, not an expected path.
	ReasonCeiling Reason = "ceiling"
)

// Controller runs reveal-more loops to convergence.
type Controller struct {
	noProgressThreshold int
	maxIterations       int
	loadSignalTimeout   time.Duration
	settleMin           time.Duration
	settleMax           time.Duration
	rng                 *rand.Rand
	logger              logger.Interface
}

// NewController creates a controller from the crawler configuration.
func NewController(cfg *config.CrawlerConfig, log logger.Interface) *Controller {
	return &Controller{
		noProgressThreshold: cfg.NoProgressThreshold,
		maxIterations:       cfg.MaxIterations,
		loadSignalTimeout:   cfg.LoadSignalTimeout,
		settleMin:           cfg.SettleMin,
		settleMax:           cfg.SettleMax,
		rng:                 rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:              log.WithComponent("pagination"),
	}
}

// CollectIDs clicks the driver's "show more" control until the visible
// item count stops growing, then returns the deduplicated id list in
// first-seen order. A stalled list is normal convergence, never an
// error; only context cancellation or a driver read failure aborts.
func (c *Controller) CollectIDs(ctx context.Context, drv Driver) ([]string, error) {
	count, err := drv.CountItems(ctx)
	if err != nil {
		return nil, err
	}

	reason := ReasonCeiling
	noProgress := 0
	iterations := 0

	for i := 0; i < c.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations = i + 1

		if clickErr := drv.ClickMore(ctx); clickErr != nil {
			if !errors.Is(clickErr, ErrNoMoreControl) {
				c.logger.Debug("Click on more-results control failed",
					"error", clickErr)
			}
			reason = ReasonControlGone
			break
		}

		c.settle(ctx, drv)

		newCount, countErr := drv.CountItems(ctx)
		if countErr != nil {
			return nil, countErr
		}

		if newCount > count {
			count = newCount
			noProgress = 0
			continue
		}

		noProgress++
		if noProgress >= c.noProgressThreshold {
			reason = ReasonNoProgress
			break
		}
	}

	c.logger.Info("Pagination converged",
		"reason", string(reason),
		"iterations", iterations,
		"items", count,
	)

	ids, err := drv.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	return dedupe(ids), nil
}

// settle races the background data-load signal against a fixed timeout,
// then sleeps a short randomized delay so the DOM can finish updating.
func (c *Controller) settle(ctx context.Context, drv Driver) {
	sigCtx, cancel := context.WithTimeout(ctx, c.loadSignalTimeout)
	_ = drv.WaitLoadSignal(sigCtx)
	cancel()

	d := c.settleMin
	if span := c.settleMax - c.settleMin; span > 0 {
		d += time.Duration(c.rng.Int63n(int64(span)))
	}
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// dedupe removes duplicate ids preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
