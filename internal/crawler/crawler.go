// Package crawler provides the top-level crawl orchestration: it walks
// the caller-supplied targets in order, resolves each season's record
// ids through the pagination controller, extracts only records not yet
// persisted, and merges results write-through into the dataset store.
// Everything runs sequentially over one browser session — concurrency
// is deliberately traded away to keep a predictable, low request rate.
package crawler

import (
	"context"
	"sync"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/pagination"
	"github.com/jonesrussell/matchcrawl/internal/ratelimit"
)

// Interface defines the orchestrator's surface.
type Interface interface {
	// Run crawls the targets in order and returns the accumulated stats.
	Run(ctx context.Context, targets []domain.CrawlTarget) (*domain.CrawlStats, error)
	// Stats returns a snapshot of the current or most recent run,
	// pollable while a run is in progress.
	Stats() domain.CrawlStats
}

// PageProvider owns the browser session for a run. Implemented by
// browser.Session.
type PageProvider interface {
	// Start launches or connects the browser.
	Start(ctx context.Context) error
	// NewPage opens a fresh page.
	NewPage(ctx context.Context) (adapter.Page, error)
	// Close shuts the browser down.
	Close() error
}

// SiteAdapter is the full page-adapter surface the orchestrator needs:
// typed extraction plus the pagination driver for season pages.
type SiteAdapter interface {
	adapter.Adapter
	// Pager returns a pagination driver over a navigated season page.
	Pager(page adapter.Page) pagination.Driver
}

// Store is the dataset persistence surface. Implemented by dataset.Store.
type Store interface {
	Load(target domain.CrawlTarget) (domain.Dataset, error)
	Diff(ds domain.Dataset, ids []string) []string
	Merge(ds domain.Dataset, id string, m *domain.Match) bool
	Persist(target domain.CrawlTarget, ds domain.Dataset) error
}

// Limiter is the pacing surface. Implemented by ratelimit.Limiter.
type Limiter interface {
	Wait(ctx context.Context, tier ratelimit.Tier) error
}

// Paginator drives reveal-more loops. Implemented by pagination.Controller.
type Paginator interface {
	CollectIDs(ctx context.Context, drv pagination.Driver) ([]string, error)
}

// IsFinalFunc reports whether a persisted record can no longer change
// upstream. Records it rejects become eligible for re-extraction on
// later runs through the explicit replace path.
type IsFinalFunc func(*domain.Match) bool

// Ensure Crawler implements Interface.
var _ Interface = (*Crawler)(nil)

// Crawler is the orchestrator. It is not safe for concurrent Run calls;
// Stats may be polled concurrently.
type Crawler struct {
	cfg     *config.CrawlerConfig
	pages   PageProvider
	adapter SiteAdapter
	store   Store
	limiter Limiter
	pager   Paginator
	isFinal IsFinalFunc
	logger  logger.Interface

	mu    sync.RWMutex
	stats *domain.CrawlStats
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithIsFinal opts into re-fetching records the predicate reports as
// non-final. Without it every persisted record is treated as final.
func WithIsFinal(fn IsFinalFunc) Option {
	return func(c *Crawler) {
		c.isFinal = fn
	}
}

// New creates an orchestrator.
func New(
	cfg *config.CrawlerConfig,
	pages PageProvider,
	site SiteAdapter,
	store Store,
	limiter Limiter,
	pager Paginator,
	log logger.Interface,
	opts ...Option,
) *Crawler {
	c := &Crawler{
		cfg:     cfg,
		pages:   pages,
		adapter: site,
		store:   store,
		limiter: limiter,
		pager:   pager,
		logger:  log.WithComponent("crawler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns a snapshot of the current or most recent run.
func (c *Crawler) Stats() domain.CrawlStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stats == nil {
		return domain.CrawlStats{}
	}
	return c.stats.Snapshot()
}

func (c *Crawler) setStats(stats *domain.CrawlStats) {
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}
