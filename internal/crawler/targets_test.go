package crawler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/catalog"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/crawler"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// gatedPages hands out pages only after Start, mirroring the real
// browser session.
type gatedPages struct {
	started bool
}

func (g *gatedPages) Start(ctx context.Context) error {
	g.started = true
	return nil
}

func (g *gatedPages) NewPage(ctx context.Context) (adapter.Page, error) {
	if !g.started {
		return nil, errors.New("session not started")
	}
	return &fakePage{}, nil
}

func (g *gatedPages) Close() error { return nil }

// catalogSite serves a one-region, one-competition catalog and counts
// how often discovery actually reaches it.
type catalogSite struct {
	discoverCalls int
}

func (s *catalogSite) DiscoverRegions(ctx context.Context, p adapter.Page) ([]domain.CatalogNode, error) {
	s.discoverCalls++
	return []domain.CatalogNode{{
		Kind: domain.KindRegion,
		Key:  "england",
		Name: "England",
		URL:  "https://scores.example/england/",
	}}, nil
}

func (s *catalogSite) DiscoverCompetitions(
	ctx context.Context, p adapter.Page, region domain.CatalogNode,
) ([]domain.CatalogNode, error) {
	s.discoverCalls++
	return []domain.CatalogNode{{
		Kind:      domain.KindCompetition,
		Key:       "premier-league",
		Name:      "Premier League",
		ParentKey: region.Key,
		URL:       "https://scores.example/england/premier-league",
	}}, nil
}

func (s *catalogSite) ListMatchIDs(ctx context.Context, p adapter.Page) ([]string, error) {
	return nil, nil
}

func (s *catalogSite) ExtractMatch(ctx context.Context, p adapter.Page, id string) (*domain.Match, error) {
	return nil, errors.New("not a match page")
}

func newCatalogCache(t *testing.T, pages crawler.PageProvider, site adapter.Adapter) *catalog.Cache {
	t.Helper()
	log := logger.NewNoOp()
	cache, err := catalog.NewCache(t.TempDir(), time.Hour, crawler.NewProbe(pages, site, log), log)
	require.NoError(t, err)
	return cache
}

func TestCatalogTargetsColdCacheDiscoverThroughStartedSession(t *testing.T) {
	pages := &gatedPages{}
	site := &catalogSite{}
	cache := newCatalogCache(t, pages, site)

	// The crawl command starts the session before selecting targets so
	// the discovery probe has a live page source on a cold cache.
	require.NoError(t, pages.Start(context.Background()))

	sel := &crawler.CatalogTargets{Cache: cache}
	targets, err := sel.SelectTargets(context.Background())
	require.NoError(t, err)

	require.Len(t, targets, 1)
	assert.Equal(t, "england", targets[0].Region)
	assert.Equal(t, "premier-league", targets[0].CompetitionKey)
	assert.Equal(t, "current", targets[0].SeasonKey)
	assert.Equal(t, "https://scores.example/england/premier-league/results/", targets[0].SeasonURL)
	assert.Positive(t, site.discoverCalls, "discovery must reach the site adapter")
}

func TestCatalogTargetsWithoutSessionDegradeToSeedOnly(t *testing.T) {
	// With no page source the probe degrades: regions come from the
	// seed, every competition scope is empty, and no targets are built.
	pages := &gatedPages{}
	site := &catalogSite{}
	cache := newCatalogCache(t, pages, site)

	sel := &crawler.CatalogTargets{Cache: cache}
	targets, err := sel.SelectTargets(context.Background())
	require.NoError(t, err)

	assert.Empty(t, targets)
	assert.Zero(t, site.discoverCalls, "an unstarted session never reaches the adapter")
}

func TestStaticTargetsPreserveOrderAndDefaultSeason(t *testing.T) {
	sel := crawler.StaticTargets([]config.TargetConfig{
		{Region: "england", Competition: "premier-league", SeasonURL: "https://scores.example/a/"},
		{Region: "spain", Competition: "laliga", Season: "2024-2025", SeasonURL: "https://scores.example/b/"},
	})

	targets, err := sel.SelectTargets(context.Background())
	require.NoError(t, err)

	require.Len(t, targets, 2)
	assert.Equal(t, "current", targets[0].SeasonKey)
	assert.Equal(t, "2024-2025", targets[1].SeasonKey)
	assert.Equal(t, "england", targets[0].Region)
	assert.Equal(t, "spain", targets[1].Region)
}
