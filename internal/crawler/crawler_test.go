package crawler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/crawler"
	"github.com/jonesrussell/matchcrawl/internal/dataset"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/pagination"
	"github.com/jonesrussell/matchcrawl/internal/ratelimit"
)

// fakePage is an inert page handle.
type fakePage struct{ navErr error }

func (f *fakePage) Navigate(ctx context.Context, url string) error      { return f.navErr }
func (f *fakePage) HTML(ctx context.Context) (string, error)            { return "", nil }
func (f *fakePage) Has(ctx context.Context, sel string) (bool, error)   { return false, nil }
func (f *fakePage) Click(ctx context.Context, sel string) error         { return nil }
func (f *fakePage) WaitResponse(ctx context.Context, sub string) error  { return nil }
func (f *fakePage) Close() error                                        { return nil }

// fakePages provides pages and records session lifecycle.
type fakePages struct {
	startErr error
	started  bool
	closed   bool
	page     *fakePage
}

func (f *fakePages) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakePages) NewPage(ctx context.Context) (adapter.Page, error) {
	if f.page == nil {
		f.page = &fakePage{}
	}
	return f.page, nil
}

func (f *fakePages) Close() error {
	f.closed = true
	return nil
}

// fakeSite serves a fixed id list per season URL and canned matches.
type fakeSite struct {
	ids      []string
	matches  map[string]*domain.Match
	failIDs  map[string]error
	extracts []string
}

func (f *fakeSite) DiscoverRegions(ctx context.Context, p adapter.Page) ([]domain.CatalogNode, error) {
	return nil, nil
}

func (f *fakeSite) DiscoverCompetitions(
	ctx context.Context, p adapter.Page, r domain.CatalogNode,
) ([]domain.CatalogNode, error) {
	return nil, nil
}

func (f *fakeSite) ListMatchIDs(ctx context.Context, p adapter.Page) ([]string, error) {
	return f.ids, nil
}

func (f *fakeSite) ExtractMatch(ctx context.Context, p adapter.Page, id string) (*domain.Match, error) {
	f.extracts = append(f.extracts, id)
	if err, ok := f.failIDs[id]; ok {
		return nil, err
	}
	if m, ok := f.matches[id]; ok {
		return m, nil
	}
	return &domain.Match{ID: id, Status: domain.StatusFinished, CapturedAt: time.Now()}, nil
}

func (f *fakeSite) Pager(p adapter.Page) pagination.Driver {
	return &staticDriver{ids: f.ids}
}

// staticDriver is a fully revealed list: the control is already gone.
type staticDriver struct{ ids []string }

func (d *staticDriver) CountItems(ctx context.Context) (int, error) { return len(d.ids), nil }
func (d *staticDriver) ClickMore(ctx context.Context) error         { return pagination.ErrNoMoreControl }
func (d *staticDriver) WaitLoadSignal(ctx context.Context) error    { return nil }
func (d *staticDriver) ListIDs(ctx context.Context) ([]string, error) {
	return d.ids, nil
}

// failingStore wraps a real store and fails Persist on demand.
type failingStore struct {
	*dataset.Store
	persistErr error
}

func (s *failingStore) Persist(target domain.CrawlTarget, ds domain.Dataset) error {
	if s.persistErr != nil {
		return s.persistErr
	}
	return s.Store.Persist(target, ds)
}

func zeroDelayConfig() *config.CrawlerConfig {
	return &config.CrawlerConfig{
		CacheTTL:            time.Hour,
		NoProgressThreshold: 3,
		MaxIterations:       50,
		LoadSignalTimeout:   time.Millisecond,
	}
}

func newTestCrawler(
	t *testing.T,
	site *fakeSite,
	pages crawler.PageProvider,
	store crawler.Store,
	opts ...crawler.Option,
) *crawler.Crawler {
	t.Helper()
	cfg := zeroDelayConfig()
	log := logger.NewNoOp()
	return crawler.New(
		cfg,
		pages,
		site,
		store,
		ratelimit.New(cfg, log),
		pagination.NewController(cfg, log),
		log,
		opts...,
	)
}

func testTarget() domain.CrawlTarget {
	return domain.CrawlTarget{
		Region:         "england",
		CompetitionKey: "premier-league",
		SeasonKey:      "2025-2026",
		SeasonURL:      "https://scores.example/england/premier-league/results/",
	}
}

func TestRunExtractsAndPersistsNewRecords(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{ids: []string{"a", "b", "c"}}
	pages := &fakePages{}

	c := newTestCrawler(t, site, pages, store)
	stats, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Snapshot().Succeeded)
	assert.Equal(t, int64(0), stats.Snapshot().Failed)
	assert.True(t, pages.closed, "browser must close deterministically")

	ds, err := store.Load(testTarget())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestRunIsIdempotent(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{ids: []string{"a", "b"}}

	c := newTestCrawler(t, site, &fakePages{}, store)
	_, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err)

	// Second run with no upstream change extracts nothing.
	site2 := &fakeSite{ids: []string{"a", "b"}}
	c2 := newTestCrawler(t, site2, &fakePages{}, store)
	stats, err := c2.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err)

	assert.Empty(t, site2.extracts)
	assert.Equal(t, int64(0), stats.Snapshot().Attempted)
	assert.Equal(t, int64(1), stats.Snapshot().SkippedTargets)
}

func TestPartialFailureIsolation(t *testing.T) {
	// Scenario: new ids [a, b, c]; extraction of b fails. The other two
	// persist, failed increments by exactly one, and a re-run sees only
	// b as new.
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{
		ids:     []string{"a", "b", "c"},
		failIDs: map[string]error{"b": errors.New("net::ERR_TIMED_OUT")},
	}

	c := newTestCrawler(t, site, &fakePages{}, store)
	stats, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err)

	snapshot := stats.Snapshot()
	assert.Equal(t, int64(2), snapshot.Succeeded)
	assert.Equal(t, int64(1), snapshot.Failed)

	ds, err := store.Load(testTarget())
	require.NoError(t, err)
	assert.True(t, ds.Has("a"))
	assert.False(t, ds.Has("b"))
	assert.True(t, ds.Has("c"))

	newIDs := store.Diff(ds, site.ids)
	assert.Equal(t, []string{"b"}, newIDs)
}

func TestRecordsFetchedInDiscoveryOrder(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{ids: []string{"z", "m", "a"}}

	c := newTestCrawler(t, site, &fakePages{}, store)
	_, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "m", "a"}, site.extracts)
}

func TestPersistenceFailureAbortsTargetOnly(t *testing.T) {
	real := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	store := &failingStore{Store: real, persistErr: errors.New("disk full")}
	site := &fakeSite{ids: []string{"a", "b"}}

	c := newTestCrawler(t, site, &fakePages{}, store)
	stats, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err, "a persistence failure must not fail the run")

	// The first record aborted the target; the second was never tried.
	assert.Equal(t, []string{"a"}, site.extracts)
	assert.Equal(t, int64(1), stats.Snapshot().Failed)
}

func TestBrowserLaunchFailureIsFatal(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{ids: []string{"a"}}
	pages := &fakePages{startErr: errors.New("chrome not found")}

	c := newTestCrawler(t, site, pages, store)
	stats, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.Error(t, err)
	assert.NotNil(t, stats, "accumulated stats are returned even on fatal failure")
	assert.Equal(t, int64(0), stats.Snapshot().Attempted)
}

func TestStopSkipsRemainingTargets(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{ids: []string{"a"}}
	pages := &fakePages{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	second := testTarget()
	second.CompetitionKey = "championship"

	c := newTestCrawler(t, site, pages, store)
	stats, err := c.Run(ctx, []domain.CrawlTarget{testTarget(), second})
	require.NoError(t, err)

	assert.Empty(t, site.extracts)
	assert.Equal(t, int64(0), stats.Snapshot().Attempted)
	assert.True(t, pages.closed)
}

func TestRefetchHookReplacesNonFinalRecords(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	target := testTarget()

	// Seed the dataset with a live match.
	ds := domain.NewDataset()
	ds.Merge("a", &domain.Match{ID: "a", Status: domain.StatusLive})
	require.NoError(t, store.Persist(target, ds))

	finished := &domain.Match{ID: "a", Status: domain.StatusFinished, HomeScore: "3"}
	site := &fakeSite{
		ids:     []string{"a"},
		matches: map[string]*domain.Match{"a": finished},
	}

	c := newTestCrawler(t, site, &fakePages{}, store,
		crawler.WithIsFinal(func(m *domain.Match) bool { return m.Status.IsFinal() }))

	stats, err := c.Run(context.Background(), []domain.CrawlTarget{target})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Snapshot().Succeeded)

	loaded, err := store.Load(target)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, loaded.Get("a").Status)
	assert.Equal(t, "3", loaded.Get("a").HomeScore)
}

func TestWithoutHookFinalAndLiveRecordsStayUntouched(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	target := testTarget()

	ds := domain.NewDataset()
	ds.Merge("a", &domain.Match{ID: "a", Status: domain.StatusLive})
	require.NoError(t, store.Persist(target, ds))

	site := &fakeSite{ids: []string{"a"}}
	c := newTestCrawler(t, site, &fakePages{}, store)

	_, err := c.Run(context.Background(), []domain.CrawlTarget{target})
	require.NoError(t, err)
	assert.Empty(t, site.extracts, "strict dedup treats every persisted record as final")
}

func TestStatsPollableDuringRun(t *testing.T) {
	store := dataset.NewStore(t.TempDir(), logger.NewNoOp())
	site := &fakeSite{ids: []string{"a"}}

	c := newTestCrawler(t, site, &fakePages{}, store)
	assert.Zero(t, c.Stats().Attempted, "zero value before any run")

	_, err := c.Run(context.Background(), []domain.CrawlTarget{testTarget()})
	require.NoError(t, err)

	snapshot := c.Stats()
	assert.Equal(t, int64(1), snapshot.Succeeded)
	assert.NotEmpty(t, snapshot.RunID)
	assert.False(t, snapshot.EndedAt.IsZero())
}
