package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/matchcrawl/internal/catalog"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

func countingProbe(nodes []domain.CatalogNode, calls *atomic.Int32) catalog.Probe {
	return func(ctx context.Context, scope catalog.Scope) ([]domain.CatalogNode, error) {
		calls.Add(1)
		return nodes, nil
	}
}

func regionNodes() []domain.CatalogNode {
	return []domain.CatalogNode{
		{Kind: domain.KindRegion, Key: "england", Name: "England", URL: "https://example.com/england/"},
		{Kind: domain.KindRegion, Key: "spain", Name: "Spain", URL: "https://example.com/spain/"},
	}
}

func TestGetOrDiscoverMissProbesAndCaches(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	cache, err := catalog.NewCache(dir, time.Hour, countingProbe(regionNodes(), &calls), logger.NewNoOp())
	require.NoError(t, err)

	nodes, err := cache.GetOrDiscover(context.Background(), catalog.RegionsScope())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, int32(1), calls.Load())

	// One cache file written for the scope.
	_, statErr := os.Stat(filepath.Join(dir, "regions.json"))
	assert.NoError(t, statErr)
}

func TestGetOrDiscoverHitSkipsProbe(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	cache, err := catalog.NewCache(dir, time.Hour, countingProbe(regionNodes(), &calls), logger.NewNoOp())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cache.GetOrDiscover(ctx, catalog.RegionsScope())
	require.NoError(t, err)

	nodes, err := cache.GetOrDiscover(ctx, catalog.RegionsScope())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, int32(1), calls.Load(), "probe must not run on a cache hit")
}

func TestGetOrDiscoverExpiredEntryRediscovers(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	cache, err := catalog.NewCache(dir, time.Hour, countingProbe(regionNodes(), &calls), logger.NewNoOp())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cache.GetOrDiscover(ctx, catalog.RegionsScope())
	require.NoError(t, err)

	// Advance the clock past the TTL.
	cache.SetNow(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, err = cache.GetOrDiscover(ctx, catalog.RegionsScope())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "expired entry must be treated as a miss")
}

func TestEmptyTopLevelProbeServesSeedWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	probe := func(ctx context.Context, scope catalog.Scope) ([]domain.CatalogNode, error) {
		return nil, nil
	}
	cache, err := catalog.NewCache(dir, time.Hour, probe, logger.NewNoOp())
	require.NoError(t, err)

	nodes, err := cache.GetOrDiscover(context.Background(), catalog.RegionsScope())
	require.NoError(t, err)
	assert.NotEmpty(t, nodes, "seed catalog must back an empty discovery")

	_, statErr := os.Stat(filepath.Join(dir, "regions.json"))
	assert.True(t, os.IsNotExist(statErr), "no cache file may be written with an empty payload")
}

func TestProbeErrorFallsBackToSeed(t *testing.T) {
	probe := func(ctx context.Context, scope catalog.Scope) ([]domain.CatalogNode, error) {
		return nil, errors.New("navigation failed")
	}
	cache, err := catalog.NewCache(t.TempDir(), time.Hour, probe, logger.NewNoOp())
	require.NoError(t, err)

	nodes, err := cache.GetOrDiscover(context.Background(), catalog.RegionsScope())
	require.NoError(t, err)
	assert.NotEmpty(t, nodes)
}

func TestEmptyCompetitionScopeReturnsNilWithoutSeed(t *testing.T) {
	probe := func(ctx context.Context, scope catalog.Scope) ([]domain.CatalogNode, error) {
		return nil, nil
	}
	cache, err := catalog.NewCache(t.TempDir(), time.Hour, probe, logger.NewNoOp())
	require.NoError(t, err)

	england := domain.CatalogNode{Kind: domain.KindRegion, Key: "england", URL: "https://example.com/england/"}
	nodes, err := cache.GetOrDiscover(context.Background(), catalog.CompetitionsScope(england))
	require.NoError(t, err)
	assert.Empty(t, nodes, "seed fallback applies only to the top-level scope")
}

func TestScopeKeys(t *testing.T) {
	england := domain.CatalogNode{Kind: domain.KindRegion, Key: "england"}
	assert.Equal(t, "regions", catalog.RegionsScope().Key())
	assert.Equal(t, "competitions_england", catalog.CompetitionsScope(england).Key())
}

func TestStatusReportsEntries(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	cache, err := catalog.NewCache(dir, time.Hour, countingProbe(regionNodes(), &calls), logger.NewNoOp())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cache.GetOrDiscover(ctx, catalog.RegionsScope())
	require.NoError(t, err)

	status, err := cache.Status()
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.Equal(t, "regions", status[0].Key)
	assert.False(t, status[0].Expired)
	assert.Less(t, status[0].Age, time.Minute)
}

func TestStatusEmptyDirectory(t *testing.T) {
	cache, err := catalog.NewCache(filepath.Join(t.TempDir(), "missing"), time.Hour, nil, logger.NewNoOp())
	require.NoError(t, err)

	status, err := cache.Status()
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestSeedCatalogAssetParses(t *testing.T) {
	seed, err := catalog.SeedCatalog()
	require.NoError(t, err)
	assert.NotEmpty(t, seed)
	for _, n := range seed {
		assert.Equal(t, domain.KindRegion, n.Kind)
		assert.NotEmpty(t, n.Key)
		assert.NotEmpty(t, n.URL)
	}
}
