// Package catalog caches the discovered region/competition catalog on
// disk with a TTL, so slowly-changing site structure is not re-scraped
// on every run. Misses fall through to an injected discovery probe; an
// empty top-level probe result is answered from the embedded seed
// catalog so orchestration always has a minimal default.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// Scope identifies what portion of the catalog is requested.
type Scope struct {
	// Kind is the node kind being discovered.
	Kind domain.NodeKind
	// Region is the parent region for competition scopes; zero for the
	// top-level region scope.
	Region domain.CatalogNode
}

// RegionsScope is the top-level scope covering all regions.
func RegionsScope() Scope {
	return Scope{Kind: domain.KindRegion}
}

// CompetitionsScope covers the competitions of one region.
func CompetitionsScope(region domain.CatalogNode) Scope {
	return Scope{Kind: domain.KindCompetition, Region: region}
}

// Key returns the cache file key for the scope.
func (s Scope) Key() string {
	if s.Kind == domain.KindRegion {
		return "regions"
	}
	return "competitions_" + s.Region.Key
}

// Probe discovers catalog nodes for a scope from the live site. Probes
// return an empty slice on failure rather than propagating errors; the
// cache treats any error defensively as an empty result.
type Probe func(ctx context.Context, scope Scope) ([]domain.CatalogNode, error)

// entry is the on-disk cache unit: a whole-value snapshot of one scope.
type entry struct {
	CapturedAt time.Time            `json:"captured_at"`
	Payload    []domain.CatalogNode `json:"payload"`
}

// Cache is the TTL-keyed discovery cache. Single writer; reads never
// race a concurrent refresh.
type Cache struct {
	dir    string
	ttl    time.Duration
	probe  Probe
	seed   []domain.CatalogNode
	logger logger.Interface
	now    func() time.Time
}

// NewCache creates a cache rooted at dir with the given TTL and miss
// probe. The embedded seed catalog backs empty top-level discoveries.
func NewCache(dir string, ttl time.Duration, probe Probe, log logger.Interface) (*Cache, error) {
	seed, err := SeedCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load seed catalog: %w", err)
	}
	return &Cache{
		dir:    dir,
		ttl:    ttl,
		probe:  probe,
		seed:   seed,
		logger: log.WithComponent("catalog"),
		now:    time.Now,
	}, nil
}

// GetOrDiscover returns the catalog nodes for a scope, serving a valid
// cached entry without network activity and probing the site otherwise.
func (c *Cache) GetOrDiscover(ctx context.Context, scope Scope) ([]domain.CatalogNode, error) {
	if nodes, ok := c.read(scope); ok {
		c.logger.Debug("Catalog cache hit", "scope", scope.Key(), "nodes", len(nodes))
		return nodes, nil
	}

	nodes, err := c.probe(ctx, scope)
	if err != nil {
		// Probe contract is empty-on-failure; treat a stray error the
		// same way and fall through to the seed for top-level scopes.
		c.logger.Warn("Discovery probe failed", "scope", scope.Key(), "error", err)
		nodes = nil
	}

	if len(nodes) == 0 {
		if scope.Kind == domain.KindRegion {
			c.logger.Warn("Discovery returned no regions, using seed catalog",
				"seed_nodes", len(c.seed))
			return c.seed, nil
		}
		c.logger.Warn("Discovery returned no nodes", "scope", scope.Key())
		return nil, nil
	}

	if err := c.write(scope, nodes); err != nil {
		// A failed cache write degrades to rediscovery next run.
		c.logger.Error("Failed to write catalog cache", "scope", scope.Key(), "error", err)
	}

	c.logger.Info("Catalog discovered", "scope", scope.Key(), "nodes", len(nodes))
	return nodes, nil
}

// read returns the cached nodes when the entry exists and is within TTL.
// Expired entries are treated as misses, never served stale.
func (c *Cache) read(scope Scope) ([]domain.CatalogNode, bool) {
	data, err := os.ReadFile(c.path(scope))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Corrupt catalog cache entry, rediscovering",
			"scope", scope.Key(), "error", err)
		return nil, false
	}

	if c.now().Sub(e.CapturedAt) >= c.ttl {
		return nil, false
	}
	if len(e.Payload) == 0 {
		return nil, false
	}
	return e.Payload, true
}

// write replaces the scope's cache entry with a fresh snapshot.
func (c *Cache) write(scope Scope, nodes []domain.CatalogNode) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(entry{CapturedAt: c.now(), Payload: nodes}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	path := c.path(scope)
	tmp, err := os.CreateTemp(c.dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache entry: %w", err)
	}
	return nil
}

func (c *Cache) path(scope Scope) string {
	return filepath.Join(c.dir, scope.Key()+".json")
}

// EntryStatus describes one cache entry for the status report. Age is
// approximated from the file modification time.
type EntryStatus struct {
	Key     string
	Age     time.Duration
	Expired bool
}

// Status lists all cache entries on disk, oldest first.
func (c *Cache) Status() ([]EntryStatus, error) {
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var out []EntryStatus
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		age := c.now().Sub(info.ModTime())
		out = append(out, EntryStatus{
			Key:     de.Name()[:len(de.Name())-len(".json")],
			Age:     age,
			Expired: age >= c.ttl,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Age > out[j].Age })
	return out, nil
}
