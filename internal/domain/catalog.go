// Package domain defines the core types shared across the crawler:
// catalog nodes, crawl targets, extracted matches, datasets, and run stats.
package domain

// NodeKind identifies the level of a catalog node in the
// region → competition → season hierarchy.
type NodeKind string

const (
	// KindRegion is a top-level region (country or continent).
	KindRegion NodeKind = "region"
	// KindCompetition is a league or cup within a region.
	KindCompetition NodeKind = "competition"
	// KindSeason is a single season of a competition.
	KindSeason NodeKind = "season"
)

// CatalogNode is one entry of the crawlable catalog. Identity is the
// natural Key derived from the source site; nodes are immutable within
// a cache epoch.
type CatalogNode struct {
	// Kind is the hierarchy level of this node.
	Kind NodeKind `json:"kind" yaml:"kind"`
	// Key is the natural key, stable across visits (e.g. "england",
	// "premier-league").
	Key string `json:"key" yaml:"key"`
	// Name is the display name shown on the site.
	Name string `json:"name" yaml:"name"`
	// ParentKey is the natural key of the parent node, empty for regions.
	ParentKey string `json:"parent_key,omitempty" yaml:"parent_key,omitempty"`
	// URL is the canonical URL of the node's page.
	URL string `json:"url" yaml:"url"`
}

// CrawlTarget is the unit of work iterated by the orchestrator: one
// season of one competition in one region. Targets are derived per run
// and never persisted.
type CrawlTarget struct {
	// Region is the natural key of the region.
	Region string `json:"region"`
	// CompetitionKey is the natural key of the competition.
	CompetitionKey string `json:"competition_key"`
	// SeasonKey is the natural key of the season (e.g. "2025-2026").
	SeasonKey string `json:"season_key"`
	// SeasonURL is the URL of the season's results page.
	SeasonURL string `json:"season_url"`
}

// String returns a stable human-readable identifier for logging.
func (t CrawlTarget) String() string {
	return t.Region + "/" + t.CompetitionKey + "/" + t.SeasonKey
}
