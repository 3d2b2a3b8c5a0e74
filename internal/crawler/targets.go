package crawler

import (
	"context"
	"strings"

	"github.com/jonesrussell/matchcrawl/internal/catalog"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// TargetSelector produces the target list for a run. Variants are
// strategy instances, not orchestrator subclasses.
type TargetSelector interface {
	SelectTargets(ctx context.Context) ([]domain.CrawlTarget, error)
}

// StaticTargets selects the statically configured targets verbatim,
// preserving order.
type StaticTargets []config.TargetConfig

// SelectTargets converts the configured entries to crawl targets.
func (s StaticTargets) SelectTargets(_ context.Context) ([]domain.CrawlTarget, error) {
	targets := make([]domain.CrawlTarget, 0, len(s))
	for _, t := range s {
		season := t.Season
		if season == "" {
			season = "current"
		}
		targets = append(targets, domain.CrawlTarget{
			Region:         t.Region,
			CompetitionKey: t.Competition,
			SeasonKey:      season,
			SeasonURL:      t.SeasonURL,
		})
	}
	return targets, nil
}

// CatalogTargets derives one current-season target per competition
// found in the discovery cache, optionally restricted to a region
// subset. This is the comprehensive-crawl strategy.
type CatalogTargets struct {
	// Cache resolves the region and competition catalogs.
	Cache *catalog.Cache
	// Regions restricts the crawl to these region keys when non-empty.
	Regions []string
}

// SelectTargets expands the catalog into crawl targets, grouping all of
// a region's competitions together so the region-tier delay applies
// between regions, not within them.
func (c *CatalogTargets) SelectTargets(ctx context.Context) ([]domain.CrawlTarget, error) {
	regions, err := c.Cache.GetOrDiscover(ctx, catalog.RegionsScope())
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(c.Regions))
	for _, r := range c.Regions {
		wanted[r] = struct{}{}
	}

	var targets []domain.CrawlTarget
	for _, region := range regions {
		if len(wanted) > 0 {
			if _, ok := wanted[region.Key]; !ok {
				continue
			}
		}

		comps, err := c.Cache.GetOrDiscover(ctx, catalog.CompetitionsScope(region))
		if err != nil {
			return nil, err
		}

		for _, comp := range comps {
			targets = append(targets, domain.CrawlTarget{
				Region:         region.Key,
				CompetitionKey: comp.Key,
				SeasonKey:      "current",
				SeasonURL:      resultsURL(comp.URL),
			})
		}
	}
	return targets, nil
}

// resultsURL points a competition URL at its results listing.
func resultsURL(competitionURL string) string {
	return strings.TrimRight(competitionURL, "/") + "/results/"
}
