package crawler

import (
	"context"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/catalog"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// NewProbe adapts the page adapter's discovery capabilities to the
// catalog cache's probe contract. Failures degrade to an empty result
// so the cache can fall back to the seed catalog.
func NewProbe(pages PageProvider, site adapter.Adapter, log logger.Interface) catalog.Probe {
	log = log.WithComponent("discovery")

	return func(ctx context.Context, scope catalog.Scope) ([]domain.CatalogNode, error) {
		page, err := pages.NewPage(ctx)
		if err != nil {
			log.Warn("Discovery probe could not acquire a page", "error", err)
			return nil, nil
		}
		defer page.Close()

		switch scope.Kind {
		case domain.KindCompetition:
			return site.DiscoverCompetitions(ctx, page, scope.Region)
		default:
			return site.DiscoverRegions(ctx, page)
		}
	}
}
