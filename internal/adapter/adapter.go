// Package adapter defines the contract between the crawl core and the
// site-specific scraping logic. The core never touches selectors or page
// layout directly; it drives these interfaces against a loaded page
// handle and consumes typed records.
package adapter

import (
	"context"
	"errors"

	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// ErrElementNotFound is returned by Page implementations when a
// selector matches nothing.
var ErrElementNotFound = errors.New("element not found")

// Page is the minimal handle the core needs over a navigated browser
// page. Implementations own the underlying tab; callers must Close it.
type Page interface {
	// Navigate loads the given URL and waits for the initial load event.
	Navigate(ctx context.Context, url string) error
	// HTML returns the current rendered DOM as outer HTML.
	HTML(ctx context.Context) (string, error)
	// Has reports whether the selector currently matches an element.
	Has(ctx context.Context, selector string) (bool, error)
	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// WaitResponse blocks until a network response whose URL contains
	// the given substring arrives, or the context is done.
	WaitResponse(ctx context.Context, urlSubstring string) error
	// Close releases the page.
	Close() error
}

// Adapter extracts typed records from loaded pages. Implementations
// must be side-effect-free on crawl state and should return degraded
// partial records rather than errors when individual fields are
// missing; only a total navigation or timeout failure is an error.
type Adapter interface {
	// DiscoverRegions scans the site's region index and returns the
	// region catalog. An empty slice, not an error, signals a failed
	// or empty scan.
	DiscoverRegions(ctx context.Context, page Page) ([]domain.CatalogNode, error)
	// DiscoverCompetitions scans a region page for its competitions.
	DiscoverCompetitions(ctx context.Context, page Page, region domain.CatalogNode) ([]domain.CatalogNode, error)
	// ListMatchIDs returns the ids of all match rows currently visible
	// on a season results page, in document order.
	ListMatchIDs(ctx context.Context, page Page) ([]string, error)
	// ExtractMatch navigates to the match page for id and extracts its
	// record.
	ExtractMatch(ctx context.Context, page Page, id string) (*domain.Match, error)
}
