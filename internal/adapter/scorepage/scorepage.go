// Package scorepage is the reference Page Adapter for the score site's
// current layout. All DOM knowledge lives here: the crawl core only sees
// typed records. Extraction is deliberately forgiving — a missing field
// degrades to its zero value, and only a failed navigation is an error.
package scorepage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// startTimeLayout is the kickoff timestamp format on match pages.
const startTimeLayout = "02.01.2006 15:04"

// Adapter implements adapter.Adapter for the score site.
type Adapter struct {
	baseURL   string
	selectors Selectors
	logger    logger.Interface
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates an adapter rooted at baseURL with the default selectors.
func New(baseURL string, log logger.Interface) *Adapter {
	return &Adapter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		selectors: DefaultSelectors(),
		logger:    log.WithComponent("scorepage"),
	}
}

// NewWithSelectors creates an adapter with an overridden selector set.
func NewWithSelectors(baseURL string, sel Selectors, log logger.Interface) *Adapter {
	a := New(baseURL, log)
	a.selectors = sel
	return a
}

// MatchURL returns the detail page URL for a match id.
func (a *Adapter) MatchURL(id string) string {
	return a.baseURL + "/match/" + id + "/"
}

// DiscoverRegions scans the site index for region links. Scan problems
// yield an empty slice, never an error, per the discovery contract.
func (a *Adapter) DiscoverRegions(ctx context.Context, page adapter.Page) ([]domain.CatalogNode, error) {
	if err := page.Navigate(ctx, a.baseURL+"/"); err != nil {
		a.logger.Warn("Region index navigation failed", "error", err)
		return nil, nil
	}

	doc, err := a.document(ctx, page)
	if err != nil {
		return nil, nil
	}

	var nodes []domain.CatalogNode
	doc.Find(a.selectors.RegionLinks).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		name := strings.TrimSpace(s.Text())
		if !ok || name == "" {
			return
		}
		nodes = append(nodes, domain.CatalogNode{
			Kind: domain.KindRegion,
			Key:  slugFromPath(href),
			Name: name,
			URL:  a.absolute(href),
		})
	})
	return nodes, nil
}

// DiscoverCompetitions scans a region page for competition links.
func (a *Adapter) DiscoverCompetitions(
	ctx context.Context,
	page adapter.Page,
	region domain.CatalogNode,
) ([]domain.CatalogNode, error) {
	if err := page.Navigate(ctx, region.URL); err != nil {
		a.logger.Warn("Region page navigation failed",
			"region", region.Key, "error", err)
		return nil, nil
	}

	doc, err := a.document(ctx, page)
	if err != nil {
		return nil, nil
	}

	var nodes []domain.CatalogNode
	doc.Find(a.selectors.CompetitionLinks).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		name := strings.TrimSpace(s.Text())
		if !ok || name == "" {
			return
		}
		nodes = append(nodes, domain.CatalogNode{
			Kind:      domain.KindCompetition,
			Key:       slugFromPath(href),
			Name:      name,
			ParentKey: region.Key,
			URL:       a.absolute(href),
		})
	})
	return nodes, nil
}

// ListMatchIDs returns the natural ids of all visible match rows in
// document order.
func (a *Adapter) ListMatchIDs(ctx context.Context, page adapter.Page) ([]string, error) {
	doc, err := a.document(ctx, page)
	if err != nil {
		return nil, err
	}

	var ids []string
	doc.Find(a.selectors.MatchRows).Each(func(_ int, s *goquery.Selection) {
		raw, ok := s.Attr("id")
		if !ok {
			return
		}
		id := strings.TrimPrefix(raw, matchIDPrefix)
		if id != "" {
			ids = append(ids, id)
		}
	})
	return ids, nil
}

// ExtractMatch navigates to the match detail page and extracts its
// record. Missing fields leave zero values; only the navigation itself
// can fail.
func (a *Adapter) ExtractMatch(ctx context.Context, page adapter.Page, id string) (*domain.Match, error) {
	url := a.MatchURL(id)
	if err := page.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open match %s: %w", id, err)
	}

	doc, err := a.document(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to read match %s: %w", id, err)
	}

	m := &domain.Match{
		ID:         id,
		HomeTeam:   text(doc, a.selectors.HomeTeam),
		AwayTeam:   text(doc, a.selectors.AwayTeam),
		HomeScore:  text(doc, a.selectors.HomeScore),
		AwayScore:  text(doc, a.selectors.AwayScore),
		Status:     parseStatus(text(doc, a.selectors.Status)),
		CapturedAt: time.Now(),
	}

	if raw := text(doc, a.selectors.StartTime); raw != "" {
		if ts, parseErr := time.ParseInLocation(startTimeLayout, raw, time.Local); parseErr == nil {
			m.StartTime = ts
		}
	}

	doc.Find(a.selectors.InfoRows).Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find(a.selectors.InfoRowLabel).First().Text())
		value := strings.TrimSpace(s.Find(a.selectors.InfoRowValue).First().Text())
		if label == "" || value == "" {
			return
		}
		if m.Info == nil {
			m.Info = make(map[string]string)
		}
		m.Info[strings.TrimSuffix(label, ":")] = value
	})

	doc.Find(a.selectors.StatRows).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(a.selectors.StatRowName).First().Text())
		if name == "" {
			return
		}
		m.Stats = append(m.Stats, domain.StatRow{
			Name: name,
			Home: strings.TrimSpace(s.Find(a.selectors.StatRowHome).First().Text()),
			Away: strings.TrimSpace(s.Find(a.selectors.StatRowAway).First().Text()),
		})
	})

	return m, nil
}

// document parses the page's rendered HTML into a goquery document.
func (a *Adapter) document(ctx context.Context, page adapter.Page) (*goquery.Document, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc, nil
}

// absolute resolves a site-relative href against the base URL.
func (a *Adapter) absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return a.baseURL + "/" + strings.TrimLeft(href, "/")
}

// slugFromPath derives a natural key from the last non-empty path
// segment of an href.
func slugFromPath(href string) string {
	trimmed := strings.Trim(href, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

// text returns the trimmed text of the first selector match.
func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// parseStatus maps the site's status banner to a MatchStatus.
func parseStatus(raw string) domain.MatchStatus {
	switch strings.ToLower(raw) {
	case "finished", "after extra time", "after penalties":
		return domain.StatusFinished
	case "live", "1st half", "2nd half", "half time", "extra time":
		return domain.StatusLive
	case "postponed":
		return domain.StatusPostponed
	case "canceled", "cancelled", "abandoned":
		return domain.StatusCanceled
	case "":
		return domain.StatusScheduled
	default:
		return domain.StatusUnknown
	}
}
