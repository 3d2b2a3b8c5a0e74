package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/config"
)

// page implements adapter.Page over a Rod page.
type page struct {
	p   *rod.Page
	cfg *config.BrowserConfig
}

var _ adapter.Page = (*page)(nil)

// Navigate loads the URL and waits for the initial load event. The
// navigation timeout from configuration bounds the whole operation.
func (pg *page) Navigate(ctx context.Context, url string) error {
	navCtx := ctx
	if pg.cfg.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, pg.cfg.NavigationTimeout)
		defer cancel()
	}

	p := pg.p.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page load timed out for %s: %w", url, err)
	}
	return nil
}

// HTML returns the rendered DOM as outer HTML.
func (pg *page) HTML(ctx context.Context) (string, error) {
	html, err := pg.p.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// Has reports whether the selector currently matches an element.
func (pg *page) Has(ctx context.Context, selector string) (bool, error) {
	has, _, err := pg.p.Context(ctx).Has(selector)
	if err != nil {
		return false, fmt.Errorf("selector check failed for %q: %w", selector, err)
	}
	return has, nil
}

// Click clicks the first element matching the selector. The selector
// wait is bounded by the configured selector timeout.
func (pg *page) Click(ctx context.Context, selector string) error {
	clickCtx := ctx
	if pg.cfg.SelectorTimeout > 0 {
		var cancel context.CancelFunc
		clickCtx, cancel = context.WithTimeout(ctx, pg.cfg.SelectorTimeout)
		defer cancel()
	}

	el, err := pg.p.Context(clickCtx).Element(selector)
	if err != nil {
		return fmt.Errorf("%w: %q", adapter.ErrElementNotFound, selector)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

// WaitResponse blocks until a network response whose URL contains the
// substring arrives, or the context is done.
func (pg *page) WaitResponse(ctx context.Context, urlSubstring string) error {
	p := pg.p.Context(ctx)
	wait := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		return strings.Contains(e.Response.URL, urlSubstring)
	})
	wait()
	return ctx.Err()
}

// Close releases the page.
func (pg *page) Close() error {
	return pg.p.Close()
}
