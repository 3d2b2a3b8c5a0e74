package scorepage

import (
	"context"
	"errors"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/pagination"
)

// pager adapts a season results page to the pagination.Driver protocol.
type pager struct {
	adapter *Adapter
	page    adapter.Page
}

var _ pagination.Driver = (*pager)(nil)

// Pager returns a pagination driver over a navigated season page.
func (a *Adapter) Pager(page adapter.Page) pagination.Driver {
	return &pager{adapter: a, page: page}
}

// CountItems counts the visible match rows.
func (p *pager) CountItems(ctx context.Context) (int, error) {
	ids, err := p.adapter.ListMatchIDs(ctx, p.page)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ClickMore clicks the "show more matches" control, reporting
// pagination.ErrNoMoreControl when the control has disappeared.
func (p *pager) ClickMore(ctx context.Context) error {
	has, err := p.page.Has(ctx, p.adapter.selectors.ShowMore)
	if err != nil {
		return err
	}
	if !has {
		return pagination.ErrNoMoreControl
	}

	if err := p.page.Click(ctx, p.adapter.selectors.ShowMore); err != nil {
		if errors.Is(err, adapter.ErrElementNotFound) {
			return pagination.ErrNoMoreControl
		}
		return err
	}
	return nil
}

// WaitLoadSignal waits for the background feed response that delivers
// the next batch of rows.
func (p *pager) WaitLoadSignal(ctx context.Context) error {
	return p.page.WaitResponse(ctx, feedURLFragment)
}

// ListIDs returns the visible match ids in document order.
func (p *pager) ListIDs(ctx context.Context) ([]string, error) {
	return p.adapter.ListMatchIDs(ctx, p.page)
}
