package catalog

import "time"

// SetNow overrides the cache clock for tests.
func (c *Cache) SetNow(now func() time.Time) {
	c.now = now
}
