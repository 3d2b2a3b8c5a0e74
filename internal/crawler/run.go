package crawler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/matchcrawl/internal/adapter"
	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
	"github.com/jonesrussell/matchcrawl/internal/ratelimit"
)

// Run crawls the targets in caller order. A target's failures never
// abort the run; only a browser launch failure is fatal. Cancellation
// is cooperative, checked at target and record boundaries, and the
// browser is closed deterministically either way.
func (c *Crawler) Run(ctx context.Context, targets []domain.CrawlTarget) (*domain.CrawlStats, error) {
	stats := domain.NewCrawlStats(uuid.NewString())
	c.setStats(stats)
	defer stats.Finish()

	log := c.logger.WithRunID(stats.RunID)
	log.Info("Starting crawl run", "targets", len(targets))

	if err := c.pages.Start(ctx); err != nil {
		log.WithError(err).Error("Browser session failed to start")
		return stats, fmt.Errorf("fatal run failure: %w", err)
	}
	defer c.pages.Close()

	prevRegion := ""
	for i, target := range targets {
		if ctx.Err() != nil {
			log.Info("Run stopped, skipping remaining targets",
				"remaining", len(targets)-i)
			break
		}

		if prevRegion != "" && target.Region != prevRegion {
			if err := c.limiter.Wait(ctx, ratelimit.TierRegion); err != nil {
				break
			}
		}
		prevRegion = target.Region

		c.crawlTarget(ctx, target, stats, log)

		if i < len(targets)-1 {
			if err := c.limiter.Wait(ctx, ratelimit.TierCompetition); err != nil {
				break
			}
		}
	}

	snapshot := stats.Snapshot()
	log.WithDuration(stats.Duration()).Info("Crawl run finished",
		"attempted", snapshot.Attempted,
		"succeeded", snapshot.Succeeded,
		"failed", snapshot.Failed,
		"skipped_targets", snapshot.SkippedTargets,
	)
	return stats, nil
}

// crawlTarget processes one season: collect ids, diff against the
// persisted dataset, and extract each new record with write-through
// persistence. Errors are logged and end the target, never the run.
func (c *Crawler) crawlTarget(
	ctx context.Context,
	target domain.CrawlTarget,
	stats *domain.CrawlStats,
	log logger.Interface,
) {
	log = log.With("target", target.String())

	page, err := c.pages.NewPage(ctx)
	if err != nil {
		log.Error("Failed to acquire page", "error", err)
		return
	}
	defer page.Close()

	if err := page.Navigate(ctx, target.SeasonURL); err != nil {
		log.Error("Season page navigation failed", "error", err)
		return
	}

	ids, err := c.pager.CollectIDs(ctx, c.adapter.Pager(page))
	if err != nil {
		log.Error("Failed to collect record ids", "error", err)
		return
	}

	ds, err := c.store.Load(target)
	if err != nil {
		log.Error("Failed to load dataset", "error", err)
		return
	}

	newIDs := c.store.Diff(ds, ids)
	refetchIDs := c.refetchable(ds, ids, newIDs)

	if len(newIDs) == 0 && len(refetchIDs) == 0 {
		stats.RecordSkippedTarget()
		log.Info("No new records", "visible", len(ids), "persisted", ds.Len())
		return
	}

	log.Info("Extracting records",
		"new", len(newIDs), "refetch", len(refetchIDs), "visible", len(ids))

	for _, id := range newIDs {
		if ctx.Err() != nil {
			log.Info("Run stopped mid-target", "pending", id)
			return
		}
		if !c.fetchRecord(ctx, page, target, ds, id, false, stats, log) {
			return
		}
	}

	for _, id := range refetchIDs {
		if ctx.Err() != nil {
			return
		}
		if !c.fetchRecord(ctx, page, target, ds, id, true, stats, log) {
			return
		}
	}
}

// fetchRecord extracts one record and merges it write-through, so a
// crash loses at most one record of progress. It returns false when the
// target must be abandoned (persistence failure).
func (c *Crawler) fetchRecord(
	ctx context.Context,
	page adapter.Page,
	target domain.CrawlTarget,
	ds domain.Dataset,
	id string,
	replace bool,
	stats *domain.CrawlStats,
	log logger.Interface,
) bool {
	stats.RecordAttempt()

	m, err := c.adapter.ExtractMatch(ctx, page, id)
	if err != nil {
		// The id stays absent from the dataset and is retried as new
		// on the next run.
		stats.RecordFailure()
		log.WithError(err).Warn("Record extraction failed", "id", id)
	} else {
		changed := false
		if replace {
			ds.Replace(id, m)
			changed = true
			log.Debug("Non-final record replaced", "id", id, "status", string(m.Status))
		} else {
			changed = c.store.Merge(ds, id, m)
		}

		if changed {
			if persistErr := c.store.Persist(target, ds); persistErr != nil {
				stats.RecordFailure()
				log.Error("Dataset persist failed, abandoning target",
					"id", id, "error", persistErr)
				return false
			}
		}
		stats.RecordSuccess()
	}

	if err := c.limiter.Wait(ctx, ratelimit.TierRecord); err != nil {
		// Cancellation mid-wait; the boundary check above unwinds.
		return true
	}
	return true
}

// refetchable returns the visible ids whose persisted records the
// IsFinal hook reports as still changeable. Without a hook the list is
// always empty and dedup is strict.
func (c *Crawler) refetchable(ds domain.Dataset, visible, newIDs []string) []string {
	if c.isFinal == nil {
		return nil
	}

	isNew := make(map[string]struct{}, len(newIDs))
	for _, id := range newIDs {
		isNew[id] = struct{}{}
	}

	var out []string
	for _, id := range visible {
		if _, ok := isNew[id]; ok {
			continue
		}
		m := ds.Get(id)
		if m != nil && !c.isFinal(m) {
			out = append(out, id)
		}
	}
	return out
}
