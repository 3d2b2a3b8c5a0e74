package domain

import (
	"sync"
	"time"
)

// CrawlStats tracks the outcome of one crawl run. It is mutated only by
// the orchestrator but may be polled concurrently through Snapshot.
type CrawlStats struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// Attempted is the number of record extractions attempted.
	Attempted int64 `json:"attempted"`
	// Succeeded is the number of records extracted and persisted.
	Succeeded int64 `json:"succeeded"`
	// Failed is the number of record extractions that failed.
	Failed int64 `json:"failed"`
	// SkippedTargets is the number of targets with no new records.
	SkippedTargets int64 `json:"skipped_targets"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// EndedAt is when the run finished; zero while running.
	EndedAt time.Time `json:"ended_at"`

	mu sync.Mutex
}

// NewCrawlStats creates stats for a run starting now.
func NewCrawlStats(runID string) *CrawlStats {
	return &CrawlStats{
		RunID:     runID,
		StartedAt: time.Now(),
	}
}

// RecordAttempt increments the attempted counter.
func (s *CrawlStats) RecordAttempt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attempted++
}

// RecordSuccess increments the succeeded counter.
func (s *CrawlStats) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Succeeded++
}

// RecordFailure increments the failed counter.
func (s *CrawlStats) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed++
}

// RecordSkippedTarget increments the skipped-target counter.
func (s *CrawlStats) RecordSkippedTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SkippedTargets++
}

// Finish stamps the end time.
func (s *CrawlStats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndedAt = time.Now()
}

// Snapshot returns a copy safe to read while the run is in progress.
func (s *CrawlStats) Snapshot() CrawlStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CrawlStats{
		RunID:          s.RunID,
		Attempted:      s.Attempted,
		Succeeded:      s.Succeeded,
		Failed:         s.Failed,
		SkippedTargets: s.SkippedTargets,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
	}
}

// Duration returns the elapsed run time, using now while still running.
func (s *CrawlStats) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EndedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.EndedAt.Sub(s.StartedAt)
}
