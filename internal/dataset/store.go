// Package dataset persists per-target match datasets on disk and
// provides the diff/merge primitives the orchestrator uses for
// incremental crawling. One JSON file per (region, competition, season),
// read and written wholesale; writes are atomic tmp-and-rename replaces.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonesrussell/matchcrawl/internal/domain"
	"github.com/jonesrussell/matchcrawl/internal/logger"
)

// ErrInvalidTarget is returned when a target does not name its full
// region/competition/season hierarchy.
var ErrInvalidTarget = errors.New("target must name region, competition, and season")

// Store loads and persists datasets. Concurrent writers to the same
// target are unsupported; the orchestrator's sequential-target invariant
// provides safety.
type Store struct {
	dataDir string
	logger  logger.Interface
}

// NewStore creates a store rooted at dataDir.
func NewStore(dataDir string, log logger.Interface) *Store {
	return &Store{
		dataDir: dataDir,
		logger:  log.WithComponent("dataset"),
	}
}

// Path returns the on-disk location of a target's dataset.
func (s *Store) Path(target domain.CrawlTarget) string {
	season := target.SeasonKey
	if season == "" {
		season = "current"
	}
	return filepath.Join(s.dataDir, target.Region, target.CompetitionKey, season+".json")
}

// Load reads a target's dataset. An absent file yields an empty dataset,
// not an error.
func (s *Store) Load(target domain.CrawlTarget) (domain.Dataset, error) {
	if target.Region == "" || target.CompetitionKey == "" {
		return nil, ErrInvalidTarget
	}

	data, err := os.ReadFile(s.Path(target))
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewDataset(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset for %s: %w", target, err)
	}

	ds := domain.NewDataset()
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset for %s: %w", target, err)
	}
	return ds, nil
}

// Diff returns the ids not yet present in the dataset, preserving the
// order of ids.
func (s *Store) Diff(ds domain.Dataset, ids []string) []string {
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if !ds.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Merge inserts the record only when its id is absent. Returns whether
// the dataset changed.
func (s *Store) Merge(ds domain.Dataset, id string, m *domain.Match) bool {
	return ds.Merge(id, m)
}

// Persist atomically replaces the target's dataset file. The dataset is
// marshaled to a temporary file in the target directory and renamed into
// place, so readers never observe a partial write.
func (s *Store) Persist(target domain.CrawlTarget, ds domain.Dataset) error {
	if target.Region == "" || target.CompetitionKey == "" {
		return ErrInvalidTarget
	}

	path := s.Path(target)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset for %s: %w", target, err)
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write dataset for %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp dataset file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace dataset for %s: %w", target, err)
	}

	s.logger.Debug("Dataset persisted", "target", target.String(), "records", ds.Len())
	return nil
}
