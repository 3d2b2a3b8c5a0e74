package domain

// Dataset maps match ids to extracted records for one crawl target.
// It is loaded and persisted as a unit; keys are unique and a present
// record is never silently overwritten by a later fetch.
type Dataset map[string]*Match

// NewDataset returns an empty dataset.
func NewDataset() Dataset {
	return make(Dataset)
}

// Has reports whether the dataset already contains the given id.
func (d Dataset) Has(id string) bool {
	_, ok := d[id]
	return ok
}

// Get returns the record under id, or nil when absent.
func (d Dataset) Get(id string) *Match {
	return d[id]
}

// Merge inserts the record under id only when the key is absent.
// It returns false without modifying the dataset when the id is
// already present, so a degraded re-fetch cannot clobber good data.
func (d Dataset) Merge(id string, m *Match) bool {
	if _, ok := d[id]; ok {
		return false
	}
	d[id] = m
	return true
}

// Replace overwrites the record under id unconditionally. This is the
// explicit path used only for records the caller has decided are
// non-final; Merge remains the default, strictly idempotent entry.
func (d Dataset) Replace(id string, m *Match) {
	d[id] = m
}

// Keys returns the set of record ids currently in the dataset.
func (d Dataset) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(d))
	for id := range d {
		keys[id] = struct{}{}
	}
	return keys
}

// Len returns the number of records in the dataset.
func (d Dataset) Len() int {
	return len(d)
}
