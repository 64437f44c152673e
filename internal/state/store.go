package state

import (
	"sort"
	"sync"

	"tapedeck/internal/downloader"
)

// Store coordinates concurrent access to the mirrored queue. It holds the
// id→item mapping plus the server-pushed aggregate stats. Writes replace
// whole records; no field-level merging happens here and no field values are
// validated, so whatever the network delivered is what readers see.
type Store struct {
	mu       sync.RWMutex
	items    map[string]downloader.Item
	stats    downloader.Stats
	hasStats bool
}

// Snapshot is a point-in-time copy of the store for rendering. The items
// slice is owned by the caller.
type Snapshot struct {
	Items    []downloader.Item
	Stats    downloader.Stats
	HasStats bool
}

// Snapshot returns a consistent copy of items and stats taken under one
// lock. Items are sorted oldest first, matching Items.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]downloader.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sortItems(items)
	return Snapshot{Items: items, Stats: s.stats, HasStats: s.hasStats}
}

// Upsert inserts or fully replaces the record for item.ID.
func (s *Store) Upsert(item downloader.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]downloader.Item)
	}
	s.items[item.ID] = item
}

// Remove deletes the record for id, if present.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (downloader.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Items returns a copy of all records, oldest first.
func (s *Store) Items() []downloader.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]downloader.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sortItems(items)
	return items
}

func sortItems(items []downloader.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ti := items[i].ParsedCreatedAt()
		tj := items[j].ParsedCreatedAt()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return items[i].ID < items[j].ID
	})
}

// IDs returns the ids of all records in no particular order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ReplaceAll swaps the whole mapping for the given snapshot. Used when
// seeding from the one-shot queue listing at startup.
func (s *Store) ReplaceAll(items []downloader.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]downloader.Item, len(items))
	for _, item := range items {
		s.items[item.ID] = item
	}
}

// Clear drops every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// SetStats replaces the aggregate counters.
func (s *Store) SetStats(stats downloader.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.hasStats = true
}

// Stats returns the last counters pushed by the server. The second return
// is false until the first stats update arrives. The counters are computed
// server-side and can transiently disagree with the item mapping; that is
// accepted rather than papered over locally.
func (s *Store) Stats() (downloader.Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.hasStats
}
