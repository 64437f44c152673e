package state

import (
	"fmt"
	"testing"

	"tapedeck/internal/downloader"
)

func TestStore_UpsertReplacesByID(t *testing.T) {
	var s Store

	s.Upsert(downloader.Item{ID: "a", Status: downloader.StatusPending})
	s.Upsert(downloader.Item{ID: "a", Status: downloader.StatusDownloading, Title: "Song"})

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after upserting same id twice", s.Len())
	}
	item, ok := s.Get("a")
	if !ok {
		t.Fatal("Get(a) missing after upsert")
	}
	if item.Status != downloader.StatusDownloading || item.Title != "Song" {
		t.Fatalf("record not replaced: %#v", item)
	}
}

func TestStore_UniqueIDsAcrossManyUpserts(t *testing.T) {
	var s Store
	for i := 0; i < 50; i++ {
		s.Upsert(downloader.Item{ID: fmt.Sprintf("id-%d", i%5)})
	}
	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5 unique ids", s.Len())
	}
	seen := make(map[string]bool)
	for _, item := range s.Items() {
		if seen[item.ID] {
			t.Fatalf("duplicate id %q in Items()", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	var s Store
	s.Upsert(downloader.Item{ID: "a"})
	s.Upsert(downloader.Item{ID: "b"})

	s.Remove("a")
	if _, ok := s.Get("a"); ok {
		t.Fatal("Get(a) found after Remove")
	}
	s.Remove("a") // removing twice is fine
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after Clear", s.Len())
	}

	// Store stays usable after Clear.
	s.Upsert(downloader.Item{ID: "c"})
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after post-Clear upsert", s.Len())
	}
}

func TestStore_ItemsSortedOldestFirst(t *testing.T) {
	var s Store
	s.Upsert(downloader.Item{ID: "b", CreatedAt: "2024-05-01T10:00:02Z"})
	s.Upsert(downloader.Item{ID: "a", CreatedAt: "2024-05-01T10:00:01Z"})
	s.Upsert(downloader.Item{ID: "c", CreatedAt: "2024-05-01T10:00:03Z"})

	items := s.Items()
	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Items order = %v, want %v", got, want)
		}
	}
}

func TestStore_ReplaceAllSeedsMapping(t *testing.T) {
	var s Store
	s.Upsert(downloader.Item{ID: "stale"})

	s.ReplaceAll([]downloader.Item{{ID: "x"}, {ID: "y"}})
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if _, ok := s.Get("stale"); ok {
		t.Fatal("stale record survived ReplaceAll")
	}
}

func TestStore_Stats(t *testing.T) {
	var s Store

	if _, ok := s.Stats(); ok {
		t.Fatal("Stats reported present before first SetStats")
	}

	s.SetStats(downloader.Stats{Total: 4, Pending: 1, Completed: 3})
	stats, ok := s.Stats()
	if !ok {
		t.Fatal("Stats missing after SetStats")
	}
	if stats.Total != 4 || stats.Completed != 3 {
		t.Fatalf("Stats = %#v, want total=4 completed=3", stats)
	}
}
