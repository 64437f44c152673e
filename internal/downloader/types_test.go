package downloader

import (
	"encoding/json"
	"testing"
)

func TestStatusHelpers(t *testing.T) {
	active := []string{StatusPending, StatusFetching, StatusDownloading, StatusConverting, " Pending "}
	for _, s := range active {
		if !IsActive(s) {
			t.Errorf("IsActive(%q) = false, want true", s)
		}
		if IsFinished(s) {
			t.Errorf("IsFinished(%q) = true, want false", s)
		}
	}

	done := []string{StatusCompleted, StatusSkipped}
	for _, s := range done {
		if IsActive(s) {
			t.Errorf("IsActive(%q) = true, want false", s)
		}
		if !IsFinished(s) {
			t.Errorf("IsFinished(%q) = false, want true", s)
		}
	}

	for _, s := range []string{StatusFailed, StatusCancelled, ""} {
		if IsActive(s) || IsFinished(s) {
			t.Errorf("status %q should be neither active nor finished", s)
		}
	}
}

func TestItem_DecodesNullableFields(t *testing.T) {
	payload := `{
		"id": "abc",
		"url": "https://example.com/watch",
		"title": null,
		"status": "pending",
		"progress": {"percent": 0, "downloaded_bytes": 0, "total_bytes": 0, "speed": "", "eta": ""},
		"quality": "192k",
		"file_path": null,
		"file_size": null,
		"error": null,
		"created_at": "2024-05-01T10:00:00"
	}`

	var item Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if item.Title != "" || item.FilePath != "" || item.Error != "" {
		t.Fatalf("nullable fields not zero: %#v", item)
	}
	if item.DisplayTitle() != "https://example.com/watch" {
		t.Fatalf("DisplayTitle = %q, want url fallback", item.DisplayTitle())
	}
	if item.FileName() != "" {
		t.Fatalf("FileName = %q, want empty", item.FileName())
	}
	if item.ParsedCreatedAt().IsZero() {
		t.Fatalf("ParsedCreatedAt is zero for %q", item.CreatedAt)
	}
}

func TestItem_FileName(t *testing.T) {
	item := Item{FilePath: "/app/downloads/My Song.mp3", Title: "My Song"}
	if got := item.FileName(); got != "My Song.mp3" {
		t.Fatalf("FileName = %q, want My Song.mp3", got)
	}
	if item.DisplayTitle() != "My Song" {
		t.Fatalf("DisplayTitle = %q, want My Song", item.DisplayTitle())
	}
}
