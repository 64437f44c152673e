package downloader

import (
	"path"
	"strings"
	"time"
)

// Status values reported by the server for a queue item.
const (
	StatusPending     = "pending"
	StatusFetching    = "fetching"
	StatusDownloading = "downloading"
	StatusConverting  = "converting"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
	StatusCancelled   = "cancelled"
	StatusSkipped     = "skipped"
)

// activeStatuses are the states the server is still doing work in. Cancel-all
// applies only to these.
var activeStatuses = map[string]struct{}{
	StatusPending:     {},
	StatusFetching:    {},
	StatusDownloading: {},
	StatusConverting:  {},
}

// IsActive reports whether status names a job the server is still working on.
func IsActive(status string) bool {
	_, ok := activeStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// IsFinished reports whether status names a terminal success state. Skipped
// counts: the target file already existed, so there is a file to hand out.
func IsFinished(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// DefaultQuality is the bitrate used when the caller does not pick one.
const DefaultQuality = "192k"

// Qualities lists the audio bitrates the server accepts, lowest first.
var Qualities = []string{"128k", DefaultQuality, "256k", "320k"}

// IsValidQuality reports whether quality names a bitrate the server accepts.
func IsValidQuality(quality string) bool {
	for _, q := range Qualities {
		if q == quality {
			return true
		}
	}
	return false
}

// Progress mirrors the per-item progress payload. Only meaningful while the
// item is fetching, downloading, or converting.
type Progress struct {
	Percent         float64 `json:"percent"`
	DownloadedBytes int64   `json:"downloaded_bytes"`
	TotalBytes      int64   `json:"total_bytes"`
	Speed           string  `json:"speed"`
	Eta             string  `json:"eta"`
}

// Item describes a queue entry in transport-friendly form.
type Item struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Progress  Progress `json:"progress"`
	Quality   string   `json:"quality"`
	FilePath  string   `json:"file_path"`
	FileSize  int64    `json:"file_size"`
	Error     string   `json:"error"`
	CreatedAt string   `json:"created_at"`
}

// DisplayTitle returns the fetched title, falling back to the source URL
// while metadata is still pending.
func (i Item) DisplayTitle() string {
	if title := strings.TrimSpace(i.Title); title != "" {
		return title
	}
	return strings.TrimSpace(i.URL)
}

// FileName returns the base name of the produced file, or "" when the server
// has not reported one.
func (i Item) FileName() string {
	trimmed := strings.TrimSpace(i.FilePath)
	if trimmed == "" {
		return ""
	}
	return path.Base(trimmed)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (i Item) ParsedCreatedAt() time.Time {
	return parseTime(i.CreatedAt)
}

// Stats mirrors the aggregate counters computed server-side. They are pushed
// by the server and never derived locally, so they can lag the item list.
type Stats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Downloading int `json:"downloading"`
	Completed   int `json:"completed"`
	Failed      int `json:"failed"`
}

// FileEntry describes one produced file as listed by /api/files.
type FileEntry struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
