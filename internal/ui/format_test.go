package ui

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long track title indeed", 10, "a very lo…"},
		{"anything", 0, ""},
		{"  padded  ", 10, "padded"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.limit); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.limit, got, c.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"downloading": "Downloading",
		"completed":   "Completed",
		"":            "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitURLs(t *testing.T) {
	got := splitURLs("https://a.example/x, https://b.example/y\nhttps://c.example/z")
	want := []string{"https://a.example/x", "https://b.example/y", "https://c.example/z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitURLs = %v, want %v", got, want)
	}
	if got := splitURLs("   ,  "); len(got) != 0 {
		t.Errorf("splitURLs of blanks = %v, want empty", got)
	}
}

func TestNextQualityCycles(t *testing.T) {
	seen := map[string]bool{}
	q := "192k"
	for i := 0; i < 4; i++ {
		seen[q] = true
		q = nextQuality(q)
	}
	if len(seen) != 4 {
		t.Errorf("cycle visited %d qualities, want 4: %v", len(seen), seen)
	}
	if q != "192k" {
		t.Errorf("cycle did not wrap: ended at %q", q)
	}
	if got := nextQuality("bogus"); got != "192k" {
		t.Errorf("nextQuality(bogus) = %q, want default", got)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(0); got != "" {
		t.Errorf("formatBytes(0) = %q, want empty", got)
	}
	if got := formatBytes(1500000); got == "" {
		t.Error("formatBytes(1.5MB) empty")
	}
}
