package ui

import (
	"strings"

	"github.com/dustin/go-humanize"

	"tapedeck/internal/downloader"
)

// formatBytes renders a byte count like "4.2 MB".
func formatBytes(n int64) string {
	if n <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(n))
}

// truncate shortens a string to limit runes with a trailing ellipsis.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// titleCase converts a lowercase status word to Title Case.
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// splitURLs breaks the submit bar's input into individual URLs. Both
// whitespace and commas separate entries.
func splitURLs(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '\n'
	})
	urls := make([]string, 0, len(fields))
	for _, f := range fields {
		if f := strings.TrimSpace(f); f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}

// nextQuality returns the next bitrate in the cycle.
func nextQuality(current string) string {
	for i, q := range downloader.Qualities {
		if q == current {
			return downloader.Qualities[(i+1)%len(downloader.Qualities)]
		}
	}
	return downloader.DefaultQuality
}
