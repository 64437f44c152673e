package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"tapedeck/internal/downloader"
)

const titleColumnWidth = 48

func buildItemRows(items []downloader.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			truncate(item.DisplayTitle(), titleColumnWidth),
			item.Status,
			progressCell(item),
			sizeCell(item),
		})
	}
	return rows
}

func progressCell(item downloader.Item) string {
	if !downloader.IsActive(item.Status) || item.Progress.Percent <= 0 {
		return ""
	}
	return fmt.Sprintf("%.0f%%", min(item.Progress.Percent, 100))
}

func sizeCell(item downloader.Item) string {
	if item.FileSize > 0 {
		return humanize.Bytes(uint64(item.FileSize))
	}
	if item.Progress.TotalBytes > 0 {
		return humanize.Bytes(uint64(item.Progress.TotalBytes))
	}
	return ""
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
