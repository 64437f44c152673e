package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tapedeck/internal/downloader"
)

// renderMain renders the full screen: header, command bar, table, footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	bodyHeight := m.height - 3 // header + cmdbar + footer
	if m.adding {
		bodyHeight--
		b.WriteString(m.urlInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderTable(bodyHeight))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the top status bar: logo, counters, connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	parts := []string{styles.Logo.Render("tapedeck")}

	if m.snapshot.HasStats {
		s := m.snapshot.Stats
		parts = append(parts,
			styles.Text.Render(fmt.Sprintf("%d total", s.Total)),
			styles.MutedText.Render(fmt.Sprintf("%d pending", s.Pending)),
			styles.AccentText.Render(fmt.Sprintf("%d active", s.Downloading)),
			styles.SuccessText.Render(fmt.Sprintf("%d done", s.Completed)),
		)
		if s.Failed > 0 {
			parts = append(parts, styles.DangerText.Render(fmt.Sprintf("%d failed", s.Failed)))
		}
	} else {
		parts = append(parts, styles.MutedText.Render("waiting for stats"))
	}

	if m.connected {
		parts = append(parts, styles.SuccessText.Render("live"))
	} else {
		parts = append(parts, styles.WarningText.Render("reconnecting"))
	}

	content := strings.Join(parts, styles.MutedText.Render("  |  "))
	return styles.Header.Width(m.width).Render(content)
}

// renderCommandBar renders the second line: session toggles and key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	autoSave := "off"
	if m.engine != nil && m.engine.AutoSave() {
		autoSave = "on"
	}

	left := strings.Join([]string{
		styles.MutedText.Render("quality ") + styles.AccentText.Render(m.quality),
		styles.MutedText.Render("auto-save ") + styles.AccentText.Render(autoSave),
		styles.MutedText.Render("theme ") + styles.AccentText.Render(m.theme.Name),
	}, styles.MutedText.Render("  "))

	right := styles.MutedText.Render("a add  c cancel  r retry  s save  ? help")

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		return styles.Header.Width(m.width).Render(left)
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}

// renderTable renders the queue rows, keeping the cursor visible.
func (m Model) renderTable(height int) string {
	styles := m.theme.Styles()
	items := m.snapshot.Items

	if len(items) == 0 {
		empty := styles.MutedText.Render("Queue is empty. Press 'a' to add a URL.")
		return lipgloss.Place(m.width, max(height, 1), lipgloss.Center, lipgloss.Center, empty)
	}

	// Scroll window around the selection.
	first := 0
	if height > 0 && m.selectedRow >= height {
		first = m.selectedRow - height + 1
	}
	last := min(first+max(height, 1), len(items))

	var lines []string
	for i := first; i < last; i++ {
		lines = append(lines, m.renderRow(items[i], i == m.selectedRow))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow formats one queue row:
// "title  ·  status detail  size"
func (m Model) renderRow(item downloader.Item, selected bool) string {
	styles := m.theme.Styles()

	status := titleCase(item.Status)
	detail := statusDetail(item)
	right := status
	if detail != "" {
		right += " " + detail
	}

	sep := " · "
	titleWidth := max(m.width-lipgloss.Width(right)-len(sep)-2, 10)
	title := truncate(item.DisplayTitle(), titleWidth)

	if selected {
		line := title + sep + right
		return styles.Selected.Width(m.width).Render(" " + line)
	}

	titlePart := styles.Text.Render(" " + title)
	sepPart := styles.MutedText.Render(sep)
	statusPart := styles.StatusStyle(item.Status).Render(right)
	return titlePart + sepPart + statusPart
}

// statusDetail returns the per-status suffix for a row: progress while
// working, size or error once settled.
func statusDetail(item downloader.Item) string {
	switch {
	case item.Status == downloader.StatusDownloading:
		parts := []string{fmt.Sprintf("%.0f%%", min(item.Progress.Percent, 100))}
		if item.Progress.TotalBytes > 0 {
			parts = append(parts, fmt.Sprintf("%s/%s",
				formatBytes(item.Progress.DownloadedBytes),
				formatBytes(item.Progress.TotalBytes)))
		}
		if speed := strings.TrimSpace(item.Progress.Speed); speed != "" {
			parts = append(parts, speed)
		}
		if eta := strings.TrimSpace(item.Progress.Eta); eta != "" {
			parts = append(parts, "eta "+eta)
		}
		return strings.Join(parts, " ")
	case item.Status == downloader.StatusConverting:
		return fmt.Sprintf("%.0f%%", min(item.Progress.Percent, 100))
	case downloader.IsFinished(item.Status) && item.FileSize > 0:
		return formatBytes(item.FileSize)
	case item.Status == downloader.StatusFailed && item.Error != "":
		return truncate(item.Error, 48)
	}
	return ""
}

// renderFooter renders the last action outcome, or a hint when idle.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.notice == "" {
		return styles.MutedText.Render(" j/k move  x cancel all  X clear all  q quit")
	}
	if m.noticeErr {
		return styles.DangerText.Render(" " + m.notice)
	}
	return styles.InfoText.Render(" " + m.notice)
}
