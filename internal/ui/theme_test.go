package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"tapedeck/internal/downloader"
)

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("NoSuchTheme"); got.Name != "Dracula" {
		t.Errorf("fallback theme = %q, want Dracula", got.Name)
	}
	for _, name := range ThemeNames() {
		if got := GetTheme(name); got.Name != name {
			t.Errorf("GetTheme(%q).Name = %q", name, got.Name)
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	current := names[0]
	for i := 0; i < len(names); i++ {
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Errorf("theme cycle did not wrap: ended at %q", current)
	}
	if got := NextTheme("NoSuchTheme"); got != names[0] {
		t.Errorf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestStylesCarryThemeColors(t *testing.T) {
	fg := func(s lipgloss.Style) string {
		c, _ := s.GetForeground().(lipgloss.Color)
		return string(c)
	}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		styles := theme.Styles()
		checks := map[string]struct{ got, want string }{
			"Text":   {fg(styles.Text), theme.Text},
			"Accent": {fg(styles.AccentText), theme.Accent},
			"Danger": {fg(styles.DangerText), theme.Danger},
			"Info":   {fg(styles.InfoText), theme.Info},
		}
		for field, c := range checks {
			if c.got != c.want {
				t.Errorf("theme %q %s style foreground = %q, want %q", name, field, c.got, c.want)
			}
		}
	}
}

func TestThemesCoverAllStatuses(t *testing.T) {
	statuses := []string{
		downloader.StatusPending,
		downloader.StatusFetching,
		downloader.StatusDownloading,
		downloader.StatusConverting,
		downloader.StatusCompleted,
		downloader.StatusFailed,
		downloader.StatusCancelled,
		downloader.StatusSkipped,
	}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, status := range statuses {
			if theme.StatusColors[status] == "" {
				t.Errorf("theme %q missing color for status %q", name, status)
			}
		}
	}
}
