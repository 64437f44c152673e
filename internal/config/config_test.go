package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://127.0.0.1:8000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Quality != "192k" {
		t.Errorf("Quality = %q", cfg.Quality)
	}
	if cfg.AutoSave {
		t.Error("AutoSave defaulted to true")
	}
	if cfg.DownloadDir == "" || strings.HasPrefix(cfg.DownloadDir, "~") {
		t.Errorf("DownloadDir = %q, want expanded path", cfg.DownloadDir)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server_url = "http://media-box.local:9000"
download_dir = "/srv/music"
auto_save = true
quality = "320k"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://media-box.local:9000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.DownloadDir != "/srv/music" {
		t.Errorf("DownloadDir = %q", cfg.DownloadDir)
	}
	if !cfg.AutoSave {
		t.Error("AutoSave not set")
	}
	if cfg.Quality != "320k" {
		t.Errorf("Quality = %q", cfg.Quality)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `server_url = "http://10.0.0.5:8000"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://10.0.0.5:8000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Quality != "192k" {
		t.Errorf("Quality = %q, want default", cfg.Quality)
	}
}

func TestLoadRejectsUnknownQuality(t *testing.T) {
	path := writeConfig(t, `quality = "lossless"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown quality")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, `server_url = [broken`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadExpandsTildeDownloadDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	path := writeConfig(t, `download_dir = "~/music"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(home, "music"); cfg.DownloadDir != want {
		t.Errorf("DownloadDir = %q, want %q", cfg.DownloadDir, want)
	}
}
