package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"tapedeck/internal/downloader"
)

// Config captures the client-side settings for talking to a tapedeck server.
type Config struct {
	ServerURL   string
	DownloadDir string
	AutoSave    bool
	Quality     string
}

const (
	defaultConfigPath  = "~/.config/tapedeck/config.toml"
	defaultServerURL   = "http://127.0.0.1:8000"
	defaultDownloadDir = "~/Music/tapedeck"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when
// missing. A nonexistent file is not an error; a present but unparseable one
// is.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL:   defaultServerURL,
		DownloadDir: mustExpand(defaultDownloadDir),
		Quality:     downloader.DefaultQuality,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL   string `toml:"server_url"`
		DownloadDir string `toml:"download_dir"`
		AutoSave    bool   `toml:"auto_save"`
		Quality     string `toml:"quality"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if url := strings.TrimSpace(raw.ServerURL); url != "" {
		cfg.ServerURL = url
	}
	if dir := strings.TrimSpace(raw.DownloadDir); dir != "" {
		cfg.DownloadDir = mustExpand(dir)
	}
	cfg.AutoSave = raw.AutoSave
	if quality := strings.TrimSpace(raw.Quality); quality != "" {
		if !downloader.IsValidQuality(quality) {
			return Config{}, fmt.Errorf("unknown quality %q (valid: %s)", quality, strings.Join(downloader.Qualities, ", "))
		}
		cfg.Quality = quality
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
