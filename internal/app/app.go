package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"tapedeck/internal/config"
	"tapedeck/internal/downloader"
	"tapedeck/internal/mirror"
	"tapedeck/internal/prefs"
	"tapedeck/internal/push"
	"tapedeck/internal/state"
	"tapedeck/internal/ui"
)

// Options configure the tapedeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tapedeck/prefs.toml
	ServerURL  string // overrides the configured server when set
}

// Run boots the tapedeck TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	restoreLog := redirectLog()
	defer restoreLog()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := downloader.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	store := &state.Store{}
	engine := mirror.New(store, client, mirror.Options{
		AutoSave: cfg.AutoSave,
		SaveDir:  cfg.DownloadDir,
	})

	// Populate the store before the UI starts. A down server is not fatal;
	// the push channel keeps redialing and the first events refill the view.
	if err := engine.Seed(ctx); err != nil {
		log.Printf("initial queue fetch failed: %v", err)
	}

	channel := push.NewChannel(client.WebSocketURL(), engine)
	channel.Connect()
	defer channel.Close()

	quality := cfg.Quality
	if downloader.IsValidQuality(userPrefs.Quality) {
		quality = userPrefs.Quality
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Engine:    engine,
		Store:     store,
		Channel:   channel,
		Quality:   quality,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

// redirectLog keeps background logging off the terminal the TUI owns. Set
// TAPEDECK_LOG to a file path to capture it; otherwise it is discarded.
func redirectLog() func() {
	prev := log.Writer()
	if path := os.Getenv("TAPEDECK_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			log.SetOutput(f)
			return func() {
				log.SetOutput(prev)
				f.Close()
			}
		}
	}
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(prev) }
}
