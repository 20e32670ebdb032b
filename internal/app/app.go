package app

import (
	"context"
	"fmt"
	"time"

	"github.com/recipeshare/ladle/internal/config"
	"github.com/recipeshare/ladle/internal/prefs"
	"github.com/recipeshare/ladle/internal/recipeshare"
	"github.com/recipeshare/ladle/internal/session"
	"github.com/recipeshare/ladle/internal/state"
	"github.com/recipeshare/ladle/internal/ui"
)

// Options configure the Ladle application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/ladle/prefs.toml
	SessionPath string // empty uses default ~/.local/state/ladle/session.db
	PollEvery   int    // seconds; zero uses default
}

// Run boots the Ladle TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := recipeshare.NewClient(cfg.APIURL, cfg.AuthURL, cfg.AssetURL)
	if err != nil {
		return fmt.Errorf("init recipeshare client: %w", err)
	}

	sessions, err := session.NewStore(opts.SessionPath)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}

	store := &state.Store{}

	interval := defaultRefreshInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	} else if cfg.PollSeconds > 0 {
		interval = time.Duration(cfg.PollSeconds) * time.Second
	}

	refresher := StartRefresher(ctx, client, store, interval)

	// A persisted session skips the login screen; the refresher starts
	// fetching for that user right away.
	resumed := sessions.Load()
	if resumed.SignedIn() {
		refresher.SetUser(resumed.UserID)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Sessions:  sessions,
		Refresher: refresher,
		Session:   resumed,
		PollTick:  uiTickInterval(interval),
		ThemeName: userPrefs.Theme,
		StartTab:  userPrefs.Tab,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// uiTickInterval keeps the UI's snapshot polling comfortably more frequent
// than the network refresh cadence.
func uiTickInterval(refreshEvery time.Duration) time.Duration {
	if refreshEvery > time.Second {
		return time.Second
	}
	return refreshEvery
}
