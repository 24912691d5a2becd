package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"pairlog/internal/sweeper"
	"pairlog/pkg/bridge"
	"pairlog/pkg/config"
	"pairlog/pkg/state"
	"pairlog/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg       *config.Config
	source    string
	version   string
	commit    string
	buildDate string

	br     *bridge.Bridge
	cancel context.CancelFunc

	srv *http.Server
}

// New initializes resources that do not require a running context: the
// state directory layout, the pebble store and the document bridge. It
// does not start the sweeper or the HTTP server; call Run to start those
// and block until shutdown.
func New(cfg *config.Config, source, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if err := state.EnsureStateDirs(cfg.Storage.DBPath); err != nil {
		return nil, fmt.Errorf("state dirs under %s: %w", cfg.Storage.DBPath, err)
	}
	if err := store.Open(state.PathsVar.Store); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", state.PathsVar.Store, err)
	}

	br, err := bridge.Load()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load document: %w", err)
	}

	return &App{cfg: cfg, source: source, br: br, version: version, commit: commit, buildDate: buildDate}, nil
}

// Run starts the sweeper (if enabled) and the HTTP server, and blocks
// until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	cancelSweep, err := sweeper.Start(ctx, a.cfg.Sweep, a.br)
	if err != nil {
		return err
	}
	a.cancel = cancelSweep

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		return err
	}
}

// shutdown stops the sweeper, drains the HTTP server and closes the
// store.
func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = a.srv.Shutdown(ctx)
	}
	_ = store.Close()
}
