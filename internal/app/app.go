package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"tipjar/internal/metrics"
)

// App is what commands work with: the loaded config plus the wired graph.
type App struct {
	*Wire
	Config Config
	Home   string

	stopMetrics context.CancelFunc
}

func New(cfg Config, opts Options) (*App, error) {
	w, err := NewWire(cfg, opts)
	if err != nil {
		return nil, err
	}
	return &App{Wire: w, Config: cfg, Home: opts.Home}, nil
}

// ServeMetrics exposes the registry on addr in the background until Close.
func (a *App) ServeMetrics(addr string) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopMetrics = cancel
	go func() {
		if err := metrics.Serve(ctx, addr, a.Registry); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
}

// Close ends any open session, keeping the cached wallet choice, and stops
// background servers.
func (a *App) Close() {
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
	_ = a.Sessions.Close()
}
