// Package app wires together core and transport layers.
package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/avolkov/chatrelay-server/internal/config"
	"github.com/avolkov/chatrelay-server/internal/core"
	transporthttp "github.com/avolkov/chatrelay-server/internal/transport/http"
)

// App owns the HTTP server and the hub behind it.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration. All room
// state lives in memory; nothing survives a restart.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	hub := core.NewHub(core.NewStore(), cfg.TypingTTL)
	server := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup stops the hub's pending typing-expiry timers.
func (a *App) cleanup() {
	a.hub.Shutdown()
	a.log.Info().Msg("hub stopped")
}
