package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var errSessionNotDrained = errors.New("session did not drain before shutdown deadline")

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Stop the session before cancelling so the terminal event is "stopped"
	// and any in-flight result is discarded.
	if a.controller.Stop() {
		a.logger.Info("session-stopped-for-shutdown")
	}

	// Cancel context to signal all components
	a.cancel()

	// Shutdown components in dependency order
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	err := a.drainSession(shutdownCtx)
	if err != nil {
		a.logger.Warn("session-drain-error", zap.Error(err))
	}

	// Shutdown HTTP server
	err = a.shutdownHTTPServer(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	// Close WebSocket hub
	err = a.shutdownHub()
	if err != nil {
		a.logger.Error("websocket-hub-close-error", zap.Error(err))
	}

	// Close lookup cache
	a.lookupCache.Close()

	// Wait for all goroutines
	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")

	return nil
}

// drainSession waits for the session loop to exit. A stopped session may
// still be resolving its last wager; that result is discarded on arrival.
func (a *App) drainSession(ctx context.Context) error {
	err := a.controller.Wait(ctx)
	if err != nil {
		return errSessionNotDrained
	}
	return nil
}

func (a *App) shutdownHTTPServer(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}

func (a *App) shutdownHub() error {
	return a.hub.Close()
}
