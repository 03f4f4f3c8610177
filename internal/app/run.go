package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mselser95/packs-bot/internal/session"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("currency", a.cfg.Currency),
		zap.Int64("amount", a.cfg.Amount),
		zap.Int("max-bets", a.cfg.MaxBets),
		zap.String("failure-policy", a.cfg.FailurePolicy),
		zap.String("log-level", a.cfg.LogLevel))

	err := a.startComponents()
	if err != nil {
		return err
	}

	// Mark as ready
	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.Bool("auto-start", a.opts.AutoStart))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Periodic snapshots keep the elapsed-time and rate views fresh for UI clients
	a.wg.Add(1)
	go a.runSnapshotPublisher(time.Second)

	if a.opts.AutoStart {
		a.wg.Add(1)
		go a.runAutoStart()
	}

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runSnapshotPublisher(interval time.Duration) {
	defer a.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			if a.controller.Status() == types.StatusRunning && a.hub.ClientCount() > 0 {
				a.hub.Broadcast(frameSnapshot, a.controller.Snapshot())
			}
		}
	}
}

// runAutoStart waits for complete credentials and starts one session with
// the configured amount and bet count.
func (a *App) runAutoStart() {
	defer a.wg.Done()

	if !a.store.Credentials().Complete() {
		a.logger.Info("auto-start-waiting-for-credentials")
	}

	creds, err := a.store.Await(a.ctx)
	if err != nil {
		return
	}

	err = a.controller.Start(a.ctx, session.StartConfig{
		Amount:      a.cfg.Amount,
		MaxBets:     a.cfg.MaxBets,
		Credentials: creds,
	})
	if err != nil {
		a.logger.Error("auto-start-failed", zap.Error(err))
		if a.opts.ExitWhenDone {
			a.cancel()
		}
		return
	}

	if !a.opts.ExitWhenDone {
		return
	}

	select {
	case <-a.controller.Done():
		a.logger.Info("auto-started-session-finished",
			zap.String("status", a.controller.Status().String()))
		a.cancel()
	case <-a.ctx.Done():
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
