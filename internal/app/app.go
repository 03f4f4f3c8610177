package app

import (
	"context"
	"sync"

	"github.com/mselser95/packs-bot/internal/circuitbreaker"
	"github.com/mselser95/packs-bot/internal/credentials"
	"github.com/mselser95/packs-bot/internal/session"
	"github.com/mselser95/packs-bot/pkg/cache"
	"github.com/mselser95/packs-bot/pkg/config"
	"github.com/mselser95/packs-bot/pkg/healthprobe"
	"github.com/mselser95/packs-bot/pkg/httpserver"
	"github.com/mselser95/packs-bot/pkg/websocket"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	opts          *Options
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	hub           *websocket.Hub
	store         *credentials.Store
	breaker       *circuitbreaker.FailureBreaker
	controller    *session.Controller
	lookupCache   cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// AutoStart begins a session as soon as complete credentials are available.
	AutoStart bool
	// ExitWhenDone shuts the application down once the auto-started session ends.
	ExitWhenDone bool
}
