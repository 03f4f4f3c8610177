package app

import (
	"context"
	"fmt"
	"os"

	"github.com/mselser95/packs-bot/internal/circuitbreaker"
	"github.com/mselser95/packs-bot/internal/credentials"
	"github.com/mselser95/packs-bot/internal/lookup"
	"github.com/mselser95/packs-bot/internal/report"
	"github.com/mselser95/packs-bot/internal/session"
	"github.com/mselser95/packs-bot/internal/wager"
	"github.com/mselser95/packs-bot/pkg/cache"
	"github.com/mselser95/packs-bot/pkg/config"
	"github.com/mselser95/packs-bot/pkg/healthprobe"
	"github.com/mselser95/packs-bot/pkg/httpserver"
	"github.com/mselser95/packs-bot/pkg/types"
	"github.com/mselser95/packs-bot/pkg/websocket"
	"go.uber.org/zap"
)

// Frame types pushed on /ws/events.
const (
	frameEvent    = "event"
	frameSnapshot = "snapshot"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Initialize components
	healthChecker := setupHealthChecker()
	store := setupCredentialStore(cfg, logger)

	executor, err := setupWagerClient(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup wager client: %w", err)
	}

	breaker, err := setupFailureBreaker(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup failure breaker: %w", err)
	}

	// The hub's welcome frame and the console summary both read from the
	// controller, which is built after them.
	var controller *session.Controller
	hub, err := setupHub(logger, func() websocket.Frame {
		return websocket.Frame{Type: frameSnapshot, Data: controller.Snapshot()}
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup websocket hub: %w", err)
	}

	console := report.NewConsole(os.Stdout, nil, logger)

	controller, err = setupController(cfg, logger, executor, breaker, []session.EventSink{
		console,
		session.SinkFunc(func(event session.Event) {
			hub.Broadcast(frameEvent, event)
			hub.Broadcast(frameSnapshot, controller.Snapshot())
		}),
		session.SinkFunc(func(event session.Event) {
			if event.Type == session.EventInvalidCredentials {
				// Rejected tokens are useless; force a fresh capture.
				store.Clear()
			}
		}),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup session controller: %w", err)
	}
	console.SetSource(controller)

	lookupCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	looker, err := setupLooker(cfg, logger, lookupCache)
	if err != nil {
		cancel()
		lookupCache.Close()
		return nil, fmt.Errorf("setup lookup client: %w", err)
	}

	healthChecker.AddCheck("credentials", func() error {
		if !store.Credentials().Complete() {
			return types.ErrMissingCredentials
		}
		return nil
	})

	httpServer := setupHTTPServer(ctx, cfg, logger, healthChecker, controller, store, looker, hub)

	return &App{
		cfg:           cfg,
		opts:          opts,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		hub:           hub,
		store:         store,
		breaker:       breaker,
		controller:    controller,
		lookupCache:   lookupCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupCredentialStore(cfg *config.Config, logger *zap.Logger) *credentials.Store {
	return credentials.NewStore(types.Credentials{
		AccessToken:   cfg.AccessToken,
		LockdownToken: cfg.LockdownToken,
	}, logger)
}

func setupWagerClient(cfg *config.Config, logger *zap.Logger) (*wager.Client, error) {
	return wager.NewClient(&wager.ClientConfig{
		URL:         cfg.BetURL,
		Referrer:    cfg.Referrer,
		Timeout:     cfg.RequestTimeout,
		MaxAttempts: cfg.MaxAttempts,
		Backoff: wager.Backoff{
			Base:   cfg.BackoffBase,
			Max:    cfg.BackoffMax,
			Jitter: cfg.BackoffJitter,
		},
		Logger: logger,
	})
}

func setupFailureBreaker(cfg *config.Config, logger *zap.Logger) (*circuitbreaker.FailureBreaker, error) {
	return circuitbreaker.New(&circuitbreaker.Config{
		Policy:         cfg.FailurePolicy,
		MaxConsecutive: cfg.FailureMaxConsecutive,
		Logger:         logger,
	})
}

func setupHub(logger *zap.Logger, welcome func() websocket.Frame) (*websocket.Hub, error) {
	return websocket.NewHub(websocket.HubConfig{
		Welcome: welcome,
		Logger:  logger,
	})
}

func setupController(
	cfg *config.Config,
	logger *zap.Logger,
	executor wager.Executor,
	breaker *circuitbreaker.FailureBreaker,
	sinks []session.EventSink,
) (*session.Controller, error) {
	topN := 0
	if cfg.ShowTopMultipliers {
		topN = cfg.TopMultipliersCount
	}

	return session.New(&session.Config{
		Executor:               executor,
		Currency:               cfg.Currency,
		ShowBigWinNotification: cfg.ShowBigWinNotification,
		BigWinThreshold:        cfg.BigWinThreshold,
		AutoStopEnabled:        cfg.AutoStopEnabled,
		AutoStopMultiplier:     cfg.AutoStopMultiplier,
		TopMultipliersCount:    topN,
		Breaker:                breaker,
		Sinks:                  sinks,
		Logger:                 logger,
	})
}

func setupCache(logger *zap.Logger) (*cache.RistrettoCache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		Name:        "bet_lookup",
		NumCounters: 10000, // 10x expected max items
		MaxCost:     1000,  // Maximum 1000 bets in cache
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupLooker(cfg *config.Config, logger *zap.Logger, lookupCache cache.Cache) (lookup.Looker, error) {
	client, err := lookup.NewClient(&lookup.ClientConfig{
		URL:     cfg.GraphQLURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return lookup.NewCachedLooker(client, lookupCache, cfg.LookupCacheTTL), nil
}

func setupHTTPServer(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	controller *session.Controller,
	store *credentials.Store,
	looker lookup.Looker,
	hub *websocket.Hub,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:           cfg.HTTPPort,
		Logger:         logger,
		HealthChecker:  healthChecker,
		Session:        controller,
		Credentials:    store,
		Lookup:         looker,
		Events:         hub,
		SessionContext: ctx,
		DefaultAmount:  cfg.Amount,
		DefaultMaxBets: cfg.MaxBets,
	})
}
