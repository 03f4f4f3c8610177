package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mselser95/packs-bot/internal/lookup"
	"github.com/mselser95/packs-bot/pkg/healthprobe"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server provides the session API plus metrics and health checks.
type Server struct {
	server        *http.Server
	handler       http.Handler
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker

	// Optional components. Routes are mounted only for those provided.
	Session     SessionController
	Credentials CredentialStore
	Lookup      lookup.Looker
	Events      http.Handler // WebSocket event stream

	// SessionContext bounds sessions started over HTTP. Request contexts end
	// with the request, so they cannot be used.
	SessionContext context.Context
	DefaultAmount  int64
	DefaultMaxBets int
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Long-lived stream, outside the request timeout.
	if cfg.Events != nil {
		r.Get("/ws/events", cfg.Events.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/metrics", promhttp.Handler().ServeHTTP)
		r.Get("/health", cfg.HealthChecker.Health())
		r.Get("/ready", cfg.HealthChecker.Ready())

		if cfg.Session != nil && cfg.Credentials != nil {
			sessionCtx := cfg.SessionContext
			if sessionCtx == nil {
				sessionCtx = context.Background()
			}
			h := NewSessionHandler(cfg.Session, cfg.Credentials, sessionCtx, cfg.DefaultAmount, cfg.DefaultMaxBets, cfg.Logger)
			r.Get("/api/session", h.HandleSnapshot)
			r.Post("/api/session/start", h.HandleStart)
			r.Post("/api/session/stop", h.HandleStop)
			r.Get("/api/session/history", h.HandleHistory)
		}

		if cfg.Credentials != nil {
			h := NewCredentialsHandler(cfg.Credentials, cfg.Logger)
			r.Get("/api/credentials", h.HandleGet)
			r.Put("/api/credentials", h.HandlePut)
			r.Delete("/api/credentials", h.HandleDelete)
		}

		if cfg.Lookup != nil && cfg.Credentials != nil {
			h := NewLookupHandler(cfg.Lookup, cfg.Credentials, cfg.Logger)
			r.Get("/api/bets/{id}", h.HandleLookup)
		}
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server:        server,
		handler:       r,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
