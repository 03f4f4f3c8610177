package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/mselser95/packs-bot/internal/session"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// SessionController is the part of *session.Controller the API drives.
type SessionController interface {
	Start(ctx context.Context, sc session.StartConfig) error
	Stop() bool
	Snapshot() session.Snapshot
	History() []types.WagerOutcome
}

// SessionHandler serves the session lifecycle endpoints.
type SessionHandler struct {
	controller     SessionController
	credentials    CredentialStore
	sessionCtx     context.Context
	defaultAmount  int64
	defaultMaxBets int
	logger         *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(
	controller SessionController,
	credentials CredentialStore,
	sessionCtx context.Context,
	defaultAmount int64,
	defaultMaxBets int,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		controller:     controller,
		credentials:    credentials,
		sessionCtx:     sessionCtx,
		defaultAmount:  defaultAmount,
		defaultMaxBets: defaultMaxBets,
		logger:         logger,
	}
}

// StartRequest is the optional body of POST /api/session/start.
// Zero values fall back to the configured defaults.
type StartRequest struct {
	Amount  int64 `json:"amount"`
	MaxBets int   `json:"maxBets"`
}

// StopResponse is the body of POST /api/session/stop.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// HandleSnapshot handles GET /api/session.
func (h *SessionHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.controller.Snapshot())
}

// HandleHistory handles GET /api/session/history.
func (h *SessionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.controller.History())
}

// HandleStart handles POST /api/session/start.
func (h *SessionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	sc := session.StartConfig{
		Amount:      req.Amount,
		MaxBets:     req.MaxBets,
		Credentials: h.credentials.Credentials(),
	}
	if sc.Amount == 0 {
		sc.Amount = h.defaultAmount
	}
	if sc.MaxBets == 0 {
		sc.MaxBets = h.defaultMaxBets
	}

	err := h.controller.Start(h.sessionCtx, sc)
	switch {
	case err == nil:
		h.logger.Info("session-start-accepted",
			zap.Int64("amount", sc.Amount),
			zap.Int("max_bets", sc.MaxBets))
		writeJSON(w, h.logger, http.StatusAccepted, h.controller.Snapshot())
	case errors.Is(err, types.ErrMissingCredentials):
		writeError(w, h.logger, err.Error(), http.StatusPreconditionFailed)
	case errors.Is(err, types.ErrSessionRunning), errors.Is(err, types.ErrSessionDraining):
		writeError(w, h.logger, err.Error(), http.StatusConflict)
	default:
		writeError(w, h.logger, err.Error(), http.StatusBadRequest)
	}
}

// HandleStop handles POST /api/session/stop.
func (h *SessionHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, StopResponse{Stopped: h.controller.Stop()})
}
