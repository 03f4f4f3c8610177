package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mselser95/packs-bot/internal/lookup"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// LookupHandler serves single bet lookups.
type LookupHandler struct {
	looker      lookup.Looker
	credentials CredentialStore
	logger      *zap.Logger
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(looker lookup.Looker, credentials CredentialStore, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		looker:      looker,
		credentials: credentials,
		logger:      logger,
	}
}

// HandleLookup handles GET /api/bets/{id}.
func (h *LookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")

	h.logger.Debug("bet-lookup-request-received", zap.String("bet_id", betID))

	bet, err := h.looker.Lookup(r.Context(), betID, h.credentials.Credentials().AccessToken)
	switch {
	case err == nil:
		writeJSON(w, h.logger, http.StatusOK, bet)
	case errors.Is(err, lookup.ErrEmptyBetID):
		writeError(w, h.logger, err.Error(), http.StatusBadRequest)
	case errors.Is(err, types.ErrMissingCredentials):
		writeError(w, h.logger, "access token not available", http.StatusPreconditionFailed)
	case errors.Is(err, types.ErrBetNotFound):
		writeError(w, h.logger, err.Error(), http.StatusNotFound)
	default:
		h.logger.Warn("bet-lookup-failed", zap.String("bet_id", betID), zap.Error(err))
		writeError(w, h.logger, err.Error(), http.StatusBadGateway)
	}
}
