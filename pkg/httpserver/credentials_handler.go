package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// CredentialStore is the part of *credentials.Store the API manages.
type CredentialStore interface {
	Credentials() types.Credentials
	Set(update types.Credentials) types.Credentials
	Clear()
}

// CredentialsHandler serves manual credential entry.
type CredentialsHandler struct {
	store  CredentialStore
	logger *zap.Logger
}

// NewCredentialsHandler creates a new credentials handler.
func NewCredentialsHandler(store CredentialStore, logger *zap.Logger) *CredentialsHandler {
	return &CredentialsHandler{
		store:  store,
		logger: logger,
	}
}

// CredentialsRequest is the body of PUT /api/credentials. Empty fields are left unchanged.
type CredentialsRequest struct {
	AccessToken   string `json:"accessToken"`
	LockdownToken string `json:"lockdownToken"`
}

// CredentialsStatus never carries the raw tokens.
type CredentialsStatus struct {
	Complete         bool   `json:"complete"`
	AccessToken      string `json:"accessToken,omitempty"` // masked
	LockdownTokenSet bool   `json:"lockdownTokenSet"`
}

func statusOf(creds types.Credentials) CredentialsStatus {
	status := CredentialsStatus{
		Complete:         creds.Complete(),
		LockdownTokenSet: creds.LockdownToken != "",
	}
	if creds.AccessToken != "" {
		status.AccessToken = creds.MaskedAccessToken()
	}
	return status
}

// HandleGet handles GET /api/credentials.
func (h *CredentialsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, statusOf(h.store.Credentials()))
}

// HandlePut handles PUT /api/credentials.
func (h *CredentialsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AccessToken == "" && req.LockdownToken == "" {
		writeError(w, h.logger, "accessToken or lockdownToken is required", http.StatusBadRequest)
		return
	}

	current := h.store.Set(types.Credentials{
		AccessToken:   req.AccessToken,
		LockdownToken: req.LockdownToken,
	})
	writeJSON(w, h.logger, http.StatusOK, statusOf(current))
}

// HandleDelete handles DELETE /api/credentials.
func (h *CredentialsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}
