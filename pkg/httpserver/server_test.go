package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/mselser95/packs-bot/internal/credentials"
	"github.com/mselser95/packs-bot/internal/lookup"
	"github.com/mselser95/packs-bot/internal/session"
	"github.com/mselser95/packs-bot/internal/stats"
	"github.com/mselser95/packs-bot/internal/testutil"
	"github.com/mselser95/packs-bot/pkg/healthprobe"
	"github.com/mselser95/packs-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeController struct {
	mu       sync.Mutex
	startErr error
	started  []session.StartConfig
	ctx      context.Context
	stopped  bool
	history  []types.WagerOutcome
}

func (f *fakeController) Start(ctx context.Context, sc session.StartConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !sc.Credentials.Complete() {
		return types.ErrMissingCredentials
	}
	if f.startErr != nil {
		return f.startErr
	}
	f.ctx = ctx
	f.started = append(f.started, sc)
	f.stopped = false
	return nil
}

func (f *fakeController) Stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.started) == 0 || f.stopped {
		return false
	}
	f.stopped = true
	return true
}

func (f *fakeController) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	status := types.StatusIdle
	if len(f.started) > 0 {
		status = types.StatusRunning
	}
	return session.Snapshot{SessionID: "session-1", Summary: stats.Summary{Status: status, TotalBets: len(f.history)}}
}

func (f *fakeController) History() []types.WagerOutcome {
	return f.history
}

type fakeLooker struct {
	err error
}

func (f *fakeLooker) Lookup(_ context.Context, betID string, accessToken string) (*lookup.Bet, error) {
	if betID == "" {
		return nil, lookup.ErrEmptyBetID
	}
	if accessToken == "" {
		return nil, types.ErrMissingCredentials
	}
	if f.err != nil {
		return nil, f.err
	}
	return &lookup.Bet{ID: betID, IID: "casino:1"}, nil
}

type fixture struct {
	server     *Server
	controller *fakeController
	store      *credentials.Store
	looker     *fakeLooker
	hc         *healthprobe.HealthChecker
	sessionCtx context.Context
}

func newFixture(t *testing.T, creds types.Credentials) *fixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	type ctxKey struct{}
	f := &fixture{
		controller: &fakeController{},
		store:      credentials.NewStore(creds, logger),
		looker:     &fakeLooker{},
		hc:         healthprobe.New(),
		sessionCtx: context.WithValue(context.Background(), ctxKey{}, "session"),
	}
	f.server = New(&Config{
		Port:           "0",
		Logger:         logger,
		HealthChecker:  f.hc,
		Session:        f.controller,
		Credentials:    f.store,
		Lookup:         f.looker,
		SessionContext: f.sessionCtx,
		DefaultAmount:  1000,
		DefaultMaxBets: 50,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t, types.Credentials{})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(t, http.MethodGet, "/ready", "").Code)

	f.hc.SetReady(true)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/ready", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, types.Credentials{})

	rec := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.String())
}

func TestStart_UsesDefaultsAndSessionContext(t *testing.T) {
	f := newFixture(t, testutil.TestCredentials())

	rec := f.do(t, http.MethodPost, "/api/session/start", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Len(t, f.controller.started, 1)
	sc := f.controller.started[0]
	assert.Equal(t, int64(1000), sc.Amount)
	assert.Equal(t, 50, sc.MaxBets)
	assert.Equal(t, testutil.TestCredentials(), sc.Credentials)
	assert.Equal(t, f.sessionCtx, f.controller.ctx)

	snapshot := decode[map[string]any](t, rec)
	assert.Equal(t, "running", snapshot["status"])
}

func TestStart_BodyOverrides(t *testing.T) {
	f := newFixture(t, testutil.TestCredentials())

	rec := f.do(t, http.MethodPost, "/api/session/start", `{"amount":250,"maxBets":3}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, int64(250), f.controller.started[0].Amount)
	assert.Equal(t, 3, f.controller.started[0].MaxBets)
}

func TestStart_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		creds    types.Credentials
		startErr error
		body     string
		want     int
	}{
		{name: "missing-credentials", creds: types.Credentials{AccessToken: "only-one"}, want: http.StatusPreconditionFailed},
		{name: "already-running", creds: testutil.TestCredentials(), startErr: types.ErrSessionRunning, want: http.StatusConflict},
		{name: "draining", creds: testutil.TestCredentials(), startErr: types.ErrSessionDraining, want: http.StatusConflict},
		{name: "invalid-body", creds: testutil.TestCredentials(), body: `{"amount":`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.creds)
			f.controller.startErr = tt.startErr

			rec := f.do(t, http.MethodPost, "/api/session/start", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestStop(t *testing.T) {
	f := newFixture(t, testutil.TestCredentials())

	rec := f.do(t, http.MethodPost, "/api/session/stop", "")
	assert.False(t, decode[StopResponse](t, rec).Stopped)

	f.do(t, http.MethodPost, "/api/session/start", "")
	rec = f.do(t, http.MethodPost, "/api/session/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[StopResponse](t, rec).Stopped)

	rec = f.do(t, http.MethodPost, "/api/session/stop", "")
	assert.False(t, decode[StopResponse](t, rec).Stopped)

	f.do(t, http.MethodPost, "/api/session/start", "")
	rec = f.do(t, http.MethodPost, "/api/session/stop", "")
	assert.True(t, decode[StopResponse](t, rec).Stopped)
}

func TestSnapshotAndHistory(t *testing.T) {
	f := newFixture(t, testutil.TestCredentials())
	f.controller.history = []types.WagerOutcome{testutil.CreateTestOutcome(1, 1000, 2)}

	rec := f.do(t, http.MethodGet, "/api/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[map[string]any](t, rec)
	assert.Equal(t, "idle", snapshot["status"])
	assert.Equal(t, "session-1", snapshot["sessionId"])

	rec = f.do(t, http.MethodGet, "/api/session/history", "")
	history := decode[[]types.WagerOutcome](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, 2.0, history[0].PayoutMultiplier)
}

func TestCredentialsLifecycle(t *testing.T) {
	f := newFixture(t, types.Credentials{})

	status := decode[CredentialsStatus](t, f.do(t, http.MethodGet, "/api/credentials", ""))
	assert.False(t, status.Complete)
	assert.Empty(t, status.AccessToken)

	rec := f.do(t, http.MethodPut, "/api/credentials", `{"accessToken":"abcdefgh12345678wxyz"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	status = decode[CredentialsStatus](t, rec)
	assert.False(t, status.Complete)
	assert.Equal(t, "abcdefgh...wxyz", status.AccessToken)
	assert.NotContains(t, rec.Body.String(), "abcdefgh12345678wxyz")

	rec = f.do(t, http.MethodPut, "/api/credentials", `{"lockdownToken":"lockdown"}`)
	assert.True(t, decode[CredentialsStatus](t, rec).Complete)
	assert.True(t, f.store.Credentials().Complete())

	rec = f.do(t, http.MethodDelete, "/api/credentials", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, f.store.Credentials().Complete())

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/credentials", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/credentials", `nope`).Code)
}

func TestLookupEndpoint(t *testing.T) {
	f := newFixture(t, testutil.TestCredentials())

	rec := f.do(t, http.MethodGet, "/api/bets/bet-42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	bet := decode[lookup.Bet](t, rec)
	assert.Equal(t, "bet-42", bet.ID)

	f.looker.err = types.ErrBetNotFound
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/bets/missing", "").Code)

	f.looker.err = io.ErrUnexpectedEOF
	assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodGet, "/api/bets/broken", "").Code)

	f.store.Clear()
	f.looker.err = nil
	assert.Equal(t, http.StatusPreconditionFailed, f.do(t, http.MethodGet, "/api/bets/bet-42", "").Code)
}

func TestOptionalRoutesNotMounted(t *testing.T) {
	s := New(&Config{Port: "0", Logger: zaptest.NewLogger(t), HealthChecker: healthprobe.New()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
