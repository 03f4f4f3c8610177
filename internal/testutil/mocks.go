package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mselser95/packs-bot/pkg/types"
)

// Reply is one scripted response of a mock endpoint.
type Reply struct {
	Status int
	Body   string
	Delay  time.Duration // response is held until Delay elapses or the request is cancelled
}

// RecordedRequest captures what the mock server received.
type RecordedRequest struct {
	Header http.Header
	Body   []byte
}

// MockPacksAPI is a mock HTTP server that simulates the packs bet endpoint.
// It replays Script in order and repeats Fallback once the script is exhausted.
type MockPacksAPI struct {
	*httptest.Server
	Script   []Reply
	Fallback Reply

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewMockPacksAPI creates a new mock packs bet server.
func NewMockPacksAPI(script []Reply, fallback Reply) *MockPacksAPI {
	mock := &MockPacksAPI{
		Script:   script,
		Fallback: fallback,
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		index := len(mock.requests)
		mock.requests = append(mock.requests, RecordedRequest{
			Header: r.Header.Clone(),
			Body:   body,
		})
		reply := mock.Fallback
		if index < len(mock.Script) {
			reply = mock.Script[index]
		}
		mock.mu.Unlock()

		if reply.Delay > 0 {
			select {
			case <-time.After(reply.Delay):
			case <-r.Context().Done():
				return
			}
		}

		status := reply.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply.Body))
	})

	mock.Server = httptest.NewServer(handler)
	return mock
}

// RequestCount returns the number of requests received so far.
func (m *MockPacksAPI) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of all received requests.
func (m *MockPacksAPI) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]RecordedRequest, len(m.requests))
	copy(result, m.requests)
	return result
}

// WagerRequests decodes all received bodies as wager requests.
func (m *MockPacksAPI) WagerRequests() []types.WagerRequest {
	reqs := m.Requests()
	result := make([]types.WagerRequest, 0, len(reqs))
	for _, r := range reqs {
		var wr types.WagerRequest
		if err := json.Unmarshal(r.Body, &wr); err == nil {
			result = append(result, wr)
		}
	}
	return result
}

// MockGraphQLAPI serves a fixed body for every GraphQL request and records them.
type MockGraphQLAPI struct {
	*httptest.Server
	Status int
	Body   string

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewMockGraphQLAPI creates a new mock GraphQL server.
func NewMockGraphQLAPI(status int, body string) *MockGraphQLAPI {
	mock := &MockGraphQLAPI{
		Status: status,
		Body:   body,
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{Header: r.Header.Clone(), Body: body})
		status, reply := mock.Status, mock.Body
		mock.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	return mock
}

// RequestCount returns the number of requests received so far.
func (m *MockGraphQLAPI) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of all received requests.
func (m *MockGraphQLAPI) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]RecordedRequest, len(m.requests))
	copy(result, m.requests)
	return result
}

// RecordingSleeper records requested backoff delays without sleeping.
type RecordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

// Sleep records d and returns immediately unless ctx is already done.
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Delays returns a copy of the recorded delays.
func (s *RecordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]time.Duration, len(s.delays))
	copy(result, s.delays)
	return result
}
