// Package credentials holds the bearer tokens used for wagering and
// notifies interested parties when they change.
package credentials

import (
	"context"
	"sync"

	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// Source supplies the current credential pair.
type Source interface {
	Credentials() types.Credentials
}

// Store is an in-memory credential source. Values are opaque and are
// never logged in full.
type Store struct {
	mu          sync.RWMutex
	creds       types.Credentials
	subscribers []chan types.Credentials
	logger      *zap.Logger
}

// NewStore creates a store seeded with initial, which may be incomplete.
func NewStore(initial types.Credentials, logger *zap.Logger) *Store {
	return &Store{
		creds:  initial,
		logger: logger,
	}
}

// Credentials returns the current pair.
func (s *Store) Credentials() types.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Set replaces the pair. Empty fields keep their current value so either
// token can be updated on its own.
func (s *Store) Set(update types.Credentials) types.Credentials {
	s.mu.Lock()
	if update.AccessToken != "" {
		s.creds.AccessToken = update.AccessToken
	}
	if update.LockdownToken != "" {
		s.creds.LockdownToken = update.LockdownToken
	}
	current := s.creds
	s.mu.Unlock()

	s.logger.Info("credentials-updated",
		zap.String("access_token", current.MaskedAccessToken()),
		zap.Bool("complete", current.Complete()))
	s.notify(current)

	return current
}

// Clear removes both tokens. Called after the remote rejects them.
func (s *Store) Clear() {
	s.mu.Lock()
	s.creds = types.Credentials{}
	s.mu.Unlock()

	s.logger.Warn("credentials-cleared")
	s.notify(types.Credentials{})
}

// Subscribe returns a channel that receives the pair on every change and a
// function that detaches it. Slow subscribers miss intermediate values,
// never the latest one.
func (s *Store) Subscribe() (<-chan types.Credentials, func()) {
	ch := make(chan types.Credentials, 1)

	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub == ch {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}

	return ch, unsubscribe
}

func (s *Store) notify(creds types.Credentials) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers {
		// Drop a stale pending value so the latest one always lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- creds:
		default:
		}
	}
}

// Await blocks until the store holds a complete pair or ctx is done.
func (s *Store) Await(ctx context.Context) (types.Credentials, error) {
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	if creds := s.Credentials(); creds.Complete() {
		return creds, nil
	}

	for {
		select {
		case <-ctx.Done():
			return types.Credentials{}, ctx.Err()
		case creds := <-updates:
			if creds.Complete() {
				return creds, nil
			}
		}
	}
}
