package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/mselser95/packs-bot/internal/testutil"
	"github.com/mselser95/packs-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStore_SetPartial(t *testing.T) {
	store := NewStore(types.Credentials{}, zaptest.NewLogger(t))
	assert.False(t, store.Credentials().Complete())

	store.Set(types.Credentials{AccessToken: "access"})
	assert.False(t, store.Credentials().Complete())

	current := store.Set(types.Credentials{LockdownToken: "lockdown"})
	assert.True(t, current.Complete())
	assert.Equal(t, "access", current.AccessToken)
	assert.Equal(t, "lockdown", current.LockdownToken)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(testutil.TestCredentials(), zaptest.NewLogger(t))
	require.True(t, store.Credentials().Complete())

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	store.Clear()

	assert.Equal(t, types.Credentials{}, store.Credentials())
	select {
	case creds := <-updates:
		assert.False(t, creds.Complete())
	case <-time.After(time.Second):
		t.Fatal("no notification after clear")
	}
}

func TestStore_SubscriberSeesLatest(t *testing.T) {
	store := NewStore(types.Credentials{}, zaptest.NewLogger(t))
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	store.Set(types.Credentials{AccessToken: "first"})
	store.Set(types.Credentials{AccessToken: "second"})

	creds := <-updates
	assert.Equal(t, "second", creds.AccessToken)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore(types.Credentials{}, zaptest.NewLogger(t))
	_, unsubscribe := store.Subscribe()
	unsubscribe()

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.Empty(t, store.subscribers)
}

func TestStore_AwaitImmediate(t *testing.T) {
	store := NewStore(testutil.TestCredentials(), zaptest.NewLogger(t))

	creds, err := store.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.TestCredentials(), creds)
}

func TestStore_AwaitUntilComplete(t *testing.T) {
	store := NewStore(types.Credentials{}, zaptest.NewLogger(t))

	done := make(chan types.Credentials, 1)
	go func() {
		creds, err := store.Await(context.Background())
		if err == nil {
			done <- creds
		}
	}()

	assert.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		return len(store.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	store.Set(types.Credentials{AccessToken: "access"})
	store.Set(types.Credentials{LockdownToken: "lockdown"})

	select {
	case creds := <-done:
		assert.True(t, creds.Complete())
	case <-time.After(2 * time.Second):
		t.Fatal("await did not return")
	}

	assert.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		return len(store.subscribers) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestStore_AwaitCancelled(t *testing.T) {
	store := NewStore(types.Credentials{}, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := store.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
