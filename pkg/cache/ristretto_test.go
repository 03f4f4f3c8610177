package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T) *RistrettoCache {
	t.Helper()

	c, err := NewRistrettoCache(&RistrettoConfig{
		Name:    "test",
		MaxCost: 100,
		Logger:  zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewRistrettoCache_Validation(t *testing.T) {
	_, err := NewRistrettoCache(nil)
	assert.ErrorContains(t, err, "config cannot be nil")

	_, err = NewRistrettoCache(&RistrettoConfig{MaxCost: 10})
	assert.ErrorContains(t, err, "logger cannot be nil")

	_, err = NewRistrettoCache(&RistrettoConfig{Logger: zaptest.NewLogger(t)})
	assert.ErrorContains(t, err, "max cost must be positive")
}

func TestRistrettoCache(t *testing.T) {
	cache := newTestCache(t)

	t.Run("set-and-get", func(t *testing.T) {
		require.True(t, cache.Set("test-key", "test-value", time.Hour))
		cache.Wait()

		retrieved, found := cache.Get("test-key")
		require.True(t, found)
		assert.Equal(t, "test-value", retrieved)
	})

	t.Run("get-missing-key", func(t *testing.T) {
		_, found := cache.Get("nonexistent")
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		cache.Set("delete-test", "delete-value", time.Hour)
		cache.Wait()

		_, found := cache.Get("delete-test")
		require.True(t, found)

		cache.Delete("delete-test")
		_, found = cache.Get("delete-test")
		assert.False(t, found)
	})

	t.Run("ttl-expiration", func(t *testing.T) {
		cache.Set("ttl-test", "ttl-value", 50*time.Millisecond)
		cache.Wait()

		assert.Eventually(t, func() bool {
			_, found := cache.Get("ttl-test")
			return !found
		}, 3*time.Second, 20*time.Millisecond)
	})

	t.Run("clear", func(t *testing.T) {
		cache.Set("clear-1", 1, time.Hour)
		cache.Set("clear-2", 2, time.Hour)
		cache.Wait()

		cache.Clear()
		_, found1 := cache.Get("clear-1")
		_, found2 := cache.Get("clear-2")
		assert.False(t, found1)
		assert.False(t, found2)
	})
}
