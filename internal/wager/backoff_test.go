package wager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff_BaseDelay(t *testing.T) {
	b := DefaultBackoff()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		8 * time.Second,
		8 * time.Second,
		8 * time.Second,
	}

	for i, want := range expected {
		assert.Equal(t, want, b.BaseDelay(i+1), "attempt %d", i+1)
	}

	assert.Equal(t, 1*time.Second, b.BaseDelay(0))
	assert.Equal(t, 8*time.Second, b.BaseDelay(64))
}

// Delay for attempt n lies in [1000*2^(n-1), 1000*2^(n-1)+400) ms, capped at [8000, 8400).
func TestBackoff_DelayBounds(t *testing.T) {
	b := DefaultBackoff()

	for attempt := 1; attempt <= 10; attempt++ {
		low := b.BaseDelay(attempt)
		for i := 0; i < 200; i++ {
			d := b.Delay(attempt)
			require.GreaterOrEqual(t, d, low)
			require.Less(t, d, low+400*time.Millisecond)
		}
		if attempt >= 4 {
			assert.Equal(t, 8*time.Second, low)
		}
	}
}

func TestBackoff_DeterministicJitter(t *testing.T) {
	b := DefaultBackoff()
	b.jitterFn = func(n int64) int64 { return n - 1 }

	assert.Equal(t, time.Second+400*time.Millisecond-1, b.Delay(1))

	b.Jitter = 0
	assert.Equal(t, 2*time.Second, b.Delay(2))
}

func TestSleep(t *testing.T) {
	err := Sleep(context.Background(), time.Millisecond)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err = Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
