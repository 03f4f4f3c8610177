package wager

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff computes capped exponential delays with additive jitter.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter time.Duration // jitter is drawn uniformly from [0, Jitter)

	// jitterFn returns a value in [0, n). Tests replace it.
	jitterFn func(n int64) int64
}

// DefaultBackoff returns the 1s base, 8s cap, 400ms jitter policy.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:   1 * time.Second,
		Max:    8 * time.Second,
		Jitter: 400 * time.Millisecond,
	}
}

// BaseDelay returns min(Base * 2^(attempt-1), Max) for a 1-indexed attempt.
func (b Backoff) BaseDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := b.Base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= b.Max {
			return b.Max
		}
	}

	if delay > b.Max {
		return b.Max
	}
	return delay
}

// Delay returns BaseDelay(attempt) plus jitter.
func (b Backoff) Delay(attempt int) time.Duration {
	delay := b.BaseDelay(attempt)
	if b.Jitter <= 0 {
		return delay
	}

	jitter := b.jitterFn
	if jitter == nil {
		jitter = rand.Int64N
	}
	return delay + time.Duration(jitter(int64(b.Jitter)))
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
