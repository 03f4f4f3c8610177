package circuitbreaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// Policy values accepted by Config.Policy.
const (
	PolicyContinue = "continue"
	PolicyHalt     = "halt"
)

// FailureBreaker decides whether a session keeps going after wagers that
// failed without a fatal classification. With PolicyContinue it never trips.
// With PolicyHalt it trips after MaxConsecutive skipped wagers in a row;
// any recorded success resets the run.
type FailureBreaker struct {
	policy         string
	maxConsecutive int
	logger         *zap.Logger

	// Protected by mutex
	mu          sync.Mutex
	tripped     bool
	consecutive int
	totalSkips  int
	lastKind    types.Classification
	lastSkip    time.Time
}

// Config holds failure breaker configuration.
type Config struct {
	Policy         string
	MaxConsecutive int
	Logger         *zap.Logger
}

// Status holds current breaker status for debugging and HTTP endpoints.
type Status struct {
	Policy         string    `json:"policy"`
	Tripped        bool      `json:"tripped"`
	Consecutive    int       `json:"consecutiveSkips"`
	MaxConsecutive int       `json:"maxConsecutive"`
	TotalSkips     int       `json:"totalSkips"`
	LastKind       string    `json:"lastKind,omitempty"`
	LastSkip       time.Time `json:"lastSkip"`
}

// New creates a new failure breaker with the given configuration.
func New(cfg *Config) (breaker *FailureBreaker, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	switch cfg.Policy {
	case PolicyContinue:
	case PolicyHalt:
		if cfg.MaxConsecutive < 1 {
			return nil, fmt.Errorf("max consecutive must be at least 1 for halt policy")
		}
	default:
		return nil, fmt.Errorf("unknown failure policy %q", cfg.Policy)
	}

	breaker = &FailureBreaker{
		policy:         cfg.Policy,
		maxConsecutive: cfg.MaxConsecutive,
		logger:         cfg.Logger,
	}

	BreakerConsecutiveSkips.Set(0)
	BreakerTripped.Set(0)

	return breaker, nil
}

// RecordSkip records a wager that failed and was skipped.
// It returns true when the session should halt.
func (b *FailureBreaker) RecordSkip(kind types.Classification) (halt bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutive++
	b.totalSkips++
	b.lastKind = kind
	b.lastSkip = time.Now()

	BreakerSkipsTotal.WithLabelValues(kind.String()).Inc()
	BreakerConsecutiveSkips.Set(float64(b.consecutive))

	if b.policy != PolicyHalt || b.consecutive < b.maxConsecutive {
		b.logger.Debug("wager-skip-recorded",
			zap.String("kind", kind.String()),
			zap.Int("consecutive", b.consecutive))
		return false
	}

	if !b.tripped {
		b.tripped = true
		BreakerTripped.Set(1)
		BreakerTripsTotal.Inc()

		b.logger.Warn("failure-breaker-tripped",
			zap.String("kind", kind.String()),
			zap.Int("consecutive", b.consecutive),
			zap.Int("max_consecutive", b.maxConsecutive))
	}

	return true
}

// RecordSuccess resets the consecutive-skip run.
func (b *FailureBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutive = 0
	BreakerConsecutiveSkips.Set(0)
}

// Reset clears all state. Called when a new session starts.
func (b *FailureBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutive = 0
	b.totalSkips = 0
	b.lastKind = types.Success
	b.lastSkip = time.Time{}
	b.tripped = false

	BreakerConsecutiveSkips.Set(0)
	BreakerTripped.Set(0)
}

// GetStatus returns current breaker status.
func (b *FailureBreaker) GetStatus() (status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status = Status{
		Policy:         b.policy,
		Tripped:        b.tripped,
		Consecutive:    b.consecutive,
		MaxConsecutive: b.maxConsecutive,
		TotalSkips:     b.totalSkips,
		LastSkip:       b.lastSkip,
	}
	if b.totalSkips > 0 {
		status.LastKind = b.lastKind.String()
	}

	return status
}
