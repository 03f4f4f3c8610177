// Package session drives a betting session: it issues wagers one at a time
// through a wager.Executor, folds successes into running statistics and
// enforces the stop conditions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/packs-bot/internal/circuitbreaker"
	"github.com/mselser95/packs-bot/internal/stats"
	"github.com/mselser95/packs-bot/internal/wager"
	"github.com/mselser95/packs-bot/pkg/types"
	"go.uber.org/zap"
)

// Config holds controller configuration.
type Config struct {
	Executor wager.Executor
	Currency string

	ShowBigWinNotification bool
	BigWinThreshold        float64
	AutoStopEnabled        bool
	AutoStopMultiplier     float64
	TopMultipliersCount    int // 0 disables the ranking

	Breaker       *circuitbreaker.FailureBreaker // optional, nil skips failures forever
	Sinks         []EventSink
	NewIdentifier func() (string, error) // optional, defaults to wager.NewIdentifier
	Now           func() time.Time       // optional, defaults to time.Now
	Logger        *zap.Logger
}

// StartConfig holds per-session parameters.
type StartConfig struct {
	Amount      int64
	MaxBets     int
	Credentials types.Credentials
}

// Snapshot is a point-in-time view of the session for presentation.
type Snapshot struct {
	SessionID string `json:"sessionId,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	MaxBets   int    `json:"maxBets,omitempty"`
	stats.Summary

	// Failures reports skipped wagers and the breaker state. Nil without a breaker.
	Failures *circuitbreaker.Status `json:"failures,omitempty"`
}

// Controller owns the session lifecycle: Idle, then Running, then Stopped.
// A new Start from Stopped re-enters Running with a fresh state.
type Controller struct {
	executor      wager.Executor
	currency      string
	bigWinOn      bool
	bigWin        float64
	autoStopOn    bool
	autoStop      float64
	aggregator    *stats.Aggregator
	breaker       *circuitbreaker.FailureBreaker
	sinks         []EventSink
	newIdentifier func() (string, error)
	now           func() time.Time
	logger        *zap.Logger

	// running is read by the loop at the top of every iteration and before
	// committing a result. Stop flips it under mu.
	running atomic.Bool

	mu        sync.RWMutex
	state     *stats.SessionState
	sessionID string
	start     StartConfig
	done      chan struct{}
}

// New creates a controller in the Idle state.
func New(cfg *Config) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.Currency == "" {
		return nil, fmt.Errorf("currency cannot be empty")
	}
	if cfg.TopMultipliersCount < 0 {
		return nil, fmt.Errorf("top multipliers count cannot be negative")
	}

	newIdentifier := cfg.NewIdentifier
	if newIdentifier == nil {
		newIdentifier = wager.NewIdentifier
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	aggregator := stats.NewAggregator(cfg.TopMultipliersCount)

	done := make(chan struct{})
	close(done)

	SessionStatus.Set(float64(types.StatusIdle))

	return &Controller{
		executor:      cfg.Executor,
		currency:      cfg.Currency,
		bigWinOn:      cfg.ShowBigWinNotification,
		bigWin:        cfg.BigWinThreshold,
		autoStopOn:    cfg.AutoStopEnabled,
		autoStop:      cfg.AutoStopMultiplier,
		aggregator:    aggregator,
		breaker:       cfg.Breaker,
		sinks:         cfg.Sinks,
		newIdentifier: newIdentifier,
		now:           now,
		logger:        cfg.Logger,
		state:         aggregator.NewState(time.Time{}),
		done:          done,
	}, nil
}

// Start validates sc, resets the session state and launches the betting
// loop. ctx bounds the whole session; cancelling it stops the loop at the
// next suspension point.
func (c *Controller) Start(ctx context.Context, sc StartConfig) error {
	if !sc.Credentials.Complete() {
		return types.ErrMissingCredentials
	}
	if sc.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", sc.Amount)
	}
	if sc.MaxBets < 1 {
		return fmt.Errorf("max bets must be at least 1, got %d", sc.MaxBets)
	}

	c.mu.Lock()
	if c.running.Load() {
		c.mu.Unlock()
		return types.ErrSessionRunning
	}
	select {
	case <-c.done:
	default:
		c.mu.Unlock()
		return types.ErrSessionDraining
	}

	sessionID := uuid.New().String()
	done := make(chan struct{})

	c.state = c.aggregator.NewState(c.now())
	c.state.Status = types.StatusRunning
	c.sessionID = sessionID
	c.start = sc
	c.done = done
	c.running.Store(true)
	c.mu.Unlock()

	if c.breaker != nil {
		c.breaker.Reset()
	}

	SessionsStartedTotal.Inc()
	SessionStatus.Set(float64(types.StatusRunning))

	c.logger.Info("session-started",
		zap.String("session_id", sessionID),
		zap.Int64("amount", sc.Amount),
		zap.Int("max_bets", sc.MaxBets),
		zap.String("access_token", sc.Credentials.MaskedAccessToken()))

	c.publish(Event{Type: EventStarted, SessionID: sessionID})

	go c.loop(ctx, sessionID, sc, done)

	return nil
}

// Stop halts a running session. The in-flight wager, if any, runs to
// completion and its result is discarded. It returns false when no session
// was running.
func (c *Controller) Stop() bool {
	sessionID, ok := c.finish(types.StatusStopped)
	if !ok {
		return false
	}

	c.logger.Info("session-stop-requested", zap.String("session_id", sessionID))
	c.publish(Event{Type: EventStopped, SessionID: sessionID, Message: "stopped by user"})

	return true
}

// Status returns the current lifecycle state.
func (c *Controller) Status() types.SessionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Status
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := Snapshot{
		SessionID: c.sessionID,
		Amount:    c.start.Amount,
		MaxBets:   c.start.MaxBets,
		Summary:   c.state.Summarize(c.now()),
	}
	if c.breaker != nil {
		status := c.breaker.GetStatus()
		snapshot.Failures = &status
	}
	return snapshot
}

// History returns a copy of the recorded outcomes in index order.
func (c *Controller) History() []types.WagerOutcome {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := make([]types.WagerOutcome, len(c.state.History))
	copy(history, c.state.History)
	return history
}

// State returns a deep copy of the session state.
func (c *Controller) State() *stats.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Done returns a channel closed when the current loop has exited, including
// its last in-flight wager.
func (c *Controller) Done() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done
}

// Wait blocks until the current loop has exited or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) loop(ctx context.Context, sessionID string, sc StartConfig, done chan struct{}) {
	defer close(done)

	logger := c.logger.With(zap.String("session_id", sessionID))

	for i := 1; i <= sc.MaxBets; i++ {
		if !c.running.Load() {
			return
		}
		if ctx.Err() != nil {
			c.end(logger, sessionID, EventStopped, "session context cancelled", nil)
			return
		}

		identifier, err := c.newIdentifier()
		if err != nil {
			if c.skip(logger, sessionID, i, &types.WagerError{Kind: types.FatalOther, Err: fmt.Errorf("generate identifier: %w", err)}) {
				return
			}
			continue
		}

		req := types.WagerRequest{
			Currency:   c.currency,
			Amount:     sc.Amount,
			Identifier: identifier,
		}

		resp, err := c.executor.Execute(ctx, req, sc.Credentials)

		if !c.running.Load() {
			DiscardedResultsTotal.Inc()
			logger.Info("wager-result-discarded", zap.Int("iteration", i))
			return
		}

		if err != nil {
			var werr *types.WagerError
			if !errors.As(err, &werr) {
				werr = &types.WagerError{Kind: types.FatalOther, Err: err}
			}

			switch werr.Kind {
			case types.FatalInsufficientBalance:
				c.end(logger, sessionID, EventInsufficientBalance, werr.Error(), nil)
				return
			case types.FatalInvalidCredentials:
				c.end(logger, sessionID, EventInvalidCredentials, werr.Error(), nil)
				return
			}

			if ctx.Err() != nil {
				c.end(logger, sessionID, EventStopped, "session context cancelled", nil)
				return
			}
			if c.skip(logger, sessionID, i, werr) {
				return
			}
			continue
		}

		if resp == nil || resp.PacksBet == nil {
			if c.skip(logger, sessionID, i, &types.WagerError{Kind: types.FatalOther, Message: "response has no packsBet payload"}) {
				return
			}
			continue
		}

		outcome, ok := c.commit(resp.PacksBet)
		if !ok {
			DiscardedResultsTotal.Inc()
			logger.Info("wager-result-discarded", zap.Int("iteration", i))
			return
		}

		if c.breaker != nil {
			c.breaker.RecordSuccess()
		}
		WageredTotal.Add(outcome.Amount)
		PayoutTotal.Add(outcome.Payout)

		logger.Debug("wager-recorded",
			zap.Int("index", outcome.Index),
			zap.String("bet_id", outcome.ID),
			zap.Float64("multiplier", outcome.PayoutMultiplier),
			zap.Float64("payout", outcome.Payout))

		c.publish(Event{Type: EventBetRecorded, SessionID: sessionID, Outcome: &outcome})

		if c.bigWinOn && outcome.PayoutMultiplier >= c.bigWin {
			logger.Info("big-win",
				zap.Int("index", outcome.Index),
				zap.Float64("multiplier", outcome.PayoutMultiplier))
			c.publish(Event{
				Type:      EventBigWin,
				SessionID: sessionID,
				Message:   fmt.Sprintf("big win: %gx", outcome.PayoutMultiplier),
				Outcome:   &outcome,
			})
		}

		if c.autoStopOn && outcome.PayoutMultiplier >= c.autoStop {
			c.end(logger, sessionID, EventAutoStopped,
				fmt.Sprintf("auto-stopped at %gx (threshold %gx)", outcome.PayoutMultiplier, c.autoStop), &outcome)
			return
		}
	}

	c.end(logger, sessionID, EventCompleted, fmt.Sprintf("completed %d bets", sc.MaxBets), nil)
}

// commit records bet into the state unless the session was stopped
// while it was in flight.
func (c *Controller) commit(bet *types.PacksBet) (types.WagerOutcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return types.WagerOutcome{}, false
	}

	outcome := c.aggregator.Record(c.state, types.WagerOutcome{
		ID:               bet.ID,
		Amount:           bet.Amount,
		Payout:           bet.Payout,
		PayoutMultiplier: bet.PayoutMultiplier,
		Currency:         bet.Currency,
		Timestamp:        c.now(),
	})

	return outcome, true
}

// skip records a non-halting terminal failure. It returns true when the
// failure breaker ended the session.
func (c *Controller) skip(logger *zap.Logger, sessionID string, iteration int, werr *types.WagerError) bool {
	SkippedWagersTotal.WithLabelValues(werr.Kind.String()).Inc()

	logger.Warn("wager-skipped",
		zap.Int("iteration", iteration),
		zap.String("kind", werr.Kind.String()),
		zap.Int("attempts", werr.Attempts),
		zap.Error(werr))

	if c.breaker == nil || !c.breaker.RecordSkip(werr.Kind) {
		return false
	}

	status := c.breaker.GetStatus()
	c.end(logger, sessionID, EventFailureLimit,
		fmt.Sprintf("%d consecutive wagers failed, last: %s", status.Consecutive, werr.Error()), nil)

	return true
}

// end stops the session from inside the loop and publishes the terminal event.
// It is a no-op when Stop already won the race.
func (c *Controller) end(logger *zap.Logger, sessionID string, eventType EventType, message string, outcome *types.WagerOutcome) {
	if _, ok := c.finish(types.StatusStopped); !ok {
		return
	}

	fields := []zap.Field{zap.String("event", string(eventType)), zap.String("message", message)}
	switch eventType {
	case EventCompleted, EventAutoStopped:
		logger.Info("session-ended", fields...)
	default:
		logger.Warn("session-ended", fields...)
	}

	c.publish(Event{Type: eventType, SessionID: sessionID, Message: message, Outcome: outcome})
}

// finish transitions Running to status. ok is false when the session was
// not running.
func (c *Controller) finish(status types.SessionStatus) (sessionID string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.CompareAndSwap(true, false) {
		return "", false
	}
	c.state.Status = status
	SessionStatus.Set(float64(status))

	return c.sessionID, true
}

func (c *Controller) publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	EventsTotal.WithLabelValues(string(event.Type)).Inc()

	for _, sink := range c.sinks {
		sink.Publish(event)
	}
}
