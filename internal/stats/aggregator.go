package stats

import (
	"fmt"
	"time"

	"github.com/mselser95/packs-bot/pkg/types"
	"github.com/shopspring/decimal"
)

// SessionState is the running state of one betting session.
// It is written by the session controller and the aggregator only.
type SessionState struct {
	Status         types.SessionStatus
	TotalWagered   decimal.Decimal
	TotalPayout    decimal.Decimal
	CurrentStreak  int // positive for a run of wins, negative for a run of losses
	BestWinStreak  int
	BestLossStreak int
	Wins           int
	History        []types.WagerOutcome
	StartedAt      time.Time

	top *TopN
}

// Aggregator folds completed wagers into a SessionState.
type Aggregator struct {
	topN int
}

// NewAggregator creates an aggregator ranking the topN highest multipliers.
// A topN of zero disables the ranking.
func NewAggregator(topN int) *Aggregator {
	return &Aggregator{topN: topN}
}

// NewState returns a freshly reset state.
func (a *Aggregator) NewState(startedAt time.Time) *SessionState {
	return &SessionState{
		Status:       types.StatusIdle,
		TotalWagered: decimal.Zero,
		TotalPayout:  decimal.Zero,
		History:      make([]types.WagerOutcome, 0),
		StartedAt:    startedAt,
		top:          NewTopN(a.topN),
	}
}

// Record appends the outcome with the next index and updates totals, streaks
// and the ranking. It returns the outcome as stored.
func (a *Aggregator) Record(state *SessionState, outcome types.WagerOutcome) types.WagerOutcome {
	outcome.Index = len(state.History) + 1
	state.History = append(state.History, outcome)

	state.TotalWagered = state.TotalWagered.Add(decimal.NewFromFloat(outcome.Amount))
	state.TotalPayout = state.TotalPayout.Add(decimal.NewFromFloat(outcome.Payout))

	if outcome.IsWin() {
		state.Wins++
		if state.CurrentStreak >= 0 {
			state.CurrentStreak++
		} else {
			state.CurrentStreak = 1
		}
		if state.CurrentStreak > state.BestWinStreak {
			state.BestWinStreak = state.CurrentStreak
		}
	} else {
		if state.CurrentStreak <= 0 {
			state.CurrentStreak--
		} else {
			state.CurrentStreak = -1
		}
		if -state.CurrentStreak > state.BestLossStreak {
			state.BestLossStreak = -state.CurrentStreak
		}
	}

	if state.top == nil {
		state.top = NewTopN(a.topN)
	}
	state.top.Insert(outcome)

	RecordedOutcomesTotal.Inc()
	CurrentStreak.Set(float64(state.CurrentStreak))

	return outcome
}

// WinRate returns the share of wins as a percentage, 0 with no history.
func (s *SessionState) WinRate() float64 {
	if len(s.History) == 0 {
		return 0
	}
	return float64(s.Wins) / float64(len(s.History)) * 100
}

// RTP returns total payout over total wagered as a percentage.
// ok is false while nothing has been wagered.
func (s *SessionState) RTP() (rtp float64, ok bool) {
	if !s.TotalWagered.IsPositive() {
		return 0, false
	}
	rtp, _ = s.TotalPayout.Div(s.TotalWagered).Mul(decimal.NewFromInt(100)).Float64()
	return rtp, true
}

// NetProfit returns payout minus wagered.
func (s *SessionState) NetProfit() decimal.Decimal {
	return s.TotalPayout.Sub(s.TotalWagered)
}

// TopMultipliers returns the ranked highest-multiplier outcomes.
func (s *SessionState) TopMultipliers() []types.WagerOutcome {
	if s.top == nil {
		return nil
	}
	return s.top.Entries()
}

// Elapsed returns the session age at now.
func (s *SessionState) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}

// BetsPerMinute returns the recorded-outcome rate at now.
func (s *SessionState) BetsPerMinute(now time.Time) float64 {
	minutes := s.Elapsed(now).Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(len(s.History)) / minutes
}

// StreakLabel renders the current streak as "W3", "L2" or "0".
func (s *SessionState) StreakLabel() string {
	switch {
	case s.CurrentStreak > 0:
		return fmt.Sprintf("W%d", s.CurrentStreak)
	case s.CurrentStreak < 0:
		return fmt.Sprintf("L%d", -s.CurrentStreak)
	default:
		return "0"
	}
}

// Clone returns a deep copy safe to hand to readers.
func (s *SessionState) Clone() *SessionState {
	clone := *s
	clone.History = make([]types.WagerOutcome, len(s.History))
	copy(clone.History, s.History)
	if s.top != nil {
		clone.top = &TopN{limit: s.top.limit, entries: s.top.Entries()}
	}
	return &clone
}
