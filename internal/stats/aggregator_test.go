package stats

import (
	"testing"
	"time"

	"github.com/mselser95/packs-bot/internal/testutil"
	"github.com/mselser95/packs-bot/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordAll(a *Aggregator, state *SessionState, amount float64, multipliers ...float64) {
	for _, m := range multipliers {
		a.Record(state, testutil.CreateTestOutcome(0, amount, m))
	}
}

func TestRecord_Accumulation(t *testing.T) {
	a := NewAggregator(10)
	state := a.NewState(time.Now())

	recordAll(a, state, 100, 0.5, 2.0, 3.0, 0.0, 5.0)

	assert.Equal(t, 5, len(state.History))
	assert.True(t, state.TotalWagered.Equal(decimal.NewFromInt(500)), "wagered %s", state.TotalWagered)
	assert.True(t, state.TotalPayout.Equal(decimal.NewFromInt(50+200+300+0+500)), "payout %s", state.TotalPayout)
	assert.InDelta(t, 60.0, state.WinRate(), 1e-9)

	// loss, win, win, loss, win
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 2, state.BestWinStreak)
	assert.Equal(t, 1, state.BestLossStreak)

	rtp, ok := state.RTP()
	require.True(t, ok)
	assert.InDelta(t, 210.0, rtp, 1e-9)
	assert.True(t, state.NetProfit().Equal(decimal.NewFromInt(550)))
}

func TestRecord_AssignsSequentialIndex(t *testing.T) {
	a := NewAggregator(3)
	state := a.NewState(time.Now())

	first := a.Record(state, testutil.CreateTestOutcome(99, 100, 1))
	second := a.Record(state, testutil.CreateTestOutcome(42, 100, 1))

	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, 1, state.History[0].Index)
	assert.Equal(t, 2, state.History[1].Index)
}

func TestRecord_StreakTransitions(t *testing.T) {
	tests := []struct {
		name        string
		multipliers []float64
		current     int
		bestWin     int
		bestLoss    int
	}{
		{name: "empty", multipliers: nil, current: 0},
		{name: "single-win", multipliers: []float64{2}, current: 1, bestWin: 1},
		{name: "single-loss", multipliers: []float64{0.2}, current: -1, bestLoss: 1},
		{name: "exactly-one-is-loss", multipliers: []float64{1, 1}, current: -2, bestLoss: 2},
		{name: "win-run-then-loss", multipliers: []float64{2, 2, 2, 0}, current: -1, bestWin: 3, bestLoss: 1},
		{name: "loss-run-then-win", multipliers: []float64{0, 0, 0, 0, 5}, current: 1, bestWin: 1, bestLoss: 4},
		{name: "alternating", multipliers: []float64{2, 0, 2, 0}, current: -1, bestWin: 1, bestLoss: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAggregator(5)
			state := a.NewState(time.Now())
			recordAll(a, state, 10, tt.multipliers...)

			assert.Equal(t, tt.current, state.CurrentStreak)
			assert.Equal(t, tt.bestWin, state.BestWinStreak)
			assert.Equal(t, tt.bestLoss, state.BestLossStreak)
		})
	}
}

// Best streaks never decrease as outcomes accumulate.
func TestRecord_BestStreaksMonotonic(t *testing.T) {
	a := NewAggregator(5)
	state := a.NewState(time.Now())

	multipliers := []float64{2, 2, 0, 0, 0, 3, 0.5, 4, 4, 4, 4, 0, 1.01, 0.99}
	prevWin, prevLoss := 0, 0
	for _, m := range multipliers {
		a.Record(state, testutil.CreateTestOutcome(0, 10, m))
		assert.GreaterOrEqual(t, state.BestWinStreak, prevWin)
		assert.GreaterOrEqual(t, state.BestLossStreak, prevLoss)
		prevWin, prevLoss = state.BestWinStreak, state.BestLossStreak
	}
	assert.Equal(t, 4, state.BestWinStreak)
	assert.Equal(t, 3, state.BestLossStreak)
}

func TestDerivedViews_EmptyState(t *testing.T) {
	a := NewAggregator(10)
	state := a.NewState(time.Time{})

	_, ok := state.RTP()
	assert.False(t, ok)
	assert.Equal(t, 0.0, state.WinRate())
	assert.Empty(t, state.TopMultipliers())
	assert.Equal(t, time.Duration(0), state.Elapsed(time.Now()))
	assert.Equal(t, 0.0, state.BetsPerMinute(time.Now()))
	assert.Equal(t, "0", state.StreakLabel())

	summary := state.Summarize(time.Now())
	assert.Nil(t, summary.RTP)
	assert.Equal(t, types.StatusIdle, summary.Status)
}

func TestTopMultipliers(t *testing.T) {
	a := NewAggregator(3)
	state := a.NewState(time.Now())

	recordAll(a, state, 100, 1, 5, 0, 12, 3)

	top := state.TopMultipliers()
	require.Len(t, top, 3)
	assert.Equal(t, 12.0, top[0].PayoutMultiplier)
	assert.Equal(t, 4, top[0].Index)
	assert.Equal(t, 5.0, top[1].PayoutMultiplier)
	assert.Equal(t, 2, top[1].Index)
	assert.Equal(t, 3.0, top[2].PayoutMultiplier)
	assert.Equal(t, 5, top[2].Index)
}

func TestTopMultipliers_Disabled(t *testing.T) {
	a := NewAggregator(0)
	state := a.NewState(time.Now())
	recordAll(a, state, 100, 1, 5)

	assert.Empty(t, state.TopMultipliers())
	assert.Equal(t, 2, len(state.History))
}

func TestStreakLabel(t *testing.T) {
	state := &SessionState{CurrentStreak: 3}
	assert.Equal(t, "W3", state.StreakLabel())

	state.CurrentStreak = -2
	assert.Equal(t, "L2", state.StreakLabel())
}

func TestBetsPerMinute(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAggregator(1)
	state := a.NewState(start)
	recordAll(a, state, 1, 1, 1, 1, 1, 1, 1)

	now := start.Add(2 * time.Minute)
	assert.Equal(t, 2*time.Minute, state.Elapsed(now))
	assert.InDelta(t, 3.0, state.BetsPerMinute(now), 1e-9)

	summary := state.Summarize(now)
	assert.Equal(t, 6, summary.TotalBets)
	assert.Equal(t, 120.0, summary.ElapsedSeconds)
	require.NotNil(t, summary.RTP)
	assert.InDelta(t, 100.0, *summary.RTP, 1e-9)
}

func TestClone_IsIndependent(t *testing.T) {
	a := NewAggregator(2)
	state := a.NewState(time.Now())
	recordAll(a, state, 10, 2)

	clone := state.Clone()
	recordAll(a, state, 10, 9)

	assert.Equal(t, 1, len(clone.History))
	assert.Len(t, clone.TopMultipliers(), 1)
	assert.Equal(t, 2, len(state.History))
	assert.Len(t, state.TopMultipliers(), 2)
}
