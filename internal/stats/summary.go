package stats

import (
	"time"

	"github.com/mselser95/packs-bot/pkg/types"
)

// Summary is a flat, JSON-friendly view of a SessionState.
type Summary struct {
	Status         types.SessionStatus  `json:"status"`
	TotalBets      int                  `json:"totalBets"`
	TotalWagered   float64              `json:"totalWagered"`
	TotalPayout    float64              `json:"totalPayout"`
	NetProfit      float64              `json:"netProfit"`
	RTP            *float64             `json:"rtp"`
	WinRate        float64              `json:"winRate"`
	CurrentStreak  int                  `json:"currentStreak"`
	StreakLabel    string               `json:"streakLabel"`
	BestWinStreak  int                  `json:"bestWinStreak"`
	BestLossStreak int                  `json:"bestLossStreak"`
	StartedAt      time.Time            `json:"startedAt"`
	ElapsedSeconds float64              `json:"elapsedSeconds"`
	BetsPerMinute  float64              `json:"betsPerMinute"`
	TopMultipliers []types.WagerOutcome `json:"topMultipliers,omitempty"`
}

// Summarize flattens the state at now. RTP is nil while nothing has been wagered.
func (s *SessionState) Summarize(now time.Time) Summary {
	wagered, _ := s.TotalWagered.Float64()
	payout, _ := s.TotalPayout.Float64()
	net, _ := s.NetProfit().Float64()

	summary := Summary{
		Status:         s.Status,
		TotalBets:      len(s.History),
		TotalWagered:   wagered,
		TotalPayout:    payout,
		NetProfit:      net,
		WinRate:        s.WinRate(),
		CurrentStreak:  s.CurrentStreak,
		StreakLabel:    s.StreakLabel(),
		BestWinStreak:  s.BestWinStreak,
		BestLossStreak: s.BestLossStreak,
		StartedAt:      s.StartedAt,
		ElapsedSeconds: s.Elapsed(now).Seconds(),
		BetsPerMinute:  s.BetsPerMinute(now),
		TopMultipliers: s.TopMultipliers(),
	}

	if rtp, ok := s.RTP(); ok {
		summary.RTP = &rtp
	}

	return summary
}
