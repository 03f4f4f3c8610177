// Package report renders session events for an operator watching the console.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mselser95/packs-bot/internal/session"
	"go.uber.org/zap"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// SnapshotSource supplies the session view printed with terminal events.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// Console implements session.EventSink by pretty-printing to a writer.
// Per-bet events are not printed; the summary covers them.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	source SnapshotSource
	logger *zap.Logger
}

// NewConsole creates a console reporter. A nil out writes to stdout.
func NewConsole(out io.Writer, source SnapshotSource, logger *zap.Logger) *Console {
	if out == nil {
		out = os.Stdout
	}
	logger.Info("console-reporter-initialized")
	return &Console{
		out:    out,
		source: source,
		logger: logger,
	}
}

// SetSource sets the snapshot source after construction, so the reporter
// can be registered as a sink of the controller it reads from.
func (c *Console) SetSource(source SnapshotSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = source
}

// Publish prints the event.
func (c *Console) Publish(event session.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Type {
	case session.EventBetRecorded:
		return
	case session.EventStarted:
		fmt.Fprintf(c.out, "▶ session %s started at %s\n", shortID(event.SessionID), event.Timestamp.Format(time.DateTime))
	case session.EventBigWin:
		if event.Outcome != nil {
			fmt.Fprintf(c.out, "🎉 BIG WIN  #%d  %gx  payout %.2f %s\n",
				event.Outcome.Index, event.Outcome.PayoutMultiplier, event.Outcome.Payout, event.Outcome.Currency)
		}
	default:
		if event.Type.Terminal() {
			c.printSummary(event)
		}
	}
}

func (c *Console) printSummary(event session.Event) {
	fmt.Fprintln(c.out, "\n"+rule)
	fmt.Fprintf(c.out, "%s SESSION ENDED: %s\n", icon(event.Type), event.Type)
	if event.Message != "" {
		fmt.Fprintf(c.out, "  %s\n", event.Message)
	}
	fmt.Fprintln(c.out, rule)

	if c.source == nil {
		return
	}

	s := c.source.Snapshot()
	fmt.Fprintf(c.out, "📊 STATS\n")
	fmt.Fprintf(c.out, "  Bets:        %d / %d\n", s.TotalBets, s.MaxBets)
	fmt.Fprintf(c.out, "  Wagered:     %.2f\n", s.TotalWagered)
	fmt.Fprintf(c.out, "  Payout:      %.2f\n", s.TotalPayout)
	fmt.Fprintf(c.out, "  Net:         %+.2f\n", s.NetProfit)
	if s.RTP != nil {
		fmt.Fprintf(c.out, "  RTP:         %.2f%%\n", *s.RTP)
	} else {
		fmt.Fprintf(c.out, "  RTP:         n/a\n")
	}
	fmt.Fprintf(c.out, "  Win rate:    %.1f%%\n", s.WinRate)
	fmt.Fprintf(c.out, "  Streak:      %s (best W%d / L%d)\n", s.StreakLabel, s.BestWinStreak, s.BestLossStreak)
	fmt.Fprintf(c.out, "  Elapsed:     %s (%.1f bets/min)\n",
		(time.Duration(s.ElapsedSeconds) * time.Second).String(), s.BetsPerMinute)
	if s.Failures != nil && s.Failures.TotalSkips > 0 {
		fmt.Fprintf(c.out, "  Skipped:     %d (policy %s, last %s)\n",
			s.Failures.TotalSkips, s.Failures.Policy, s.Failures.LastKind)
	}

	if len(s.TopMultipliers) > 0 {
		fmt.Fprintln(c.out, rule)
		fmt.Fprintf(c.out, "🏆 TOP MULTIPLIERS\n")
		for rank, o := range s.TopMultipliers {
			fmt.Fprintf(c.out, "  %2d. %gx  (bet #%d)\n", rank+1, o.PayoutMultiplier, o.Index)
		}
	}
	fmt.Fprintln(c.out, rule)
}

func icon(t session.EventType) string {
	switch t {
	case session.EventCompleted:
		return "✅"
	case session.EventAutoStopped:
		return "🎯"
	case session.EventStopped:
		return "⏹"
	default:
		return "❌"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
