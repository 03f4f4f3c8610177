package stats

import "github.com/mselser95/packs-bot/pkg/types"

// TopN keeps the highest-multiplier outcomes seen so far, ordered by
// multiplier descending and by index ascending on ties.
// Insert is O(N) in the bound, independent of history length.
type TopN struct {
	limit   int
	entries []types.WagerOutcome
}

// NewTopN creates a ranking bounded to limit entries.
func NewTopN(limit int) *TopN {
	if limit < 0 {
		limit = 0
	}
	return &TopN{
		limit:   limit,
		entries: make([]types.WagerOutcome, 0, limit),
	}
}

// Insert offers an outcome to the ranking. Outcomes must arrive in index order.
func (t *TopN) Insert(o types.WagerOutcome) {
	if t.limit == 0 {
		return
	}

	// Find the first entry strictly below o; equal multipliers keep arrival order.
	pos := len(t.entries)
	for i, e := range t.entries {
		if o.PayoutMultiplier > e.PayoutMultiplier {
			pos = i
			break
		}
	}

	if pos >= t.limit {
		return
	}

	if len(t.entries) < t.limit {
		t.entries = append(t.entries, types.WagerOutcome{})
	}
	copy(t.entries[pos+1:], t.entries[pos:len(t.entries)-1])
	t.entries[pos] = o
}

// Entries returns a copy of the ranking.
func (t *TopN) Entries() []types.WagerOutcome {
	result := make([]types.WagerOutcome, len(t.entries))
	copy(result, t.entries)
	return result
}
