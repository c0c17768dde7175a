package preferences

import (
	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

// Selection governs the legality of a user's trading-pair choices against
// their plan's capacity. It owns the in-memory rules only; persisting the
// resulting set is the caller's job.
type Selection struct {
	plan  models.Plan
	pairs []string
}

// NewSelection builds a selection for a plan from an existing pair list.
// Pairs beyond the plan's capacity are trimmed, oldest first kept, so a
// downgraded account converges back under its limit.
func NewSelection(plan models.Plan, pairs []string) *Selection {
	max := models.EntitlementFor(plan).MaxPairs
	kept := make([]string, 0, max)
	for _, p := range pairs {
		if len(kept) >= max {
			break
		}
		if contains(kept, p) {
			continue
		}
		kept = append(kept, p)
	}
	return &Selection{plan: plan, pairs: kept}
}

// Toggle flips a pair in or out of the selection. Removal is always
// permitted. Addition is permitted only while the selection is under the
// plan's capacity; at capacity the call is a no-op and changed is false.
// The UI disables the control in that state rather than showing an error,
// so no error is returned here.
func (s *Selection) Toggle(pair string) (changed bool) {
	for i, p := range s.pairs {
		if p == pair {
			s.pairs = append(s.pairs[:i], s.pairs[i+1:]...)
			return true
		}
	}

	if len(s.pairs) >= models.EntitlementFor(s.plan).MaxPairs {
		return false
	}
	s.pairs = append(s.pairs, pair)
	return true
}

// Pairs returns a copy of the current selection in insertion order.
func (s *Selection) Pairs() []string {
	out := make([]string, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Len returns the number of selected pairs.
func (s *Selection) Len() int {
	return len(s.pairs)
}

// Capacity returns the plan's maximum selectable pairs.
func (s *Selection) Capacity() int {
	return models.EntitlementFor(s.plan).MaxPairs
}

func contains(list []string, v string) bool {
	for _, p := range list {
		if p == v {
			return true
		}
	}
	return false
}
