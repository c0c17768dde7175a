package signals

import (
	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

// VisibleSignals returns the subset of candidates a subscriber is entitled
// to see. Free accounts get nothing; that is the monetization boundary,
// not an error. A nil or empty pair selection on a paying tier means the
// user has not restricted their feed yet and sees every candidate — the
// onboarding default is inclusive on purpose. Input order is preserved;
// callers pass candidates already sorted by recency. Status is not
// considered here, the caller decides which lifecycle states to feed in.
func VisibleSignals(plan models.Plan, selectedPairs []string, candidates []models.Signal) []models.Signal {
	if plan == models.PlanFree {
		return []models.Signal{}
	}

	if len(selectedPairs) == 0 {
		return candidates
	}

	selected := make(map[string]struct{}, len(selectedPairs))
	for _, p := range selectedPairs {
		selected[p] = struct{}{}
	}

	visible := make([]models.Signal, 0, len(candidates))
	for _, s := range candidates {
		if _, ok := selected[s.Symbol]; ok {
			visible = append(visible, s)
		}
	}
	return visible
}
