package signals

import (
	"testing"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

func sampleCandidates() []models.Signal {
	return []models.Signal{
		{Symbol: "SOL", Direction: models.DirectionLong, Status: models.SignalActive},
		{Symbol: "BTC", Direction: models.DirectionLong, Status: models.SignalActive},
		{Symbol: "ETH", Direction: models.DirectionLong, Status: models.SignalActive},
		{Symbol: "AVAX", Direction: models.DirectionShort, Status: models.SignalActive},
	}
}

func symbols(sigs []models.Signal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Symbol
	}
	return out
}

func TestVisibleSignalsFreeTierSeesNothing(t *testing.T) {
	candidates := sampleCandidates()

	if got := VisibleSignals(models.PlanFree, nil, candidates); len(got) != 0 {
		t.Errorf("free with nil selection got %d signals, want 0", len(got))
	}
	if got := VisibleSignals(models.PlanFree, []string{"SOL", "BTC"}, candidates); len(got) != 0 {
		t.Errorf("free with selection got %d signals, want 0", len(got))
	}
}

func TestVisibleSignalsEmptySelectionIsUnrestricted(t *testing.T) {
	candidates := sampleCandidates()

	for _, plan := range []models.Plan{models.PlanStarter, models.PlanPro, models.PlanPremium} {
		if got := VisibleSignals(plan, nil, candidates); len(got) != len(candidates) {
			t.Errorf("%s with nil selection got %d signals, want %d", plan, len(got), len(candidates))
		}
		if got := VisibleSignals(plan, []string{}, candidates); len(got) != len(candidates) {
			t.Errorf("%s with empty selection got %d signals, want %d", plan, len(got), len(candidates))
		}
	}
}

func TestVisibleSignalsFiltersBySelection(t *testing.T) {
	candidates := sampleCandidates()

	got := VisibleSignals(models.PlanPro, []string{"ETH", "SOL"}, candidates)
	want := []string{"SOL", "ETH"}

	if len(got) != len(want) {
		t.Fatalf("got %d signals, want %d", len(got), len(want))
	}
	for i, sym := range symbols(got) {
		if sym != want[i] {
			t.Errorf("position %d: got %s, want %s (input order must be preserved)", i, sym, want[i])
		}
	}
}

func TestVisibleSignalsDoesNotFilterStatus(t *testing.T) {
	candidates := []models.Signal{
		{Symbol: "SOL", Status: models.SignalClosedTP},
		{Symbol: "SOL", Status: models.SignalActive},
	}
	got := VisibleSignals(models.PlanStarter, []string{"SOL"}, candidates)
	if len(got) != 2 {
		t.Errorf("got %d signals, want 2; status filtering is the caller's job", len(got))
	}
}
