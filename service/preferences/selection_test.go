package preferences

import (
	"reflect"
	"testing"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

func TestToggleAddsUpToCapacity(t *testing.T) {
	sel := NewSelection(models.PlanPro, []string{"SOL", "BTC"})

	if !sel.Toggle("ETH") {
		t.Fatal("adding a third pair on pro should be permitted")
	}
	if got := sel.Pairs(); !reflect.DeepEqual(got, []string{"SOL", "BTC", "ETH"}) {
		t.Errorf("pairs = %v, want [SOL BTC ETH]", got)
	}

	// Capacity reached, further additions are refused silently.
	if sel.Toggle("AVAX") {
		t.Error("adding a fourth pair on pro should be a no-op")
	}
	if sel.Len() != 3 {
		t.Errorf("len = %d, want 3 after refused addition", sel.Len())
	}
}

func TestToggleRemovalAlwaysPermitted(t *testing.T) {
	sel := NewSelection(models.PlanStarter, []string{"SOL"})

	if !sel.Toggle("SOL") {
		t.Fatal("removal must always be permitted")
	}
	if sel.Len() != 0 {
		t.Errorf("len = %d, want 0", sel.Len())
	}
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	sel := NewSelection(models.PlanPremium, []string{"SOL", "BTC"})
	before := sel.Pairs()

	if !sel.Toggle("ETH") {
		t.Fatal("first toggle should be permitted")
	}
	if !sel.Toggle("ETH") {
		t.Fatal("second toggle should be permitted")
	}
	if got := sel.Pairs(); !reflect.DeepEqual(got, before) {
		t.Errorf("pairs = %v, want %v after toggle twice", got, before)
	}
}

func TestFreePlanNeverAdmits(t *testing.T) {
	sel := NewSelection(models.PlanFree, nil)
	if sel.Toggle("SOL") {
		t.Error("free plan must not admit any pair")
	}
	if sel.Len() != 0 {
		t.Errorf("len = %d, want 0", sel.Len())
	}
}

func TestCapacityInvariantUnderToggleSequences(t *testing.T) {
	pairs := models.AvailablePairs

	for _, plan := range models.Plans {
		sel := NewSelection(plan, nil)
		max := models.EntitlementFor(plan).MaxPairs

		// Walk the catalog forwards twice and backwards once.
		for i := 0; i < len(pairs)*3; i++ {
			sel.Toggle(pairs[i%len(pairs)])
			if sel.Len() > max {
				t.Fatalf("%s: selection grew to %d, capacity %d", plan, sel.Len(), max)
			}
		}
	}
}

func TestNewSelectionTrimsOverCapacity(t *testing.T) {
	// Downgrade scenario: six pairs persisted, plan now allows one.
	sel := NewSelection(models.PlanStarter, models.AvailablePairs)
	if got := sel.Pairs(); !reflect.DeepEqual(got, []string{"SOL"}) {
		t.Errorf("pairs = %v, want [SOL] after trim", got)
	}
}

func TestNewSelectionDropsDuplicates(t *testing.T) {
	sel := NewSelection(models.PlanPro, []string{"SOL", "SOL", "BTC"})
	if got := sel.Pairs(); !reflect.DeepEqual(got, []string{"SOL", "BTC"}) {
		t.Errorf("pairs = %v, want [SOL BTC]", got)
	}
}
