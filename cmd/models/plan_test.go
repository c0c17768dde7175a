package models

import "testing"

func TestEntitlementCatalog(t *testing.T) {
	cases := []struct {
		plan        Plan
		maxPairs    int
		hasTelegram bool
		hasAPI      bool
		price       float64
	}{
		{PlanFree, 0, false, false, 0},
		{PlanStarter, 1, false, false, 49},
		{PlanPro, 3, true, false, 99},
		{PlanPremium, 6, true, true, 199},
	}

	for _, c := range cases {
		e := EntitlementFor(c.plan)
		if e.MaxPairs != c.maxPairs {
			t.Errorf("%s: max pairs = %d, want %d", c.plan, e.MaxPairs, c.maxPairs)
		}
		if e.HasTelegram != c.hasTelegram {
			t.Errorf("%s: telegram = %v, want %v", c.plan, e.HasTelegram, c.hasTelegram)
		}
		if e.HasAPI != c.hasAPI {
			t.Errorf("%s: api = %v, want %v", c.plan, e.HasAPI, c.hasAPI)
		}
		if e.MonthlyPrice != c.price {
			t.Errorf("%s: price = %.0f, want %.0f", c.plan, e.MonthlyPrice, c.price)
		}
	}
}

func TestOnlyFreeHasZeroPairs(t *testing.T) {
	for _, p := range Plans {
		zero := EntitlementFor(p).MaxPairs == 0
		if zero != (p == PlanFree) {
			t.Errorf("%s: maxPairs==0 is %v, expected it only for free", p, zero)
		}
	}
}

func TestMaxPairsNonDecreasing(t *testing.T) {
	prev := -1
	for _, p := range Plans {
		mp := EntitlementFor(p).MaxPairs
		if mp < prev {
			t.Errorf("max pairs decreases at %s: %d -> %d", p, prev, mp)
		}
		prev = mp
	}
}

func TestParsePlan(t *testing.T) {
	for _, s := range []string{"free", "starter", "pro", "premium"} {
		if _, err := ParsePlan(s); err != nil {
			t.Errorf("ParsePlan(%q) returned error: %v", s, err)
		}
	}
	for _, s := range []string{"", "gold", "Free", "PRO"} {
		if _, err := ParsePlan(s); err == nil {
			t.Errorf("ParsePlan(%q) accepted an unknown plan", s)
		}
	}
}
