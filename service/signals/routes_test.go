package signals

import (
	"math"
	"testing"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

func TestRealizedPnlPct(t *testing.T) {
	cases := []struct {
		direction string
		entry     float64
		exit      float64
		want      float64
	}{
		{models.DirectionLong, 100, 104, 4},
		{models.DirectionLong, 100, 96, -4},
		{models.DirectionShort, 100, 96, 4},
		{models.DirectionShort, 100, 104, -4},
		{models.DirectionLong, 145.32, 148.5, (148.5 - 145.32) / 145.32 * 100},
	}

	for _, c := range cases {
		got := realizedPnlPct(c.direction, c.entry, c.exit)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("realizedPnlPct(%s, %.2f, %.2f) = %.4f, want %.4f",
				c.direction, c.entry, c.exit, got, c.want)
		}
	}
}

func TestValidateSignal(t *testing.T) {
	base := func() models.Signal {
		return models.Signal{
			Symbol:      "SOL",
			Direction:   models.DirectionLong,
			Strength:    models.StrengthStrong,
			EntryPrice:  145.32,
			TotalChecks: 11,
		}
	}

	if err := validateSignal(&models.Signal{Symbol: "SOL", Direction: "LONG", Strength: "STRONG", EntryPrice: 1, TotalChecks: 11}); err != nil {
		t.Errorf("valid signal rejected: %v", err)
	}

	bad := base()
	bad.Symbol = "DOGE"
	if err := validateSignal(&bad); err == nil {
		t.Error("unknown pair accepted")
	}

	bad = base()
	bad.Direction = "UP"
	if err := validateSignal(&bad); err == nil {
		t.Error("invalid direction accepted")
	}

	bad = base()
	bad.EntryPrice = 0
	if err := validateSignal(&bad); err == nil {
		t.Error("zero entry price accepted")
	}

	bad = base()
	checks := 12
	bad.ChecksPassed = &checks
	if err := validateSignal(&bad); err == nil {
		t.Error("checks passed above total accepted")
	}
}
