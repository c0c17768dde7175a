package signals

import (
	"math"
	"testing"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

func pnl(v float64) *float64 { return &v }

func openSignals() []models.Signal {
	return []models.Signal{
		{Symbol: "SOL", CurrentPnlPct: pnl(2.19)},
		{Symbol: "BTC", CurrentPnlPct: pnl(1.23)},
		{Symbol: "ETH", CurrentPnlPct: pnl(1.77)},
	}
}

func TestAveragePnl(t *testing.T) {
	got := AveragePnl(openSignals())
	want := (2.19 + 1.23 + 1.77) / 3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("AveragePnl = %.4f, want %.4f", got, want)
	}
}

func TestAveragePnlEmpty(t *testing.T) {
	if got := AveragePnl(nil); got != 0 {
		t.Errorf("AveragePnl(nil) = %.4f, want 0", got)
	}
}

func TestAveragePnlTreatsMissingAsZero(t *testing.T) {
	sigs := []models.Signal{
		{Symbol: "SOL", CurrentPnlPct: pnl(3)},
		{Symbol: "BTC"},
		{Symbol: "ETH", CurrentPnlPct: pnl(3)},
	}
	if got := AveragePnl(sigs); math.Abs(got-2) > 1e-9 {
		t.Errorf("AveragePnl with missing pnl = %.4f, want 2", got)
	}
}

func TestBestAndWorstSignal(t *testing.T) {
	sigs := openSignals()

	best := BestSignal(sigs)
	if best == nil || best.Symbol != "SOL" {
		t.Errorf("BestSignal = %v, want SOL", best)
	}

	worst := WorstSignal(sigs)
	if worst == nil || worst.Symbol != "BTC" {
		t.Errorf("WorstSignal = %v, want BTC", worst)
	}
}

func TestBestAndWorstEmpty(t *testing.T) {
	if BestSignal(nil) != nil {
		t.Error("BestSignal(nil) should be nil")
	}
	if WorstSignal(nil) != nil {
		t.Error("WorstSignal(nil) should be nil")
	}
}

func TestBestSignalTieKeepsFirst(t *testing.T) {
	sigs := []models.Signal{
		{Symbol: "SOL", CurrentPnlPct: pnl(2)},
		{Symbol: "BTC", CurrentPnlPct: pnl(2)},
	}
	if best := BestSignal(sigs); best.Symbol != "SOL" {
		t.Errorf("tie broke to %s, want first occurrence SOL", best.Symbol)
	}
	if worst := WorstSignal(sigs); worst.Symbol != "SOL" {
		t.Errorf("tie broke to %s, want first occurrence SOL", worst.Symbol)
	}
}

func TestProfitableCount(t *testing.T) {
	sigs := []models.Signal{
		{CurrentPnlPct: pnl(2.19)},
		{CurrentPnlPct: pnl(-0.4)},
		{CurrentPnlPct: pnl(0)},
		{},
		{CurrentPnlPct: pnl(0.01)},
	}
	if got := ProfitableCount(sigs); got != 2 {
		t.Errorf("ProfitableCount = %d, want 2 (zero is not profit)", got)
	}
}
