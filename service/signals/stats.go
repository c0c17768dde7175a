package signals

import (
	"github.com/LucasAbreu89/crypto-trading/cmd/models"
)

func pnlOrZero(s models.Signal) float64 {
	if s.CurrentPnlPct == nil {
		return 0
	}
	return *s.CurrentPnlPct
}

// AveragePnl returns the mean current PnL percent across signals, with a
// missing value counted as 0. An empty slice averages to 0.
func AveragePnl(source []models.Signal) float64 {
	if len(source) == 0 {
		return 0
	}
	var sum float64
	for _, s := range source {
		sum += pnlOrZero(s)
	}
	return sum / float64(len(source))
}

// BestSignal returns the signal with the highest current PnL percent, or
// nil for an empty slice. Ties keep the earliest entry.
func BestSignal(source []models.Signal) *models.Signal {
	if len(source) == 0 {
		return nil
	}
	best := &source[0]
	for i := 1; i < len(source); i++ {
		if pnlOrZero(source[i]) > pnlOrZero(*best) {
			best = &source[i]
		}
	}
	return best
}

// WorstSignal returns the signal with the lowest current PnL percent, or
// nil for an empty slice. Ties keep the earliest entry.
func WorstSignal(source []models.Signal) *models.Signal {
	if len(source) == 0 {
		return nil
	}
	worst := &source[0]
	for i := 1; i < len(source); i++ {
		if pnlOrZero(source[i]) < pnlOrZero(*worst) {
			worst = &source[i]
		}
	}
	return worst
}

// ProfitableCount counts signals strictly in profit. Flat positions do
// not count.
func ProfitableCount(source []models.Signal) int {
	count := 0
	for _, s := range source {
		if pnlOrZero(s) > 0 {
			count++
		}
	}
	return count
}
