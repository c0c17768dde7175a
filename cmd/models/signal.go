package models

import (
	"time"

	"gorm.io/gorm"
)

// Signal lifecycle statuses. A signal is mutable only while active.
const (
	SignalActive     = "active"
	SignalClosedTP   = "closed_tp"
	SignalClosedSL   = "closed_sl"
	SignalClosedTime = "closed_time"
	SignalCanceled   = "canceled"
)

const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

const (
	StrengthStrong   = "STRONG"
	StrengthModerate = "MODERATE"
	StrengthWeak     = "WEAK"
)

type Signal struct {
	gorm.Model
	Symbol    string `gorm:"size:10;index;not null" json:"symbol"`
	Direction string `gorm:"size:5;not null" json:"direction"`
	Strength  string `gorm:"size:10;not null" json:"strength"`

	EntryPrice      float64  `gorm:"not null" json:"entry_price"`
	TakeProfitPrice *float64 `json:"take_profit_price,omitempty"`
	TakeProfitPct   *float64 `json:"take_profit_pct,omitempty"`
	StopLossPrice   *float64 `json:"stop_loss_price,omitempty"`
	StopLossPct     *float64 `json:"stop_loss_pct,omitempty"`

	ExitPrice     *float64 `json:"exit_price,omitempty"`
	PnlPct        *float64 `gorm:"column:pnl_pct" json:"pnl_pct,omitempty"`
	CurrentPrice  *float64 `json:"current_price,omitempty"`
	CurrentPnlPct *float64 `gorm:"column:current_pnl_pct" json:"current_pnl_pct,omitempty"`

	HoldTimeHours float64 `gorm:"not null" json:"hold_time_hours"`
	ChecksPassed  *int    `json:"checks_passed,omitempty"`
	TotalChecks   int     `gorm:"not null;default:11" json:"total_checks"`

	Status   string     `gorm:"size:15;index;not null;default:active" json:"status"`
	OpenedAt time.Time  `gorm:"index;not null" json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

func (Signal) TableName() string {
	return "signals"
}

// Closed reports whether the signal has reached a terminal status.
func (s *Signal) Closed() bool {
	return s.Status != SignalActive
}

// AvailablePairs is the fixed catalog of symbols signals are published for.
var AvailablePairs = []string{"SOL", "BTC", "ETH", "AVAX", "LTC", "SUI"}

// ValidPair reports whether symbol belongs to the pair catalog.
func ValidPair(symbol string) bool {
	for _, p := range AvailablePairs {
		if p == symbol {
			return true
		}
	}
	return false
}

// DefaultHoldTimeHours returns the expected maximum open duration for a
// symbol. BTC positions run 72h, everything else 48h.
func DefaultHoldTimeHours(symbol string) float64 {
	if symbol == "BTC" {
		return 72
	}
	return 48
}
