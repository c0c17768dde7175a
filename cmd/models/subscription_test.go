package models

import (
	"testing"
	"time"
)

func TestSubscriptionIsExpired(t *testing.T) {
	now := time.Date(2025, 12, 12, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	free := Subscription{Plan: PlanFree}
	if free.IsExpired(now) {
		t.Error("subscription without a period end should never expire")
	}

	lapsed := Subscription{Plan: PlanPro, CurrentPeriodEnd: &past}
	if !lapsed.IsExpired(now) {
		t.Error("subscription past its period end should be expired")
	}

	current := Subscription{Plan: PlanPro, CurrentPeriodEnd: &future}
	if current.IsExpired(now) {
		t.Error("subscription inside its period should not be expired")
	}
}
