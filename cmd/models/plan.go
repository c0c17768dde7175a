package models

import "fmt"

// Plan is a subscription tier. The set is closed; anything else must be
// rejected at the boundary with ParsePlan before it reaches business logic.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

// Entitlement is the set of capabilities a plan unlocks.
type Entitlement struct {
	Name         string  `json:"name"`
	MaxPairs     int     `json:"max_pairs"`
	HasTelegram  bool    `json:"has_telegram"`
	HasAPI       bool    `json:"has_api"`
	MonthlyPrice float64 `json:"monthly_price"`
}

// planCatalog holds the fixed business constants for every tier.
var planCatalog = map[Plan]Entitlement{
	PlanFree:    {Name: "Free", MaxPairs: 0, HasTelegram: false, HasAPI: false, MonthlyPrice: 0},
	PlanStarter: {Name: "Starter", MaxPairs: 1, HasTelegram: false, HasAPI: false, MonthlyPrice: 49},
	PlanPro:     {Name: "Pro", MaxPairs: 3, HasTelegram: true, HasAPI: false, MonthlyPrice: 99},
	PlanPremium: {Name: "Premium", MaxPairs: 6, HasTelegram: true, HasAPI: true, MonthlyPrice: 199},
}

// Plans lists all tiers in ascending order of capability.
var Plans = []Plan{PlanFree, PlanStarter, PlanPro, PlanPremium}

// EntitlementFor returns the entitlements of a plan. It is total over the
// closed enum; an unrecognised value falls back to the free tier, which is
// unreachable for input validated with ParsePlan.
func EntitlementFor(plan Plan) Entitlement {
	if e, ok := planCatalog[plan]; ok {
		return e
	}
	return planCatalog[PlanFree]
}

// ParsePlan validates a raw plan string at the boundary.
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanFree, PlanStarter, PlanPro, PlanPremium:
		return Plan(s), nil
	}
	return "", fmt.Errorf("unknown plan %q", s)
}
