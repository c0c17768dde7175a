package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription statuses as reported by the billing provider.
const (
	SubStatusActive   = "active"
	SubStatusCanceled = "canceled"
	SubStatusPastDue  = "past_due"
	SubStatusTrialing = "trialing"
	SubStatusExpired  = "expired"
)

type Subscription struct {
	gorm.Model
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Plan   Plan   `gorm:"size:20;not null;default:free" json:"plan"`
	Status string `gorm:"size:20;not null;default:active" json:"status"`

	StripeCustomerID     string `gorm:"column:stripe_customer_id;size:255" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id;size:255" json:"stripe_subscription_id,omitempty"`

	CurrentPeriodStart *time.Time `gorm:"index" json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `gorm:"index" json:"current_period_end,omitempty"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`

	// Issued only for plans with API access.
	APIKey string `gorm:"column:api_key;size:64" json:"api_key,omitempty"`

	User Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsExpired reports whether the current billing period has lapsed. A
// subscription with no period end (free tier) never expires.
func (s *Subscription) IsExpired(now time.Time) bool {
	if s.CurrentPeriodEnd == nil {
		return false
	}
	return s.CurrentPeriodEnd.Before(now)
}
