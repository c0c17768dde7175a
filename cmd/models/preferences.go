package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserPreferences struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	SelectedPairs pq.StringArray `gorm:"type:text[];column:selected_pairs" json:"selected_pairs"`

	Theme           string  `gorm:"size:20;default:dark" json:"theme"`
	Timezone        string  `gorm:"size:64;default:UTC" json:"timezone"`
	Currency        string  `gorm:"size:10;default:USD" json:"currency"`
	DefaultLeverage float64 `gorm:"default:1" json:"default_leverage"`
	RiskLevel       string  `gorm:"size:20;default:medium" json:"risk_level"`

	User Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

// DefaultPreferences returns the record seeded for a new account.
func DefaultPreferences(userID uint) UserPreferences {
	return UserPreferences{
		UserID:          userID,
		SelectedPairs:   pq.StringArray{},
		Theme:           "dark",
		Timezone:        "UTC",
		Currency:        "USD",
		DefaultLeverage: 1,
		RiskLevel:       "medium",
	}
}
