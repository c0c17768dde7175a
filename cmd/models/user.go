package models

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	gorm.Model
	Email            string `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash     string `gorm:"column:password_hash;size:255;not null" json:"-"`
	FullName         string `gorm:"column:full_name;size:255" json:"full_name,omitempty"`
	AvatarURL        string `gorm:"column:avatar_url;size:500" json:"avatar_url,omitempty"`
	TelegramID       string `gorm:"column:telegram_id;size:64" json:"telegram_id,omitempty"`
	TelegramUsername string `gorm:"column:telegram_username;size:64" json:"telegram_username,omitempty"`
	Phone            string `gorm:"column:phone;size:20" json:"phone,omitempty"`
	NotifyEmail      bool   `gorm:"column:notify_email;default:true" json:"notify_email"`
	NotifyTelegram   bool   `gorm:"column:notify_telegram;default:false" json:"notify_telegram"`

	EmailVerified         bool      `gorm:"column:email_verified;default:false" json:"email_verified"`
	EmailVerificationCode string    `gorm:"size:6" json:"-"`
	VerificationExpiry    time.Time `gorm:"" json:"-"`

	Refresh               string    `gorm:"column:refresh_token;size:255" json:"-"`
	RefreshTokenExpiredAt time.Time `gorm:"column:refresh_token_expired_at" json:"-"`

	Subscription *Subscription    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"subscription,omitempty"`
	Preferences  *UserPreferences `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"preferences,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null"`
	Token     string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
