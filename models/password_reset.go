package models

import "time"

// PasswordResetToken stores the SHA-256 of an emailed reset token. The raw
// token only ever exists in the email.
type PasswordResetToken struct {
	TokenID   uint      `gorm:"primaryKey;column:token_id"`
	UserID    uint      `gorm:"column:user_id;index"`
	TokenHash string    `gorm:"column:token_hash;size:64;uniqueIndex"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	IsRevoked bool      `gorm:"column:is_revoked"`
	IPAddress string    `gorm:"column:ip_address;size:64"`
	UserAgent string    `gorm:"column:user_agent;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
