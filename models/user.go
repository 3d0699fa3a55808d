package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	UserID       uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name         string    `gorm:"column:name;size:120" json:"name"`
	Email        string    `gorm:"column:email;size:190;uniqueIndex" json:"email"`
	Password     string    `gorm:"column:password;size:100" json:"-"`
	Role         string    `gorm:"column:role;size:20;default:user" json:"role"`
	AuthProvider string    `gorm:"column:auth_provider;size:20;default:local" json:"auth_provider"`
	FoundersClub bool      `gorm:"column:founders_club" json:"founders_club"`
	Phone        *string   `gorm:"column:phone;size:40" json:"phone,omitempty"`
	City         *string   `gorm:"column:city;size:80" json:"city,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may moderate listings.
func (u User) IsStaff() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
