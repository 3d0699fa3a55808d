package models

import "time"

// Notification is append-only; only IsRead ever changes after insert.
type Notification struct {
	NotificationID uint      `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         uint      `gorm:"column:user_id;index" json:"user_id"`
	Content        string    `gorm:"column:content;type:text" json:"content"`
	Type           string    `gorm:"column:type;size:60" json:"type"` // client-side routing tag
	IsRead         bool      `gorm:"column:is_read" json:"is_read"`
	SentAt         time.Time `gorm:"column:sent_at" json:"sent_at"`
}

func (Notification) TableName() string { return "notifications" }
