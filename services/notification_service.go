package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

// NotificationService is the read side of the notification sink plus the
// read-flag updates. Rows are appended by the workflow services inside their
// own transactions.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

type NotificationQuery struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

func (s *NotificationService) List(ctx context.Context, userID uint, q NotificationQuery) ([]models.Notification, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if q.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var items []models.Notification
	if err := query.Order("sent_at DESC, notification_id DESC").Limit(q.Limit).Offset(q.Offset).Find(&items).Error; err != nil {
		return nil, InternalError("failed to fetch notifications", err)
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, InternalError("failed to count notifications", err)
	}
	return n, nil
}

// MarkRead flags one of the user's notifications as read. A notification that
// belongs to someone else is reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	db := s.db.WithContext(ctx)

	var n models.Notification
	if err := db.Select("notification_id").
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Take(&n).Error; err != nil {
		return lookupError(err, "notification not found")
	}

	if err := db.Model(&models.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("is_read", true).Error; err != nil {
		return InternalError("failed to update notification", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, InternalError("failed to update notifications", res.Error)
	}
	return res.RowsAffected, nil
}

// notificationBatch collects the rows a workflow step produces so they can be
// written in the same transaction and handed to the dispatcher after commit.
type notificationBatch struct {
	items []models.Notification
}

func (b *notificationBatch) add(userID uint, notificationType, content string) {
	b.items = append(b.items, models.Notification{
		UserID:  userID,
		Content: content,
		Type:    notificationType,
		IsRead:  false,
		SentAt:  time.Now(),
	})
}

func (b *notificationBatch) flush(tx *gorm.DB) error {
	if len(b.items) == 0 {
		return nil
	}
	if err := tx.Create(&b.items).Error; err != nil {
		return InternalError("failed to insert notifications", err)
	}
	return nil
}

func serviceLogger() *zap.Logger {
	if config.Log == nil {
		return zap.NewNop()
	}
	return config.Log
}
