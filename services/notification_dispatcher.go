package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

// NotificationDispatcher delivers copies of committed notifications through
// an out-of-band channel. Delivery is best effort and never fails a request.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notes []models.Notification)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, []models.Notification) {}

// NoopDispatcher discards everything; used when SMTP is not configured.
func NoopDispatcher() NotificationDispatcher { return noopDispatcher{} }

// MailSender matches config.SendMail.
type MailSender func(to []string, subject, html string) error

// EmailDispatcher emails each notification to its recipient.
type EmailDispatcher struct {
	db   *gorm.DB
	send MailSender
	log  *zap.Logger
}

func NewEmailDispatcher(db *gorm.DB, send MailSender) *EmailDispatcher {
	if db == nil {
		db = config.DB
	}
	if send == nil {
		send = config.SendMail
	}
	return &EmailDispatcher{db: db, send: send, log: serviceLogger().Named("mail")}
}

func (d *EmailDispatcher) Dispatch(ctx context.Context, notes []models.Notification) {
	if len(notes) == 0 {
		return
	}
	ctx = persistentContext(ctx)
	go d.Deliver(ctx, notes)
}

type recipient struct {
	UserID uint   `gorm:"column:user_id"`
	Name   string `gorm:"column:name"`
	Email  string `gorm:"column:email"`
}

// Deliver sends the emails synchronously and returns how many were sent.
func (d *EmailDispatcher) Deliver(ctx context.Context, notes []models.Notification) int {
	ids := make([]uint, 0, len(notes))
	seen := map[uint]bool{}
	for _, n := range notes {
		if !seen[n.UserID] {
			seen[n.UserID] = true
			ids = append(ids, n.UserID)
		}
	}

	var rows []recipient
	if err := d.db.WithContext(ctx).Model(&models.User{}).
		Select("user_id, name, email").
		Where("user_id IN ?", ids).
		Find(&rows).Error; err != nil {
		d.log.Warn("load notification recipients", zap.Error(err))
		return 0
	}
	byID := make(map[uint]recipient, len(rows))
	for _, r := range rows {
		byID[r.UserID] = r
	}

	sent := 0
	for _, n := range notes {
		r, ok := byID[n.UserID]
		if !ok || strings.TrimSpace(r.Email) == "" {
			continue
		}
		subject := emailSubject(n)
		html := buildFormalEmailHTML(subject, r.Name, n.Content)
		if err := d.send([]string{r.Email}, subject, html); err != nil {
			d.log.Warn("notification email send failed",
				zap.String("subject", subject),
				zap.Uint("user_id", r.UserID),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

func emailSubject(n models.Notification) string {
	if subject, ok := emailSubjects[eventOf(n.Type)]; ok {
		return subject
	}
	return "Pet adoption update"
}

func defaultDispatcher() NotificationDispatcher {
	if config.Cfg != nil && config.Cfg.SMTP.Enabled() {
		return NewEmailDispatcher(nil, nil)
	}
	return NoopDispatcher()
}
