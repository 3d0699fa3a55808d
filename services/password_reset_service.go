package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/utils"
)

const passwordResetTTL = 10 * time.Minute

// PasswordResetService runs the forgot-password flow: a single-use token is
// emailed as a link and exchanged for a new password.
type PasswordResetService struct {
	db       *gorm.DB
	send     MailSender
	baseURL  string
	ttl      time.Duration
	newToken func() string
}

// NewPasswordResetService falls back to config.SendMail when SMTP is
// configured. Without a sender, Request fails.
func NewPasswordResetService(db *gorm.DB, send MailSender) *PasswordResetService {
	if db == nil {
		db = config.DB
	}
	if send == nil && config.Cfg != nil && config.Cfg.SMTP.Enabled() {
		send = config.SendMail
	}
	baseURL := "http://localhost:3000"
	if config.Cfg != nil && strings.TrimSpace(config.Cfg.AppBaseURL) != "" {
		baseURL = strings.TrimSpace(config.Cfg.AppBaseURL)
	}
	return &PasswordResetService{
		db:      db,
		send:    send,
		baseURL: baseURL,
		ttl:     passwordResetTTL,
		newToken: func() string {
			return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
		},
	}
}

// ResetRequestMeta records where a reset was requested from.
type ResetRequestMeta struct {
	IPAddress string
	UserAgent string
}

// Request issues a reset token and emails the link. Unknown addresses return
// nil so that callers cannot probe for accounts.
func (s *PasswordResetService) Request(ctx context.Context, email string, meta ResetRequestMeta) error {
	email = utils.NormalizeEmail(email)
	if !utils.ValidateEmail(email) {
		return ValidationError("invalid email address")
	}
	if s.send == nil {
		return InternalError("password reset email is not configured", nil)
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return InternalError("failed to load user", err)
	}

	rawToken := s.newToken()
	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := revokeResetTokens(tx, user.UserID, now); err != nil {
			return err
		}
		token := models.PasswordResetToken{
			UserID:    user.UserID,
			TokenHash: hashResetToken(rawToken),
			ExpiresAt: now.Add(s.ttl),
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&token).Error; err != nil {
			return InternalError("failed to store reset token", err)
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to create reset token")
	}

	link, err := buildResetURL(s.baseURL, rawToken)
	if err != nil {
		return InternalError("invalid app base url", err)
	}
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = "there"
	}
	expiresIn := fmt.Sprintf("%d minutes", int(s.ttl.Minutes()))
	mail := actionEmail{
		Subject: "Reset your password",
		Paragraphs: []string{
			fmt.Sprintf("Hi %s,", name),
			"We received a request to reset the password of your Pet Adoption account.",
			"Use the button below to choose a new password. If you did not ask for this, you can ignore this email.",
		},
		Meta:       []emailMetaItem{{Label: "Link expires in", Value: expiresIn}},
		ButtonText: "Reset password",
		ButtonURL:  link,
		Footer:     "If the button does not work, copy this link into your browser:\n" + link,
	}
	if err := s.send([]string{user.Email}, mail.Subject, mail.HTML()); err != nil {
		return InternalError("failed to send reset email", err)
	}
	return nil
}

// Reset sets a new password for the owner of a live token and revokes every
// outstanding reset token of that user.
func (s *PasswordResetService) Reset(ctx context.Context, rawToken, newPassword, confirm string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return ValidationError("token is required")
	}
	if newPassword != confirm {
		return ValidationError("passwords do not match")
	}
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return ValidationError(msg)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return InternalError("failed to hash password", err)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.PasswordResetToken
		err := tx.Where("token_hash = ? AND is_revoked = ? AND expires_at > ?", hashResetToken(rawToken), false, now).
			Take(&token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidationError("invalid or expired token")
		}
		if err != nil {
			return InternalError("failed to verify token", err)
		}

		if err := tx.Model(&models.User{}).
			Where("user_id = ?", token.UserID).
			Updates(map[string]interface{}{"password": hashed, "updated_at": now}).Error; err != nil {
			return InternalError("failed to update password", err)
		}
		return revokeResetTokens(tx, token.UserID, now)
	})
	if err != nil {
		return passThrough(err, "failed to reset password")
	}
	return nil
}

func revokeResetTokens(tx *gorm.DB, userID uint, now time.Time) error {
	if err := tx.Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]interface{}{"is_revoked": true, "updated_at": now}).Error; err != nil {
		return InternalError("failed to revoke reset tokens", err)
	}
	return nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func buildResetURL(baseURL, token string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/reset-password"
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
