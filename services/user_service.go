package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	if db == nil {
		db = config.DB
	}
	return &UserService{db: db}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	City     *string
}

// Register creates a local account with role user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := utils.SanitizeInput(in.Name)
	email := utils.NormalizeEmail(in.Email)
	if name == "" {
		return nil, ValidationError("name is required")
	}
	if !utils.ValidateEmail(email) {
		return nil, ValidationError("invalid email address")
	}
	if ok, msg := utils.ValidatePassword(in.Password); !ok {
		return nil, ValidationError(msg)
	}

	db := s.db.WithContext(ctx)
	if taken, err := s.emailTaken(db, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ConflictError("email is already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, InternalError("failed to hash password", err)
	}

	now := time.Now()
	user := models.User{
		Name:         name,
		Email:        email,
		Password:     hash,
		Role:         models.RoleUser,
		AuthProvider: models.ProviderLocal,
		Phone:        in.Phone,
		City:         in.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, InternalError("failed to create user", err)
	}
	return &user, nil
}

// Authenticate checks a local account's password. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", utils.NormalizeEmail(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, InternalError("failed to load user", err)
	}
	if user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		return nil, UnauthorizedError("invalid email or password")
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&user).Error; err != nil {
		return nil, lookupError(err, "user not found")
	}
	return &user, nil
}

// FindOrCreateExternal returns the account for an identity-provider login,
// creating it on first sign-in.
func (s *UserService) FindOrCreateExternal(ctx context.Context, provider, email, name string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if !utils.ValidateEmail(email) {
		return nil, ValidationError("identity provider returned no usable email")
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("email = ?", email).Take(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, InternalError("failed to load user", err)
	}

	name = utils.SanitizeInput(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	now := time.Now()
	user = models.User{
		Name:         name,
		Email:        email,
		Role:         models.RoleUser,
		AuthProvider: provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, InternalError("failed to create user", err)
	}
	return &user, nil
}

func (s *UserService) SetFoundersClub(ctx context.Context, userID uint, member bool) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"founders_club": member, "updated_at": now}).Error; err != nil {
		return nil, InternalError("failed to update profile", err)
	}
	user.FoundersClub = member
	user.UpdatedAt = now
	return user, nil
}

func (s *UserService) emailTaken(db *gorm.DB, email string) (bool, error) {
	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, InternalError("failed to check email", err)
	}
	return n > 0, nil
}
