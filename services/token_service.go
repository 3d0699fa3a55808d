package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

const denylistPrefix = "jwt:denylist:"

// Claims are the session token claims.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. Logged-out tokens
// are kept in a Redis denylist until they expire; without Redis, logout only
// clears the cookie.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	redis  *redis.Client
}

func NewTokenService(secret string, ttl time.Duration, rdb *redis.Client) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, redis: rdb}
}

// TokensFromConfig builds a TokenService from the loaded settings.
func TokensFromConfig() *TokenService {
	return NewTokenService(config.Cfg.JWT.Secret, config.Cfg.JWT.TTL(), config.Redis)
}

func (t *TokenService) TTL() time.Duration { return t.ttl }

func (t *TokenService) Issue(user models.User) (string, *Claims, error) {
	if len(t.secret) == 0 {
		return "", nil, InternalError("token secret is not configured", nil)
	}
	now := time.Now()
	claims := &Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, InternalError("failed to sign token", err)
	}
	return signed, claims, nil
}

// Parse verifies signature and expiry. It does not consult the denylist.
func (t *TokenService) Parse(tokenString string) (*Claims, error) {
	if len(t.secret) == 0 {
		return nil, InternalError("token secret is not configured", nil)
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, UnauthorizedError("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return nil, UnauthorizedError("invalid token claims")
	}
	return claims, nil
}

// Revoke denylists the token until its own expiry.
func (t *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if t.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := t.redis.Set(ctx, denylistPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return InternalError("failed to revoke token", err)
	}
	return nil
}

func (t *TokenService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if t.redis == nil || jti == "" {
		return false, nil
	}
	n, err := t.redis.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, InternalError("failed to check token denylist", err)
	}
	return n > 0, nil
}
