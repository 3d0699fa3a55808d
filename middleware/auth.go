package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/services"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextClaims = "claims"
)

// AuthMiddleware validates the session token from the Authorization header or
// the session cookie. A nil tokens argument uses the configured service.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		status, msg := authenticate(c, tokens, tokenString)
		if status != 0 {
			c.JSON(status, gin.H{"error": msg})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the caller when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := extractToken(c); ok {
			authenticate(c, tokens, tokenString)
		}
		c.Next()
	}
}

// authenticate stores the caller in the context, or returns the status and
// message to refuse the request with.
func authenticate(c *gin.Context, tokens *services.TokenService, tokenString string) (int, string) {
	if tokens == nil {
		tokens = services.TokensFromConfig()
	}

	claims, err := tokens.Parse(tokenString)
	if err != nil {
		return http.StatusUnauthorized, "Invalid or expired token"
	}

	revoked, err := tokens.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		config.Log.Warn("token denylist lookup failed", zap.Error(err))
		return http.StatusServiceUnavailable, "Session store unavailable"
	}
	if revoked {
		return http.StatusUnauthorized, "Token has been revoked"
	}

	// Check if user still exists; the stored role wins over the token's.
	var user models.User
	err = config.DB.WithContext(c.Request.Context()).
		Select("user_id", "email", "role").
		Where("user_id = ?", claims.UserID).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusUnauthorized, "User not found"
	}
	if err != nil {
		config.Log.Error("failed to load authenticated user", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return http.StatusInternalServerError, "Internal server error"
	}

	c.Set(ContextUserID, user.UserID)
	c.Set(ContextEmail, user.Email)
	c.Set(ContextRole, user.Role)
	c.Set(ContextClaims, claims)
	return 0, ""
}

// extractToken prefers a Bearer header and falls back to the session cookie.
func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader && strings.TrimSpace(tokenString) != "" {
			return strings.TrimSpace(tokenString), true
		}
	}
	if cookie, err := c.Cookie(config.Cfg.JWT.CookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// RequireRole checks if user has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextRole)
		if userRole == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}

// CurrentActor returns the authenticated caller set by AuthMiddleware.
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return services.Actor{}, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return services.Actor{}, false
	}
	return services.Actor{UserID: id, Role: c.GetString(ContextRole)}, true
}

// CurrentClaims returns the parsed token of the request.
func CurrentClaims(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}
