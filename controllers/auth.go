package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pet-adoption-api/config"
	"pet-adoption-api/middleware"
	"pet-adoption-api/models"
	"pet-adoption-api/services"
)

type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

type FoundersClubRequest struct {
	FoundersClub *bool `json:"founders_club" binding:"required"`
}

// Register creates a local account and signs it in.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := services.NewUserService(nil).Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := startSession(c, *user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, LoginResponse{Token: token, User: *user, Message: "Registration successful"})
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := services.NewUserService(nil).Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := startSession(c, *user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: *user, Message: "Login successful"})
}

// Logout denylists the current token and clears the cookie.
func Logout(c *gin.Context) {
	if claims, ok := middleware.CurrentClaims(c); ok {
		if err := services.TokensFromConfig().Revoke(c.Request.Context(), claims); err != nil {
			config.Log.Warn("token revoke failed", zap.Error(err))
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := services.NewUserService(nil).Get(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func UpdateFoundersClub(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req FoundersClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := services.NewUserService(nil).SetFoundersClub(c.Request.Context(), actor.UserID, *req.FoundersClub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// startSession issues a token and sets it as an HttpOnly cookie.
func startSession(c *gin.Context, user models.User) (string, error) {
	tokens := services.TokensFromConfig()
	token, _, err := tokens.Issue(user)
	if err != nil {
		return "", err
	}
	jwtCfg := config.Cfg.JWT
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtCfg.CookieName, token, int(tokens.TTL().Seconds()), "/", "", jwtCfg.CookieSecure, true)
	return token, nil
}

func clearSessionCookie(c *gin.Context) {
	jwtCfg := config.Cfg.JWT
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtCfg.CookieName, "", -1, "/", "", jwtCfg.CookieSecure, true)
}
