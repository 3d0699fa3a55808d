package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/services"
)

var newPasswordResetService = func() *services.PasswordResetService {
	return services.NewPasswordResetService(nil, nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ForgotPassword emails a reset link. The answer is the same whether or not
// the address has an account.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	meta := services.ResetRequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if err := newPasswordResetService().Request(c.Request.Context(), req.Email, meta); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent."})
}

// ResetPassword exchanges a reset token for a new password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := newPasswordResetService().Reset(c.Request.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
