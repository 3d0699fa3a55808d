package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/config"
	"pet-adoption-api/services"
)

const oauthStateCookie = "oauth_state"

// oauthProvider is swapped in tests.
var oauthProvider = services.GoogleFromConfig

// GoogleLogin redirects to the consent page with a state cookie.
func GoogleLogin(c *gin.Context) {
	provider := oauthProvider()
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state := services.NewOAuthState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", config.Cfg.JWT.CookieSecure, true)
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// GoogleCallback checks the state, signs the user in and redirects to the app.
func GoogleCallback(c *gin.Context) {
	provider := oauthProvider()
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", config.Cfg.JWT.CookieSecure, true)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state", "kind": services.KindValidation.String()})
		return
	}

	profile, err := provider.FetchProfile(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := services.NewUserService(nil).FindOrCreateExternal(c.Request.Context(), provider.Name, profile.Email, profile.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := startSession(c, *user); err != nil {
		respondError(c, err)
		return
	}

	target := strings.TrimRight(config.Cfg.AppBaseURL, "/")
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}
