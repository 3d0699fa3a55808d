package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

// OAuthProfile is the subset of the OpenID userinfo response we use.
type OAuthProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// OAuthProvider runs the authorization-code flow against one identity provider.
type OAuthProvider struct {
	Name        string
	conf        *oauth2.Config
	userInfoURL string
}

func NewOAuthProvider(name string, conf *oauth2.Config, userInfoURL string) *OAuthProvider {
	return &OAuthProvider{Name: name, conf: conf, userInfoURL: userInfoURL}
}

// GoogleFromConfig returns the Google provider, or nil when no client is configured.
func GoogleFromConfig() *OAuthProvider {
	g := config.Cfg.Google
	if g.ClientID == "" || g.ClientSecret == "" {
		return nil
	}
	return NewOAuthProvider(models.ProviderGoogle, &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Endpoint:     endpoints.Google,
		Scopes:       []string{"openid", "email", "profile"},
	}, g.UserInfoURL)
}

// NewOAuthState returns an unguessable value for the state parameter.
func NewOAuthState() string {
	return uuid.NewString()
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// FetchProfile exchanges the authorization code and reads the userinfo endpoint.
func (p *OAuthProvider) FetchProfile(ctx context.Context, code string) (*OAuthProfile, error) {
	if code == "" {
		return nil, ValidationError("missing authorization code")
	}
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, UnauthorizedError("authorization code exchange failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, InternalError("failed to build userinfo request", err)
	}
	resp, err := p.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, InternalError("userinfo request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, InternalError("failed to read userinfo", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, InternalError("userinfo request failed", fmt.Errorf("status %d", resp.StatusCode))
	}

	var profile OAuthProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, InternalError("failed to decode userinfo", err)
	}
	if profile.Email == "" || !profile.EmailVerified {
		return nil, UnauthorizedError("identity provider did not return a verified email")
	}
	return &profile, nil
}
