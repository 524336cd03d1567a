package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/orbitalbot/dashboard/backend/config"
	"github.com/orbitalbot/dashboard/backend/models"
	"github.com/orbitalbot/dashboard/internal/common/ids"
)

// AuthReason says why a login attempt failed. It ends up in the login page URL.
type AuthReason string

const (
	ReasonProviderError      AuthReason = "provider_error"
	ReasonNoCode             AuthReason = "no_code"
	ReasonInvalidState       AuthReason = "invalid_state"
	ReasonExchangeFailed     AuthReason = "exchange_failed"
	ReasonProfileFetchFailed AuthReason = "profile_fetch_failed"
)

// AuthError is returned by HandleCallback for every failed login.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authError(reason AuthReason, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// Discord user flags that mark a developer account.
const (
	flagVerifiedBotDeveloper = 1 << 17
	flagActiveDeveloper      = 1 << 22
)

const oauthTimeout = 15 * time.Second

// DiscordUser represents a Discord user from the API
type DiscordUser struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	GlobalName  *string `json:"global_name"`
	Avatar      *string `json:"avatar"`
	Flags       int64   `json:"flags"`
	PublicFlags int64   `json:"public_flags"`
}

// IsDeveloper reports whether either developer flag is set.
func (u *DiscordUser) IsDeveloper() bool {
	return (u.Flags|u.PublicFlags)&(flagVerifiedBotDeveloper|flagActiveDeveloper) != 0
}

// CallbackInput is what the callback request carried.
type CallbackInput struct {
	Code          string
	ProviderError string
	State         string
	ExpectedState string
	// StateErr is set when the state cookie was missing or tampered with.
	StateErr    error
	CallbackURL string
}

// OAuthService handles Discord OAuth2 authentication
type OAuthService struct {
	config     *config.WebAppConfig
	httpClient *http.Client
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(cfg *config.WebAppConfig) *OAuthService {
	return &OAuthService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: oauthTimeout,
		},
	}
}

// oauthConfig builds the client config for one callback URL. The same URL must be
// used for the authorize redirect and the exchange.
func (o *OAuthService) oauthConfig(callbackURL string) *oauth2.Config {
	cfg := o.config.GetOAuthConfig()
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: callbackURL,
		Scopes:      cfg.Scopes,
	}
}

// CallbackURL returns the configured redirect URL, or one derived from baseURL.
func (o *OAuthService) CallbackURL(baseURL string) string {
	if override := o.config.GetOAuthConfig().RedirectURL; override != "" {
		return override
	}
	return strings.TrimRight(baseURL, "/") + "/api/auth/callback"
}

// GenerateState returns a random value for the state parameter
func (o *OAuthService) GenerateState() (string, error) {
	return ids.RandomToken(24)
}

// GenerateAuthURL generates the Discord OAuth2 authorization URL
func (o *OAuthService) GenerateAuthURL(callbackURL, state string) string {
	return o.oauthConfig(callbackURL).AuthCodeURL(state)
}

// HandleCallback checks the callback parameters, exchanges the code and fetches the
// profile. It makes one attempt at each step.
func (o *OAuthService) HandleCallback(ctx context.Context, in CallbackInput) (*models.UserSession, error) {
	if in.ProviderError != "" {
		return nil, authError(ReasonProviderError, errors.New(in.ProviderError))
	}
	if in.Code == "" {
		return nil, authError(ReasonNoCode, nil)
	}
	if in.StateErr != nil {
		return nil, authError(ReasonInvalidState, in.StateErr)
	}
	if in.State == "" || in.State != in.ExpectedState {
		return nil, authError(ReasonInvalidState, errors.New("state mismatch"))
	}

	ctx, cancel := context.WithTimeout(ctx, oauthTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)

	token, err := o.ExchangeCodeForToken(ctx, in.CallbackURL, in.Code)
	if err != nil {
		return nil, authError(ReasonExchangeFailed, err)
	}

	user, err := o.GetUserInfo(ctx, token)
	if err != nil {
		return nil, authError(ReasonProfileFetchFailed, err)
	}

	return o.CreateUserSession(user), nil
}

// ExchangeCodeForToken exchanges an authorization code for an access token
func (o *OAuthService) ExchangeCodeForToken(ctx context.Context, callbackURL, code string) (*oauth2.Token, error) {
	token, err := o.oauthConfig(callbackURL).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// GetUserInfo gets Discord user information using an access token
func (o *OAuthService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*DiscordUser, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	url := strings.TrimRight(o.config.GetOAuthConfig().APIBase, "/") + "/users/@me"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord API returned status %d", resp.StatusCode)
	}

	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("user info has no id")
	}

	return &user, nil
}

// CreateUserSession creates a user session from Discord user info
func (o *OAuthService) CreateUserSession(user *DiscordUser) *models.UserSession {
	display := user.Username
	if user.GlobalName != nil && *user.GlobalName != "" {
		display = *user.GlobalName
	}

	session := &models.UserSession{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: display,
		Avatar:      user.Avatar,
		IsDeveloper: user.IsDeveloper(),
	}

	slog.Info("Discord user authenticated",
		slog.String("type", "auth"),
		slog.String("user_id", user.ID),
		slog.Bool("is_developer", session.IsDeveloper))

	return session
}
