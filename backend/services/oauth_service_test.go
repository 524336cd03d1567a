package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalbot/dashboard/backend/config"
)

// fakeDiscord serves the token and profile endpoints.
type fakeDiscord struct {
	tokenStatus   int
	profileStatus int
	profile       map[string]any
	gotForm       url.Values
}

func (f *fakeDiscord) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.gotForm = r.PostForm
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   604800,
		})
	})
	mux.HandleFunc("/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.profileStatus != 0 {
			w.WriteHeader(f.profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testWebConfig(base string) *config.WebAppConfig {
	cfg := config.Default()
	cfg.OAuth.ClientID = "client-id"
	cfg.OAuth.ClientSecret = "client-secret"
	if base != "" {
		cfg.OAuth.AuthURL = base + "/oauth2/authorize"
		cfg.OAuth.TokenURL = base + "/api/oauth2/token"
		cfg.OAuth.APIBase = base + "/api"
	}
	return config.NewWebAppConfig(&cfg, "test")
}

func TestOAuthService_GenerateAuthURL(t *testing.T) {
	o := NewOAuthService(testWebConfig(""))

	raw := o.GenerateAuthURL("https://dash.example.com/api/auth/callback", "state-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "discord.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify guilds", q.Get("scope"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "https://dash.example.com/api/auth/callback", q.Get("redirect_uri"))
}

func TestOAuthService_CallbackURL(t *testing.T) {
	o := NewOAuthService(testWebConfig(""))
	assert.Equal(t, "http://localhost:5000/api/auth/callback", o.CallbackURL("http://localhost:5000/"))

	cfg := testWebConfig("")
	cfg.Config.OAuth.RedirectURL = "https://fixed.example.com/cb"
	assert.Equal(t, "https://fixed.example.com/cb", NewOAuthService(cfg).CallbackURL("http://localhost:5000"))
}

func TestOAuthService_HandleCallback(t *testing.T) {
	valid := CallbackInput{
		Code:          "code-1",
		State:         "s",
		ExpectedState: "s",
		CallbackURL:   "http://localhost/api/auth/callback",
	}

	tests := []struct {
		name       string
		input      func(in CallbackInput) CallbackInput
		discord    fakeDiscord
		wantReason AuthReason
	}{
		{
			name:       "provider error wins over everything",
			input:      func(in CallbackInput) CallbackInput { in.ProviderError = "access_denied"; in.Code = ""; return in },
			wantReason: ReasonProviderError,
		},
		{
			name:       "missing code",
			input:      func(in CallbackInput) CallbackInput { in.Code = ""; return in },
			wantReason: ReasonNoCode,
		},
		{
			name:       "state mismatch",
			input:      func(in CallbackInput) CallbackInput { in.State = "other"; return in },
			wantReason: ReasonInvalidState,
		},
		{
			name:       "state cookie missing",
			input:      func(in CallbackInput) CallbackInput { in.StateErr = errors.New("no cookie"); return in },
			wantReason: ReasonInvalidState,
		},
		{
			name:       "exchange rejected",
			input:      func(in CallbackInput) CallbackInput { return in },
			discord:    fakeDiscord{tokenStatus: http.StatusBadRequest},
			wantReason: ReasonExchangeFailed,
		},
		{
			name:       "profile fetch fails",
			input:      func(in CallbackInput) CallbackInput { return in },
			discord:    fakeDiscord{profileStatus: http.StatusInternalServerError},
			wantReason: ReasonProfileFetchFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tt.discord.server(t)
			o := NewOAuthService(testWebConfig(srv.URL))

			session, err := o.HandleCallback(context.Background(), tt.input(valid))
			assert.Nil(t, session)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantReason, authErr.Reason)
		})
	}
}

func TestOAuthService_HandleCallbackSuccess(t *testing.T) {
	discord := fakeDiscord{profile: map[string]any{
		"id":           "42",
		"username":     "owner",
		"global_name":  "The Owner",
		"avatar":       "abc",
		"flags":        0,
		"public_flags": 1 << 22,
	}}
	srv := discord.server(t)
	o := NewOAuthService(testWebConfig(srv.URL))

	session, err := o.HandleCallback(context.Background(), CallbackInput{
		Code:          "code-1",
		State:         "s",
		ExpectedState: "s",
		CallbackURL:   "http://localhost/api/auth/callback",
	})
	require.NoError(t, err)

	assert.Equal(t, "42", session.UserID)
	assert.Equal(t, "owner", session.Username)
	assert.Equal(t, "The Owner", session.DisplayName)
	require.NotNil(t, session.Avatar)
	assert.Equal(t, "abc", *session.Avatar)
	assert.True(t, session.IsDeveloper)

	assert.Equal(t, "code-1", discord.gotForm.Get("code"))
	assert.Equal(t, "client-id", discord.gotForm.Get("client_id"))
	assert.Equal(t, "client-secret", discord.gotForm.Get("client_secret"))
	assert.Equal(t, "http://localhost/api/auth/callback", discord.gotForm.Get("redirect_uri"))
}

func TestDiscordUser_IsDeveloper(t *testing.T) {
	tests := []struct {
		name string
		user DiscordUser
		want bool
	}{
		{name: "no flags", user: DiscordUser{}, want: false},
		{name: "verified bot developer", user: DiscordUser{Flags: 1 << 17}, want: true},
		{name: "active developer public flag", user: DiscordUser{PublicFlags: 1 << 22}, want: true},
		{name: "other flags", user: DiscordUser{Flags: 1<<0 | 1<<9}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsDeveloper())
		})
	}
}
