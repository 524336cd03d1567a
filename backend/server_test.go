package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orbitalbot/dashboard/backend/config"
	"github.com/orbitalbot/dashboard/backend/handlers"
	"github.com/orbitalbot/dashboard/backend/models"
	webservices "github.com/orbitalbot/dashboard/backend/services"
	"github.com/orbitalbot/dashboard/backend/utils"
	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/common/ids"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/bot"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
	"github.com/orbitalbot/dashboard/internal/domain/settings"
	"github.com/orbitalbot/dashboard/internal/domain/stats"
	"github.com/orbitalbot/dashboard/internal/gateways/discord"
	"github.com/orbitalbot/dashboard/internal/gateways/discord/mock"
	"github.com/orbitalbot/dashboard/internal/gateways/memory"
	"github.com/orbitalbot/dashboard/internal/gateways/sessions"
)

const (
	ownerID    = "123456789012345678"
	cookieName = "orbital_session"
)

var testNow = time.Date(2024, 10, 5, 15, 0, 0, 0, time.UTC)

type harness struct {
	t        *testing.T
	app      *fiber.App
	store    *memory.Store
	registry *bot.Registry
	sessions *webservices.SessionService
}

type harnessOptions struct {
	config  func(*config.Config)
	discord func(*mock.MockClient)
}

// offline makes every Discord call fail. Expectations set before it take priority.
func offline(m *mock.MockClient) {
	m.EXPECT().Guilds(gomock.Any()).Return(nil, mock.Unavailable).AnyTimes()
	m.EXPECT().Commands(gomock.Any()).Return(nil, mock.Unavailable).AnyTimes()
	m.EXPECT().BotIdentity(gomock.Any()).Return(nil, mock.Unavailable).AnyTimes()
	m.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(nil, mock.Unavailable).AnyTimes()
	m.EXPECT().Configured().Return(false).AnyTimes()
	m.EXPECT().SetToken(gomock.Any()).AnyTimes()
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.OAuth.ClientID = "client-id"
	cfg.OAuth.ClientSecret = "client-secret"
	if opts.config != nil {
		opts.config(&cfg)
	}

	ctrl := gomock.NewController(t)
	discordClient := mock.NewMockClient(ctrl)
	if opts.discord != nil {
		opts.discord(discordClient)
	}
	offline(discordClient)

	clk := clock.Fixed(testNow)
	store := memory.NewStore()
	store.Seed(testNow)

	activityService := activity.NewService(store, clk, ids.New())
	serverService := servers.NewService(store, discordClient, activityService, clk)
	registry := bot.NewRegistry()
	storage := sessions.NewMemory(clk)
	webCfg := config.NewWebAppConfig(&cfg, "test")
	sessionService := webservices.NewSessionService(webCfg, storage, clk)

	webApp := &handlers.WebApp{
		Config:         webCfg,
		OAuthService:   webservices.NewOAuthService(webCfg),
		SessionService: sessionService,
		SessionStorage: storage,
		Commands:       commands.NewService(store, discordClient, activityService, clk, ids.New()),
		Servers:        serverService,
		Activity:       activityService,
		Settings:       settings.NewService(store, activityService),
		Bot:            bot.NewService(registry, discordClient, store, activityService),
		Stats:          stats.NewService(store, serverService, activityService, clk),
		Version:        "test",
	}

	return &harness{
		t:        t,
		app:      NewApp(webApp),
		store:    store,
		registry: registry,
		sessions: sessionService,
	}
}

// login stores a session for userID and returns its cookie.
func (h *harness) login(userID string) *http.Cookie {
	h.t.Helper()
	value, err := h.sessions.Issue(context.Background(), &models.UserSession{UserID: userID, Username: "user-" + userID})
	require.NoError(h.t, err)
	return &http.Cookie{Name: cookieName, Value: value}
}

func (h *harness) do(method, path string, body any, cookies ...*http.Cookie) *http.Response {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decode[models.APIResponse](t, resp)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestServers_FallsBackToLocalData(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp := h.do(http.MethodGet, "/api/servers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "local", resp.Header.Get("X-Data-Source"))

	list := decode[[]servers.Server](t, resp)
	assert.Len(t, list, 5)
}

func TestServers_LiveReplacesStore(t *testing.T) {
	h := newHarness(t, harnessOptions{discord: func(m *mock.MockClient) {
		m.EXPECT().Guilds(gomock.Any()).Return(mock.Guilds, nil).AnyTimes()
	}})

	resp := h.do(http.MethodGet, "/api/servers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "live", resp.Header.Get("X-Data-Source"))

	list := decode[[]servers.Server](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, "Gaming Hub", list[0].Name)

	stored, err := h.store.ListServers(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestMutations_AuthorizationGate(t *testing.T) {
	body := map[string]any{"name": "weather", "description": "Mostra o clima", "category": "Utilidade"}

	t.Run("no session", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		h.registry.SetOwner(ownerID)

		resp := h.do(http.MethodPost, "/api/commands", body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, utils.CodeUnauthorized, errorCode(t, resp))
	})

	t.Run("bot not configured", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})

		resp := h.do(http.MethodPost, "/api/commands", body, h.login(ownerID))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, utils.CodeBotNotConfigured, errorCode(t, resp))
	})

	t.Run("not the owner", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		h.registry.SetOwner(ownerID)

		resp := h.do(http.MethodPut, "/api/settings", map[string]any{"prefix": "?"}, h.login("999"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, utils.CodeForbidden, errorCode(t, resp))

		current, err := h.store.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "!", current.Prefix, "denied request changed nothing")
	})

	t.Run("owner", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		h.registry.SetOwner(ownerID)

		resp := h.do(http.MethodPost, "/api/commands", body, h.login(ownerID))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestCommands_CreateThenList(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.registry.SetOwner(ownerID)
	owner := h.login(ownerID)

	resp := h.do(http.MethodPost, "/api/commands", map[string]any{
		"name":        "trivia",
		"description": "Inicia um quiz",
		"category":    "Diversão",
	}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[commands.Command](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "trivia", created.Name)
	assert.True(t, created.Enabled)
	assert.Zero(t, created.UsageCount)
	assert.Nil(t, created.LastUsed)

	resp = h.do(http.MethodGet, "/api/commands", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "local", resp.Header.Get("X-Data-Source"))

	list := decode[[]commands.Command](t, resp)
	assert.Len(t, list, 11)
	var found bool
	for _, c := range list {
		if c.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)

	resp = h.do(http.MethodGet, "/api/logs?type=config&limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logs := decode[[]activity.Log](t, resp)
	require.Len(t, logs, 1)
	assert.Equal(t, "Comando /trivia criado", logs[0].Description)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, ownerID, *logs[0].UserID)
}

func TestCommands_ListSearch(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp := h.do(http.MethodGet, "/api/commands?q=sk", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]commands.Command](t, resp)
	require.NotEmpty(t, list)
	assert.Equal(t, "skip", list[0].Name)
}

func TestCommands_ValidationError(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.registry.SetOwner(ownerID)

	resp := h.do(http.MethodPost, "/api/commands", map[string]any{"description": "sem nome"}, h.login(ownerID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[models.APIResponse](t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, utils.CodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Details, "name")
}

func TestCommands_UpdateAndDelete(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.registry.SetOwner(ownerID)
	owner := h.login(ownerID)

	resp := h.do(http.MethodPatch, "/api/commands/5", map[string]any{"enabled": true}, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[commands.Command](t, resp)
	assert.True(t, updated.Enabled)
	assert.Equal(t, "mute", updated.Name)
	assert.Equal(t, 67, updated.UsageCount)

	resp = h.do(http.MethodPatch, "/api/commands/nope", map[string]any{"enabled": false}, owner)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, utils.CodeNotFound, errorCode(t, resp))

	resp = h.do(http.MethodDelete, "/api/commands/10", nil, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[models.DeleteResponse](t, resp).Success)

	resp = h.do(http.MethodDelete, "/api/commands/10", nil, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[models.DeleteResponse](t, resp).Success)
}

func TestCommands_RecordUsage(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.registry.SetOwner(ownerID)

	statsBefore := decode[stats.Stats](t, h.do(http.MethodGet, "/api/bot/stats", nil))

	resp := h.do(http.MethodPost, "/api/commands/2/usage", map[string]any{"serverId": "guild1", "serverName": "Servidor Geral"}, h.login(ownerID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cmd := decode[commands.Command](t, resp)
	assert.Equal(t, 893, cmd.UsageCount)
	require.NotNil(t, cmd.LastUsed)
	assert.True(t, cmd.LastUsed.Equal(testNow))

	statsAfter := decode[stats.Stats](t, h.do(http.MethodGet, "/api/bot/stats", nil))
	assert.Equal(t, statsBefore.CommandsToday+1, statsAfter.CommandsToday)
}

func TestSettings_PartialUpdate(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.registry.SetOwner(ownerID)

	resp := h.do(http.MethodPut, "/api/settings", map[string]any{"prefix": "?"}, h.login(ownerID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decode[settings.Settings](t, resp)
	assert.Equal(t, "?", updated.Prefix)
	assert.Equal(t, "online", updated.Status)
	assert.Equal(t, "com os comandos", updated.Activity)
	assert.True(t, updated.AutoResponse)

	logs := decode[[]activity.Log](t, h.do(http.MethodGet, "/api/logs?limit=1", nil))
	require.Len(t, logs, 1)
	assert.Equal(t, "Configurações do bot atualizadas", logs[0].Description)
	require.NotNil(t, logs[0].Details)
	assert.Equal(t, "Prefixo: ?, Status: online", *logs[0].Details)

	resp = h.do(http.MethodPut, "/api/settings", map[string]any{"status": "busy"}, h.login(ownerID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, utils.CodeValidation, errorCode(t, resp))
}

func TestLogs_QueryValidation(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	for _, path := range []string{"/api/logs?type=unknown", "/api/logs?limit=0", "/api/logs?limit=abc"} {
		resp := h.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}

	logs := decode[[]activity.Log](t, h.do(http.MethodGet, "/api/logs", nil))
	require.Len(t, logs, 8)
	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].Timestamp.After(logs[i-1].Timestamp), "newest first")
	}
}

func TestBot_StatsAndChart(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp := h.do(http.MethodGet, "/api/bot/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "local", resp.Header.Get("X-Data-Source"))
	s := decode[stats.Stats](t, resp)
	assert.Equal(t, 5, s.ServerCount)
	assert.Equal(t, 1250+850+2100+420+1890, s.UserCount)

	resp = h.do(http.MethodGet, "/api/bot/chart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	points := decode[[]stats.ChartPoint](t, resp)
	require.Len(t, points, stats.ChartDays)
	assert.Equal(t, "05 Oct", points[len(points)-1].Date)
}

func TestBot_StatsPollingWritesNoLogs(t *testing.T) {
	h := newHarness(t, harnessOptions{discord: func(m *mock.MockClient) {
		m.EXPECT().Guilds(gomock.Any()).Return(mock.Guilds, nil).AnyTimes()
	}})
	ctx := context.Background()

	before, err := h.store.ListLogs(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		resp := h.do(http.MethodGet, "/api/bot/stats", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "live", resp.Header.Get("X-Data-Source"))
		s := decode[stats.Stats](t, resp)
		assert.Equal(t, 2, s.ServerCount)
	}

	after, err := h.store.ListLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	resp := h.do(http.MethodGet, "/api/servers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	after, err = h.store.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, "Dados de 2 servidor(es) carregados do Discord", after[len(after)-1].Description)
}

func TestBot_SetToken(t *testing.T) {
	token := strings.Repeat("x", 60)

	t.Run("requires a session", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		resp := h.do(http.MethodPost, "/api/bot/token", map[string]any{"botToken": token})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("short token fails validation", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		resp := h.do(http.MethodPost, "/api/bot/token", map[string]any{"botToken": "short"}, h.login(ownerID))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, utils.CodeValidation, errorCode(t, resp))
	})

	t.Run("rejected by discord", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		resp := h.do(http.MethodPost, "/api/bot/token", map[string]any{"botToken": token}, h.login(ownerID))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, utils.CodeInvalidToken, errorCode(t, resp))

		_, set := h.registry.Owner()
		assert.False(t, set)
	})

	t.Run("accepted token establishes ownership", func(t *testing.T) {
		h := newHarness(t, harnessOptions{discord: func(m *mock.MockClient) {
			m.EXPECT().ValidateToken(gomock.Any(), token).
				Return(&discord.Application{ID: "555", Name: "OrbitalBot", OwnerID: ownerID}, nil)
			m.EXPECT().SetToken(token)
		}})
		user := h.login("111")

		resp := h.do(http.MethodPost, "/api/bot/token", map[string]any{"botToken": token, "languages": []string{"go", "rust"}}, user)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		result := decode[bot.Result](t, resp)
		assert.Equal(t, ownerID, result.OwnerID)
		require.Len(t, result.Languages, 2)
		assert.Equal(t, "GO", result.Languages[0].Badge)

		owner, set := h.registry.Owner()
		assert.True(t, set)
		assert.Equal(t, ownerID, owner)

		resp = h.do(http.MethodPost, "/api/bot/token", map[string]any{"botToken": token}, user)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "only the owner may replace the token")
	})
}

func TestBot_Languages(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.registry.SetOwner(ownerID)

	resp := h.do(http.MethodPost, "/api/bot/languages", map[string]any{"languages": []string{"Python", "cobol", "go"}}, h.login(ownerID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[models.LanguagesResponse](t, h.do(http.MethodGet, "/api/bot/languages", nil))
	require.Len(t, got.Languages, 2)
	assert.Equal(t, "Python", got.Languages[0].Language)
	assert.Equal(t, "GO", got.Languages[1].Badge)
}

func TestUser_Identity(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	anon := decode[bot.User](t, h.do(http.MethodGet, "/api/user", nil))
	assert.Equal(t, bot.Placeholder, anon)

	me := decode[bot.User](t, h.do(http.MethodGet, "/api/user", nil, h.login("42")))
	assert.Equal(t, "42", me.ID)
	assert.Equal(t, "user-42", me.DisplayName)
}

func TestAuth_MeAndLogout(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp := h.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := h.login("42")
	resp = h.do(http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", decode[bot.User](t, resp).ID)

	resp = h.do(http.MethodGet, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{"success": true}, decode[map[string]bool](t, resp))

	resp = h.do(http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "logout without a session still succeeds")
}

func TestAuth_ProviderErrorKeepsSession(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	cookie := h.login("42")

	resp := h.do(http.MethodGet, "/api/auth/callback?error=access_denied", nil, cookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?error=provider_error", resp.Header.Get("Location"))
	assert.Nil(t, findCookie(resp, cookieName))

	resp = h.do(http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_CallbackFailures(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp := h.do(http.MethodGet, "/api/auth/callback", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?error=no_code", resp.Header.Get("Location"))

	resp = h.do(http.MethodGet, "/api/auth/callback?code=abc&state=forged", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?error=invalid_state", resp.Header.Get("Location"))
}

func fakeDiscordOAuth(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
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
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           ownerID,
			"username":     "owner",
			"global_name":  "The Owner",
			"avatar":       nil,
			"flags":        0,
			"public_flags": 1 << 22,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuth_FullLogin(t *testing.T) {
	fake := fakeDiscordOAuth(t)
	h := newHarness(t, harnessOptions{config: func(c *config.Config) {
		c.OAuth.AuthURL = fake.URL + "/oauth2/authorize"
		c.OAuth.TokenURL = fake.URL + "/api/oauth2/token"
		c.OAuth.APIBase = fake.URL + "/api"
	}})

	resp := h.do(http.MethodGet, "/api/auth/discord", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, fake.URL+"/oauth2/authorize", location.Scheme+"://"+location.Host+location.Path)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "http://example.com/api/auth/callback", location.Query().Get("redirect_uri"))

	stateCookie := findCookie(resp, webservices.StateCookieName)
	require.NotNil(t, stateCookie)

	resp = h.do(http.MethodGet, "/api/auth/callback?code=abc&state="+url.QueryEscape(state), nil, stateCookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	session := findCookie(resp, cookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	me := decode[bot.User](t, h.do(http.MethodGet, "/api/auth/me", nil, session))
	assert.Equal(t, ownerID, me.ID)
	assert.Equal(t, "The Owner", me.DisplayName)
	assert.True(t, me.IsDeveloper)
}

func TestAuth_RateLimitsFailedAttempts(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	for i := 0; i < 5; i++ {
		resp := h.do(http.MethodGet, "/api/auth/callback", nil)
		require.Equal(t, http.StatusFound, resp.StatusCode, "attempt %d", i)
	}

	resp := h.do(http.MethodGet, "/api/auth/callback", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, utils.CodeRateLimited, errorCode(t, resp))

	resp = h.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "other auth routes are not limited")
}

func TestPrivateReads(t *testing.T) {
	h := newHarness(t, harnessOptions{config: func(c *config.Config) {
		c.Web.PublicReads = false
	}})

	resp := h.do(http.MethodGet, "/api/commands", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(http.MethodGet, "/api/commands", nil, h.login("42"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	resp := h.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[models.HealthCheck](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "degraded", health.Components["discord"].Status)
	assert.Equal(t, "healthy", health.Components["sessions"].Status)

	h.do(http.MethodGet, "/api/servers", nil)
	resp = h.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "dashboard_http_requests_total")
	assert.Contains(t, string(raw), `dashboard_upstream_fallbacks_total{resource="servers"}`)

	resp = h.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, utils.CodeNotFound, errorCode(t, resp))

	resp = h.do(http.MethodGet, "/api/servers", nil)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("RateLimit-Limit"))
}
