package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/orbitalbot/dashboard/internal/logger"
)

//go:generate mockgen -package=mock -destination=mock/client.go github.com/orbitalbot/dashboard/internal/gateways/discord Client

// Client is everything the dashboard asks of Discord. Every method makes at most one
// attempt and returns an *UpstreamError on failure.
type Client interface {
	Guilds(ctx context.Context) ([]Guild, error)
	Commands(ctx context.Context) ([]CommandDefinition, error)
	BotIdentity(ctx context.Context) (*Identity, error)
	ValidateToken(ctx context.Context, token string) (*Application, error)
	SetToken(token string)
	Configured() bool
}

// Config holds settings for the REST client.
type Config struct {
	Token   string
	Timeout time.Duration
}

// RestClient implements Client on top of disgo's REST package.
type RestClient struct {
	mu      sync.RWMutex
	token   string
	rest    rest.Rest
	client  rest.Client
	app     *discord.Application
	timeout time.Duration
}

// NewRestClient creates a client. An empty token is allowed: calls fail with
// ErrNotConfigured until SetToken is called.
func NewRestClient(cfg Config) *RestClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &RestClient{timeout: timeout}
	if cfg.Token != "" {
		c.SetToken(cfg.Token)
	}
	return c
}

// SetToken swaps the credential used for every later call.
func (c *RestClient) SetToken(token string) {
	client := rest.NewClient(token)

	c.mu.Lock()
	old := c.client
	c.token = token
	c.client = client
	c.rest = rest.New(client)
	c.app = nil
	c.mu.Unlock()

	if old != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		old.Close(ctx)
	}
}

func (c *RestClient) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Close releases the underlying HTTP resources.
func (c *RestClient) Close(ctx context.Context) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client != nil {
		client.Close(ctx)
	}
}

func (c *RestClient) current() (rest.Rest, *discord.Application, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rest == nil {
		return nil, nil, ErrNotConfigured
	}
	return c.rest, c.app, nil
}

func (c *RestClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// application returns the cached application info, fetching it once per token.
func (c *RestClient) application(ctx context.Context, r rest.Rest, cached *discord.Application) (*discord.Application, error) {
	if cached != nil {
		return cached, nil
	}
	app, err := r.GetBotApplicationInfo(rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.rest == r {
		c.app = app
	}
	c.mu.Unlock()
	return app, nil
}

func (c *RestClient) Guilds(ctx context.Context) ([]Guild, error) {
	start := time.Now()
	guilds, err := c.guilds(ctx)
	logger.LogUpstream("guilds", time.Since(start), err)
	return guilds, upstream("guilds", err)
}

func (c *RestClient) guilds(ctx context.Context) ([]Guild, error) {
	r, _, err := c.current()
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := r.GetCurrentUserGuilds("", 0, 0, 200, true, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyResult
	}

	guilds := make([]Guild, 0, len(raw))
	for _, g := range raw {
		guilds = append(guilds, toGuild(g))
	}
	return guilds, nil
}

func (c *RestClient) Commands(ctx context.Context) ([]CommandDefinition, error) {
	start := time.Now()
	defs, err := c.commands(ctx)
	logger.LogUpstream("commands", time.Since(start), err)
	return defs, upstream("commands", err)
}

func (c *RestClient) commands(ctx context.Context) ([]CommandDefinition, error) {
	r, cached, err := c.current()
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	app, err := c.application(ctx, r, cached)
	if err != nil {
		return nil, err
	}
	raw, err := r.GetGlobalCommands(app.ID, false, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyResult
	}

	defs := make([]CommandDefinition, 0, len(raw))
	for _, cmd := range raw {
		defs = append(defs, toDefinition(cmd))
	}
	return defs, nil
}

func (c *RestClient) BotIdentity(ctx context.Context) (*Identity, error) {
	start := time.Now()
	id, err := c.botIdentity(ctx)
	logger.LogUpstream("bot_identity", time.Since(start), err)
	return id, upstream("bot_identity", err)
}

func (c *RestClient) botIdentity(ctx context.Context) (*Identity, error) {
	r, cached, err := c.current()
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	app, err := c.application(ctx, r, cached)
	if err != nil {
		return nil, err
	}
	// The bot user shares its id with the application.
	user, err := r.GetUser(app.ID, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	return toIdentity(*user), nil
}

// ValidateToken opens a throwaway client with the candidate token and reads back the
// application owner. The active credential is left untouched.
func (c *RestClient) ValidateToken(ctx context.Context, token string) (*Application, error) {
	start := time.Now()
	app, err := c.validateToken(ctx, token)
	logger.LogUpstream("validate_token", time.Since(start), err)
	return app, upstream("validate_token", err)
}

func (c *RestClient) validateToken(ctx context.Context, token string) (*Application, error) {
	if token == "" {
		return nil, ErrNotConfigured
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client := rest.NewClient(token)
	defer client.Close(ctx)

	app, err := rest.New(client).GetBotApplicationInfo(rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	result := toApplication(*app)
	if result.OwnerID == "" {
		return nil, errors.New("application has no owner")
	}
	slog.Debug("Validated bot token",
		slog.String("type", "upstream"),
		slog.String("application_id", result.ID),
		slog.String("owner_id", result.OwnerID))
	return result, nil
}

func toGuild(g discord.OAuth2Guild) Guild {
	return Guild{
		ID:          g.ID.String(),
		Name:        g.Name,
		IconURL:     iconURL(g.ID, g.Icon),
		MemberCount: g.ApproximateMemberCount,
	}
}

func iconURL(id snowflake.ID, hash *string) *string {
	if hash == nil || *hash == "" {
		return nil
	}
	url := fmt.Sprintf("https://cdn.discordapp.com/icons/%s/%s.png", id, *hash)
	return &url
}

func toDefinition(cmd discord.ApplicationCommand) CommandDefinition {
	def := CommandDefinition{
		ID:   cmd.ID().String(),
		Name: cmd.Name(),
	}
	switch v := cmd.(type) {
	case discord.SlashCommand:
		def.Description = v.Description
	case *discord.SlashCommand:
		def.Description = v.Description
	case discord.UserCommand, *discord.UserCommand, discord.MessageCommand, *discord.MessageCommand:
		def.Category = "Contexto"
	}
	return def
}

func toApplication(app discord.Application) *Application {
	result := &Application{
		ID:   app.ID.String(),
		Name: app.Name,
	}
	switch {
	case app.Team != nil && app.Team.OwnerID != 0:
		result.OwnerID = app.Team.OwnerID.String()
	case app.Owner != nil:
		result.OwnerID = app.Owner.ID.String()
	}
	return result
}

func toIdentity(u discord.User) *Identity {
	display := u.Username
	if u.GlobalName != nil && *u.GlobalName != "" {
		display = *u.GlobalName
	}
	return &Identity{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: display,
		Avatar:      u.Avatar,
	}
}
