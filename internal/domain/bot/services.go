package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/gateways/discord"
	"github.com/orbitalbot/dashboard/internal/logger"
)

// MinTokenLength rejects obviously truncated tokens before asking Discord.
const MinTokenLength = 50

var (
	ErrInvalidToken  = errors.New("invalid bot token")
	ErrNotConfigured = errors.New("bot not configured")
	ErrNotOwner      = errors.New("only the bot owner can replace the token")
)

type Service struct {
	registry  *Registry
	gateway   Gateway
	languages LanguageRepository
	audit     activity.Recorder
}

func NewService(registry *Registry, gateway Gateway, languages LanguageRepository, audit activity.Recorder) *Service {
	return &Service{
		registry:  registry,
		gateway:   gateway,
		languages: languages,
		audit:     audit,
	}
}

func (s *Service) Owner() (string, bool) {
	return s.registry.Owner()
}

func (s *Service) Status() Status {
	owner, ok := s.registry.Owner()
	return Status{Configured: ok && s.gateway.Configured(), OwnerID: owner}
}

// Bootstrap validates a token supplied through configuration at startup and records
// its owner. Nothing is audited.
func (s *Service) Bootstrap(ctx context.Context, token string) error {
	app, err := s.validate(ctx, token)
	if err != nil {
		return err
	}
	s.gateway.SetToken(token)
	s.registry.SetOwner(app.OwnerID)
	logger.LogSystem("Bot token loaded from configuration",
		slog.String("application_id", app.ID),
		slog.String("owner_id", app.OwnerID))
	return nil
}

// SetToken validates token against Discord and, when accepted, makes it the active
// credential and its application owner the dashboard owner. A rejected token changes
// nothing. Once an owner exists only that owner may replace the token.
func (s *Service) SetToken(ctx context.Context, actor activity.Actor, token string, languages []string) (Result, error) {
	if owner, ok := s.registry.Owner(); ok && owner != actor.UserID {
		return Result{}, ErrNotOwner
	}

	app, err := s.validate(ctx, token)
	if err != nil {
		return Result{}, err
	}

	s.gateway.SetToken(token)
	s.registry.SetOwner(app.OwnerID)

	result := Result{
		ApplicationID: app.ID,
		Name:          app.Name,
		OwnerID:       app.OwnerID,
	}
	if languages != nil {
		result.Languages, err = s.storeLanguages(ctx, languages)
	} else {
		result.Languages, err = s.Languages(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	if _, err := s.audit.Record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: "Token do bot configurado",
		Details:     fmt.Sprintf("Aplicação: %s", app.Name),
		Actor:       &actor,
	}); err != nil {
		logger.LogError("Failed to record token audit entry", err)
	}

	slog.Info("Bot token configured",
		slog.String("type", "auth"),
		slog.String("application_id", app.ID),
		slog.String("owner_id", app.OwnerID),
		slog.String("by", actor.UserID))
	return result, nil
}

func (s *Service) validate(ctx context.Context, token string) (*discord.Application, error) {
	token = strings.TrimSpace(token)
	if len(token) < MinTokenLength {
		return nil, fmt.Errorf("%w: token too short", ErrInvalidToken)
	}

	app, err := s.gateway.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if _, err := snowflake.Parse(app.OwnerID); err != nil {
		return nil, fmt.Errorf("%w: owner id %q: %w", ErrInvalidToken, app.OwnerID, err)
	}
	return app, nil
}

// Identity picks the header identity: the logged in user, else the bot itself,
// else a placeholder.
func (s *Service) Identity(ctx context.Context, session *User) User {
	if session != nil {
		return *session
	}
	if !s.gateway.Configured() {
		return Placeholder
	}

	id, err := s.gateway.BotIdentity(ctx)
	if err != nil {
		return Placeholder
	}
	return User{
		ID:          id.ID,
		Username:    id.Username,
		DisplayName: id.DisplayName,
		Avatar:      id.Avatar,
	}
}

func (s *Service) Languages(ctx context.Context) ([]Language, error) {
	keys, err := s.languages.GetLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load languages: %w", err)
	}
	langs, _ := Badges(keys)
	return langs, nil
}

// SetLanguages replaces the badge list. Unknown keys are dropped before storing.
func (s *Service) SetLanguages(ctx context.Context, actor *activity.Actor, keys []string) ([]Language, error) {
	langs, err := s.storeLanguages(ctx, keys)
	if err != nil {
		return nil, err
	}

	badges := make([]string, 0, len(langs))
	for _, l := range langs {
		badges = append(badges, l.Badge)
	}
	if _, err := s.audit.Record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: "Linguagens do bot atualizadas",
		Details:     strings.Join(badges, ", "),
		Actor:       actor,
	}); err != nil {
		logger.LogError("Failed to record languages audit entry", err)
	}
	return langs, nil
}

func (s *Service) storeLanguages(ctx context.Context, keys []string) ([]Language, error) {
	langs, clean := Badges(keys)
	if err := s.languages.SetLanguages(ctx, clean); err != nil {
		return nil, fmt.Errorf("failed to store languages: %w", err)
	}
	return langs, nil
}
