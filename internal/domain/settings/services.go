package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/logger"
)

var ErrInvalid = errors.New("invalid settings")

type Service struct {
	repository Repository
	audit      activity.Recorder
}

func NewService(repository Repository, audit activity.Recorder) *Service {
	return &Service{
		repository: repository,
		audit:      audit,
	}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repository.GetSettings(ctx)
}

// Update merges p into the stored settings. Fields absent from p keep their values.
func (s *Service) Update(ctx context.Context, actor *activity.Actor, p Patch) (Settings, error) {
	if err := p.Validate(); err != nil {
		return Settings{}, err
	}

	updated, err := s.repository.UpdateSettings(ctx, func(cur Settings) Settings {
		return Merge(cur, p)
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	if _, err := s.audit.Record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: "Configurações do bot atualizadas",
		Details:     fmt.Sprintf("Prefixo: %s, Status: %s", updated.Prefix, updated.Status),
		Actor:       actor,
	}); err != nil {
		logger.LogError("Failed to record settings audit entry", err, slog.String("prefix", updated.Prefix))
	}
	return updated, nil
}

// Validate checks enum fields and the prefix.
func (p Patch) Validate() error {
	if p.Prefix != nil && *p.Prefix == "" {
		return fmt.Errorf("%w: prefix must not be empty", ErrInvalid)
	}
	if p.Status != nil && !slices.Contains(Statuses, *p.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, *p.Status)
	}
	if p.ActivityType != nil && !slices.Contains(ActivityTypes, *p.ActivityType) {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalid, *p.ActivityType)
	}
	return nil
}
