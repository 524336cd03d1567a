package servers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/gateways/discord"
	"github.com/orbitalbot/dashboard/internal/logger"
)

type Service struct {
	repository Repository
	source     Source
	audit      activity.Recorder
	clock      clock.Clock
}

func NewService(repository Repository, source Source, audit activity.Recorder, clk clock.Clock) *Service {
	return &Service{
		repository: repository,
		source:     source,
		audit:      audit,
		clock:      clk,
	}
}

// List returns the live guild list, replacing the stored one, or the stored list
// when Discord is unavailable. live tells which one the caller got. A live list is
// recorded in the activity log.
func (s *Service) List(ctx context.Context) ([]Server, bool, error) {
	list, live, err := s.Fetch(ctx)
	if err != nil || !live {
		return list, live, err
	}

	if _, err := s.audit.Record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: fmt.Sprintf("Dados de %d servidor(es) carregados do Discord", len(list)),
	}); err != nil {
		logger.LogError("Failed to record server sync entry", err, slog.Int("servers", len(list)))
	}
	return list, true, nil
}

// Fetch is List without the activity entry, for readers that poll.
func (s *Service) Fetch(ctx context.Context) (list []Server, live bool, err error) {
	guilds, err := s.source.Guilds(ctx)
	if err != nil {
		if !discord.IsUpstream(err) {
			return nil, false, err
		}
		list, err = s.repository.ListServers(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list servers: %w", err)
		}
		return list, false, nil
	}

	previous, err := s.repository.ListServers(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list servers: %w", err)
	}
	list = s.fromGuilds(guilds, previous)

	if err := s.repository.ReplaceServers(ctx, list); err != nil {
		return nil, false, fmt.Errorf("failed to store servers: %w", err)
	}
	return list, true, nil
}

// fromGuilds converts guilds to entries. Discord does not report when the bot joined
// through this endpoint, so a known guild keeps its first-seen time.
func (s *Service) fromGuilds(guilds []discord.Guild, previous []Server) []Server {
	joined := make(map[string]Server, len(previous))
	for _, p := range previous {
		joined[p.ID] = p
	}

	now := s.clock.Now()
	list := make([]Server, 0, len(guilds))
	for _, g := range guilds {
		entry := Server{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.IconURL,
			MemberCount: g.MemberCount,
			Status:      StatusOnline,
			JoinedAt:    now,
		}
		switch {
		case g.JoinedAt != nil:
			entry.JoinedAt = *g.JoinedAt
		case joined[g.ID].ID != "":
			entry.JoinedAt = joined[g.ID].JoinedAt
		}
		list = append(list, entry)
	}
	return list
}

// Totals sums servers and members over a list.
func Totals(list []Server) (servers, members, online int) {
	for _, s := range list {
		members += s.MemberCount
		if s.Status == StatusOnline {
			online++
		}
	}
	return len(list), members, online
}
