package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/common/ids"
)

type Service struct {
	repository Repository
	clock      clock.Clock
	ids        ids.Generator
}

func NewService(repository Repository, clk clock.Clock, gen ids.Generator) *Service {
	return &Service{
		repository: repository,
		clock:      clk,
		ids:        gen,
	}
}

// Record stamps the entry with an id and the current time and appends it.
func (s *Service) Record(ctx context.Context, entry Entry) (Log, error) {
	log := Log{
		ID:          s.ids.NewSortableID(),
		Timestamp:   s.clock.Now(),
		Type:        entry.Type,
		Description: entry.Description,
		ServerID:    optional(entry.ServerID),
		ServerName:  optional(entry.ServerName),
		Details:     optional(entry.Details),
	}
	if entry.Actor != nil {
		log.UserID = optional(entry.Actor.UserID)
		log.Username = optional(entry.Actor.Username)
	}

	if err := s.repository.AppendLog(ctx, log); err != nil {
		return Log{}, fmt.Errorf("failed to append activity log: %w", err)
	}
	return log, nil
}

// List returns matching entries, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Log, error) {
	logs, err := s.repository.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	out := make([]Log, 0, len(logs))
	for _, l := range logs {
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		if !filter.Since.IsZero() && l.Timestamp.Before(filter.Since) {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CountSince counts entries of type t at or after since.
func (s *Service) CountSince(ctx context.Context, t Type, since time.Time) (int, error) {
	logs, err := s.List(ctx, Filter{Type: t, Since: since})
	if err != nil {
		return 0, err
	}
	return len(logs), nil
}

// CountByDay buckets entries of type t by UTC calendar day (YYYY-MM-DD).
func (s *Service) CountByDay(ctx context.Context, t Type, since time.Time) (map[string]int, error) {
	logs, err := s.List(ctx, Filter{Type: t, Since: since})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, l := range logs {
		counts[l.Timestamp.UTC().Format(time.DateOnly)]++
	}
	return counts, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
