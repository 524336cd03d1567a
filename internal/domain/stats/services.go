package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
)

type Service struct {
	repository Repository
	servers    ServerLister
	activity   ActivityCounter
	clock      clock.Clock
	startedAt  time.Time
}

func NewService(repository Repository, servers ServerLister, activity ActivityCounter, clk clock.Clock) *Service {
	return &Service{
		repository: repository,
		servers:    servers,
		activity:   activity,
		clock:      clk,
		startedAt:  clk.Now(),
	}
}

// Stats aggregates the dashboard counters. Servers come live when Discord answers;
// live reports whether they did.
func (s *Service) Stats(ctx context.Context) (Stats, bool, error) {
	now := s.clock.Now()
	midnight := startOfDay(now)

	var (
		list  []servers.Server
		live  bool
		today int
		chart []ChartPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, live, err = s.servers.Fetch(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.activity.CountSince(gctx, activity.TypeCommand, midnight)
		return err
	})
	g.Go(func() error {
		var err error
		chart, err = s.chart(gctx, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, false, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	serverCount, members, online := servers.Totals(list)
	messages := 0
	for _, p := range chart {
		messages += p.Messages
	}

	return Stats{
		ServerCount:       serverCount,
		UserCount:         members,
		Uptime:            int64(now.Sub(s.startedAt).Seconds()),
		CommandsToday:     today,
		MessagesProcessed: messages,
		ActiveChannels:    online,
	}, live, nil
}

// Chart returns one point per UTC day for the last ChartDays days, oldest first.
func (s *Service) Chart(ctx context.Context) ([]ChartPoint, error) {
	return s.chart(ctx, s.clock.Now())
}

func (s *Service) chart(ctx context.Context, now time.Time) ([]ChartPoint, error) {
	first := startOfDay(now).AddDate(0, 0, -(ChartDays - 1))

	baseline, err := s.repository.ChartBaseline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart baseline: %w", err)
	}
	byDay := make(map[string]Baseline, len(baseline))
	for _, b := range baseline {
		byDay[b.Day.UTC().Format(time.DateOnly)] = b
	}

	counts, err := s.activity.CountByDay(ctx, activity.TypeCommand, first)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, ChartDays)
	for i := 0; i < ChartDays; i++ {
		day := first.AddDate(0, 0, i)
		key := day.Format(time.DateOnly)
		b := byDay[key]
		points = append(points, ChartPoint{
			Date:     day.Format("02 Jan"),
			Commands: b.Commands + counts[key],
			Messages: b.Messages,
		})
	}
	return points, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
