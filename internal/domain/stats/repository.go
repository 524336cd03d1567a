package stats

import (
	"context"
	"time"

	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
)

type Repository interface {
	ChartBaseline(ctx context.Context) ([]Baseline, error)
}

// ServerLister is satisfied by servers.Service. Fetch must not write activity
// entries, since stats are polled.
type ServerLister interface {
	Fetch(ctx context.Context) ([]servers.Server, bool, error)
}

// ActivityCounter is satisfied by activity.Service.
type ActivityCounter interface {
	CountSince(ctx context.Context, t activity.Type, since time.Time) (int, error)
	CountByDay(ctx context.Context, t activity.Type, since time.Time) (map[string]int, error)
}
