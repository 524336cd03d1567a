package settings

import "context"

type Repository interface {
	GetSettings(ctx context.Context) (Settings, error)
	// UpdateSettings applies fn to the stored settings atomically and returns the result.
	UpdateSettings(ctx context.Context, fn func(Settings) Settings) (Settings, error)
}
