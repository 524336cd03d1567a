package servers

import (
	"context"

	"github.com/orbitalbot/dashboard/internal/gateways/discord"
)

type Repository interface {
	ListServers(ctx context.Context) ([]Server, error)
	ReplaceServers(ctx context.Context, servers []Server) error
}

// Source lists the guilds the bot is in.
type Source interface {
	Guilds(ctx context.Context) ([]discord.Guild, error)
}
