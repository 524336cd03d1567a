package bot

import (
	"context"

	"github.com/orbitalbot/dashboard/internal/gateways/discord"
)

// LanguageRepository stores the language keys shown as badges.
type LanguageRepository interface {
	GetLanguages(ctx context.Context) ([]string, error)
	SetLanguages(ctx context.Context, keys []string) error
}

// Gateway is the part of the Discord client that manages the bot credential.
type Gateway interface {
	ValidateToken(ctx context.Context, token string) (*discord.Application, error)
	SetToken(token string)
	Configured() bool
	BotIdentity(ctx context.Context) (*discord.Identity, error)
}
