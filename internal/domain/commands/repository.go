package commands

import (
	"context"
	"errors"

	"github.com/orbitalbot/dashboard/internal/gateways/discord"
)

var ErrNotFound = errors.New("command not found")

type Repository interface {
	ListCommands(ctx context.Context) ([]Command, error)
	SaveCommand(ctx context.Context, cmd Command) error
	// UpdateCommand runs fn on the stored command under the store lock and saves the
	// result. It returns ErrNotFound when id is unknown.
	UpdateCommand(ctx context.Context, id string, fn func(*Command)) (Command, error)
	DeleteCommand(ctx context.Context, id string) (bool, error)
	// ReconcileCommands replaces the stored list with fn's result. fn gets the current
	// list and runs under the same lock as UpdateCommand.
	ReconcileCommands(ctx context.Context, fn func([]Command) []Command) ([]Command, error)
}

// Source lists the commands registered on Discord.
type Source interface {
	Commands(ctx context.Context) ([]discord.CommandDefinition, error)
}
