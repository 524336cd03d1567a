package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/common/ids"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/gateways/discord"
	"github.com/orbitalbot/dashboard/internal/logger"
)

type Service struct {
	repository Repository
	source     Source
	audit      activity.Recorder
	clock      clock.Clock
	ids        ids.Generator
}

func NewService(repository Repository, source Source, audit activity.Recorder, clk clock.Clock, gen ids.Generator) *Service {
	return &Service{
		repository: repository,
		source:     source,
		audit:      audit,
		clock:      clk,
		ids:        gen,
	}
}

// Sync pulls the registered commands from Discord and merges them into the store.
// live is false when Discord could not be reached and the stored list was returned.
func (s *Service) Sync(ctx context.Context) (cmds []Command, live bool, err error) {
	external, err := s.source.Commands(ctx)
	if err != nil {
		if !discord.IsUpstream(err) {
			return nil, false, err
		}
		cmds, err = s.repository.ListCommands(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list commands: %w", err)
		}
		return cmds, false, nil
	}

	// Merging inside the store lock keeps concurrent updates and usage counts.
	var merged MergeResult
	cmds, err = s.repository.ReconcileCommands(ctx, func(local []Command) []Command {
		merged = MergeExternal(local, external)
		return merged.Commands
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to store merged commands: %w", err)
	}
	if merged.Added > 0 || merged.Removed > 0 {
		slog.Info("Synced commands from Discord",
			slog.String("type", "upstream"),
			slog.Int("total", len(cmds)),
			slog.Int("added", merged.Added),
			slog.Int("removed", merged.Removed))
	}
	return cmds, true, nil
}

// List reconciles with Discord, then sorts by category and name. A non-empty
// query keeps only names that fuzzy-match it.
func (s *Service) List(ctx context.Context, query string) ([]Command, bool, error) {
	cmds, live, err := s.Sync(ctx)
	if err != nil {
		return nil, false, err
	}
	sortCommands(cmds)
	return Search(cmds, query), live, nil
}

func sortCommands(cmds []Command) {
	sort.SliceStable(cmds, func(i, j int) bool {
		if cmds[i].Category != cmds[j].Category {
			return cmds[i].Category < cmds[j].Category
		}
		return cmds[i].Name < cmds[j].Name
	})
}

type commandNames []Command

func (c commandNames) String(i int) string { return c[i].Name }

func (c commandNames) Len() int { return len(c) }

// Search filters cmds to those whose name fuzzy-matches query, keeping their order.
func Search(cmds []Command, query string) []Command {
	query = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), "/"))
	if query == "" {
		return cmds
	}

	matched := make(map[int]struct{})
	for _, m := range fuzzy.FindFrom(strings.ToLower(query), lowerNames(cmds)) {
		matched[m.Index] = struct{}{}
	}

	out := make([]Command, 0, len(matched))
	for i, c := range cmds {
		if _, ok := matched[i]; ok {
			out = append(out, c)
		}
	}
	return out
}

func lowerNames(cmds []Command) commandNames {
	lowered := make(commandNames, len(cmds))
	for i, c := range cmds {
		c.Name = strings.ToLower(c.Name)
		lowered[i] = c
	}
	return lowered
}

func (s *Service) Create(ctx context.Context, actor *activity.Actor, in NewCommand) (Command, error) {
	cmd := Command{
		ID:          s.ids.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Enabled:     true,
	}
	if in.Enabled != nil {
		cmd.Enabled = *in.Enabled
	}

	if err := s.repository.SaveCommand(ctx, cmd); err != nil {
		return Command{}, fmt.Errorf("failed to save command: %w", err)
	}

	s.record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: fmt.Sprintf("Comando /%s criado", cmd.Name),
		Details:     fmt.Sprintf("Categoria: %s", cmd.Category),
		Actor:       actor,
	})
	return cmd, nil
}

func (s *Service) Update(ctx context.Context, actor *activity.Actor, id string, patch Patch) (Command, error) {
	cmd, err := s.repository.UpdateCommand(ctx, id, patch.Apply)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Command{}, err
		}
		return Command{}, fmt.Errorf("failed to update command: %w", err)
	}

	details := "Desativado"
	if cmd.Enabled {
		details = "Ativado"
	}
	s.record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: fmt.Sprintf("Comando /%s atualizado", cmd.Name),
		Details:     details,
		Actor:       actor,
	})
	return cmd, nil
}

// Delete removes the command. Deleting an unknown id is not an error and is not audited.
func (s *Service) Delete(ctx context.Context, actor *activity.Actor, id string) (bool, error) {
	var name string
	cmds, err := s.repository.ListCommands(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list commands: %w", err)
	}
	for _, c := range cmds {
		if c.ID == id {
			name = c.Name
			break
		}
	}

	deleted, err := s.repository.DeleteCommand(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete command: %w", err)
	}
	if !deleted {
		return false, nil
	}

	if name == "" {
		name = id
	}
	s.record(ctx, activity.Entry{
		Type:        activity.TypeConfig,
		Description: fmt.Sprintf("Comando /%s removido", name),
		Actor:       actor,
	})
	return true, nil
}

// Usage describes one execution reported by the bot.
type Usage struct {
	ServerID   string
	ServerName string
	UserID     string
	Username   string
}

// RecordUsage bumps the usage counter and last-use time and writes a command entry.
// Disabled commands are still counted; the bot decides whether to run them.
func (s *Service) RecordUsage(ctx context.Context, id string, usage Usage) (Command, error) {
	at := s.clock.Now()
	cmd, err := s.repository.UpdateCommand(ctx, id, func(c *Command) {
		c.UsageCount++
		used := at
		c.LastUsed = &used
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Command{}, err
		}
		return Command{}, fmt.Errorf("failed to record usage: %w", err)
	}

	entry := activity.Entry{
		Type:        activity.TypeCommand,
		Description: fmt.Sprintf("Comando /%s executado", cmd.Name),
		ServerID:    usage.ServerID,
		ServerName:  usage.ServerName,
	}
	if usage.UserID != "" {
		entry.Actor = &activity.Actor{UserID: usage.UserID, Username: usage.Username}
	}
	s.record(ctx, entry)
	return cmd, nil
}

// record writes an audit entry. The mutation already happened, so a failure is only logged.
func (s *Service) record(ctx context.Context, entry activity.Entry) {
	if _, err := s.audit.Record(ctx, entry); err != nil {
		logger.LogError("Failed to record command audit entry", err, slog.String("description", entry.Description))
	}
}
