package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
	"github.com/orbitalbot/dashboard/internal/domain/settings"
	"github.com/orbitalbot/dashboard/internal/domain/stats"
)

// Store keeps all dashboard data in process memory. Every read returns copies,
// so callers never share state with the store. Contents are lost on restart.
type Store struct {
	mu        sync.RWMutex
	commands  []commands.Command
	servers   []servers.Server
	logs      []activity.Log
	settings  settings.Settings
	languages []string
	baseline  []stats.Baseline
}

func NewStore() *Store {
	return &Store{
		settings: settings.Defaults(),
	}
}

// Commands

func (s *Store) ListCommands(ctx context.Context) ([]commands.Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]commands.Command, len(s.commands))
	for i, c := range s.commands {
		out[i] = copyCommand(c)
	}
	return out, nil
}

// SaveCommand inserts cmd, or overwrites the command with the same id.
func (s *Store) SaveCommand(ctx context.Context, cmd commands.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd = copyCommand(cmd)
	if i := s.commandIndex(cmd.ID); i >= 0 {
		s.commands[i] = cmd
		return nil
	}
	s.commands = append(s.commands, cmd)
	return nil
}

func (s *Store) UpdateCommand(ctx context.Context, id string, fn func(*commands.Command)) (commands.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.commandIndex(id)
	if i < 0 {
		return commands.Command{}, commands.ErrNotFound
	}
	cmd := copyCommand(s.commands[i])
	fn(&cmd)
	cmd.ID = id
	s.commands[i] = copyCommand(cmd)
	return cmd, nil
}

func (s *Store) DeleteCommand(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.commandIndex(id)
	if i < 0 {
		return false, nil
	}
	s.commands = slices.Delete(s.commands, i, i+1)
	return true, nil
}

func (s *Store) ReconcileCommands(ctx context.Context, fn func([]commands.Command) []commands.Command) ([]commands.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make([]commands.Command, len(s.commands))
	for i, c := range s.commands {
		current[i] = copyCommand(c)
	}

	next := fn(current)
	s.commands = make([]commands.Command, len(next))
	out := make([]commands.Command, len(next))
	for i, c := range next {
		s.commands[i] = copyCommand(c)
		out[i] = copyCommand(c)
	}
	return out, nil
}

func (s *Store) commandIndex(id string) int {
	return slices.IndexFunc(s.commands, func(c commands.Command) bool { return c.ID == id })
}

func copyCommand(c commands.Command) commands.Command {
	if c.LastUsed != nil {
		t := *c.LastUsed
		c.LastUsed = &t
	}
	return c
}

// Servers

func (s *Store) ListServers(ctx context.Context) ([]servers.Server, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.servers), nil
}

func (s *Store) ReplaceServers(ctx context.Context, list []servers.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers = slices.Clone(list)
	return nil
}

// Activity

func (s *Store) AppendLog(ctx context.Context, log activity.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return nil
}

func (s *Store) ListLogs(ctx context.Context) ([]activity.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.logs), nil
}

// Settings

func (s *Store) GetSettings(ctx context.Context) (settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, fn func(settings.Settings) settings.Settings) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = fn(s.settings)
	return s.settings, nil
}

// Languages

func (s *Store) GetLanguages(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.languages), nil
}

func (s *Store) SetLanguages(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.languages = slices.Clone(keys)
	return nil
}

// Chart

func (s *Store) ChartBaseline(ctx context.Context) ([]stats.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.baseline), nil
}
