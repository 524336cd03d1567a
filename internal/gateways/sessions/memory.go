package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/orbitalbot/dashboard/internal/common/clock"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStorage keeps sessions in process memory. Expired records are dropped when
// read and by Prune.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   clock.Clock
}

func NewMemory(clk clock.Clock) *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]memoryEntry),
		clock:   clk,
	}
}

func (m *MemoryStorage) Get(ctx context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.data...), nil
}

func (m *MemoryStorage) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memoryEntry{
		data:      append([]byte(nil), data...),
		expiresAt: m.clock.Now().Add(ttl),
	}
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStorage) Ping(context.Context) error {
	return nil
}

// Prune removes expired records and returns how many were removed.
func (m *MemoryStorage) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	n := 0
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored records, expired or not.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RunJanitor prunes every interval until ctx is done.
func (m *MemoryStorage) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Prune(); n > 0 {
				slog.Debug("Pruned expired sessions", slog.String("type", "auth"), slog.Int("count", n))
			}
		}
	}
}
