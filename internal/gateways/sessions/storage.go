package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown and expired session ids.
var ErrNotFound = errors.New("session not found")

// Storage keeps encoded session records keyed by session id.
type Storage interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
