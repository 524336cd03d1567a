package discord

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable matches every failure of a Discord call, whatever the cause.
	ErrUnavailable = errors.New("discord unavailable")
	// ErrNotConfigured is the cause when no bot token has been set yet.
	ErrNotConfigured = errors.New("bot token not configured")
	// ErrEmptyResult is the cause when Discord answered with nothing usable.
	ErrEmptyResult = errors.New("empty result")
)

// UpstreamError wraps a failed Discord call. Callers pick their fallback with errors.As
// or errors.Is(err, ErrUnavailable); anything that is not an UpstreamError is a local bug.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("discord %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUnavailable
}

func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsUpstream reports whether err came from a Discord call.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// Guild is a guild the bot is a member of.
type Guild struct {
	ID          string
	Name        string
	IconURL     *string
	MemberCount int
	JoinedAt    *time.Time
}

// CommandDefinition is a registered application command. Discord knows nothing about
// usage or enabled state, so only identity and text come from here.
type CommandDefinition struct {
	ID          string
	Name        string
	Description string
	Category    string
}

// Application is the application metadata behind a bot token.
type Application struct {
	ID      string
	Name    string
	OwnerID string
}

// Identity is the bot's own user.
type Identity struct {
	ID          string
	Username    string
	DisplayName string
	Avatar      *string
}
