package logger

import (
	"log/slog"
	"time"
)

// LogSystem logs lifecycle events.
func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

// LogError logs a failure with its error attached.
func LogError(msg string, err error, attrs ...any) {
	base := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(base, attrs...)...)
}

// LogUpstream records the outcome of a Discord API call.
func LogUpstream(op string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "upstream"),
		slog.String("op", op),
		slog.Duration("took", duration),
	}
	if err != nil {
		slog.Warn("Discord call failed", append(attrs, slog.Any("error", err))...)
		return
	}
	slog.Debug("Discord call succeeded", attrs...)
}
