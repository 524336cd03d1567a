package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeSystem   LogType = "SYS"
	TypeHTTP     LogType = "HTTP"
	TypeAuth     LogType = "AUTH"
	TypeUpstream LogType = "UPSTREAM"
	TypeError    LogType = "ERR"
)

// CustomHandler is a console slog.Handler with colored levels and a short type tag.
type CustomHandler struct {
	name   string
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewHandler builds a handler writing to w. A nil writer means stdout.
func NewHandler(name string, w io.Writer, level slog.Leveler) *CustomHandler {
	if w == nil {
		w = os.Stdout
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		name:  name,
		level: level,
		out:   w,
		mu:    &sync.Mutex{},
		color: w == os.Stdout || w == os.Stderr,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	message := r.Message
	if r.Level >= slog.LevelError {
		if loc := errorLocation(attrs); loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		}
	}

	var sb strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if isInternalAttr(a.Key) {
			continue
		}
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, a.Value.Resolve())
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := fmt.Sprintf("[%s] [%s] [%s] [%s] %s%s",
		h.name, ts.Format("15:04:05"), levelText, logType(attrs), message, sb.String())
	if h.color {
		line = fmt.Sprintf("%s[%s] [%s] [%s%s%s] [%s] %s%s%s",
			colorWhite, h.name, ts.Format("15:04:05"), levelColor, levelText, colorWhite,
			logType(attrs), message, sb.String(), colorReset)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func logType(attrs []slog.Attr) LogType {
	for _, a := range attrs {
		if a.Key != "type" {
			continue
		}
		switch a.Value.String() {
		case "http":
			return TypeHTTP
		case "auth":
			return TypeAuth
		case "upstream":
			return TypeUpstream
		case "error":
			return TypeError
		}
	}
	return TypeSystem
}

func isInternalAttr(key string) bool {
	return key == "type" || key == "error_location"
}

func errorLocation(attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "error_location" {
			return a.Value.String()
		}
	}
	// 0: errorLocation, 1: Handle, 2: slog internals, 3+: caller
	for skip := 3; skip < 8; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if strings.Contains(file, "log/slog") || strings.HasSuffix(file, "internal/logger/global.go") {
			continue
		}
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return ""
}
