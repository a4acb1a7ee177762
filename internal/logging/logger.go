// Package logging builds the structured logger shared by every command.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/apa7/internal/model"
)

type contextKey string

// RunIDKey is the context key carrying the id of one command run.
const RunIDKey contextKey = "run_id"

// New creates a logger writing to w. Records logged with a context that
// carries a run id get a run_id attribute.
func New(cfg model.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(&runHandler{Handler: handler})
}

// ParseLevel converts a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRunID returns a context carrying a fresh run id.
func WithRunID(ctx context.Context) context.Context {
	return context.WithValue(ctx, RunIDKey, uuid.NewString())
}

// RunID returns the run id stored in ctx, or "".
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}

// ForRun returns logger with the run id carried by ctx bound to every
// record, including records logged without a context.
func ForRun(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id := RunID(ctx)
	if id == "" {
		return logger
	}
	return logger.With(string(RunIDKey), id)
}

// runHandler adds the context's run id to records whose logger does not
// already carry one.
type runHandler struct {
	slog.Handler
	bound bool
}

func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.bound {
		if id := RunID(ctx); id != "" {
			r.AddAttrs(slog.String(string(RunIDKey), id))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.bound
	for _, a := range attrs {
		if a.Key == string(RunIDKey) {
			bound = true
		}
	}
	return &runHandler{Handler: h.Handler.WithAttrs(attrs), bound: bound}
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name), bound: h.bound}
}
