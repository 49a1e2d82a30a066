package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"studyhub/internal/handler/http/requestid"
)

const (
	requestIDKey = "request_id"
	traceIDKey   = "trace_id"
)

// NewLogger creates a JSON logger on stdout. The level comes from LOG_LEVEL
// (debug, info, warn, error) and defaults to info.
func NewLogger() *slog.Logger {
	return New(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// New creates a JSON logger writing to w whose records are enriched with
// the request and trace ids carried by the logging context.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(NewContextHandler(h))
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// ContextHandler adds request_id and trace_id from the record's context
// unless the record, or a logger derived via With, already carries them.
type ContextHandler struct {
	next    slog.Handler
	present map[string]bool
	grouped bool
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx == nil || h.grouped {
		return h.next.Handle(ctx, r)
	}

	hasRequestID := h.present[requestIDKey]
	hasTraceID := h.present[traceIDKey]
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case requestIDKey:
			hasRequestID = true
		case traceIDKey:
			hasTraceID = true
		}
		return true
	})

	if !hasRequestID {
		if id := requestid.FromContext(ctx); id != "" {
			r.AddAttrs(slog.String(requestIDKey, id))
		}
	}
	if !hasTraceID {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			r.AddAttrs(slog.String(traceIDKey, sc.TraceID().String()))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	present := make(map[string]bool, len(h.present)+len(attrs))
	for k := range h.present {
		present[k] = true
	}
	if !h.grouped {
		for _, a := range attrs {
			present[a.Key] = true
		}
	}
	return &ContextHandler{next: h.next.WithAttrs(attrs), present: present, grouped: h.grouped}
}

// WithGroup stops enrichment; ids added inside a group would be nested
// under it.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{next: h.next.WithGroup(name), present: h.present, grouped: true}
}

// WithRequestID returns a logger that includes the request ID from ctx.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With(requestIDKey, reqID)
}

// FromContext retrieves the logger stored in ctx, falling back to the
// default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
