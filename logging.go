package backing

import (
	"context"
	"log/slog"
	"time"
)

// Operation names reported through LogEvent.Op.
const (
	OpGet         = "get"
	OpSet         = "set"
	OpEnumerate   = "enumerate"
	OpBaseline    = "baseline"
	OpClear       = "clear"
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
)

// LogEvent describes a store operation for logging and metrics.
type LogEvent struct {
	Op       string
	Key      string
	Entries  int
	Changed  int
	Cycles   int
	Duration time.Duration
}

// Logger records store events.
type Logger interface {
	LogStore(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogStore implements Logger.
func (f LoggerFunc) LogStore(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogStore(LogEvent) {}

// SlogLogger forwards store events to a slog.Logger at debug level.
type SlogLogger struct {
	Logger *slog.Logger
}

// LogStore implements Logger.
func (l SlogLogger) LogStore(event LogEvent) {
	if l.Logger == nil {
		return
	}
	attrs := []slog.Attr{slog.String("op", event.Op)}
	if event.Key != "" {
		attrs = append(attrs, slog.String("key", event.Key))
	}
	if event.Op == OpEnumerate || event.Op == OpBaseline {
		attrs = append(attrs,
			slog.Int("entries", event.Entries),
			slog.Int("changed", event.Changed),
			slog.Int("cycles", event.Cycles),
			slog.Duration("duration", event.Duration),
		)
	}
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, "[backing] "+event.Op, attrs...)
}

// MultiLogger fans out events to every non-nil logger.
type MultiLogger []Logger

// LogStore implements Logger.
func (m MultiLogger) LogStore(event LogEvent) {
	for _, logger := range m {
		if logger != nil {
			logger.LogStore(event)
		}
	}
}
