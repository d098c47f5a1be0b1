package production

import (
	"context"
	"log/slog"
	"strings"
)

// TransitionLogger writes one structured log line per published state.
type TransitionLogger struct {
	logger      *slog.Logger
	level       slog.Level
	withContext bool
}

// NewTransitionLogger logs at level. When withContext is set the machine
// context is attached to every line.
func NewTransitionLogger(logger *slog.Logger, level slog.Level, withContext bool) *TransitionLogger {
	return &TransitionLogger{logger: logger, level: level, withContext: withContext}
}

// Publish implements Publisher.
func (l *TransitionLogger) Publish(ctx context.Context, r Record) error {
	msg := "state changed"
	if r.Replay {
		msg = "state replayed"
	}
	attrs := []slog.Attr{
		slog.String("machine", r.Machine),
		slog.String("interpreter", r.Interpreter),
		slog.String("event", r.Event),
		slog.String("configuration", strings.Join(r.Configuration, ",")),
	}
	if l.withContext {
		attrs = append(attrs, slog.Any("context", r.Context))
	}
	l.logger.LogAttrs(ctx, l.level, msg, attrs...)
	return nil
}
