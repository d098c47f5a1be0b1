package extensibility

import (
	"log/slog"
	"time"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/primitives"
)

// AssignPayload returns an action storing the string payload with set.
// Events without a string payload leave the context unchanged.
func AssignPayload[C any](set func(ctx C, value string) C) core.Action[C] {
	return func(ctx C, event primitives.Event) C {
		s, ok := Payload(event)
		if !ok {
			return ctx
		}
		return set(ctx, s)
	}
}

// Sequence runs actions in order, threading the context through.
func Sequence[C any](actions ...core.Action[C]) core.Action[C] {
	return func(ctx C, event primitives.Event) C {
		for _, a := range actions {
			ctx = a(ctx, event)
		}
		return ctx
	}
}

// LoggingEffect wraps an effect and logs its execution and duration.
func LoggingEffect[C any](logger *slog.Logger, name string, inner core.Effect[C]) core.Effect[C] {
	return func(ctx C, event primitives.Event) error {
		logger.Debug("running effect", "effect", name, "event", event.Type)
		start := time.Now()
		err := inner(ctx, event)
		logger.Debug("effect completed", "effect", name, "duration", time.Since(start), "error", err)
		return err
	}
}
