package extensibility

import (
	"strings"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/primitives"
)

// Payload returns the event payload as a string. Non-string payloads yield
// "" and false.
func Payload(event primitives.Event) (string, bool) {
	s, ok := event.Data.(string)
	return s, ok
}

// PayloadEmpty holds when the payload is missing or the empty string.
func PayloadEmpty[C any]() core.Guard[C] {
	return func(_ C, event primitives.Event) bool {
		s, _ := Payload(event)
		return s == ""
	}
}

// PayloadBlank holds when the payload is empty after trimming whitespace.
func PayloadBlank[C any]() core.Guard[C] {
	return func(_ C, event primitives.Event) bool {
		s, _ := Payload(event)
		return strings.TrimSpace(s) == ""
	}
}

// PayloadShorterThan holds when the payload has fewer than n characters.
func PayloadShorterThan[C any](n int) core.Guard[C] {
	return func(_ C, event primitives.Event) bool {
		s, _ := Payload(event)
		return len([]rune(s)) < n
	}
}

// PayloadIs holds when the payload is a string equal to field(ctx).
func PayloadIs[C any](field func(C) string) core.Guard[C] {
	return func(ctx C, event primitives.Event) bool {
		s, ok := Payload(event)
		return ok && s == field(ctx)
	}
}

// ContextHolds lifts a predicate over the context into a guard.
func ContextHolds[C any](pred func(C) bool) core.Guard[C] {
	return func(ctx C, _ primitives.Event) bool {
		return pred(ctx)
	}
}

// Not negates g.
func Not[C any](g core.Guard[C]) core.Guard[C] {
	return func(ctx C, event primitives.Event) bool {
		return !g(ctx, event)
	}
}

// All holds when every guard holds. Evaluation stops at the first failure.
func All[C any](guards ...core.Guard[C]) core.Guard[C] {
	return func(ctx C, event primitives.Event) bool {
		for _, g := range guards {
			if !g(ctx, event) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one guard holds. Evaluation stops at the first success.
func Any[C any](guards ...core.Guard[C]) core.Guard[C] {
	return func(ctx C, event primitives.Event) bool {
		for _, g := range guards {
			if g(ctx, event) {
				return true
			}
		}
		return false
	}
}
