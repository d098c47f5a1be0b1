package core

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxMicrosteps bounds eventless transition chains.
const DefaultMaxMicrosteps = 100

// Option configures an Interpreter via the functional options pattern.
type Option func(*settings)

type settings struct {
	id            string
	logger        *slog.Logger
	tracer        trace.Tracer
	maxMicrosteps int
	effects       map[string]any
}

// WithID sets the interpreter ID used in logs and spans. Defaults to a random UUID.
func WithID(id string) Option {
	return func(s *settings) {
		s.id = id
	}
}

// WithLogger configures the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer configures the OpenTelemetry tracer used for Send spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMaxMicrosteps bounds the number of eventless transitions taken while
// settling a single event.
func WithMaxMicrosteps(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxMicrosteps = n
		}
	}
}

// WithEffect binds a declared effect name to fn. The context type of fn must
// match the interpreter's.
func WithEffect[C any](name string, fn Effect[C]) Option {
	return func(s *settings) {
		if s.effects == nil {
			s.effects = make(map[string]any)
		}
		s.effects[name] = fn
	}
}
