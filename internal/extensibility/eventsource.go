package extensibility

import (
	"context"
	"errors"
	"sync"

	"github.com/comalice/chartforms/internal/primitives"
)

// ErrSourceClosed is returned when emitting on a closed source.
var ErrSourceClosed = errors.New("event source closed")

// EventSource produces events for an interpreter.
type EventSource interface {
	Events() <-chan primitives.Event
}

// Dispatcher accepts events. *core.Interpreter implements it for every context type.
type Dispatcher interface {
	Dispatch(event primitives.Event)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(primitives.Event)

// Dispatch calls f(event).
func (f DispatcherFunc) Dispatch(event primitives.Event) { f(event) }

// ChannelEventSource is an EventSource backed by a Go channel.
type ChannelEventSource struct {
	ch     chan primitives.Event
	mu     sync.RWMutex
	closed bool
}

// NewChannelEventSource creates a source with the given buffer size.
func NewChannelEventSource(buffer int) *ChannelEventSource {
	return &ChannelEventSource{ch: make(chan primitives.Event, buffer)}
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan primitives.Event {
	return s.ch
}

// Emit queues event, blocking while the buffer is full until ctx is done.
func (s *ChannelEventSource) Emit(ctx context.Context, event primitives.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSourceClosed
	}
	select {
	case s.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch emits without blocking and drops the event when the buffer is
// full. It lets a source stand in for an interpreter as a Dispatcher.
func (s *ChannelEventSource) Dispatch(event primitives.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- event:
	default:
	}
}

// Close closes the channel. Further emits fail with ErrSourceClosed.
func (s *ChannelEventSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Pump forwards events from src to dst until src is closed or ctx is done.
// It returns nil when src closes and ctx.Err() otherwise.
func Pump(ctx context.Context, src EventSource, dst Dispatcher) error {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			dst.Dispatch(event)
		}
	}
}
