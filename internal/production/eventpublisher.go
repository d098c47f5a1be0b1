// Package production provides listener adapters for running interpreters
// (channel publishing, structured transition logs, Prometheus metrics) and
// definition export for visualization.
package production

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/comalice/chartforms/internal/core"
)

// Record is the context-free view of one published state.
type Record struct {
	Machine       string    `json:"machine" yaml:"machine"`
	Interpreter   string    `json:"interpreter" yaml:"interpreter"`
	Event         string    `json:"event" yaml:"event"`
	Configuration []string  `json:"configuration" yaml:"configuration"`
	Context       any       `json:"context,omitempty" yaml:"context,omitempty"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	// Replay marks the state delivered on subscription to an interpreter
	// that had already started.
	Replay bool `json:"replay,omitempty" yaml:"replay,omitempty"`
}

// Publisher consumes records.
type Publisher interface {
	Publish(ctx context.Context, record Record) error
}

// Attach subscribes p to interp. Publish errors are not reported back to the
// interpreter.
func Attach[C any](interp *core.Interpreter[C], p Publisher) *core.Subscription {
	machine := interp.Definition().ID()
	return interp.SubscribeReplay(func(s core.State[C], replay bool) {
		r := Record{
			Machine:       machine,
			Interpreter:   interp.ID(),
			Event:         s.Event.Type,
			Configuration: s.Configuration.Leaves(),
			Context:       s.Context,
			Timestamp:     time.Now(),
			Replay:        replay,
		}
		_ = p.Publish(context.Background(), r)
	})
}

// Fanout publishes to every publisher in order and returns the first error.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(ctx context.Context, record Record) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, record); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ChannelPublisher forwards records to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- Record
	dropped atomic.Int64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- Record) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish implements Publisher.
func (p *ChannelPublisher) Publish(ctx context.Context, record Record) error {
	select {
	case p.ch <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil
	}
}

// Dropped returns the number of records dropped on backpressure.
func (p *ChannelPublisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close closes the output channel.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
