package core

import (
	"sync"
	"sync/atomic"
)

// Listener receives every published state.
type Listener[C any] func(State[C])

type subscriber[C any] struct {
	fn     Listener[C]
	closed atomic.Bool
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery. It is safe to call more than once and from
// inside a listener.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
