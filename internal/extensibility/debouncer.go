package extensibility

import (
	"context"
	"time"

	"github.com/comalice/chartforms/internal/primitives"
)

// Debouncer turns raw input values into an immediate editing event per value
// and one settle event carrying the latest value once input has been quiet
// for the window.
type Debouncer struct {
	dst     Dispatcher
	editing string
	settle  string
	window  time.Duration
}

// NewDebouncer creates a Debouncer dispatching to dst.
func NewDebouncer(dst Dispatcher, editing, settle string, window time.Duration) *Debouncer {
	return &Debouncer{dst: dst, editing: editing, settle: settle, window: window}
}

// Run consumes in until it closes or ctx is done. A value still waiting for
// its quiet period is flushed when in closes and dropped when ctx is done.
func (d *Debouncer) Run(ctx context.Context, in <-chan string) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
		waiting bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-in:
			if !ok {
				if waiting {
					d.dst.Dispatch(primitives.NewEvent(d.settle, pending))
				}
				return nil
			}
			d.dst.Dispatch(primitives.NewEvent(d.editing, nil))
			pending, waiting = v, true
			if timer == nil {
				timer = time.NewTimer(d.window)
			} else {
				timer.Reset(d.window)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			waiting = false
			d.dst.Dispatch(primitives.NewEvent(d.settle, pending))
		}
	}
}
