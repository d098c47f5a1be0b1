package signup

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/comalice/chartforms/internal/core"
)

// Coordinator drives the asynchronous parts of a form: the username
// uniqueness check and account creation. It only reacts to published states
// and only talks back through events.
//
// Uniqueness checks are latest-wins: entering uniquePending for a new
// username cancels the previous check, and answers for anything but the
// latest check, or arriving after the region moved on, are dropped.
// Account creation is exhaust-while-pending: while one creation runs,
// further submissions are ignored.
type Coordinator struct {
	interp  *core.Interpreter[Context]
	checker UniquenessChecker
	creator AccountCreator
	logger  *slog.Logger

	submitting *semaphore.Weighted

	mu         sync.Mutex
	ctx        context.Context
	stop       context.CancelFunc
	sub        *core.Subscription
	closed     bool
	generation uint64
	checking   string
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewCoordinator creates a Coordinator for interp. creator may be nil for
// forms built from Basic.
func NewCoordinator(interp *core.Interpreter[Context], checker UniquenessChecker, creator AccountCreator, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		interp:     interp,
		checker:    checker,
		creator:    creator,
		logger:     logger.With("component", "signup.coordinator", "interpreter", interp.ID()),
		submitting: semaphore.NewWeighted(1),
	}
}

// Start subscribes to the interpreter. Work started afterwards is bound to ctx.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.sub != nil || c.closed {
		c.mu.Unlock()
		return
	}
	c.ctx, c.stop = context.WithCancel(ctx)
	c.mu.Unlock()

	sub := c.interp.Subscribe(c.observe)

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
}

// Stop unsubscribes, cancels in-flight work and waits for it to return.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	sub, stop := c.sub, c.stop
	c.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if stop != nil {
		stop()
	}
	c.wg.Wait()
}

// Run starts the coordinator and stops it once ctx is done.
func (c *Coordinator) Run(ctx context.Context) error {
	c.Start(ctx)
	<-ctx.Done()
	c.Stop()
	return nil
}

// Wait blocks until no check or creation is in flight.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) observe(st core.State[Context]) {
	if st.Matches(UsernameUniquePending) {
		c.check(st.Context.Username)
	} else {
		c.abandonCheck()
	}
	if st.Matches(SubmitEnabled) {
		c.submit(st.Context)
	}
}

func (c *Coordinator) check(username string) {
	c.mu.Lock()
	if c.closed || c.checking == username {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel, c.checking = cancel, username
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug("checking username", "username", username, "generation", gen)
	go func() {
		defer c.wg.Done()
		defer cancel()

		unique, err := c.checker.Check(ctx, username)

		c.mu.Lock()
		latest := gen == c.generation
		c.mu.Unlock()

		// The answer names username, so one that is overtaken by a queued
		// edit is rejected by the machine itself.
		if !latest || ctx.Err() != nil {
			c.logger.Debug("stale uniqueness answer dropped", "username", username, "generation", gen)
			return
		}
		switch {
		case err != nil:
			c.logger.Warn("uniqueness check failed", "username", username, "error", err)
			c.interp.Send(UniqueFailure(username))
		case unique:
			c.interp.Send(UniqueSuccess(username))
		default:
			c.interp.Send(UniqueFailure(username))
		}
	}()
}

// abandonCheck forgets the current check once the region left
// uniquePending. Until then the username counts as checked, even when its
// answer is still queued.
func (c *Coordinator) abandonCheck() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.checking == "" {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	c.cancel, c.checking = nil, ""
}

func (c *Coordinator) submit(form Context) {
	if c.creator == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if !c.submitting.TryAcquire(1) {
		c.mu.Unlock()
		c.logger.Debug("submission already in flight")
		return
	}
	ctx := c.ctx
	c.wg.Add(1)
	c.mu.Unlock()

	c.interp.Send(BeginSubmit())
	go func() {
		defer c.wg.Done()

		err := c.creator.Create(ctx, form)
		c.submitting.Release(1)
		if err != nil {
			c.logger.Warn("account creation failed", "username", form.Username, "error", err)
			c.interp.Send(SubmitFailed())
			return
		}
		c.logger.Info("account created", "username", form.Username)
		c.interp.Send(SubmitSucceeded())
	}()
}
