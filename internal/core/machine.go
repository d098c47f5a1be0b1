package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/comalice/chartforms/internal/primitives"
)

// State is the snapshot returned by Start and Send and published to listeners.
type State[C any] struct {
	Configuration Configuration
	Context       C
	Event         primitives.Event
	// Changed is false when the event matched no transition.
	Changed bool
}

// Matches reports whether the state at path is active.
func (s State[C]) Matches(path string) bool {
	return s.Configuration.Matches(path)
}

// Interpreter runs one instance of a Definition.
//
// Start, Send and Subscribe may be called from any goroutine, including from
// listeners and effects. Calls made while another call is being processed
// are queued and run by the in-flight call once it finishes, so each event
// is processed to completion before the next one starts.
type Interpreter[C any] struct {
	def           *Definition[C]
	id            string
	logger        *slog.Logger
	tracer        trace.Tracer
	maxMicrosteps int
	effects       map[string]Effect[C]

	mu          sync.Mutex
	started     bool
	processing  bool
	pending     []job
	active      []bool
	state       State[C]
	subscribers []*subscriber[C]
}

// New creates an interpreter for def with the given initial context. The
// interpreter does nothing until Start is called.
func New[C any](def *Definition[C], initial C, opts ...Option) *Interpreter[C] {
	s := settings{maxMicrosteps: DefaultMaxMicrosteps}
	for _, opt := range opts {
		opt(&s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer("github.com/comalice/chartforms/internal/core")
	}

	i := &Interpreter[C]{
		def:           def,
		id:            s.id,
		logger:        s.logger.With("machine", def.ID(), "interpreter", s.id),
		tracer:        s.tracer,
		maxMicrosteps: s.maxMicrosteps,
		effects:       make(map[string]Effect[C], len(s.effects)),
		state:         State[C]{Context: initial},
	}
	for name, fn := range s.effects {
		if !def.HasEffect(name) {
			i.logger.Warn("binding for undeclared effect ignored", "effect", name)
			continue
		}
		eff, ok := fn.(Effect[C])
		if !ok {
			i.logger.Warn("effect bound with mismatched context type", "effect", name, "type", fmt.Sprintf("%T", fn))
			continue
		}
		i.effects[name] = eff
	}
	return i
}

// ID returns the interpreter ID.
func (i *Interpreter[C]) ID() string { return i.id }

// Definition returns the shared definition.
func (i *Interpreter[C]) Definition() *Definition[C] { return i.def }

// Start enters the initial configuration, settles eventless transitions and
// publishes the result once. Calling Start again returns the current state.
func (i *Interpreter[C]) Start() State[C] {
	var out State[C]
	if !i.exec(func() { out = i.start() }) {
		return i.State()
	}
	return out
}

// Send processes event to completion and returns the resulting state. An
// event that matches no transition is not published and the returned state
// has Changed == false. A Send issued while another call is in progress is
// queued and returns the state as of the call; SendWait waits for the result
// instead.
//
// Send panics with a *DefinitionError when eventless transitions fail to
// settle.
func (i *Interpreter[C]) Send(event primitives.Event) State[C] {
	var out State[C]
	if !i.exec(func() { out = i.send(event) }) {
		return i.State()
	}
	return out
}

// SendWait is Send for callers outside the interpreter's listeners and
// effects. When another call is in progress it blocks until event itself has
// been processed and returns that result. Called from a listener or an
// effect of the same interpreter it deadlocks.
func (i *Interpreter[C]) SendWait(event primitives.Event) State[C] {
	result := make(chan State[C], 1)
	i.execJob(job{
		run: func() {
			st := i.State()
			defer func() { result <- st }()
			st = i.send(event)
		},
		drop: func() { result <- i.State() },
	})
	return <-result
}

// Dispatch is Send without the result, so an interpreter can serve as an
// event sink for any context type.
func (i *Interpreter[C]) Dispatch(event primitives.Event) {
	i.Send(event)
}

// State returns the latest state.
func (i *Interpreter[C]) State() State[C] {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Matches reports whether the state at path is currently active.
func (i *Interpreter[C]) Matches(path string) bool {
	return i.State().Matches(path)
}

// Started reports whether Start has completed.
func (i *Interpreter[C]) Started() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.started
}

// Subscribe registers fn for every published state. When the interpreter has
// started, fn immediately receives the current state. Listeners are called in
// subscription order, outside the interpreter's lock.
func (i *Interpreter[C]) Subscribe(fn Listener[C]) *Subscription {
	sub := &subscriber[C]{fn: fn}
	i.exec(func() { i.attach(sub) })
	return &Subscription{cancel: func() { i.detach(sub) }}
}

// SubscribeReplay is Subscribe with a listener that is told whether a state
// is the replay delivered on subscription rather than a new transition.
func (i *Interpreter[C]) SubscribeReplay(fn func(s State[C], replay bool)) *Subscription {
	// attaching is only touched by serialized calls.
	attaching := false
	sub := &subscriber[C]{fn: func(s State[C]) { fn(s, attaching) }}
	i.exec(func() {
		attaching = true
		defer func() { attaching = false }()
		i.attach(sub)
	})
	return &Subscription{cancel: func() { i.detach(sub) }}
}

// job is a queued call. drop, when set, runs instead of run if the queue is
// discarded after a panic.
type job struct {
	run  func()
	drop func()
}

// exec runs fn when no call is in flight, then drains whatever was queued
// meanwhile. Otherwise fn is queued and exec reports false.
func (i *Interpreter[C]) exec(fn func()) bool {
	return i.execJob(job{run: fn})
}

func (i *Interpreter[C]) execJob(j job) bool {
	i.mu.Lock()
	if i.processing {
		i.pending = append(i.pending, j)
		i.mu.Unlock()
		return false
	}
	i.processing = true
	i.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			i.mu.Lock()
			dropped := i.pending
			i.processing = false
			i.pending = nil
			i.mu.Unlock()
			for _, d := range dropped {
				if d.drop != nil {
					d.drop()
				}
			}
			panic(r)
		}
	}()

	j.run()
	for {
		i.mu.Lock()
		if len(i.pending) == 0 {
			i.processing = false
			i.mu.Unlock()
			return true
		}
		next := i.pending[0]
		i.pending = i.pending[1:]
		i.mu.Unlock()
		next.run()
	}
}

func (i *Interpreter[C]) start() State[C] {
	i.mu.Lock()
	if i.started {
		st := i.state
		i.mu.Unlock()
		return st
	}
	ctx := i.state.Context
	i.mu.Unlock()

	event := primitives.NewEvent(primitives.InitEvent, nil)
	active := make([]bool, len(i.def.nodes))
	for _, n := range i.def.descendantsToEnter(i.def.root) {
		active[n.order] = true
		ctx = i.runActions(n, i.def.behaviors[n.order].entry, ctx, event)
	}
	ctx = i.settle(active, ctx, event)

	st := State[C]{
		Configuration: i.def.configurationOf(active),
		Context:       ctx,
		Event:         event,
		Changed:       true,
	}
	i.logger.Debug("interpreter started", "configuration", st.Configuration.String())
	i.commit(active, st)
	return st
}

func (i *Interpreter[C]) send(event primitives.Event) State[C] {
	_, span := i.tracer.Start(context.Background(), i.def.ID()+".send",
		trace.WithAttributes(
			attribute.String("statechart.event", event.Type),
			attribute.String("statechart.interpreter", i.id),
		))
	defer span.End()

	i.mu.Lock()
	started := i.started
	current := i.state
	active := slices.Clone(i.active)
	i.mu.Unlock()

	current.Event = event
	current.Changed = false
	if !started {
		i.logger.Warn("event sent before start ignored", "event", event.Type)
		span.SetAttributes(attribute.Bool("statechart.changed", false))
		return current
	}

	ctx, taken := i.process(active, current.Context, event)
	span.SetAttributes(attribute.Bool("statechart.changed", taken))
	if !taken {
		i.logger.Debug("unhandled event", "event", event.Type, "configuration", current.Configuration.String())
		return current
	}

	st := State[C]{
		Configuration: i.def.configurationOf(active),
		Context:       ctx,
		Event:         event,
		Changed:       true,
	}
	span.SetAttributes(attribute.String("statechart.configuration", st.Configuration.String()))
	i.commit(active, st)
	return st
}

// process takes the transitions enabled by event and then settles eventless
// transitions. It reports whether any transition was taken.
func (i *Interpreter[C]) process(active []bool, ctx C, event primitives.Event) (C, bool) {
	ts := i.def.selectTransitions(active, ctx, event, false)
	if len(ts) == 0 {
		return ctx, false
	}
	ctx = i.microstep(ts, active, ctx, event)
	return i.settle(active, ctx, event), true
}

func (i *Interpreter[C]) settle(active []bool, ctx C, event primitives.Event) C {
	for step := 0; ; step++ {
		ts := i.def.selectTransitions(active, ctx, event, true)
		if len(ts) == 0 {
			return ctx
		}
		if step >= i.maxMicrosteps {
			panic(&DefinitionError{
				Machine: i.def.ID(),
				Path:    ts[0].source.path,
				Reason:  fmt.Sprintf("eventless transitions did not settle after %d microsteps", i.maxMicrosteps),
			})
		}
		ctx = i.microstep(ts, active, ctx, event)
	}
}

// microstep exits in reverse document order, runs transition actions in
// selection order, then enters in document order.
func (i *Interpreter[C]) microstep(ts []*transition[C], active []bool, ctx C, event primitives.Event) C {
	exits := nodeSet{}
	for _, t := range ts {
		for _, n := range i.def.exitSet(t, active) {
			exits.add(n)
		}
	}
	for _, n := range exits.reversed() {
		ctx = i.runActions(n, i.def.behaviors[n.order].exit, ctx, event)
		active[n.order] = false
	}

	enters := nodeSet{}
	for _, t := range ts {
		if i.logger.Enabled(context.Background(), slog.LevelDebug) {
			target := ""
			if t.target != nil {
				target = t.target.path
			}
			i.logger.Debug("transition", "event", event.Type, "source", t.source.String(), "target", target)
		}
		ctx = i.runActions(t.source, t.actions, ctx, event)
		i.def.addEntrySet(t, enters)
	}
	for _, n := range enters.sorted() {
		active[n.order] = true
		ctx = i.runActions(n, i.def.behaviors[n.order].entry, ctx, event)
	}
	return ctx
}

func (i *Interpreter[C]) runActions(owner *StateNode, refs []actionRef[C], ctx C, event primitives.Event) C {
	for _, a := range refs {
		if !a.effect {
			ctx = a.fn(ctx, event)
			continue
		}
		eff, ok := i.effects[a.name]
		if !ok {
			i.logger.Debug("effect not bound", "effect", a.name, "state", owner.String())
			continue
		}
		if err := eff(ctx, event); err != nil {
			i.logger.Warn("effect failed", "effect", a.name, "state", owner.String(), "error", err)
		}
	}
	return ctx
}

// commit stores the new state and publishes it outside the lock.
func (i *Interpreter[C]) commit(active []bool, st State[C]) {
	i.mu.Lock()
	i.active = active
	i.state = st
	i.started = true
	subs := slices.Clone(i.subscribers)
	i.mu.Unlock()

	for _, s := range subs {
		if !s.closed.Load() {
			s.fn(st)
		}
	}
}

func (i *Interpreter[C]) attach(sub *subscriber[C]) {
	i.mu.Lock()
	if sub.closed.Load() {
		i.mu.Unlock()
		return
	}
	i.subscribers = append(i.subscribers, sub)
	started, st := i.started, i.state
	i.mu.Unlock()

	if started {
		sub.fn(st)
	}
}

func (i *Interpreter[C]) detach(sub *subscriber[C]) {
	sub.closed.Store(true)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.subscribers = slices.DeleteFunc(i.subscribers, func(s *subscriber[C]) bool { return s == sub })
}
