package core

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comalice/chartforms/internal/primitives"
)

// journal is the context type used by most tests. Actions append to Log.
type journal struct {
	Name  string
	Count int
	Log   []string
}

func note(entry string) Action[journal] {
	return func(j journal, _ primitives.Event) journal {
		j.Log = append(slices.Clone(j.Log), entry)
		return j
	}
}

func increment(j journal, _ primitives.Event) journal {
	j.Count++
	return j
}

func ev(eventType string) primitives.Event {
	return primitives.NewEvent(eventType, nil)
}

// recorder collects published states.
type recorder[C any] struct {
	mu     sync.Mutex
	states []State[C]
}

func (r *recorder[C]) listen(s State[C]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder[C]) all() []State[C] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.states)
}

func (r *recorder[C]) configurations() []string {
	var out []string
	for _, s := range r.all() {
		out = append(out, s.Configuration.String())
	}
	return out
}

func mustDefine(t *testing.T, b *primitives.MachineBuilder, reg Registry[journal]) *Definition[journal] {
	t.Helper()
	config, err := b.Build()
	require.NoError(t, err)
	def, err := NewDefinition(config, reg)
	require.NoError(t, err)
	return def
}

// toggle is a two-state machine flipping on FLIP and counting INC.
func toggle(t *testing.T) *Definition[journal] {
	b := primitives.NewMachineBuilder("toggle", "off")
	b.Atomic("off").
		Transition("FLIP", "on").
		On("INC", primitives.TransitionConfig{Actions: []string{"increment"}})
	b.Atomic("on").
		Transition("FLIP", "off").
		On("INC", primitives.TransitionConfig{Actions: []string{"increment"}})
	return mustDefine(t, b, Registry[journal]{
		Actions: map[string]Action[journal]{"increment": increment},
	})
}

// regions is a parallel machine with two independent regions and a third
// gated on both being done.
func regions(t *testing.T) *Definition[journal] {
	b := primitives.NewParallelMachineBuilder("regions")
	b.Compound("left", "idle").
		Atomic("idle").Transition("LEFT", "done").Up().
		Atomic("done")
	b.Compound("right", "idle").
		Atomic("idle").Transition("RIGHT", "done").Up().
		Atomic("done")
	b.Compound("gate", "closed").
		Atomic("closed").On("OPEN", primitives.TransitionConfig{
		In:     []string{"left.done", "right.done"},
		Target: "open",
	}).Up().
		Atomic("open")
	return mustDefine(t, b, Registry[journal]{})
}
