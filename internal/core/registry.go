package core

import "github.com/comalice/chartforms/internal/primitives"

// Guard is a pure predicate over the current context and the triggering event.
type Guard[C any] func(ctx C, event primitives.Event) bool

// Action computes the next context from the current one. Actions must not
// mutate ctx in place.
type Action[C any] func(ctx C, event primitives.Event) C

// Effect is a side-effecting hook bound per interpreter with WithEffect.
// A returned error is logged and otherwise ignored.
type Effect[C any] func(ctx C, event primitives.Event) error

// Registry resolves the guard and action names used by a MachineConfig.
// Effects lists names that are bound per interpreter instead of here.
type Registry[C any] struct {
	Guards  map[string]Guard[C]
	Actions map[string]Action[C]
	Effects []string
}

// Merge returns a registry holding the entries of r and other. Entries of
// other win on name clashes.
func (r Registry[C]) Merge(other Registry[C]) Registry[C] {
	out := Registry[C]{
		Guards:  make(map[string]Guard[C], len(r.Guards)+len(other.Guards)),
		Actions: make(map[string]Action[C], len(r.Actions)+len(other.Actions)),
	}
	for k, v := range r.Guards {
		out.Guards[k] = v
	}
	for k, v := range other.Guards {
		out.Guards[k] = v
	}
	for k, v := range r.Actions {
		out.Actions[k] = v
	}
	for k, v := range other.Actions {
		out.Actions[k] = v
	}
	out.Effects = append(append(out.Effects, r.Effects...), other.Effects...)
	return out
}
