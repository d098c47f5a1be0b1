// Package party defines the RSVP workflow: one invitee machine per list row
// and a planner machine that owns the list. A Planner composes them, folding
// each invitee's name into the planner's context when the row is added.
package party

import (
	"slices"
	"strings"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/extensibility"
	"github.com/comalice/chartforms/internal/primitives"
)

// Invitee is both the context of an invitee machine and a row of the
// planner's list.
type Invitee struct {
	ID      string `json:"id"`
	Invitee string `json:"invitee"`
}

// Party is the planner's context.
type Party struct {
	Invitees []Invitee `json:"invitees"`
}

// Invitee states.
const (
	StatusAdding   = "adding"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Planner states.
const (
	PlannerIdle       = "idle"
	PlannerNewInvitee = "newInvitee"
)

// Effects of the invitee machine. adding runs when the row is shown for
// input, inviteeAdded when a name was accepted.
const (
	EffectAdding       = "adding"
	EffectInviteeAdded = "inviteeAdded"
)

var (
	// InviteeMachine tracks a single row: adding, then pending until the
	// guest answers, then flipping between accepted and declined.
	InviteeMachine = core.MustDefinition(inviteeConfig(), core.Registry[Invitee]{
		Guards: map[string]core.Guard[Invitee]{
			"named": extensibility.Not(extensibility.PayloadBlank[Invitee]()),
		},
		Actions: map[string]core.Action[Invitee]{
			"assignInvitee": extensibility.AssignPayload(func(inv Invitee, name string) Invitee {
				inv.Invitee = strings.TrimSpace(name)
				return inv
			}),
		},
		Effects: []string{EffectAdding, EffectInviteeAdded},
	})

	// PlannerMachine owns the invitee list. It accepts one new row at a
	// time.
	PlannerMachine = core.MustDefinition(plannerConfig(), core.Registry[Party]{
		Actions: map[string]core.Action[Party]{
			"appendInvitee":  appendInvitee,
			"replaceInvitee": replaceInvitee,
		},
	})
)

func inviteeConfig() primitives.MachineConfig {
	b := primitives.NewMachineBuilder("invitee", StatusAdding)
	b.Atomic(StatusAdding).
		Entry(EffectAdding).
		Exit(EffectInviteeAdded).
		On(EventAdd, primitives.TransitionConfig{
			Guard:   "named",
			Target:  StatusPending,
			Actions: []string{"assignInvitee"},
		})
	b.Atomic(StatusPending).
		Transition(EventAccept, StatusAccepted).
		Transition(EventDecline, StatusDeclined)
	b.Atomic(StatusAccepted).Transition(EventDecline, StatusDeclined)
	b.Atomic(StatusDeclined).Transition(EventAccept, StatusAccepted)
	return b.MustBuild()
}

func plannerConfig() primitives.MachineConfig {
	b := primitives.NewMachineBuilder("party-planner", PlannerIdle)
	b.Atomic(PlannerIdle).On(EventNewInvitee, primitives.TransitionConfig{
		Target:  PlannerNewInvitee,
		Actions: []string{"appendInvitee"},
	})
	b.Atomic(PlannerNewInvitee).On(EventInviteeUpdated, primitives.TransitionConfig{
		Target:  PlannerIdle,
		Actions: []string{"replaceInvitee"},
	})
	return b.MustBuild()
}

func inviteePayload(event primitives.Event) (Invitee, bool) {
	inv, ok := event.Data.(Invitee)
	return inv, ok
}

func appendInvitee(p Party, event primitives.Event) Party {
	inv, ok := inviteePayload(event)
	if !ok {
		return p
	}
	p.Invitees = append(slices.Clone(p.Invitees), inv)
	return p
}

// replaceInvitee swaps the row with the payload's ID. Unknown IDs leave the
// list as it is.
func replaceInvitee(p Party, event primitives.Event) Party {
	inv, ok := inviteePayload(event)
	if !ok {
		return p
	}
	i := slices.IndexFunc(p.Invitees, func(row Invitee) bool { return row.ID == inv.ID })
	if i < 0 {
		return p
	}
	p.Invitees = slices.Clone(p.Invitees)
	p.Invitees[i] = inv
	return p
}
