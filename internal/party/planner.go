package party

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/extensibility"
	"github.com/comalice/chartforms/internal/primitives"
)

var (
	// ErrPlannerBusy is returned by NewInvitee while the last row is unnamed.
	ErrPlannerBusy = errors.New("planner is waiting for the previous invitee")
	// ErrUnknownInvitee is returned for a row ID the planner never issued.
	ErrUnknownInvitee = errors.New("unknown invitee")
)

// Planner owns a planner interpreter and one invitee interpreter per row.
// It never looks at an invitee's state to build the list: rows change only
// through the INVITEE.UPDATED event an invitee sends when it leaves adding.
//
// Planner methods are safe for concurrent use but must not be called from
// listeners of the interpreters it owns. Add, Accept and Decline block while
// another goroutine drives the same invitee, so the state they return always
// follows their own event.
type Planner struct {
	parent *core.Interpreter[Party]
	logger *slog.Logger
	opts   []core.Option
	newID  func() string

	mu       sync.Mutex
	children map[string]*core.Interpreter[Invitee]
	order    []string
}

// NewPlanner creates and starts a planner. opts are applied to the planner
// and to every invitee interpreter; invitee interpreters are identified by
// their row ID.
func NewPlanner(logger *slog.Logger, opts ...core.Option) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]core.Option{core.WithLogger(logger)}, opts...)
	p := &Planner{
		parent:   core.New(PlannerMachine, Party{}, opts...),
		logger:   logger.With("component", "party.planner"),
		opts:     opts,
		newID:    uuid.NewString,
		children: make(map[string]*core.Interpreter[Invitee]),
	}
	p.parent.Start()
	return p
}

// Parent returns the planner interpreter, for subscribing.
func (p *Planner) Parent() *core.Interpreter[Party] { return p.parent }

// NewInvitee appends an empty row and starts its invitee interpreter. It
// fails with ErrPlannerBusy until the previous row has been named.
func (p *Planner) NewInvitee() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.parent.Matches(PlannerIdle) {
		return "", ErrPlannerBusy
	}
	id := p.newID()
	p.parent.Send(NewInvitee(id))

	opts := append(slices.Clone(p.opts),
		core.WithID(id),
		core.WithEffect(EffectAdding, p.adding),
		core.WithEffect(EffectInviteeAdded, p.inviteeAdded),
	)
	child := core.New(InviteeMachine, Invitee{ID: id}, opts...)
	p.children[id] = child
	p.order = append(p.order, id)
	child.Start()
	return id, nil
}

func (p *Planner) adding(inv Invitee, _ primitives.Event) error {
	p.logger.Debug("waiting for invitee name", "id", inv.ID)
	return nil
}

// inviteeAdded runs on exit from adding, before the name is assigned to the
// invitee's context, so the name comes from the event.
func (p *Planner) inviteeAdded(inv Invitee, event primitives.Event) error {
	name, _ := extensibility.Payload(event)
	p.parent.Send(InviteeUpdated(inv.ID, strings.TrimSpace(name)))
	return nil
}

// Add names the row. A blank name is ignored and the returned state has
// Changed == false.
func (p *Planner) Add(id, name string) (core.State[Invitee], error) {
	return p.send(id, Add(name))
}

// Accept marks the guest as coming.
func (p *Planner) Accept(id string) (core.State[Invitee], error) {
	return p.send(id, Accept())
}

// Decline marks the guest as not coming.
func (p *Planner) Decline(id string) (core.State[Invitee], error) {
	return p.send(id, Decline())
}

func (p *Planner) send(id string, event primitives.Event) (core.State[Invitee], error) {
	child, err := p.Child(id)
	if err != nil {
		return core.State[Invitee]{}, err
	}
	return child.SendWait(event), nil
}

// Child returns the invitee interpreter of a row.
func (p *Planner) Child(id string) (*core.Interpreter[Invitee], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	child, ok := p.children[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInvitee, id)
	}
	return child, nil
}

// Invitees returns the planner's list.
func (p *Planner) Invitees() []Invitee {
	return slices.Clone(p.parent.State().Context.Invitees)
}

// IDs returns the row IDs in creation order.
func (p *Planner) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.order)
}

// Status returns the row's state: adding, pending, accepted or declined.
func (p *Planner) Status(id string) (string, error) {
	child, err := p.Child(id)
	if err != nil {
		return "", err
	}
	leaves := child.State().Configuration.Leaves()
	if len(leaves) == 0 {
		return "", ErrUnknownInvitee
	}
	return leaves[0], nil
}
