// Package primitives defines the foundational data structures for the statechart engine.
//
// StateConfig represents a node of the state tree: atomic, compound or
// parallel, with event transitions, eventless transitions, named entry and
// exit actions, and ordered children.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// StateType defines the possible types of states in the statechart.
type StateType string

const (
	Atomic   StateType = "atomic"
	Compound StateType = "compound"
	Parallel StateType = "parallel"
)

// StateConfig defines a state configuration, supporting hierarchical nesting.
type StateConfig struct {
	ID       string                        `json:"id" yaml:"id"`
	Type     StateType                     `json:"type" yaml:"type"`
	Initial  string                        `json:"initial,omitempty" yaml:"initial,omitempty"` // compound only
	On       map[string][]TransitionConfig `json:"on,omitempty" yaml:"on,omitempty"`
	Always   []TransitionConfig            `json:"always,omitempty" yaml:"always,omitempty"`
	Entry    []string                      `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit     []string                      `json:"exit,omitempty" yaml:"exit,omitempty"`
	Children []*StateConfig                `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewStateConfig creates a new StateConfig with ID and Type.
func NewStateConfig(id string, typ StateType) *StateConfig {
	return &StateConfig{
		ID:   id,
		Type: typ,
	}
}

// WithInitial sets the initial child state ID (compound only).
func (s *StateConfig) WithInitial(initial string) *StateConfig {
	s.Initial = initial
	return s
}

// WithOn sets the event-to-transition map.
func (s *StateConfig) WithOn(on map[string][]TransitionConfig) *StateConfig {
	s.On = make(map[string][]TransitionConfig, len(on))
	for k, v := range on {
		s.On[k] = v
	}
	return s
}

// AddTransition appends a candidate for an event.
func (s *StateConfig) AddTransition(event string, trans TransitionConfig) *StateConfig {
	if s.On == nil {
		s.On = make(map[string][]TransitionConfig)
	}
	s.On[event] = append(s.On[event], trans)
	return s
}

// AddAlways appends an eventless candidate.
func (s *StateConfig) AddAlways(trans TransitionConfig) *StateConfig {
	s.Always = append(s.Always, trans)
	return s
}

// WithEntry sets entry action names.
func (s *StateConfig) WithEntry(entry ...string) *StateConfig {
	s.Entry = entry
	return s
}

// WithExit sets exit action names.
func (s *StateConfig) WithExit(exit ...string) *StateConfig {
	s.Exit = exit
	return s
}

// WithChildren sets child states.
func (s *StateConfig) WithChildren(children []*StateConfig) *StateConfig {
	s.Children = children
	return s
}

// AddChild adds a child state.
func (s *StateConfig) AddChild(child *StateConfig) *StateConfig {
	s.Children = append(s.Children, child)
	return s
}

// State creates and adds a child state (atomic by default, or specified type).
// Returns the child for fluent chaining: parent.State("child").Transition("evt", "target").
func (s *StateConfig) State(id string, typ ...StateType) *StateConfig {
	t := Atomic
	if len(typ) > 0 {
		t = typ[0]
	}
	child := NewStateConfig(id, t)
	s.AddChild(child)
	return child
}

// Transition adds a transition from event to target.
// Optionally override with full TransitionConfig via first arg; its Target
// is replaced by target.
func (s *StateConfig) Transition(event, target string, transOpts ...TransitionConfig) *StateConfig {
	trans := TransitionConfig{}
	if len(transOpts) > 0 {
		trans = transOpts[0]
	}
	trans.Target = target
	return s.AddTransition(event, trans)
}

// Child returns the direct child with the given ID, or nil.
func (s *StateConfig) Child(id string) *StateConfig {
	for _, c := range s.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Validate performs recursive validation of the StateConfig tree.
func (s *StateConfig) Validate() error {
	if s.ID == "" {
		return errors.New("state ID is required")
	}
	if err := ValidatePath(s.ID); err != nil {
		return fmt.Errorf("state ID: %w", err)
	}
	if strings.Contains(s.ID, ".") {
		return fmt.Errorf("state ID %q cannot contain '.'", s.ID)
	}

	switch s.Type {
	case Atomic:
		if s.Initial != "" {
			return fmt.Errorf("atomic state %s cannot have Initial", s.ID)
		}
		if len(s.Children) > 0 {
			return fmt.Errorf("atomic state %s cannot have Children", s.ID)
		}
	case Compound:
		if len(s.Children) == 0 {
			return fmt.Errorf("compound state %s requires Children", s.ID)
		}
		if s.Initial == "" {
			return fmt.Errorf("compound state %s requires Initial child", s.ID)
		}
		if s.Child(s.Initial) == nil {
			return fmt.Errorf("initial child %q not found in children of %s", s.Initial, s.ID)
		}
	case Parallel:
		if len(s.Children) == 0 {
			return fmt.Errorf("parallel state %s requires Children", s.ID)
		}
		if s.Initial != "" {
			return fmt.Errorf("parallel state %s cannot have Initial", s.ID)
		}
	default:
		return fmt.Errorf("invalid state type %q for state %s", s.Type, s.ID)
	}

	for event, transitions := range s.On {
		if strings.TrimSpace(event) == "" {
			return fmt.Errorf("empty event name in On map for state %s", s.ID)
		}
		for i := range transitions {
			if err := transitions[i].Validate(); err != nil {
				return fmt.Errorf("state %s, event %q, transition %d: %w", s.ID, event, i, err)
			}
		}
	}
	for i := range s.Always {
		if err := s.Always[i].Validate(); err != nil {
			return fmt.Errorf("state %s, eventless transition %d: %w", s.ID, i, err)
		}
		if s.Always[i].Targetless() {
			return fmt.Errorf("state %s, eventless transition %d requires a target", s.ID, i)
		}
	}

	seen := make(map[string]struct{}, len(s.Children))
	for i, child := range s.Children {
		if child == nil {
			return fmt.Errorf("child %d of %s is nil", i, s.ID)
		}
		if _, dup := seen[child.ID]; dup {
			return fmt.Errorf("duplicate child %q in %s", child.ID, s.ID)
		}
		seen[child.ID] = struct{}{}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("child %d (%s) of %s failed validation: %w", i, child.ID, s.ID, err)
		}
	}

	return nil
}
