// Package primitives defines the foundational data structures for the statechart engine.
//
// MachineConfig represents the top-level configuration of a statechart machine:
// the machine ID, the type of the implicit root, its initial child (compound
// roots only) and the ordered list of top-level states.
// Validation covers structure only; name and target resolution happen when
// the config is compiled.

package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// MachineConfig defines the complete statechart configuration.
type MachineConfig struct {
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`
	ID      string         `json:"id" yaml:"id"`
	Type    StateType      `json:"type" yaml:"type"`
	Initial string         `json:"initial,omitempty" yaml:"initial,omitempty"`
	States  []*StateConfig `json:"states" yaml:"states"`
}

// Root returns the implicit root as a StateConfig so the tree can be walked uniformly.
func (m *MachineConfig) Root() *StateConfig {
	typ := m.Type
	if typ == "" {
		typ = Compound
	}
	return &StateConfig{ID: m.ID, Type: typ, Initial: m.Initial, Children: m.States}
}

// Validate validates the entire machine configuration:
// - Non-empty ID
// - Root type compound (with an existing Initial) or parallel
// - All individual states validate (recursive)
func (m *MachineConfig) Validate() error {
	if m.ID == "" {
		return errors.New("machine ID is required")
	}
	if len(m.States) == 0 {
		return errors.New("states are required and cannot be empty")
	}
	if err := m.Root().Validate(); err != nil {
		return fmt.Errorf("machine %q: %w", m.ID, err)
	}
	return nil
}

// FindState resolves a state by hierarchical path (e.g. "parent.child.grandchild").
func (m *MachineConfig) FindState(path string) (*StateConfig, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	segments := strings.Split(path, ".")
	current := m.Root()
	for i, seg := range segments {
		next := current.Child(seg)
		if next == nil {
			if i == 0 {
				return nil, fmt.Errorf("state %q not found", seg)
			}
			return nil, fmt.Errorf("child %q not found in %q", seg, strings.Join(segments[:i], "."))
		}
		current = next
	}
	return current, nil
}

// Walk visits every state in document order with its full path.
func (m *MachineConfig) Walk(fn func(path string, state *StateConfig)) {
	var walk func(prefix string, s *StateConfig)
	walk = func(prefix string, s *StateConfig) {
		path := JoinPath(prefix, s.ID)
		fn(path, s)
		for _, c := range s.Children {
			walk(path, c)
		}
	}
	for _, s := range m.States {
		walk("", s)
	}
}
