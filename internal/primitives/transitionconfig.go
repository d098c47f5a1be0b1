// Package primitives defines the foundational data structures for the statechart engine.
// TransitionConfig defines one guarded candidate of a transition list.
//
// Candidates for the same event are evaluated in declaration order and the
// first one whose guard holds wins. Targets use dot-separated paths:
// ".child" is relative to the owning state, a bare name may refer to a
// sibling, anything else is resolved from the root.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// TransitionConfig defines a single transition candidate.
type TransitionConfig struct {
	Guard   string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	In      []string `json:"in,omitempty" yaml:"in,omitempty"`
	Target  string   `json:"target,omitempty" yaml:"target,omitempty"`
	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Targetless reports whether the transition only runs actions.
func (t *TransitionConfig) Targetless() bool {
	return t.Target == ""
}

// Validate checks target path syntax and name references.
func (t *TransitionConfig) Validate() error {
	if t.Target != "" {
		if err := ValidatePath(strings.TrimPrefix(t.Target, ".")); err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
	}
	for _, in := range t.In {
		if err := ValidatePath(in); err != nil {
			return fmt.Errorf("invalid in-state reference: %w", err)
		}
	}
	for i, a := range t.Actions {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("empty action name at index %d", i)
		}
	}
	return nil
}

// ValidatePath checks that path is made of non-empty segments of
// alphanumerics, underscores and hyphens.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}
	for i, seg := range strings.Split(path, ".") {
		if seg == "" {
			return fmt.Errorf("path %q: empty segment at index %d", path, i)
		}
		for _, r := range seg {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
				return fmt.Errorf("path %q: invalid character '%c' in segment %d", path, r, i)
			}
		}
	}
	return nil
}

// JoinPath joins path segments with dots, skipping empty segments.
func JoinPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s)
	}
	return b.String()
}
