package core

import (
	"encoding/json"
	"strings"
)

// Configuration is the set of active leaf states, in document order.
// The zero value is the configuration of an interpreter that has not started.
type Configuration struct {
	leaves []*StateNode
}

// Leaves returns the dotted paths of the active leaves.
func (c Configuration) Leaves() []string {
	out := make([]string, len(c.leaves))
	for i, n := range c.leaves {
		out[i] = n.path
	}
	return out
}

// Nodes returns the active leaf nodes.
func (c Configuration) Nodes() []*StateNode {
	return append([]*StateNode(nil), c.leaves...)
}

// IsZero reports whether the configuration is empty.
func (c Configuration) IsZero() bool {
	return len(c.leaves) == 0
}

// Matches reports whether the node at path is active, that is, whether it is
// an active leaf or an ancestor of one.
func (c Configuration) Matches(path string) bool {
	if path == "" {
		return false
	}
	for _, leaf := range c.leaves {
		for n := leaf; n != nil && n.depth > 0; n = n.parent {
			if n.path == path {
				return true
			}
		}
	}
	return false
}

// Leaf returns the active leaf below region, or nil when region is not
// active.
func (c Configuration) Leaf(region string) *StateNode {
	for _, leaf := range c.leaves {
		if leaf.path == region || strings.HasPrefix(leaf.path, region+".") {
			return leaf
		}
	}
	return nil
}

// Equal reports whether both configurations hold the same leaves.
func (c Configuration) Equal(other Configuration) bool {
	if len(c.leaves) != len(other.leaves) {
		return false
	}
	for i := range c.leaves {
		if c.leaves[i] != other.leaves[i] {
			return false
		}
	}
	return true
}

// String joins the leaf paths with commas, e.g. "username.idle,password.idle".
func (c Configuration) String() string {
	return strings.Join(c.Leaves(), ",")
}

// MarshalJSON encodes the configuration as its list of leaf paths.
func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Leaves())
}
