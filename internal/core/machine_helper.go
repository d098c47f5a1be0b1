// Helper functions that turn a MachineConfig tree into linked StateNodes.

package core

import (
	"strings"

	"github.com/comalice/chartforms/internal/primitives"
)

// buildNodes recursively links state configs under parent, assigning each
// node its path and its pre-order index in nodes.
func buildNodes(parent *StateNode, state *primitives.StateConfig, nodes *[]*StateNode, index map[string]*StateNode) *StateNode {
	n := &StateNode{
		id:     state.ID,
		kind:   state.Type,
		parent: parent,
		config: state,
		order:  len(*nodes),
	}
	if parent != nil {
		n.path = primitives.JoinPath(parent.path, state.ID)
		n.depth = parent.depth + 1
		index[n.path] = n
	}
	*nodes = append(*nodes, n)

	for _, child := range state.Children {
		c := buildNodes(n, child, nodes, index)
		n.children = append(n.children, c)
		if child.ID == state.Initial {
			n.initial = c
		}
	}
	return n
}

// descend walks the dotted segments of rel starting at from.
func descend(from *StateNode, rel string) *StateNode {
	current := from
	for _, seg := range strings.Split(rel, ".") {
		current = current.Child(seg)
		if current == nil {
			return nil
		}
	}
	return current
}

// isDescendant reports whether n is a proper descendant of ancestor.
func isDescendant(n, ancestor *StateNode) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
