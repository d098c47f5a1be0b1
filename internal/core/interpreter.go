package core

import (
	"slices"

	"github.com/comalice/chartforms/internal/primitives"
)

// nodeSet is an unordered set of nodes; sorted and reversed return document order.
type nodeSet map[*StateNode]struct{}

func (s nodeSet) add(n *StateNode) { s[n] = struct{}{} }

func (s nodeSet) has(n *StateNode) bool {
	_, ok := s[n]
	return ok
}

// hasWithin reports whether n or one of its descendants is in the set.
func (s nodeSet) hasWithin(n *StateNode) bool {
	for m := range s {
		if m == n || isDescendant(m, n) {
			return true
		}
	}
	return false
}

func (s nodeSet) sorted() []*StateNode {
	out := make([]*StateNode, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *StateNode) int { return a.order - b.order })
	return out
}

func (s nodeSet) reversed() []*StateNode {
	out := s.sorted()
	slices.Reverse(out)
	return out
}

// enabled checks the in-state precondition first, then the guard.
func (t *transition[C]) enabled(active []bool, ctx C, event primitives.Event) bool {
	for _, n := range t.in {
		if !active[n.order] {
			return false
		}
	}
	return t.guard == nil || t.guard(ctx, event)
}

// domain returns the node whose active descendants are exited when t is
// taken: the source for internal transitions into its own subtree, else the
// least common compound ancestor of source and target. Targetless
// transitions have no domain.
func (t *transition[C]) domain() *StateNode {
	if t.target == nil {
		return nil
	}
	if t.internal && isDescendant(t.target, t.source) {
		return t.source
	}
	for a := t.source.parent; a != nil; a = a.parent {
		if (a.kind == primitives.Compound || a.parent == nil) && isDescendant(t.target, a) {
			return a
		}
	}
	return nil
}

// selectTransitions picks at most one transition per active leaf. Each leaf
// searches itself and then its ancestors, and within a node the first
// enabled candidate wins. Leaves are visited in document order.
func (d *Definition[C]) selectTransitions(active []bool, ctx C, event primitives.Event, eventless bool) []*transition[C] {
	var selected []*transition[C]
	evaluated := make(map[*transition[C]]bool)
	for _, leaf := range d.nodes {
		if !active[leaf.order] || !leaf.IsAtomic() {
			continue
		}
	search:
		for n := leaf; n != nil; n = n.parent {
			b := &d.behaviors[n.order]
			candidates := b.always
			if !eventless {
				candidates = b.on[event.Type]
			}
			for _, t := range candidates {
				ok, seen := evaluated[t]
				if !seen {
					ok = t.enabled(active, ctx, event)
					evaluated[t] = ok
				}
				if !ok {
					continue
				}
				if !slices.Contains(selected, t) {
					selected = append(selected, t)
				}
				break search
			}
		}
	}
	return d.removeConflicts(active, selected)
}

// removeConflicts drops every transition whose exit set intersects the exit
// set of a transition selected before it.
func (d *Definition[C]) removeConflicts(active []bool, selected []*transition[C]) []*transition[C] {
	if len(selected) < 2 {
		return selected
	}
	kept := selected[:0:0]
	exited := nodeSet{}
	for _, t := range selected {
		exits := d.exitSet(t, active)
		if slices.ContainsFunc(exits, exited.has) {
			continue
		}
		for _, n := range exits {
			exited.add(n)
		}
		kept = append(kept, t)
	}
	return kept
}

// exitSet returns the active proper descendants of the transition domain.
func (d *Definition[C]) exitSet(t *transition[C], active []bool) []*StateNode {
	dom := t.domain()
	if dom == nil {
		return nil
	}
	var out []*StateNode
	for _, n := range d.nodes {
		if active[n.order] && isDescendant(n, dom) {
			out = append(out, n)
		}
	}
	return out
}

// addEntrySet adds the target, its default descendants, and every ancestor
// up to the domain along with the sibling regions of parallel ancestors.
func (d *Definition[C]) addEntrySet(t *transition[C], set nodeSet) {
	if t.target == nil {
		return
	}
	d.addDescendants(t.target, set)
	dom := t.domain()
	for a := t.target.parent; a != nil && a != dom; a = a.parent {
		set.add(a)
		d.addMissingRegions(a, set)
	}
	// A parallel domain had every region exited.
	if dom != nil {
		d.addMissingRegions(dom, set)
	}
}

func (d *Definition[C]) addMissingRegions(n *StateNode, set nodeSet) {
	if n.kind != primitives.Parallel {
		return
	}
	for _, region := range n.children {
		if !set.hasWithin(region) {
			d.addDescendants(region, set)
		}
	}
}

func (d *Definition[C]) addDescendants(n *StateNode, set nodeSet) {
	set.add(n)
	switch n.kind {
	case primitives.Compound:
		d.addDescendants(n.initial, set)
	case primitives.Parallel:
		d.addMissingRegions(n, set)
	}
}

// descendantsToEnter returns n and its default descendants in document order.
func (d *Definition[C]) descendantsToEnter(n *StateNode) []*StateNode {
	set := nodeSet{}
	d.addDescendants(n, set)
	return set.sorted()
}
