// Package core provides the runtime tier of the statechart engine: compiled
// definitions, configurations and the run-to-completion interpreter.
//
// A Definition is built once from a primitives.MachineConfig and a typed
// Registry and is shared by every Interpreter of that machine type. Each
// Interpreter owns one configuration and one context value.
package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/comalice/chartforms/internal/primitives"
)

// StateNode is a compiled, immutable node of a definition tree.
type StateNode struct {
	id       string
	path     string
	kind     primitives.StateType
	parent   *StateNode
	children []*StateNode
	initial  *StateNode
	config   *primitives.StateConfig
	order    int
	depth    int
}

// ID returns the node identifier, unique among its siblings.
func (n *StateNode) ID() string { return n.id }

// Path returns the dotted path from the root. The root's path is empty.
func (n *StateNode) Path() string { return n.path }

// Type returns the node kind.
func (n *StateNode) Type() primitives.StateType { return n.kind }

// Parent returns the enclosing node, or nil for the root.
func (n *StateNode) Parent() *StateNode { return n.parent }

// Initial returns the initial child of a compound node.
func (n *StateNode) Initial() *StateNode { return n.initial }

// Children returns the child nodes in document order.
func (n *StateNode) Children() []*StateNode {
	return append([]*StateNode(nil), n.children...)
}

// Child returns the direct child named id, or nil.
func (n *StateNode) Child(id string) *StateNode {
	for _, c := range n.children {
		if c.id == id {
			return c
		}
	}
	return nil
}

// IsAtomic reports whether the node has no children.
func (n *StateNode) IsAtomic() bool { return n.kind == primitives.Atomic }

func (n *StateNode) String() string {
	if n.path == "" {
		return "(root)"
	}
	return n.path
}

type actionRef[C any] struct {
	name   string
	fn     Action[C]
	effect bool
}

type transition[C any] struct {
	source    *StateNode
	event     string
	guardName string
	guard     Guard[C]
	in        []*StateNode
	target    *StateNode
	internal  bool
	actions   []actionRef[C]
}

// behavior holds the resolved transitions and actions of one node.
type behavior[C any] struct {
	on     map[string][]*transition[C]
	always []*transition[C]
	entry  []actionRef[C]
	exit   []actionRef[C]
}

// Edge describes one transition candidate for export and inspection.
type Edge struct {
	Source   string   `json:"source" yaml:"source"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty"`
	Event    string   `json:"event,omitempty" yaml:"event,omitempty"`
	Guard    string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	In       []string `json:"in,omitempty" yaml:"in,omitempty"`
	Actions  []string `json:"actions,omitempty" yaml:"actions,omitempty"`
	Internal bool     `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// Definition is a compiled statechart whose guard and action names have
// been resolved against a Registry. It is immutable and safe to share.
type Definition[C any] struct {
	config    primitives.MachineConfig
	version   string
	root      *StateNode
	nodes     []*StateNode
	index     map[string]*StateNode
	behaviors []behavior[C]
	effects   map[string]struct{}
	edges     []Edge
}

// NewDefinition validates config and resolves every name it references.
// Any failure is reported as a *DefinitionError.
func NewDefinition[C any](config primitives.MachineConfig, reg Registry[C]) (*Definition[C], error) {
	if err := config.Validate(); err != nil {
		return nil, &DefinitionError{Machine: config.ID, Reason: "invalid structure", Err: err}
	}

	d := &Definition[C]{
		config:  config,
		version: primitives.ComputeVersion(&config),
		index:   make(map[string]*StateNode),
		effects: make(map[string]struct{}, len(reg.Effects)),
	}
	d.root = buildNodes(nil, config.Root(), &d.nodes, d.index)
	d.behaviors = make([]behavior[C], len(d.nodes))

	for _, name := range reg.Effects {
		if _, clash := reg.Actions[name]; clash {
			return nil, d.errorf(nil, "effect %q is also registered as an action", name)
		}
		d.effects[name] = struct{}{}
	}

	for _, n := range d.nodes {
		if err := d.compileNode(n, reg); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDefinition is NewDefinition for package-level machine definitions.
func MustDefinition[C any](config primitives.MachineConfig, reg Registry[C]) *Definition[C] {
	d, err := NewDefinition(config, reg)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definition[C]) errorf(n *StateNode, format string, args ...any) *DefinitionError {
	e := &DefinitionError{Machine: d.config.ID, Reason: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Path = n.path
	}
	return e
}

func (d *Definition[C]) compileNode(n *StateNode, reg Registry[C]) error {
	b := &d.behaviors[n.order]
	cfg := n.config

	var err error
	if b.entry, err = d.resolveActions(n, cfg.Entry, reg); err != nil {
		return err
	}
	if b.exit, err = d.resolveActions(n, cfg.Exit, reg); err != nil {
		return err
	}

	// Map iteration order is random; sort events so edges are stable.
	events := make([]string, 0, len(cfg.On))
	for event := range cfg.On {
		events = append(events, event)
	}
	slices.Sort(events)

	if len(events) > 0 {
		b.on = make(map[string][]*transition[C], len(events))
	}
	for _, event := range events {
		for i := range cfg.On[event] {
			t, err := d.compileTransition(n, event, &cfg.On[event][i], reg)
			if err != nil {
				return err
			}
			b.on[event] = append(b.on[event], t)
		}
	}
	for i := range cfg.Always {
		t, err := d.compileTransition(n, "", &cfg.Always[i], reg)
		if err != nil {
			return err
		}
		b.always = append(b.always, t)
	}
	return nil
}

func (d *Definition[C]) compileTransition(n *StateNode, event string, tc *primitives.TransitionConfig, reg Registry[C]) (*transition[C], error) {
	t := &transition[C]{source: n, event: event, guardName: tc.Guard}
	if tc.Guard != "" {
		g, ok := reg.Guards[tc.Guard]
		if !ok || g == nil {
			return nil, d.errorf(n, "unknown guard %q", tc.Guard)
		}
		t.guard = g
	}
	for _, p := range tc.In {
		in, ok := d.index[p]
		if !ok {
			return nil, d.errorf(n, "in-state reference %q does not exist", p)
		}
		t.in = append(t.in, in)
	}
	if tc.Target != "" {
		target, internal := d.resolveTarget(n, tc.Target)
		if target == nil {
			return nil, d.errorf(n, "target %q does not exist", tc.Target)
		}
		t.target, t.internal = target, internal
	}
	var err error
	if t.actions, err = d.resolveActions(n, tc.Actions, reg); err != nil {
		return nil, err
	}

	e := Edge{
		Source:   n.path,
		Event:    event,
		Guard:    tc.Guard,
		In:       append([]string(nil), tc.In...),
		Actions:  append([]string(nil), tc.Actions...),
		Internal: t.internal,
	}
	if t.target != nil {
		e.Target = t.target.path
	}
	d.edges = append(d.edges, e)
	return t, nil
}

// resolveTarget resolves ".child" relative to source (internal), then a bare
// name against the siblings of source, then an absolute path from the root.
func (d *Definition[C]) resolveTarget(source *StateNode, target string) (*StateNode, bool) {
	if rel, ok := strings.CutPrefix(target, "."); ok {
		return descend(source, rel), true
	}
	if source.parent != nil {
		first, _, _ := strings.Cut(target, ".")
		if source.parent.Child(first) != nil {
			return descend(source.parent, target), false
		}
	}
	return d.index[target], false
}

func (d *Definition[C]) resolveActions(n *StateNode, names []string, reg Registry[C]) ([]actionRef[C], error) {
	if len(names) == 0 {
		return nil, nil
	}
	refs := make([]actionRef[C], 0, len(names))
	for _, name := range names {
		if fn, ok := reg.Actions[name]; ok && fn != nil {
			refs = append(refs, actionRef[C]{name: name, fn: fn})
			continue
		}
		if _, ok := d.effects[name]; ok {
			refs = append(refs, actionRef[C]{name: name, effect: true})
			continue
		}
		return nil, d.errorf(n, "unknown action %q", name)
	}
	return refs, nil
}

// ID returns the machine identifier.
func (d *Definition[C]) ID() string { return d.config.ID }

// Version returns the structural fingerprint of the definition.
func (d *Definition[C]) Version() string { return d.version }

// Config returns the source configuration. Callers must not mutate it.
func (d *Definition[C]) Config() primitives.MachineConfig { return d.config }

// Root returns the implicit root node.
func (d *Definition[C]) Root() *StateNode { return d.root }

// Nodes returns every node except the root in document order.
func (d *Definition[C]) Nodes() []*StateNode {
	return append([]*StateNode(nil), d.nodes[1:]...)
}

// Edges returns every transition candidate in document order.
func (d *Definition[C]) Edges() []Edge {
	return append([]Edge(nil), d.edges...)
}

// Effects returns the declared effect names.
func (d *Definition[C]) Effects() []string {
	out := make([]string, 0, len(d.effects))
	for name := range d.effects {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// HasEffect reports whether name was declared as an effect.
func (d *Definition[C]) HasEffect(name string) bool {
	_, ok := d.effects[name]
	return ok
}

// Lookup returns the node at a dotted path.
func (d *Definition[C]) Lookup(path string) (*StateNode, bool) {
	n, ok := d.index[path]
	return n, ok
}

// InitialConfiguration returns the configuration entered by Start before any
// eventless transition is taken.
func (d *Definition[C]) InitialConfiguration() Configuration {
	active := make([]bool, len(d.nodes))
	active[0] = true
	for _, n := range d.descendantsToEnter(d.root) {
		active[n.order] = true
	}
	return d.configurationOf(active)
}

// ParseConfiguration resolves leaf paths, as produced by
// Configuration.Leaves, back into a Configuration.
func (d *Definition[C]) ParseConfiguration(leaves []string) (Configuration, error) {
	if len(leaves) == 0 {
		return Configuration{}, fmt.Errorf("%w: no leaves", ErrInvalidConfiguration)
	}
	active := make([]bool, len(d.nodes))
	active[0] = true
	for _, p := range leaves {
		n, ok := d.index[p]
		if !ok {
			return Configuration{}, fmt.Errorf("%w: unknown state %q", ErrInvalidConfiguration, p)
		}
		if !n.IsAtomic() {
			return Configuration{}, fmt.Errorf("%w: %q is not a leaf", ErrInvalidConfiguration, p)
		}
		if active[n.order] {
			return Configuration{}, fmt.Errorf("%w: duplicate leaf %q", ErrInvalidConfiguration, p)
		}
		for a := n; a != nil; a = a.parent {
			active[a.order] = true
		}
	}
	for _, n := range d.nodes {
		if !active[n.order] {
			continue
		}
		count := 0
		for _, c := range n.children {
			if active[c.order] {
				count++
			}
		}
		switch n.kind {
		case primitives.Compound:
			if count != 1 {
				return Configuration{}, fmt.Errorf("%w: compound %s has %d active children", ErrInvalidConfiguration, n, count)
			}
		case primitives.Parallel:
			if count != len(n.children) {
				return Configuration{}, fmt.Errorf("%w: parallel %s has %d of %d regions active", ErrInvalidConfiguration, n, count, len(n.children))
			}
		}
	}
	return d.configurationOf(active), nil
}

func (d *Definition[C]) configurationOf(active []bool) Configuration {
	var leaves []*StateNode
	for _, n := range d.nodes {
		if active[n.order] && n.IsAtomic() {
			leaves = append(leaves, n)
		}
	}
	return Configuration{leaves: leaves}
}
