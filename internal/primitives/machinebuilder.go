// Package primitives includes builder helpers for MachineConfig.
package primitives

// MachineBuilder builds hierarchical MachineConfig fluently.
type MachineBuilder struct {
	config *MachineConfig
}

// NewMachineBuilder creates a builder for a machine whose root is a compound
// state entering initial.
func NewMachineBuilder(id, initial string) *MachineBuilder {
	return &MachineBuilder{
		config: &MachineConfig{ID: id, Type: Compound, Initial: initial},
	}
}

// NewParallelMachineBuilder creates a builder for a machine whose root is parallel.
func NewParallelMachineBuilder(id string) *MachineBuilder {
	return &MachineBuilder{
		config: &MachineConfig{ID: id, Type: Parallel},
	}
}

// Version pins the machine version instead of the computed fingerprint.
func (b *MachineBuilder) Version(v string) *MachineBuilder {
	b.config.Version = v
	return b
}

// Compound starts a top-level compound state.
func (b *MachineBuilder) Compound(id, initial string) *StateBuilder {
	return b.add(NewStateConfig(id, Compound).WithInitial(initial))
}

// Parallel starts a top-level parallel state.
func (b *MachineBuilder) Parallel(id string) *StateBuilder {
	return b.add(NewStateConfig(id, Parallel))
}

// Atomic starts a top-level atomic state.
func (b *MachineBuilder) Atomic(id string) *StateBuilder {
	return b.add(NewStateConfig(id, Atomic))
}

// State sugar for Atomic.
func (b *MachineBuilder) State(id string) *StateBuilder {
	return b.Atomic(id)
}

func (b *MachineBuilder) add(s *StateConfig) *StateBuilder {
	b.config.States = append(b.config.States, s)
	return &StateBuilder{state: s, mb: b}
}

// StateBuilder for fluent transitions/nesting.
type StateBuilder struct {
	state  *StateConfig
	parent *StateBuilder
	mb     *MachineBuilder
}

// Config exposes the state being built.
func (sb *StateBuilder) Config() *StateConfig {
	return sb.state
}

// Transition adds a guarded candidate for event.
func (sb *StateBuilder) Transition(event, target string, opts ...TransitionConfig) *StateBuilder {
	sb.state.Transition(event, target, opts...)
	return sb
}

// On adds candidates for event, in evaluation order.
func (sb *StateBuilder) On(event string, candidates ...TransitionConfig) *StateBuilder {
	for _, c := range candidates {
		sb.state.AddTransition(event, c)
	}
	return sb
}

// Always adds eventless candidates, in evaluation order.
func (sb *StateBuilder) Always(candidates ...TransitionConfig) *StateBuilder {
	for _, c := range candidates {
		sb.state.AddAlways(c)
	}
	return sb
}

// Entry appends entry action names.
func (sb *StateBuilder) Entry(names ...string) *StateBuilder {
	sb.state.Entry = append(sb.state.Entry, names...)
	return sb
}

// Exit appends exit action names.
func (sb *StateBuilder) Exit(names ...string) *StateBuilder {
	sb.state.Exit = append(sb.state.Exit, names...)
	return sb
}

// Compound nests compound child.
func (sb *StateBuilder) Compound(id, initial string) *StateBuilder {
	child := sb.state.State(id, Compound).WithInitial(initial)
	return &StateBuilder{state: child, parent: sb, mb: sb.mb}
}

// Parallel nests parallel child.
func (sb *StateBuilder) Parallel(id string) *StateBuilder {
	child := sb.state.State(id, Parallel)
	return &StateBuilder{state: child, parent: sb, mb: sb.mb}
}

// Atomic nests atomic child.
func (sb *StateBuilder) Atomic(id string) *StateBuilder {
	child := sb.state.State(id)
	return &StateBuilder{state: child, parent: sb, mb: sb.mb}
}

// Up returns the parent builder; at the top level it returns sb.
func (sb *StateBuilder) Up() *StateBuilder {
	if sb.parent != nil {
		return sb.parent
	}
	return sb
}

// Machine returns the owning MachineBuilder.
func (sb *StateBuilder) Machine() *MachineBuilder {
	return sb.mb
}

// Config returns the config built so far without validating it.
func (b *MachineBuilder) Config() MachineConfig {
	return *b.config
}

// Build validates and returns the config.
func (b *MachineBuilder) Build() (MachineConfig, error) {
	if err := b.config.Validate(); err != nil {
		return MachineConfig{}, err
	}
	return *b.config, nil
}

// MustBuild is Build for package-level definitions; it panics on invalid configs.
func (b *MachineBuilder) MustBuild() MachineConfig {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
