// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/primitives"
)

// Counter is the context used by benchmark machines.
type Counter struct {
	Ticks int
}

// Registry counts ticks and gates on an even count.
var Registry = core.Registry[Counter]{
	Guards: map[string]core.Guard[Counter]{
		"even": func(c Counter, _ primitives.Event) bool { return c.Ticks%2 == 0 },
		"odd":  func(c Counter, _ primitives.Event) bool { return c.Ticks%2 == 1 },
	},
	Actions: map[string]core.Action[Counter]{
		"count": func(c Counter, _ primitives.Event) Counter {
			c.Ticks++
			return c
		},
	},
}

var tick = primitives.TransitionConfig{Actions: []string{"count"}}

func withTarget(t primitives.TransitionConfig, target string) primitives.TransitionConfig {
	t.Target = target
	return t
}

// GenFlatConfig creates a flat machine with n atomic states cycling via "tick" events.
func GenFlatConfig(n int) primitives.MachineConfig {
	if n < 1 {
		n = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("flat_%d", n), "s0")
	for i := 0; i < n; i++ {
		mb.Atomic(fmt.Sprintf("s%d", i)).On("tick", withTarget(tick, fmt.Sprintf("s%d", (i+1)%n)))
	}
	return mb.MustBuild()
}

// GenDeepConfig creates a deeply nested hierarchy flipping between leaves at the bottom.
func GenDeepConfig(depth int) primitives.MachineConfig {
	if depth < 1 {
		depth = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("deep_%d", depth), "c0")
	sb := mb.Compound("c0", "c1")
	for i := 1; i < depth; i++ {
		sb = sb.Compound(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i+1))
	}
	sb.Config().Initial = "leaf1"
	sb.Atomic("leaf1").On("tick", withTarget(tick, "leaf2"))
	sb.Atomic("leaf2").On("tick", withTarget(tick, "leaf1"))
	return mb.MustBuild()
}

// GenParallelConfig creates a parallel machine whose regions all flip on every tick.
func GenParallelConfig(regions int) primitives.MachineConfig {
	if regions < 1 {
		regions = 1
	}
	mb := primitives.NewParallelMachineBuilder(fmt.Sprintf("parallel_%d", regions))
	for i := 0; i < regions; i++ {
		r := mb.Compound(fmt.Sprintf("r%d", i), "a")
		r.Atomic("a").Transition("tick", "b")
		r.Atomic("b").Transition("tick", "a")
	}
	return mb.MustBuild()
}

// GenGuardedConfig creates one state with numGuards guarded candidates where
// only the last one is enabled.
func GenGuardedConfig(numGuards int) primitives.MachineConfig {
	if numGuards < 1 {
		numGuards = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("guarded_%d", numGuards), "main")
	main := mb.Atomic("main")
	for i := 0; i < numGuards-1; i++ {
		main.On("tick", primitives.TransitionConfig{Guard: "odd", Target: "main"})
	}
	main.On("tick", primitives.TransitionConfig{Guard: "even", Target: "main"})
	return mb.MustBuild()
}

// Start compiles config and returns a started interpreter.
func Start(config primitives.MachineConfig) *core.Interpreter[Counter] {
	m := core.New(core.MustDefinition(config, Registry), Counter{})
	m.Start()
	return m
}
