package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comalice/chartforms/internal/primitives"
)

// Cases adapted from the W3C SCXML 1.0 IRP suite. Each machine ends in
// "pass" or "fail"; onentry raises become external sends.

// noted reports whether entry appears exactly n times in the journal.
func noted(entry string, n int) Guard[journal] {
	return func(j journal, _ primitives.Event) bool {
		count := 0
		for _, e := range j.Log {
			if e == entry {
				count++
			}
		}
		return count == n
	}
}

func countIs(n int) Guard[journal] {
	return func(j journal, _ primitives.Event) bool { return j.Count == n }
}

func conformance(t *testing.T, b *primitives.MachineBuilder, guards map[string]Guard[journal], actions ...string) *Interpreter[journal] {
	t.Helper()
	b.Atomic("pass")
	b.Atomic("fail")
	reg := Registry[journal]{
		Guards:  guards,
		Actions: map[string]Action[journal]{"increment": increment},
	}
	for _, name := range actions {
		reg.Actions[name] = note(name)
	}
	return New(mustDefine(t, b, reg), journal{})
}

func TestSCXML403a(t *testing.T) {
	// Child transitions take precedence over the parent and document order
	// breaks ties; the parent fires when no child transition is enabled.
	b := primitives.NewMachineBuilder("scxml403a", "s0")
	b.Compound("s0", "s01").
		Transition("event1", "fail").
		Transition("event2", "pass").
		Atomic("s01").
		Transition("event1", "s02").
		Transition("event1", "fail").Up().
		Atomic("s02").
		Transition("event1", "fail").
		On("event2", primitives.TransitionConfig{Guard: "never", Target: "fail"})
	interp := conformance(t, b, map[string]Guard[journal]{
		"never": func(journal, primitives.Event) bool { return false },
	})

	interp.Start()
	assert.True(t, interp.Send(ev("event1")).Matches("s0.s02"))
	assert.Equal(t, []string{"pass"}, interp.Send(ev("event2")).Configuration.Leaves())
}

func TestSCXML404(t *testing.T) {
	// Parallel children exit in reverse document order before the parent,
	// and all exits run before the transition content.
	b := primitives.NewMachineBuilder("scxml404", "s0")
	b.Parallel("s0").Exit("exitS0").
		On("GO", primitives.TransitionConfig{Target: "pass", Actions: []string{"onGo"}}).
		Atomic("s01").Exit("exitS01").Up().
		Atomic("s02").Exit("exitS02")
	interp := conformance(t, b, nil, "exitS0", "exitS01", "exitS02", "onGo")

	interp.Start()
	st := interp.Send(ev("GO"))
	assert.Equal(t, []string{"exitS02", "exitS01", "exitS0", "onGo"}, st.Context.Log)
	assert.Equal(t, []string{"pass"}, st.Configuration.Leaves())
}

func TestSCXML405(t *testing.T) {
	// Transition content in parallel regions runs in document order.
	b := primitives.NewMachineBuilder("scxml405", "s0")
	b.Parallel("s0").
		Compound("s01", "s011").
		Atomic("s011").On("GO", primitives.TransitionConfig{Target: "s012", Actions: []string{"first"}}).Up().
		Atomic("s012").Up().Up().
		Compound("s02", "s021").
		Atomic("s021").On("GO", primitives.TransitionConfig{Target: "s022", Actions: []string{"second"}}).Up().
		Atomic("s022")
	interp := conformance(t, b, nil, "first", "second")

	interp.Start()
	st := interp.Send(ev("GO"))
	assert.Equal(t, []string{"first", "second"}, st.Context.Log)
	assert.Equal(t, []string{"s0.s01.s012", "s0.s02.s022"}, st.Configuration.Leaves())
}

func TestSCXML406(t *testing.T) {
	// States enter in document order, parents before children.
	b := primitives.NewMachineBuilder("scxml406", "s0")
	b.Atomic("s0").On("GO", primitives.TransitionConfig{Target: "s1", Actions: []string{"onGo"}})
	b.Parallel("s1").Entry("enterS1").
		Compound("s11", "s111").Entry("enterS11").
		Atomic("s111").Entry("enterS111").Up().Up().
		Atomic("s12").Entry("enterS12")
	interp := conformance(t, b, nil, "onGo", "enterS1", "enterS11", "enterS111", "enterS12")

	interp.Start()
	st := interp.Send(ev("GO"))
	assert.Equal(t, []string{"onGo", "enterS1", "enterS11", "enterS111", "enterS12"}, st.Context.Log)
}

func TestSCXML503(t *testing.T) {
	// A targetless transition does not exit its source.
	b := primitives.NewMachineBuilder("scxml503", "s1")
	b.Atomic("s1").Always(primitives.TransitionConfig{Target: "s2"})
	b.Atomic("s2").Exit("exitS2").
		On("foo", primitives.TransitionConfig{Actions: []string{"increment"}}).
		On("bar",
			primitives.TransitionConfig{Guard: "once", Target: "s3"},
			primitives.TransitionConfig{Target: "fail"},
		)
	b.Atomic("s3").Always(
		primitives.TransitionConfig{Guard: "exitedS2Once", Target: "pass"},
		primitives.TransitionConfig{Target: "fail"},
	)
	interp := conformance(t, b, map[string]Guard[journal]{
		"once":         countIs(1),
		"exitedS2Once": noted("exitS2", 1),
	}, "exitS2")

	interp.Start()
	interp.Send(ev("foo"))
	assert.Equal(t, []string{"pass"}, interp.Send(ev("bar")).Configuration.Leaves())
}

func TestSCXML505(t *testing.T) {
	// An internal transition into a descendant does not exit the source.
	b := primitives.NewMachineBuilder("scxml505", "s1")
	b.Compound("s1", "s11").Exit("exitS1").
		On("foo", primitives.TransitionConfig{Target: ".s11", Actions: []string{"increment"}}).
		On("bar",
			primitives.TransitionConfig{Guard: "once", Target: "s2"},
			primitives.TransitionConfig{Target: "fail"},
		).
		Atomic("s11").Exit("exitS11")
	b.Atomic("s2").Always(
		primitives.TransitionConfig{Guard: "exitedS1Once", Target: "s3"},
		primitives.TransitionConfig{Target: "fail"},
	)
	b.Atomic("s3").Always(
		primitives.TransitionConfig{Guard: "exitedS11Twice", Target: "pass"},
		primitives.TransitionConfig{Target: "fail"},
	)
	interp := conformance(t, b, map[string]Guard[journal]{
		"once":           countIs(1),
		"exitedS1Once":   noted("exitS1", 1),
		"exitedS11Twice": noted("exitS11", 2),
	}, "exitS1", "exitS11")

	interp.Start()
	interp.Send(ev("foo"))
	assert.Equal(t, []string{"pass"}, interp.Send(ev("bar")).Configuration.Leaves())
}

func TestSCXML506(t *testing.T) {
	// An external self-transition exits and re-enters the source.
	b := primitives.NewMachineBuilder("scxml506", "s1")
	b.Atomic("s1").Always(primitives.TransitionConfig{Target: "s2"})
	b.Compound("s2", "s21").Exit("exitS2").
		On("foo", primitives.TransitionConfig{Target: "s2", Actions: []string{"increment"}}).
		On("bar",
			primitives.TransitionConfig{Guard: "once", Target: "s3"},
			primitives.TransitionConfig{Target: "fail"},
		).
		Atomic("s21").Exit("exitS21")
	b.Atomic("s3").Always(
		primitives.TransitionConfig{Guard: "exitedS2Twice", Target: "s4"},
		primitives.TransitionConfig{Target: "fail"},
	)
	b.Atomic("s4").Always(
		primitives.TransitionConfig{Guard: "exitedS21Twice", Target: "pass"},
		primitives.TransitionConfig{Target: "fail"},
	)
	interp := conformance(t, b, map[string]Guard[journal]{
		"once":           countIs(1),
		"exitedS2Twice":  noted("exitS2", 2),
		"exitedS21Twice": noted("exitS21", 2),
	}, "exitS2", "exitS21")

	interp.Start()
	interp.Send(ev("foo"))
	st := interp.Send(ev("bar"))
	assert.Equal(t, []string{"pass"}, st.Configuration.Leaves())
	assert.Equal(t, []string{"exitS21", "exitS2", "exitS21", "exitS2"}, st.Context.Log)
}
