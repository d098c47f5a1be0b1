// Package signup defines the sign-up form statechart: parallel username and
// password validation regions and, in the Full variant, a submit region that
// only opens once both fields are valid.
//
// The definitions are shared and immutable. Each form owns its own
// interpreter:
//
//	form := core.New(signup.Full, signup.InitialContext(""),
//		core.WithEffect(signup.EffectUsernameFocus, selectField))
//	form.Start()
//	form.Send(signup.SetUsername("alice"))
package signup

import (
	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/extensibility"
	"github.com/comalice/chartforms/internal/primitives"
)

// MinPasswordLength is the shortest password accepted as valid.
const MinPasswordLength = 8

// Region and state paths.
const (
	RegionUsername = "username"
	RegionPassword = "password"
	RegionSubmit   = "submit"

	UsernameIdle          = "username.idle"
	UsernameEditing       = "username.editing"
	UsernameValid         = "username.valid"
	UsernameUniquePending = "username.uniquePending"
	UsernameTaken         = "username.taken"
	UsernameRequired      = "username.required"

	PasswordIdle     = "password.idle"
	PasswordEditing  = "password.editing"
	PasswordValid    = "password.valid"
	PasswordInvalid  = "password.invalid"
	PasswordRequired = "password.required"

	SubmitDisabled = "submit.disabled"
	SubmitEnabled  = "submit.enabled"
	SubmitPending  = "submit.pending"
	SubmitSuccess  = "submit.success"
	SubmitFailure  = "submit.failure"
)

// Effects bound per form. They run on the focus events and may not change
// the context.
const (
	EffectUsernameFocus = "usernameFocus"
	EffectPasswordFocus = "passwordFocus"
)

// Context is the extended state of a sign-up form.
type Context struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// InitialContext seeds the form. A non-empty username skips straight to the
// uniqueness check when the interpreter starts.
func InitialContext(username string) Context {
	return Context{Username: username}
}

var (
	// Basic validates username and password only.
	Basic = core.MustDefinition(build(false), registry())
	// Full adds the submission lifecycle.
	Full = core.MustDefinition(build(true), registry())
)

func registry() core.Registry[Context] {
	return core.Registry[Context]{
		Guards: map[string]core.Guard[Context]{
			"hasUsername": extensibility.ContextHolds(func(c Context) bool {
				return c.Username != ""
			}),
			"answersUsername": extensibility.PayloadIs(func(c Context) string {
				return c.Username
			}),
			"emptyPayload":  extensibility.PayloadEmpty[Context](),
			"shortPassword": extensibility.PayloadShorterThan[Context](MinPasswordLength),
		},
		Actions: map[string]core.Action[Context]{
			"assignUsername": extensibility.AssignPayload(func(c Context, v string) Context {
				c.Username = v
				return c
			}),
			"assignPassword": extensibility.AssignPayload(func(c Context, v string) Context {
				c.Password = v
				return c
			}),
		},
		Effects: []string{EffectUsernameFocus, EffectPasswordFocus},
	}
}

func build(withSubmit bool) primitives.MachineConfig {
	id := "signUp"
	if withSubmit {
		id = "signUpSubmit"
	}
	b := primitives.NewParallelMachineBuilder(id)

	b.Compound(RegionUsername, "idle").
		On(EventSetUsername,
			primitives.TransitionConfig{Guard: "emptyPayload", Target: ".required"},
			primitives.TransitionConfig{Target: ".uniquePending", Actions: []string{"assignUsername"}},
		).
		Transition(EventUsernameEditing, ".editing").
		On(EventUsernameFocus, primitives.TransitionConfig{Actions: []string{EffectUsernameFocus}}).
		Atomic("idle").Always(primitives.TransitionConfig{Guard: "hasUsername", Target: "uniquePending"}).Up().
		Atomic("editing").Up().
		Atomic("valid").Up().
		// Answers name the username they were checked for; answers for an
		// earlier value are unhandled.
		Atomic("uniquePending").
		On(EventUniqueSuccess, primitives.TransitionConfig{Guard: "answersUsername", Target: "valid"}).
		On(EventUniqueFailure, primitives.TransitionConfig{Guard: "answersUsername", Target: "taken"}).Up().
		Atomic("taken").Up().
		Atomic("required")

	b.Compound(RegionPassword, "idle").
		On(EventSetPassword,
			primitives.TransitionConfig{Guard: "emptyPayload", Target: ".required"},
			primitives.TransitionConfig{Guard: "shortPassword", Target: ".invalid"},
			primitives.TransitionConfig{Target: ".valid", Actions: []string{"assignPassword"}},
		).
		Transition(EventPasswordEditing, ".editing").
		On(EventPasswordFocus, primitives.TransitionConfig{Actions: []string{EffectPasswordFocus}}).
		Atomic("idle").Up().
		Atomic("editing").Up().
		Atomic("valid").Up().
		Atomic("invalid").Up().
		Atomic("required")

	if withSubmit {
		submit := primitives.TransitionConfig{
			In:     []string{UsernameValid, PasswordValid},
			Target: "enabled",
		}
		b.Compound(RegionSubmit, "disabled").
			Atomic("disabled").On(EventSubmit, submit).Up().
			Atomic("enabled").Transition(EventSubmitPending, "pending").Up().
			Atomic("pending").
			Transition(EventSubmitSuccess, "success").
			Transition(EventSubmitFailure, "failure").Up().
			Atomic("success").Up().
			Atomic("failure").On(EventSubmit, submit)
	}
	return b.MustBuild()
}
