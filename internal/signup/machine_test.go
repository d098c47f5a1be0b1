package signup

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/primitives"
)

type states struct {
	mu  sync.Mutex
	all []core.State[Context]
}

func (s *states) listen(st core.State[Context]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, st)
}

func (s *states) snapshot() []core.State[Context] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.State[Context](nil), s.all...)
}

func started(t *testing.T, def *core.Definition[Context], ctx Context, opts ...core.Option) *core.Interpreter[Context] {
	t.Helper()
	interp := core.New(def, ctx, opts...)
	interp.Start()
	return interp
}

func TestInitialConfiguration(t *testing.T) {
	assert.Equal(t, []string{UsernameIdle, PasswordIdle}, Basic.InitialConfiguration().Leaves())
	assert.Equal(t, []string{UsernameIdle, PasswordIdle, SubmitDisabled}, Full.InitialConfiguration().Leaves())

	_, ok := Basic.Lookup(RegionSubmit)
	assert.False(t, ok)
	assert.NotEqual(t, Basic.Version(), Full.Version())
	assert.Equal(t, []string{EffectPasswordFocus, EffectUsernameFocus}, Full.Effects())
}

func TestPasswordGuardsAreOrdered(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
		stored   string
	}{
		{name: "empty", password: "", want: PasswordRequired, stored: ""},
		{name: "short", password: "short", want: PasswordInvalid, stored: ""},
		{name: "seven characters", password: "1234567", want: PasswordInvalid, stored: ""},
		{name: "long enough", password: "longenough", want: PasswordValid, stored: "longenough"},
		{name: "exactly eight", password: "12345678", want: PasswordValid, stored: "12345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp := started(t, Basic, InitialContext(""))
			st := interp.Send(SetPassword(tt.password))

			require.True(t, st.Changed)
			assert.True(t, st.Matches(tt.want), "got %s", st.Configuration)
			assert.Equal(t, tt.stored, st.Context.Password)
			assert.True(t, st.Matches(UsernameIdle), "username region is independent")
		})
	}
}

func TestSeededUsernameSettlesBeforePublishing(t *testing.T) {
	interp := core.New(Basic, InitialContext("foo"))
	rec := &states{}
	interp.Subscribe(rec.listen)

	interp.Start()

	published := rec.snapshot()
	require.Len(t, published, 1)
	assert.Equal(t, []string{UsernameUniquePending, PasswordIdle}, published[0].Configuration.Leaves())
	assert.Equal(t, primitives.InitEvent, published[0].Event.Type)
	assert.Equal(t, "foo", published[0].Context.Username)
}

func TestEmptySeedStaysIdle(t *testing.T) {
	interp := started(t, Basic, InitialContext(""))
	assert.True(t, interp.Matches(UsernameIdle))
}

func TestUsernameLifecycle(t *testing.T) {
	interp := started(t, Basic, InitialContext(""))

	st := interp.Send(SetUsername(""))
	assert.True(t, st.Matches(UsernameRequired))
	assert.Empty(t, st.Context.Username)

	st = interp.Send(SetUsername("alice"))
	assert.True(t, st.Matches(UsernameUniquePending))
	assert.Equal(t, "alice", st.Context.Username)

	st = interp.Send(UniqueSuccess("alice"))
	assert.True(t, st.Matches(UsernameValid))

	st = interp.Send(EditUsername())
	assert.True(t, st.Matches(UsernameEditing))

	st = interp.Send(SetUsername("foo"))
	assert.True(t, st.Matches(UsernameUniquePending))
	st = interp.Send(UniqueFailure("foo"))
	assert.True(t, st.Matches(UsernameTaken))
	assert.Equal(t, "foo", st.Context.Username)

	// Uniqueness answers only matter while pending.
	st = interp.Send(UniqueSuccess("foo"))
	assert.False(t, st.Changed)
	assert.True(t, st.Matches(UsernameTaken))
}

func TestUniquenessAnswerMustNameCurrentUsername(t *testing.T) {
	interp := started(t, Basic, InitialContext(""))
	interp.Send(SetUsername("alice"))
	interp.Send(SetUsername("bob"))

	for _, e := range []primitives.Event{UniqueSuccess("alice"), UniqueFailure("alice"), UniqueSuccess("")} {
		st := interp.Send(e)
		assert.False(t, st.Changed, "%s(%v)", e.Type, e.Data)
		assert.True(t, st.Matches(UsernameUniquePending))
		assert.Equal(t, "bob", st.Context.Username)
	}

	assert.True(t, interp.Send(UniqueSuccess("bob")).Matches(UsernameValid))
}

func TestPasswordEditing(t *testing.T) {
	interp := started(t, Basic, InitialContext(""))
	interp.Send(SetPassword("longenough"))

	st := interp.Send(EditPassword())
	assert.True(t, st.Matches(PasswordEditing))
	assert.Equal(t, "longenough", st.Context.Password)
}

func TestSubmitRequiresBothFieldsValid(t *testing.T) {
	interp := started(t, Full, InitialContext(""))

	st := interp.Send(Submit())
	assert.False(t, st.Changed)
	assert.True(t, st.Matches(SubmitDisabled))

	interp.Send(SetUsername("alice"))
	interp.Send(UniqueSuccess("alice"))
	st = interp.Send(Submit())
	assert.False(t, st.Changed, "password is not valid yet")

	interp.Send(SetPassword("short"))
	st = interp.Send(Submit())
	assert.False(t, st.Changed)

	interp.Send(SetPassword("longenough"))
	st = interp.Send(Submit())
	assert.True(t, st.Changed)
	assert.Equal(t, []string{UsernameValid, PasswordValid, SubmitEnabled}, st.Configuration.Leaves())
}

func TestSubmitLifecycle(t *testing.T) {
	interp := started(t, Full, InitialContext(""))
	interp.Send(SetUsername("alice"))
	interp.Send(UniqueSuccess("alice"))
	interp.Send(SetPassword("longenough"))
	interp.Send(Submit())

	assert.True(t, interp.Send(BeginSubmit()).Matches(SubmitPending))
	assert.True(t, interp.Send(SubmitFailed()).Matches(SubmitFailure))

	// A failed submission can be retried.
	assert.True(t, interp.Send(Submit()).Matches(SubmitEnabled))
	interp.Send(BeginSubmit())
	st := interp.Send(SubmitSucceeded())
	assert.True(t, st.Matches(SubmitSuccess))
	assert.False(t, interp.Send(Submit()).Changed)
}

func TestFocusRunsEffectWithoutMovingState(t *testing.T) {
	var focused []string
	interp := started(t, Basic, InitialContext(""),
		core.WithEffect(EffectUsernameFocus, func(Context, primitives.Event) error {
			focused = append(focused, "username")
			return nil
		}),
		core.WithEffect(EffectPasswordFocus, func(Context, primitives.Event) error {
			focused = append(focused, "password")
			return nil
		}),
	)
	before := interp.State().Configuration

	st := interp.Send(FocusUsername())
	assert.True(t, st.Changed)
	assert.True(t, before.Equal(st.Configuration))

	interp.Send(FocusPassword())
	assert.Equal(t, []string{"username", "password"}, focused)
}

func TestBorderColor(t *testing.T) {
	tests := []struct {
		leaves   []string
		username string
		password string
	}{
		{[]string{UsernameIdle, PasswordIdle}, ColorNone, ColorNone},
		{[]string{UsernameEditing, PasswordEditing}, ColorNone, ColorNone},
		{[]string{UsernameUniquePending, PasswordInvalid}, ColorOrange, ColorRed},
		{[]string{UsernameValid, PasswordValid}, ColorGreen, ColorGreen},
		{[]string{UsernameTaken, PasswordRequired}, ColorRed, ColorRed},
		{[]string{UsernameRequired, PasswordValid}, ColorRed, ColorGreen},
	}
	for _, tt := range tests {
		cfg, err := Basic.ParseConfiguration(tt.leaves)
		require.NoError(t, err)
		assert.Equal(t, tt.username, BorderColor(cfg, RegionUsername), "%v", tt.leaves)
		assert.Equal(t, tt.password, BorderColor(cfg, RegionPassword), "%v", tt.leaves)
	}

	assert.Equal(t, ColorNone, BorderColor(core.Configuration{}, RegionUsername))
}

func TestSubmitLabel(t *testing.T) {
	pending, err := Full.ParseConfiguration([]string{UsernameValid, PasswordValid, SubmitPending})
	require.NoError(t, err)
	assert.Equal(t, "PENDING ...", SubmitLabel(pending))
	assert.Equal(t, "SUBMIT", SubmitLabel(Full.InitialConfiguration()))
}
