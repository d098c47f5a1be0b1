package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/extensibility"
	"github.com/comalice/chartforms/internal/party"
	"github.com/comalice/chartforms/internal/signup"
)

const stepTimeout = 30 * time.Second

// script plays a user filling in the forms.
type script struct {
	log *slog.Logger
	gap time.Duration
}

func (s *script) signup(ctx context.Context, form *core.Interpreter[signup.Context], usernames, passwords chan<- string, clicks *extensibility.ChannelEventSource) error {
	form.Send(signup.FocusUsername())

	steps := []struct {
		field  chan<- string
		region string
		typed  []string
		want   string
	}{
		{usernames, signup.RegionUsername, []string{"f", "fo", "foo"}, signup.UsernameTaken},
		{usernames, signup.RegionUsername, []string{"a", "al", "ali", "alic", "alice"}, signup.UsernameValid},
		{passwords, signup.RegionPassword, []string{"s", "sh", "short"}, signup.PasswordInvalid},
		{passwords, signup.RegionPassword, []string{"shorter", "longenough"}, signup.PasswordValid},
	}
	for _, step := range steps {
		if step.region == signup.RegionPassword {
			form.Send(signup.FocusPassword())
		}
		if err := s.typeInto(ctx, step.field, step.typed); err != nil {
			return err
		}
		st, err := await(ctx, form, step.want)
		if err != nil {
			return err
		}
		s.log.Info("field settled",
			"field", step.region,
			"state", step.want,
			"border", signup.BorderColor(st.Configuration, step.region),
		)
	}

	if err := clicks.Emit(ctx, signup.Submit()); err != nil {
		return err
	}
	st, err := await(ctx, form, signup.SubmitSuccess)
	if err != nil {
		return err
	}
	s.log.Info("account created", "username", st.Context.Username)
	return nil
}

func (s *script) typeInto(ctx context.Context, field chan<- string, values []string) error {
	for _, v := range values {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case field <- v:
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.gap):
		}
	}
	return nil
}

func (s *script) party(planner *party.Planner, attach func(*core.Interpreter[party.Invitee])) ([]party.Invitee, error) {
	guests := []struct {
		name   string
		accept bool
	}{
		{"Alice", true},
		{"Bob", false},
		{"Carol", true},
	}
	for _, g := range guests {
		id, err := planner.NewInvitee()
		if err != nil {
			return nil, err
		}
		child, err := planner.Child(id)
		if err != nil {
			return nil, err
		}
		attach(child)

		if st, err := planner.Add(id, "  "); err != nil {
			return nil, err
		} else if st.Changed {
			return nil, fmt.Errorf("blank name accepted for %s", id)
		}
		if _, err := planner.Add(id, g.name); err != nil {
			return nil, err
		}
		if g.accept {
			_, err = planner.Accept(id)
		} else {
			_, err = planner.Decline(id)
		}
		if err != nil {
			return nil, err
		}
		status, err := planner.Status(id)
		if err != nil {
			return nil, err
		}
		s.log.Info("invitee answered", "id", id, "invitee", g.name, "status", status)
	}
	return planner.Invitees(), nil
}

// await blocks until path is active.
func await[C any](ctx context.Context, interp *core.Interpreter[C], path string) (core.State[C], error) {
	ctx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()

	reached := make(chan core.State[C], 1)
	sub := interp.Subscribe(func(st core.State[C]) {
		if st.Matches(path) {
			select {
			case reached <- st:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	select {
	case st := <-reached:
		return st, nil
	case <-ctx.Done():
		var zero core.State[C]
		return zero, fmt.Errorf("waiting for %s at %s: %w", path, interp.State().Configuration, ctx.Err())
	}
}
