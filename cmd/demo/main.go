package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/chartforms/internal/config"
	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/extensibility"
	"github.com/comalice/chartforms/internal/logger"
	"github.com/comalice/chartforms/internal/party"
	"github.com/comalice/chartforms/internal/primitives"
	"github.com/comalice/chartforms/internal/production"
	"github.com/comalice/chartforms/internal/signup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(slog.String("service", "chartforms-demo")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Error("demo failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, out io.Writer) error {
	reg := prometheus.NewRegistry()
	records := make(chan production.Record, 512)
	channel := production.NewChannelPublisher(records)
	metrics := production.NewMetrics(reg)
	publish := func(withContext bool) production.Publisher {
		return production.Fanout{
			production.NewTransitionLogger(log, slog.LevelInfo, withContext),
			metrics,
			channel,
		}
	}
	opts := []core.Option{
		core.WithLogger(log),
		core.WithMaxMicrosteps(cfg.MaxMicrosteps),
	}

	dir := signup.NewDirectory(cfg.UniqueLatency, cfg.CreateLatency, cfg.TakenUsernames...)
	form := core.New(signup.Full, signup.InitialContext(cfg.InitialUsername), append(opts,
		core.WithEffect(signup.EffectUsernameFocus, extensibility.LoggingEffect(log, signup.EffectUsernameFocus, focus(log, signup.RegionUsername))),
		core.WithEffect(signup.EffectPasswordFocus, extensibility.LoggingEffect(log, signup.EffectPasswordFocus, focus(log, signup.RegionPassword))),
	)...)
	subs := []*core.Subscription{production.Attach(form, publish(false))}
	coordinator := signup.NewCoordinator(form, dir, dir, log)

	planner := party.NewPlanner(log, opts...)
	subs = append(subs, production.Attach(planner.Parent(), publish(true)))

	usernames := make(chan string)
	passwords := make(chan string)
	clicks := extensibility.NewChannelEventSource(4)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return coordinator.Run(ctx) })
	g.Go(func() error {
		return extensibility.NewDebouncer(form, signup.EventUsernameEditing, signup.EventSetUsername, cfg.DebounceWindow).Run(ctx, usernames)
	})
	g.Go(func() error {
		return extensibility.NewDebouncer(form, signup.EventPasswordEditing, signup.EventSetPassword, cfg.DebounceWindow).Run(ctx, passwords)
	})
	g.Go(func() error { return extensibility.Pump(ctx, clicks, form) })
	g.Go(func() error {
		defer cancel()
		defer close(usernames)
		defer close(passwords)
		defer clicks.Close()

		form.Start()
		s := &script{log: log, gap: cfg.DebounceWindow / 5}
		if err := s.signup(ctx, form, usernames, passwords, clicks); err != nil {
			return fmt.Errorf("sign-up: %w", err)
		}
		rows, err := s.party(planner, func(child *core.Interpreter[party.Invitee]) {
			subs = append(subs, production.Attach(child, publish(true)))
		})
		if err != nil {
			return fmt.Errorf("party: %w", err)
		}
		log.Info("guest list", "invitees", rows)
		return nil
	})

	err := g.Wait()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	_ = channel.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	perMachine := map[string]int{}
	for r := range records {
		perMachine[r.Machine]++
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	log.Info("demo finished",
		"records", perMachine,
		"dropped", channel.Dropped(),
		"metric_families", len(families),
	)

	fmt.Fprintln(out, (&production.Visualizer{}).ExportDOT(form.Definition(), form.State().Configuration))
	return nil
}

func focus(log *slog.Logger, field string) core.Effect[signup.Context] {
	return func(_ signup.Context, _ primitives.Event) error {
		log.Info("field selected", "field", field)
		return nil
	}
}
