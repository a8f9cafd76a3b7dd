package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/nfc-timer/internal/config"
	domain "github.com/oshokin/nfc-timer/internal/domain/timer"
	"github.com/oshokin/nfc-timer/internal/logger"
	"github.com/oshokin/nfc-timer/internal/service/common"
	"github.com/oshokin/nfc-timer/internal/service/hook"
)

// Options controls the polling behavior.
type Options struct {
	// ConfigPath is the settings YAML file; empty means defaults.
	ConfigPath string
	// ServerURL overrides server_url from the settings.
	ServerURL string
	// PollInterval overrides poll_interval from the settings.
	PollInterval time.Duration
}

// HookRunner runs a transition command.
type HookRunner func(ctx context.Context, argv []string) error

// watcher remembers the last observed state and fires hooks on changes.
type watcher struct {
	// known is false until the first successful poll.
	known bool
	// last is the most recent observed state.
	last domain.State
	// onCommand and offCommand are run on transitions into ON and OFF.
	onCommand  []string
	offCommand []string
	// hookTimeout bounds each hook run; zero leaves only ctx in charge.
	hookTimeout time.Duration
	// run executes hooks.
	run HookRunner
}

// Run polls the timer until ctx is canceled. Poll and hook errors are logged
// and polling continues.
func Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		opts = new(Options)
	}

	ctx = logger.WithName(ctx, "nfc-timer-poller")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverURL := cfg.ServerURL
	if opts.ServerURL != "" {
		serverURL = opts.ServerURL
	}

	interval := cfg.PollInterval
	if opts.PollInterval > 0 {
		interval = opts.PollInterval
	}

	client, err := common.New(serverURL, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	w := &watcher{
		onCommand:   cfg.OnCommand,
		offCommand:  cfg.OffCommand,
		hookTimeout: cfg.HookTimeout,
		run:         hook.Run,
	}

	logger.InfoKV(ctx, "Polling timer status", "server_url", serverURL, "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, err := client.Status(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "Status poll failed", "error", err)
		} else {
			w.observe(ctx, state)
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
		}
	}
}

// observe records state and runs the matching hook when it differs from the
// previous observation. The first observation always counts as a change so the
// local side is brought in line with the server.
func (w *watcher) observe(ctx context.Context, state domain.State) {
	if w.known && w.last == state {
		return
	}

	previous := "unknown"
	if w.known {
		previous = w.last.String()
	}

	w.known = true
	w.last = state

	logger.InfoKV(ctx, "Timer state changed", "from", previous, "to", state.String())

	argv := w.offCommand
	if state == domain.StateOn {
		argv = w.onCommand
	}

	if len(argv) == 0 {
		return
	}

	hookCtx := ctx
	if w.hookTimeout > 0 {
		var cancel context.CancelFunc

		hookCtx, cancel = context.WithTimeout(ctx, w.hookTimeout)
		defer cancel()
	}

	if err := w.run(hookCtx, argv); err != nil {
		logger.ErrorKV(ctx, "Transition hook failed", "state", state.String(), "error", err)
	}
}
