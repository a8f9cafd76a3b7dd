package arm

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/nfc-timer/internal/config"
	"github.com/oshokin/nfc-timer/internal/logger"
	"github.com/oshokin/nfc-timer/internal/service/common"
)

// Options configures a single arm request.
type Options struct {
	// ConfigPath is the settings YAML file; empty means defaults.
	ConfigPath string
	// ServerURL overrides server_url from the settings.
	ServerURL string
	// Attempts limits how many times activation is tried; zero means DefaultAttempts.
	Attempts int
	// RetryInterval is the delay between attempts; zero means DefaultRetryInterval.
	RetryInterval time.Duration
}

const (
	// DefaultAttempts is how many times activation is tried.
	DefaultAttempts = 5
	// DefaultRetryInterval is the delay between attempts.
	DefaultRetryInterval = time.Second
)

// Run arms the timer, retrying transient failures until success, cancellation
// or the attempt budget runs out.
func Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		opts = new(Options)
	}

	ctx = logger.WithName(ctx, "nfc-timer-arm")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverURL := cfg.ServerURL
	if opts.ServerURL != "" {
		serverURL = opts.ServerURL
	}

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	interval := opts.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	client, err := common.New(serverURL, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	logger.InfoKV(ctx, "Arming timer", "server_url", serverURL, "attempts", attempts)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err = client.Activate(ctx)
		if err == nil {
			logger.Info(ctx, "Timer armed")

			return nil
		}

		logger.ErrorKV(ctx, "Activate failed", "attempt", attempt, "error", err)

		if attempt >= attempts {
			return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
