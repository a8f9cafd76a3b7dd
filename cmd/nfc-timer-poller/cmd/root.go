package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/nfc-timer/internal/service/poller"
	"github.com/oshokin/nfc-timer/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string
	// interval overrides the poll interval from settings.
	interval time.Duration

	// rootCmd polls the timer like the microcontroller does.
	rootCmd = &cobra.Command{
		Use:   "nfc-timer-poller [server-url]",
		Short: "Poll the timer status and react to ON/OFF changes.",
		Long: `Polls /status on the timer server and logs every ON/OFF transition.

When the settings file defines on_command or off_command, the matching command
runs on each transition, which lets a host drive a relay the same way the
microcontroller does.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverURL string
			if len(args) > 0 {
				serverURL = args[0]
			}

			return poller.Run(ctx, &poller.Options{
				ConfigPath:   configPath,
				ServerURL:    serverURL,
				PollInterval: interval,
			})
		},
	}
)

// Execute runs the nfc-timer-poller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval (settings value when zero)")
}
