package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/nfc-timer/internal/service/arm"
	"github.com/oshokin/nfc-timer/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string
	// attempts limits activation retries.
	attempts int

	// rootCmd arms the timer once.
	rootCmd = &cobra.Command{
		Use:   "nfc-timer-arm [server-url]",
		Short: "Arm the timer as if the NFC tag was tapped.",
		Long: `Calls /activate on the timer server, retrying once per second on failure.

The server URL can be given as an argument (e.g. http://10.0.0.5:8002) or taken
from the settings file; it defaults to http://127.0.0.1:8002.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverURL string
			if len(args) > 0 {
				serverURL = args[0]
			}

			return arm.Run(ctx, &arm.Options{
				ConfigPath: configPath,
				ServerURL:  serverURL,
				Attempts:   attempts,
			})
		},
	}
)

// Execute runs the nfc-timer-arm CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file")
	rootCmd.Flags().IntVarP(&attempts, "attempts", "n", arm.DefaultAttempts, "how many times to try")
}
