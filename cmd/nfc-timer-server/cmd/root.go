package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/nfc-timer/internal/service/server"
	"github.com/oshokin/nfc-timer/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string

	// rootCmd runs the timer server.
	rootCmd = &cobra.Command{
		Use:   "nfc-timer-server [listen-address]",
		Short: "Serve the NFC-armed timer over HTTP.",
		Long: `Starts the timer server.

GET /activate arms a 10-second window (typically opened by a phone tapping an
NFC tag) and GET /status answers ON while the window is open, OFF otherwise.

Without flags the server listens on port 8002 on all interfaces. A settings file
can change the port, the window length, enable the gRPC health mirror and mDNS
advertisement. A listen address argument (e.g. :9000) overrides the file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			})
		},
	}
)

// Execute runs the nfc-timer-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file (defaults are used when empty)")
}
