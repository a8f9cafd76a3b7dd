package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/nfc-timer/internal/config"
	"github.com/oshokin/nfc-timer/internal/service/common"
	"github.com/oshokin/nfc-timer/internal/service/poller"
)

// TestPoller_FollowsServer runs the poller against a live server and checks both hooks fire.
func TestPoller_FollowsServer(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("hooks use /bin/sh")
	}

	httpAddr := reservePort(t)
	dir := t.TempDir()
	onMarker := filepath.Join(dir, "on")
	offMarker := filepath.Join(dir, "off")

	cfg := config.Default()
	cfg.HTTPAddress = httpAddr
	cfg.ServerURL = "http://" + httpAddr
	cfg.Duration = 300 * time.Millisecond
	cfg.PollInterval = 20 * time.Millisecond
	cfg.OnCommand = []string{"sh", "-c", "touch " + onMarker}
	cfg.OffCommand = []string{"sh", "-c", "echo off >> " + offMarker}

	cfgPath, stop := startServer(t, cfg)
	defer stop()

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- poller.Run(runCtx, &poller.Options{ConfigPath: cfgPath})
	}()

	exists := func(path string) func() bool {
		return func() bool {
			_, err := os.Stat(path)

			return err == nil
		}
	}

	// Initial OFF is reported once.
	require.Eventually(t, exists(offMarker), 5*time.Second, 20*time.Millisecond)

	client, err := common.New(cfg.ServerURL)
	require.NoError(t, err)
	require.NoError(t, client.Activate(context.Background()))

	require.Eventually(t, exists(onMarker), 5*time.Second, 20*time.Millisecond)

	// After the window closes the off hook runs a second time.
	require.Eventually(t, func() bool {
		contents, err := os.ReadFile(offMarker)

		return err == nil && string(contents) == "off\noff\n"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
