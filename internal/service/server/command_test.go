package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/nfc-timer/internal/logger"
)

// TestResolveListenAddress covers override, bare ports and invalid input.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	got, err := resolveListenAddress(":8002", "")
	require.NoError(t, err)
	require.Equal(t, ":8002", got)

	got, err = resolveListenAddress(":8002", "0.0.0.0:9000")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", got)

	got, err = resolveListenAddress(":8002", "9100")
	require.NoError(t, err)
	require.Equal(t, ":9100", got)

	_, err = resolveListenAddress(":8002", "not-a-port")
	require.Error(t, err)
}

// TestRun_StopsOnCancel starts the server on an ephemeral port and cancels it.
func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{ListenAddress: "127.0.0.1:0"})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// TestRun_BannerShowsBoundPort reports the kernel-assigned port, not 0.
func TestRun_BannerShowsBoundPort(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)

	ctx, cancel := context.WithCancel(logger.ToContext(context.Background(), zap.New(core).Sugar()))
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{ListenAddress: "127.0.0.1:0"})
	}()

	require.Eventually(t, func() bool {
		return logs.FilterMessageSnippet("Starting server on port").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	banner := logs.FilterMessageSnippet("Starting server on port").All()[0].Message
	require.Regexp(t, `^Starting server on port [1-9][0-9]*\.\.\.$`, banner)
}

// TestRun_PortInUse returns a listen error instead of serving.
func TestRun_PortInUse(t *testing.T) {
	t.Parallel()

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer func() {
		_ = busy.Close()
	}()

	err = Run(context.Background(), &Options{ListenAddress: busy.Addr().String()})
	require.ErrorContains(t, err, "listen on")
}

// TestRun_BadConfig fails before listening.
func TestRun_BadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: shouty\n"), 0o600))

	err := Run(context.Background(), &Options{ConfigPath: path})
	require.ErrorContains(t, err, "load settings")
}
