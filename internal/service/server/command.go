package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcapi "github.com/oshokin/nfc-timer/internal/api/grpc/health"
	httpapi "github.com/oshokin/nfc-timer/internal/api/http/timer"
	"github.com/oshokin/nfc-timer/internal/config"
	"github.com/oshokin/nfc-timer/internal/discovery"
	"github.com/oshokin/nfc-timer/internal/logger"
	"github.com/oshokin/nfc-timer/internal/service/timer"
)

// Options controls the nfc-timer-server process.
type Options struct {
	// ConfigPath is the settings YAML file; empty means compiled-in defaults.
	ConfigPath string
	// ListenAddress overrides the configured HTTP listen address.
	ListenAddress string
}

const (
	// shutdownTimeout bounds the graceful HTTP shutdown.
	shutdownTimeout = 5 * time.Second
	// readHeaderTimeout protects against clients that never finish their headers.
	readHeaderTimeout = 5 * time.Second
)

// Run serves the timer and blocks until ctx is canceled or a listener fails.
//
//nolint:funlen // Linear wiring of listeners reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "nfc-timer-server")

	if opts == nil {
		opts = new(Options)
	}

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	listenAddress, err := resolveListenAddress(settings.HTTPAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	port, err := config.Port(listenAddress)
	if err != nil {
		return err
	}

	manager := timer.NewManager(settings.Duration)

	lc := net.ListenConfig{}

	httpListener, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Port 0 asks the kernel for one; the banner and mDNS need the real one.
	if tcpAddr, ok := httpListener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	logger.Infof(ctx, "Starting server on port %d...", port)

	api, err := httpapi.NewServer(manager, port, manager.Location())
	if err != nil {
		_ = httpListener.Close()

		return fmt.Errorf("create http api: %w", err)
	}

	httpServer := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	var (
		grpcServer   *grpc.Server
		grpcListener net.Listener
	)

	if settings.GRPCAddress != "" {
		grpcListener, err = lc.Listen(ctx, "tcp", settings.GRPCAddress)
		if err != nil {
			_ = httpListener.Close()

			return fmt.Errorf("listen on %s: %w", settings.GRPCAddress, err)
		}

		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, grpcapi.NewServer(manager))
	}

	if settings.MDNS.Enabled {
		advertiser := discovery.NewAdvertiser()

		info := discovery.Info{
			Instance: settings.MDNS.Instance,
			Port:     port,
			Duration: manager.Duration(),
		}

		// The timer works without discovery, so a failed registration is not fatal.
		if err := advertiser.Advertise(ctx, info); err != nil {
			logger.WarnKV(ctx, "mDNS advertisement failed", "error", err)
		}

		defer advertiser.Stop()
	}

	logger.InfoKV(ctx, "Timer server listening",
		"http_address", httpListener.Addr().String(),
		"grpc_address", settings.GRPCAddress,
		"duration", manager.Duration(),
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}

		return nil
	})

	if grpcServer != nil {
		group.Go(func() error {
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}

			return nil
		})

		group.Go(func() error {
			<-groupCtx.Done()
			logger.Info(ctx, "Shutting down gRPC server")
			grpcServer.GracefulStop()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Timer server stopped")

	return nil
}

// resolveListenAddress returns override when set, otherwise the configured address.
// A bare port such as "8002" is accepted and bound on all interfaces.
func resolveListenAddress(configured, override string) (string, error) {
	address := configured
	if override != "" {
		address = override
	}

	if _, _, err := net.SplitHostPort(address); err != nil {
		address = ":" + address
	}

	if _, err := config.Port(address); err != nil {
		return "", err
	}

	return address, nil
}
