package discovery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/oshokin/nfc-timer/internal/logger"
)

const (
	// ServiceType is the DNS-SD service type of the timer.
	ServiceType = "_nfc-timer._tcp"
	// Domain is the mDNS domain.
	Domain = "local."
	// StatusPath is advertised in TXT so clients know what to poll.
	StatusPath = "/status"
	// maxInstanceNameLen is the DNS label limit.
	maxInstanceNameLen = 63
)

var (
	// errInstanceRequired is returned when no instance name is configured.
	errInstanceRequired = errors.New("instance name is required")
	// errInvalidPort is returned for ports outside 1..65535.
	errInvalidPort = errors.New("invalid port")
)

// Info describes the advertised endpoint.
type Info struct {
	// Instance is the human-readable service instance name.
	Instance string
	// Port is the HTTP port.
	Port int
	// Duration is published so clients can size their poll interval.
	Duration time.Duration
}

// TXT renders the TXT records for info.
func (i Info) TXT() []string {
	return []string{
		"path=" + StatusPath,
		"duration=" + strconv.FormatFloat(i.Duration.Seconds(), 'f', -1, 64),
	}
}

// Validate checks that info can be registered.
func (i Info) Validate() error {
	if i.Instance == "" {
		return errInstanceRequired
	}

	if i.Port <= 0 || i.Port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidPort, i.Port)
	}

	return nil
}

// Advertiser registers the timer with zeroconf.
type Advertiser struct {
	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates an idle advertiser.
func NewAdvertiser() *Advertiser {
	return new(Advertiser)
}

// Advertise starts (or restarts) the advertisement on all interfaces.
func (a *Advertiser) Advertise(ctx context.Context, info Info) error {
	if err := info.Validate(); err != nil {
		return err
	}

	instance := info.Instance
	if len(instance) > maxInstanceNameLen {
		instance = instance[:maxInstanceNameLen]
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	server, err := zeroconf.Register(instance, ServiceType, Domain, info.Port, info.TXT(), nil)
	if err != nil {
		return fmt.Errorf("register mdns service: %w", err)
	}

	a.server = server

	logger.InfoKV(ctx, "Advertising over mDNS", "instance", instance, "service", ServiceType, "port", info.Port)

	return nil
}

// Stop withdraws the advertisement. It is safe to call more than once.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
