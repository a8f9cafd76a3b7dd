package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/nfc-timer/internal/logger"
)

// Config holds the settings of the server and its clients.
type Config struct {
	// HTTPAddress is where the HTTP server listens.
	HTTPAddress string `yaml:"http_addr"`
	// Duration is the length of the activation window.
	Duration time.Duration `yaml:"duration"`
	// GRPCAddress enables the gRPC health mirror when set.
	GRPCAddress string `yaml:"grpc_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// ServerURL is the base URL clients use to reach the server.
	ServerURL string `yaml:"server_url"`
	// Timeout bounds a single client request.
	Timeout time.Duration `yaml:"timeout"`
	// PollInterval is the delay between status polls.
	PollInterval time.Duration `yaml:"poll_interval"`
	// OnCommand runs when the poller sees the timer switch ON.
	OnCommand []string `yaml:"on_command"`
	// OffCommand runs when the poller sees the timer switch OFF.
	OffCommand []string `yaml:"off_command"`
	// HookTimeout bounds a single on/off command; it is killed once exceeded.
	HookTimeout time.Duration `yaml:"hook_timeout"`
	// MDNS controls service advertisement on the local network.
	MDNS MDNS `yaml:"mdns"`
}

// MDNS configures the zeroconf advertisement of the HTTP endpoint.
type MDNS struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
}

const (
	// DefaultPort is the HTTP port used when nothing else is configured.
	DefaultPort = 8002

	// DefaultDuration is the activation window length.
	DefaultDuration = 10 * time.Second

	// DefaultTimeout bounds client requests.
	DefaultTimeout = 5 * time.Second

	// DefaultPollInterval is the poller's delay between status requests.
	DefaultPollInterval = time.Second

	// DefaultHookTimeout bounds a transition command.
	DefaultHookTimeout = 30 * time.Second

	// DefaultInstance is the mDNS instance name.
	DefaultInstance = "nfc-timer"

	// DefaultFilePermissions is used when writing settings.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidLogLevel is returned for unknown level names.
	errInvalidLogLevel = errors.New("invalid log level")
	// errInvalidServerURL is returned when server_url is not an absolute http(s) URL.
	errInvalidServerURL = errors.New("server url must be an absolute http or https url")
)

// Default returns the compiled-in settings.
func Default() *Config {
	return &Config{
		HTTPAddress:  ":" + strconv.Itoa(DefaultPort),
		Duration:     DefaultDuration,
		LogLevel:     "info",
		ServerURL:    "http://127.0.0.1:" + strconv.Itoa(DefaultPort),
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		HookTimeout:  DefaultHookTimeout,
		MDNS: MDNS{
			Instance: DefaultInstance,
		},
	}
}

// Load reads settings from path on top of the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks formats and fills zero values with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	defaults := Default()

	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = defaults.HTTPAddress
	}

	if _, err := Port(cfg.HTTPAddress); err != nil {
		return fmt.Errorf("invalid http address: %w", err)
	}

	if cfg.GRPCAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.GRPCAddress); err != nil {
			return fmt.Errorf("invalid grpc address: %w", err)
		}
	}

	if cfg.Duration <= 0 {
		cfg.Duration = defaults.Duration
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}

	if cfg.HookTimeout <= 0 {
		cfg.HookTimeout = defaults.HookTimeout
	}

	if cfg.MDNS.Instance == "" {
		cfg.MDNS.Instance = defaults.MDNS.Instance
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.LogLevel)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = defaults.ServerURL
	}

	return ValidateServerURL(cfg.ServerURL)
}

// ValidateServerURL checks that raw is an absolute http or https URL with a host.
func ValidateServerURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidServerURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidServerURL, raw)
	}

	return nil
}

// Port extracts the numeric port of a listen address such as ":8002" or "0.0.0.0:8002".
func Port(address string) (int, error) {
	_, portString, err := net.SplitHostPort(address)
	if err != nil {
		return 0, fmt.Errorf("split %q: %w", address, err)
	}

	port, err := strconv.Atoi(portString)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q in %q", portString, address)
	}

	return port, nil
}
