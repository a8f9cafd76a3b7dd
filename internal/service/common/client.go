//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oshokin/nfc-timer/internal/config"
	domain "github.com/oshokin/nfc-timer/internal/domain/timer"
)

const (
	// ActivatePath arms the timer.
	ActivatePath = "/activate"
	// StatusPath reports ON or OFF.
	StatusPath = "/status"
	// maxBodySize caps how much of a response is read.
	maxBodySize = 64 << 10
)

// ErrUnexpectedStatus is returned for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// Client calls the timer server over HTTP.
type Client struct {
	// baseURL is the server root without a trailing slash.
	baseURL string
	// httpClient performs the requests.
	httpClient *http.Client
	// callTimeout is the default timeout for individual calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for each call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := config.ValidateServerURL(baseURL); err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Activate arms the timer. The rendered page is discarded.
func (c *Client) Activate(ctx context.Context) error {
	if _, err := c.get(ctx, ActivatePath); err != nil {
		return fmt.Errorf("activate: %w", err)
	}

	return nil
}

// Status asks whether the timer is active.
func (c *Client) Status(ctx context.Context) (domain.State, error) {
	body, err := c.get(ctx, StatusPath)
	if err != nil {
		return domain.StateOff, fmt.Errorf("status: %w", err)
	}

	state, err := domain.ParseState(body)
	if err != nil {
		return domain.StateOff, fmt.Errorf("status: %w", err)
	}

	return state, nil
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return string(body), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
