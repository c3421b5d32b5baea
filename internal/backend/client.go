package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"libraryfront/internal/config"
	"libraryfront/internal/logging"
)

const (
	// maxBodyBytes caps how much of a backend response is read into memory.
	maxBodyBytes = 64 << 20

	requestIDHeader = "X-Request-ID"
)

var (
	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrBaseURLRequired is returned by New when no backend URL is configured.
	ErrBaseURLRequired = errors.New("backend base url is required")
)

// StatusError is a non-2xx backend reply.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("backend %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to the catalog backend. All calls share one circuit breaker; while
// it is open they fail fast with ErrUnavailable.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
	metrics *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics attaches backend metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a backend client from cfg. Outgoing requests are traced through otelhttp.
func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	minRequests := uint32(cfg.BreakerMinRequests)
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: uint32(cfg.BreakerMaxRequests),
		Interval:    time.Duration(cfg.BreakerIntervalSec) * time.Second,
		Timeout:     time.Duration(cfg.BreakerTimeoutSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("backend_breaker_state_changed")
			c.metrics.breakerState(to)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isBackendFault(err)
		},
	})
	c.metrics.breakerState(gobreaker.StateClosed)
	return c, nil
}

// State returns the circuit breaker state: "closed", "half-open" or "open".
func (c *Client) State() string {
	return c.breaker.State().String()
}

// isBackendFault reports whether err should count against the breaker. Client
// errors and canceled callers are not the backend's fault.
func isBackendFault(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return true
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(op, req)
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.send(op, req)
}

func (c *Client) postMultipart(ctx context.Context, op, path string, write func(*multipart.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := write(mw); err != nil {
		return nil, fmt.Errorf("encode %s form: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("encode %s form: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(op, req)
}

func (c *Client) send(op string, req *http.Request) ([]byte, error) {
	if id := logging.RequestID(req.Context()); id != "" {
		req.Header.Set(requestIDHeader, id)
	}
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", op, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: snippet(body)}
		}
		return body, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.metrics.observeCall(op, err, time.Since(start))

	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Dur("latency", time.Since(start)).Msg("backend_call_failed")
		return nil, err
	}
	c.log.Debug().Str("op", op).Dur("latency", time.Since(start)).Msg("backend_call")
	return out.([]byte), nil
}

func snippet(b []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(b))
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
