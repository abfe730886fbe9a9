package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

const (
	// HeaderRequestID carries a per-request correlation id.
	HeaderRequestID = "X-Request-ID"

	// DefaultRetryWaitMin is the initial backoff between retries.
	DefaultRetryWaitMin = 250 * time.Millisecond

	// DefaultRetryWaitMax caps the backoff between retries.
	DefaultRetryWaitMax = 2 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Config configures the backend client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api.
	BaseURL string

	// Timeout bounds a single attempt.
	Timeout time.Duration

	// RetryMax is the number of retries after the first attempt.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// RateLimit is the maximum requests per second. Zero disables limiting.
	RateLimit float64
}

// ConfigFrom builds a client configuration from application settings.
func ConfigFrom(s domain.APISettings) Config {
	return Config{
		BaseURL:   s.BaseURL,
		Timeout:   s.Timeout,
		RetryMax:  s.RetryMax,
		RateLimit: s.RateLimit,
	}
}

// Client talks to the marketplace backend.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a backend client. sessions supplies the bearer token;
// it may be nil for anonymous use.
func NewClient(cfg Config, sessions driven.SessionStore) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("%w: API base URL is required", domain.ErrInvalidInput)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultAPITimeout
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = DefaultRetryWaitMin
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = DefaultRetryWaitMax
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &authTransport{sessions: sessions, base: http.DefaultTransport},
	}
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = retryLogger{}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: base,
		http:    retryClient.StandardClient(),
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends body as JSON (when non-nil) and decodes the response into out
// (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	logger.Debug("%s %s -> %d (%s, id %s)", req.Method, req.URL.RequestURI(), resp.StatusCode,
		time.Since(start).Round(time.Millisecond), req.Header.Get(HeaderRequestID))

	if resp.StatusCode >= http.StatusBadRequest {
		return newStatusError(resp, req.URL.Path)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// authTransport attaches the stored session token as a bearer credential.
// Requests made without a session go out anonymously.
type authTransport struct {
	sessions driven.SessionStore
	base     http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.sessions == nil {
		return t.base.RoundTrip(req)
	}
	session, err := t.sessions.LoadSession(req.Context())
	if err != nil || session.Token == "" {
		return t.base.RoundTrip(req)
	}
	bearer := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"}),
		Base:   t.base,
	}
	return bearer.RoundTrip(req)
}

// retryLogger routes retryablehttp's leveled logs into the verbose logger.
type retryLogger struct{}

var _ retryablehttp.LeveledLogger = retryLogger{}

func (retryLogger) Error(msg string, keysAndValues ...any) {
	l := logger.With("http")
	l.Error().Fields(keysAndValues).Msg(msg)
}

func (retryLogger) Info(msg string, keysAndValues ...any) {
	l := logger.With("http")
	l.Info().Fields(keysAndValues).Msg(msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...any) {
	l := logger.With("http")
	l.Debug().Fields(keysAndValues).Msg(msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...any) {
	l := logger.With("http")
	l.Warn().Fields(keysAndValues).Msg(msg)
}
