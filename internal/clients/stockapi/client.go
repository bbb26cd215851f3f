// Package stockapi provides a client for the remote stock dashboard JSON API
package stockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
)

const (
	DefaultBaseURL      = "https://stock-market-cpi-k9vl.onrender.com/api"
	DefaultProbeTimeout = 5 * time.Second
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryBackoff = time.Second
	DefaultRateLimit    = 5 // requests per second

	// probeSampleBytes is how much of a probe body must parse as JSON.
	probeSampleBytes = 100
)

// Failure classes. Every error returned by the client wraps one of these.
var (
	ErrNetwork         = errors.New("network failure")
	ErrInvalidResponse = errors.New("invalid response")
	ErrDataAbsent      = errors.New("data absent")
)

// APIError describes a failed request to one endpoint.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("stock API %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("stock API %s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client implements StockAPIClient
type Client struct {
	baseURL      string
	httpClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
	probeTimeout time.Duration
	fetchTimeout time.Duration
	maxRetries   int
	backoff      time.Duration
	now          func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithProbeTimeout bounds each health probe
func WithProbeTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.probeTimeout = d
	}
}

// WithFetchTimeout bounds each data fetch attempt
func WithFetchTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.fetchTimeout = d
	}
}

// WithRetry sets how many retries follow the first attempt and the linear backoff step.
// Attempt n (1-based) waits n*backoff before retrying.
func WithRetry(maxRetries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// NewClient creates a new stock API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:       common.NewSilentLogger(),
		probeTimeout: DefaultProbeTimeout,
		fetchTimeout: DefaultFetchTimeout,
		maxRetries:   DefaultMaxRetries,
		backoff:      DefaultRetryBackoff,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// getJSON fetches an endpoint body with retries. Transport failures, non-2xx
// statuses and bodies that are not JSON are all retried.
func (c *Client) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	attempts := c.maxRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			c.logger.Debug().Str("endpoint", endpoint).Int("attempt", attempt+1).Dur("wait", wait).Msg("Stock API retry scheduled")
			select {
			case <-ctx.Done():
				return nil, &APIError{Endpoint: endpoint, Message: "cancelled during backoff", Err: errors.Join(ErrNetwork, ctx.Err())}
			case <-time.After(wait):
			}
		}

		body, err := c.fetchOnce(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt+1).Int("max_attempts", attempts).Msg("Stock API attempt failed")
	}

	return nil, fmt.Errorf("%s failed after %d attempts: %w", endpoint, attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "rate limit wait", Err: errors.Join(ErrNetwork, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: err.Error(), Err: errors.Join(ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: http.StatusText(resp.StatusCode), Err: ErrInvalidResponse}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: "failed to read body", Err: errors.Join(ErrNetwork, err)}
	}

	if !json.Valid(body) {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: "malformed JSON body", Err: ErrInvalidResponse}
	}

	c.logger.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Int("bytes", len(body)).Dur("elapsed", elapsed).Msg("Stock API call")
	return body, nil
}

// decodeObject unmarshals a top-level JSON object keyed by symbol.
func decodeObject(endpoint string, body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "malformed JSON: " + err.Error(), Err: ErrInvalidResponse}
	}
	if raw == nil {
		return nil, &APIError{Endpoint: endpoint, Message: "expected an object keyed by symbol", Err: ErrInvalidResponse}
	}
	return raw, nil
}

// Ensure Client implements StockAPIClient
var _ interfaces.StockAPIClient = (*Client)(nil)
