package stockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobmcallan/tickerboard/internal/models"
)

// Probe issues one bounded request to endpoint. The endpoint is online only
// when the status is 2xx and the first probeSampleBytes of the body parse as
// JSON on their own. Failures are recorded in the returned health, never
// raised.
func (c *Client) Probe(ctx context.Context, endpoint string) models.EndpointHealth {
	health := models.EndpointHealth{Endpoint: endpoint}

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		health.Error = fmt.Sprintf("rate limit wait: %v", err)
		health.TestedAt = c.now()
		return health
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint), nil)
	if err != nil {
		health.Error = fmt.Sprintf("failed to create request: %v", err)
		health.TestedAt = c.now()
		return health
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		health.ResponseTimeMs = time.Since(start).Milliseconds()
		health.TestedAt = c.now()
		health.Error = probeErrorText(ctx, err)
		c.logger.Warn().Str("endpoint", endpoint).Str("error", health.Error).Int64("response_ms", health.ResponseTimeMs).Msg("Stock API probe failed")
		return health
	}
	defer resp.Body.Close()

	health.StatusCode = resp.StatusCode

	buf := make([]byte, probeSampleBytes)
	n, readErr := io.ReadFull(resp.Body, buf)
	health.ResponseTimeMs = time.Since(start).Milliseconds()
	health.TestedAt = c.now()

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		health.Error = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	case readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF):
		health.Error = probeErrorText(ctx, readErr)
	case !json.Valid(buf[:n]):
		health.Error = "Invalid JSON response"
	default:
		health.Online = true
	}

	event := c.logger.Debug()
	if !health.Online {
		event = c.logger.Warn()
	}
	event.
		Str("endpoint", endpoint).
		Bool("online", health.Online).
		Int("status", health.StatusCode).
		Int64("response_ms", health.ResponseTimeMs).
		Str("error", health.Error).
		Msg("Stock API probe")

	return health
}

func probeErrorText(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
