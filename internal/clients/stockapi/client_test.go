package stockapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tickerboard/internal/models"
)

func newTestClient(url string, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(url),
		WithRateLimit(1000),
		WithRetry(2, time.Millisecond),
	}
	return NewClient(append(base, opts...)...)
}

func TestProbe_OnlineForJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stocksdata", r.URL.Path)
		w.Write([]byte(`{"AAPL":[{"timestamp":1,"price":2}]}`))
	}))
	defer srv.Close()

	h := newTestClient(srv.URL + "/api/").Probe(context.Background(), models.EndpointStocks)

	assert.True(t, h.Online)
	assert.Equal(t, http.StatusOK, h.StatusCode)
	assert.Equal(t, models.EndpointStocks, h.Endpoint)
	assert.Empty(t, h.Error)
	assert.False(t, h.TestedAt.IsZero())
}

func TestProbe_LongBodyCutMidDocumentIsOffline(t *testing.T) {
	long := `{"AAPL":[` + strings.Repeat(`{"timestamp":1700000000,"price":150.25},`, 20) + `{"timestamp":1,"price":1}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(long))
	}))
	defer srv.Close()

	h := newTestClient(srv.URL).Probe(context.Background(), models.EndpointStocks)

	assert.False(t, h.Online, "first 100 bytes are not a complete JSON document")
	assert.Equal(t, "Invalid JSON response", h.Error)
	assert.Equal(t, http.StatusOK, h.StatusCode)
}

func TestProbe_LongBodyWithCompletePrefixIsOnline(t *testing.T) {
	// 100 bytes: a complete object padded with trailing whitespace.
	body := `{"status":"ok"}` + strings.Repeat(" ", 85) + `{"AAPL":[{"timestamp":1,"price":2}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	h := newTestClient(srv.URL).Probe(context.Background(), models.EndpointStocks)

	assert.True(t, h.Online, "error: %s", h.Error)
}

func TestProbe_HTMLIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html><body>Service waking up</body></html>"))
	}))
	defer srv.Close()

	h := newTestClient(srv.URL).Probe(context.Background(), models.EndpointStats)

	assert.False(t, h.Online)
	assert.Equal(t, http.StatusOK, h.StatusCode)
	assert.Equal(t, "Invalid JSON response", h.Error)
}

func TestProbe_EmptyBodyIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	h := newTestClient(srv.URL).Probe(context.Background(), models.EndpointProfiles)

	assert.False(t, h.Online)
}

func TestProbe_Non2xxIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"down"}`))
	}))
	defer srv.Close()

	h := newTestClient(srv.URL).Probe(context.Background(), models.EndpointStocks)

	assert.False(t, h.Online)
	assert.Equal(t, http.StatusServiceUnavailable, h.StatusCode)
	assert.Contains(t, h.Error, "503")
}

func TestProbe_TimeoutIsOffline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	h := newTestClient(srv.URL, WithProbeTimeout(30*time.Millisecond)).Probe(context.Background(), models.EndpointStocks)

	assert.False(t, h.Online)
	assert.Equal(t, "timeout", h.Error)
}

func TestProbe_ConnectionRefusedIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	h := newTestClient(url).Probe(context.Background(), models.EndpointStocks)

	assert.False(t, h.Online)
	assert.NotEmpty(t, h.Error)
	assert.Zero(t, h.StatusCode)
}

func TestGetJSON_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"AAPL":{"bookValue":1,"profit":2}}`))
	}))
	defer srv.Close()

	stats, err := newTestClient(srv.URL).GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, stats, "AAPL")
}

func TestGetJSON_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetPriceSeries(context.Background())

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load(), "first attempt plus two retries")
	assert.True(t, errors.Is(err, ErrInvalidResponse))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, models.EndpointStocks, apiErr.Endpoint)
}

func TestGetJSON_LinearBackoff(t *testing.T) {
	var mu sync.Mutex
	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, WithRetry(2, 40*time.Millisecond))
	_, err := client.GetProfiles(context.Background())

	require.Error(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 40*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 80*time.Millisecond)
}

func TestGetJSON_CancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL, WithRetry(2, time.Second)).GetStats(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestGetJSON_AttemptTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-r.Context().Done()
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, WithFetchTimeout(20*time.Millisecond)).GetStats(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSON_MalformedJSONIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"AAPL":`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetStats(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSON_WrongShapeIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetStats(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Equal(t, int32(1), calls.Load())
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 500, Endpoint: "stocksdata", Message: "Internal Server Error"}
	assert.Equal(t, "stock API stocksdata: status 500: Internal Server Error", err.Error())

	err = &APIError{Endpoint: "profiledata", Message: "boom"}
	assert.Equal(t, "stock API profiledata: boom", err.Error())
}
