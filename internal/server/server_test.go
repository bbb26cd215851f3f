package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tickerboard/internal/app"
)

// fakeUpstream serves the three stock API endpoints with two symbols.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Now().Unix()
	day := int64(24 * 60 * 60)
	stocks := fmt.Sprintf(`{
		"AAPL": [{"timestamp": %d, "price": 150}, {"timestamp": %d, "price": 160}],
		"MSFT": [{"timestamp": %d, "price": 300}, {"timestamp": %d, "price": 310}]
	}`, now-2*day, now-day, now-2*day, now-day)
	// Kept under 100 bytes so the health check accepts them; the series
	// payload is longer and its endpoint reports offline.
	stats := `{"AAPL":{"bookValue":4.25,"profit":12.5},"MSFT":{"bookValue":38.1,"profit":-3.2}}`
	profiles := `{"AAPL":{"summary":"Apple designs phones."},"MSFT":{"summary":""}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/stocksdata":
			w.Write([]byte(stocks))
		case "/stocksstatsdata":
			w.Write([]byte(stats))
		case "/profiledata":
			w.Write([]byte(profiles))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newTestApp builds the full application against upstreamURL. An empty URL
// disables the API so every request is served from mock data.
func newTestApp(t *testing.T, upstreamURL string) *app.App {
	t.Helper()

	var b strings.Builder
	b.WriteString("[logging]\nlevel = \"error\"\n\n[api]\n")
	if upstreamURL == "" {
		b.WriteString("enabled = false\n")
	} else {
		fmt.Fprintf(&b, "enabled = true\nbase_url = %q\nrate_limit = 1000\nmax_retries = 0\n", upstreamURL)
	}

	path := filepath.Join(t.TempDir(), "tickerboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	a, err := app.NewApp(path)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func newTestServer(t *testing.T, upstreamURL string) *Server {
	t.Helper()
	return NewServer(newTestApp(t, upstreamURL))
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}
