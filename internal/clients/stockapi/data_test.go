package stockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tickerboard/internal/models"
)

func serveJSON(t *testing.T, path, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPriceSeries_SortsAndValidates(t *testing.T) {
	srv := serveJSON(t, "/stocksdata", `{
		"aapl": [
			{"timestamp": 300, "price": 3.5},
			{"timestamp": 100, "price": 1.5},
			{"timestamp": 200},
			{"timestamp": -5, "price": 2},
			{"timestamp": 250, "price": -1},
			"junk",
			{"timestamp": 200, "price": 2.5}
		],
		"MSFT": {"not": "an array"},
		"TSLA": []
	}`)

	series, err := newTestClient(srv.URL).GetPriceSeries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.PricePoint{
		{Timestamp: 100, Price: 1.5},
		{Timestamp: 200, Price: 2.5},
		{Timestamp: 300, Price: 3.5},
	}, series["AAPL"])
	assert.NotContains(t, series, "MSFT")
	assert.Contains(t, series, "TSLA")
	assert.Empty(t, series["TSLA"])
}

func TestGetPriceSeries_NullBodyIsInvalid(t *testing.T) {
	srv := serveJSON(t, "/stocksdata", `null`)

	_, err := newTestClient(srv.URL).GetPriceSeries(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetStats_AcceptsNumbersAndStrings(t *testing.T) {
	srv := serveJSON(t, "/stocksstatsdata", `{
		"AAPL": {"bookValue": 150.25, "profit": 25.5},
		"AMZN": {"bookValue": "125.6", "profit": "-5.2"},
		"DIS":  {"bookValue": 95.6},
		"NFLX": {"bookValue": "n/a", "profit": 1},
		"JPM":  42
	}`)

	stats, err := newTestClient(srv.URL).GetStats(context.Background())

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "150.25", stats["AAPL"].BookValue.String())
	assert.Equal(t, "-5.2", stats["AMZN"].Profit.String())
	assert.Equal(t, models.SourceAPI, stats["AMZN"].Source)
	assert.Equal(t, "AMZN", stats["AMZN"].Symbol)
}

func TestGetProfiles(t *testing.T) {
	srv := serveJSON(t, "/profiledata", `{
		"AAPL": {"summary": "  Apple makes phones.  "},
		"MSFT": {},
		"GOOGL": "bare string",
		"TSLA": null
	}`)

	profiles, err := newTestClient(srv.URL).GetProfiles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.ProfileRecord{Symbol: "AAPL", Summary: "Apple makes phones.", Source: models.SourceAPI}, profiles["AAPL"])
	assert.Equal(t, "", profiles["MSFT"].Summary)
	assert.Contains(t, profiles, "MSFT")
	assert.NotContains(t, profiles, "GOOGL")
	assert.NotContains(t, profiles, "TSLA")
}
