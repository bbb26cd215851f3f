package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitResourcePath(t *testing.T) {
	tests := []struct {
		path, id, action string
		ok               bool
	}{
		{"/api/stocks/AAPL/series", "AAPL", "series", true},
		{"/api/stocks/AAPL/details/", "AAPL", "details", true},
		{"/api/stocks/AAPL", "AAPL", "", true},
		{"/api/stocks/", "", "", true},
		{"/api/other/AAPL", "", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		id, action, ok := splitResourcePath(r, "/api/stocks/")
		assert.Equal(t, tt.id, id, tt.path)
		assert.Equal(t, tt.action, action, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}

func TestRequireMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	ok := RequireMethod(rec, httptest.NewRequest(http.MethodPost, "/", nil), http.MethodGet)

	assert.False(t, ok)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))

	rec = httptest.NewRecorder()
	assert.True(t, RequireMethod(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.MethodGet))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	rec := httptest.NewRecorder()
	ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`)), &v)
	assert.True(t, ok)
	assert.Equal(t, "x", v.Name)

	rec = httptest.NewRecorder()
	ok = DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`)), &v)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON")
}

func TestWriteErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorWithCode(rec, http.StatusBadRequest, "use_real is required", "missing_field")

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"use_real is required","code":"missing_field"}`, rec.Body.String())
}
