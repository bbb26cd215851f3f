package models

import "time"

// Endpoint names probed by the arbiter, relative to the API base URL.
const (
	EndpointStocks   = "stocksdata"
	EndpointStats    = "stocksstatsdata"
	EndpointProfiles = "profiledata"
)

// Endpoints lists every probed endpoint.
var Endpoints = []string{EndpointStocks, EndpointStats, EndpointProfiles}

// EndpointHealth is the outcome of probing one endpoint.
type EndpointHealth struct {
	Endpoint       string    `json:"endpoint"`
	Online         bool      `json:"online"`
	StatusCode     int       `json:"status_code,omitempty"`
	ResponseTimeMs int64     `json:"response_time_ms,omitempty"`
	Error          string    `json:"error,omitempty"`
	TestedAt       time.Time `json:"tested_at"`
}

// StatusSnapshot is a read-only view of the arbiter's source decision.
type StatusSnapshot struct {
	UsingRealAPI     bool                      `json:"using_real_api"`
	HealthByEndpoint map[string]EndpointHealth `json:"health_by_endpoint"`
	LastHealthCheck  time.Time                 `json:"last_health_check"`
}

// OnlineCount returns how many endpoints in health are online.
func OnlineCount(health map[string]EndpointHealth) int {
	n := 0
	for _, h := range health {
		if h.Online {
			n++
		}
	}
	return n
}
