// Package interfaces defines service contracts for tickerboard
package interfaces

import (
	"context"

	"github.com/bobmcallan/tickerboard/internal/models"
)

// StockAPIClient provides access to the remote stock data API
type StockAPIClient interface {
	// Probe checks one endpoint and records the outcome as data, never as an error
	Probe(ctx context.Context, endpoint string) models.EndpointHealth

	// GetPriceSeries retrieves every symbol's price history, each sorted oldest first
	GetPriceSeries(ctx context.Context) (map[string][]models.PricePoint, error)

	// GetStats retrieves book value and profit per symbol
	GetStats(ctx context.Context) (map[string]models.StatsRecord, error)

	// GetProfiles retrieves company summaries per symbol
	GetProfiles(ctx context.Context) (map[string]models.ProfileRecord, error)
}
