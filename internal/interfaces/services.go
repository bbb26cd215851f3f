package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/tickerboard/internal/models"
)

// MockSource produces synthetic data for the fallback path
type MockSource interface {
	GenerateSeries(symbol string) []models.PricePoint
	Stats() []models.StatsRecord
	Profile(symbol string) models.ProfileRecord
}

// DataSource resolves dashboard data from the API or the mock source.
// Fetch methods always return a value; failures fall back to mock data.
type DataSource interface {
	ProbeHealth(ctx context.Context) map[string]models.EndpointHealth
	FetchSeries(ctx context.Context, symbol string, rng models.Range) ([]models.PricePoint, models.SourceTag)
	FetchStats(ctx context.Context) ([]models.StatsRecord, models.SourceTag)
	FetchProfile(ctx context.Context, symbol string) (models.ProfileRecord, models.SourceTag)
	StatusSnapshot() models.StatusSnapshot
	ForceSource(useReal bool)
	ResetCache()
}

// ChartRenderer owns chart surfaces and draws them
type ChartRenderer interface {
	CreateChart(target string) *models.ChartState
	RenderSeries(target, symbol string, rng models.Range, points []models.PricePoint) models.ChartFrame
	Display(target string) models.ChartDisplay
	WritePNG(w io.Writer, frame models.ChartFrame, theme string) error
	WriteSVG(w io.Writer, frame models.ChartFrame, theme string) error
}
