package mockdata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tickerboard/internal/models"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// constRand returns the same value every call.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateSeries_ShapeAndOrdering(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock{testNow}))

	points := g.GenerateSeries("AAPL")

	require.Len(t, points, 1826)
	assert.Equal(t, testNow.Unix(), points[len(points)-1].Timestamp, "series ends now")
	assert.Equal(t, testNow.Unix()-1825*86400, points[0].Timestamp)
	for i := 1; i < len(points); i++ {
		assert.Equal(t, int64(86400), points[i].Timestamp-points[i-1].Timestamp, "no gaps at %d", i)
	}
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Price, 1.0)
	}
}

func TestGenerateSeries_FormulaWithZeroNoise(t *testing.T) {
	// rand = 0.5 cancels the noise term
	g := NewGenerator(WithClock(fixedClock{testNow}), WithRand(constRand(0.5)))

	points := g.GenerateSeries("MSFT")

	last := points[len(points)-1] // i = 0
	assert.Equal(t, 320.0, last.Price)

	// i = 100: 320 + sin(1)*20 + sin(3)*5 = 320 + 16.8294 + 0.7056 = 337.535
	assert.InDelta(t, 337.54, points[len(points)-101].Price, 0.001)
}

func TestGenerateSeries_RoundsToCents(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock{testNow}))
	for _, p := range g.GenerateSeries("NVDA") {
		cents := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(100))
		assert.True(t, cents.Equal(cents.Round(0)), "price %v has more than 2 decimals", p.Price)
	}
}

func TestGenerateSeries_UnknownSymbolUsesDefaultBase(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock{testNow}), WithRand(constRand(0.5)))

	points := g.GenerateSeries("ZZZZ")

	require.Len(t, points, 1826)
	assert.Equal(t, 100.0, points[len(points)-1].Price)
}

func TestGenerateSeries_FloorsAtOne(t *testing.T) {
	basePrices["PENNY"] = -50
	t.Cleanup(func() { delete(basePrices, "PENNY") })

	g := NewGenerator(WithClock(fixedClock{testNow}), WithRand(constRand(0)))
	for _, p := range g.GenerateSeries("PENNY") {
		assert.Equal(t, 1.0, p.Price)
	}
}

func TestStats_StaticTable(t *testing.T) {
	g := NewGenerator()

	stats := g.Stats()

	require.Len(t, stats, 10)
	assert.Equal(t, "AAPL", stats[0].Symbol)
	assert.True(t, decimal.RequireFromString("150.25").Equal(stats[0].BookValue))
	assert.True(t, decimal.RequireFromString("25.5").Equal(stats[0].Profit))
	assert.Equal(t, "DIS", stats[9].Symbol)
	assert.True(t, stats[9].Profit.IsNegative())
	for _, s := range stats {
		assert.Equal(t, models.SourceMock, s.Source)
	}
}

func TestStats_ReturnsCopy(t *testing.T) {
	g := NewGenerator()
	a := g.Stats()
	a[0].Symbol = "MUTATED"
	assert.Equal(t, "AAPL", g.Stats()[0].Symbol)
}

func TestStats_SignedProfit(t *testing.T) {
	var amzn models.StatsRecord
	for _, rec := range NewGenerator().Stats() {
		if rec.Symbol == "AMZN" {
			amzn = rec
		}
	}
	require.Equal(t, "AMZN", amzn.Symbol)
	assert.Equal(t, "-5.2", amzn.Profit.String())
	assert.True(t, amzn.Profit.IsNegative())
}

func TestProfile(t *testing.T) {
	g := NewGenerator()

	p := g.Profile("NFLX")
	assert.Equal(t, "NFLX", p.Symbol)
	assert.Contains(t, p.Summary, "Netflix, Inc. provides entertainment services.")
	assert.Equal(t, models.SourceMock, p.Source)

	p = g.Profile("ZZZZ")
	assert.Equal(t, "ZZZZ is a publicly traded company.", p.Summary)
}

func TestBasePrice(t *testing.T) {
	assert.Equal(t, 450.0, BasePrice("NVDA"))
	assert.Equal(t, 100.0, BasePrice("UNKNOWN"))
}
