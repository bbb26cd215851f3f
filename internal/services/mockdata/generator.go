// Package mockdata generates synthetic price series and static stats/profile
// tables used whenever the remote stock API cannot be trusted.
package mockdata

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/models"
)

// SeriesDays is how many days back the generated series starts; the series
// holds SeriesDays+1 daily points ending today.
const SeriesDays = 1825

const (
	defaultBasePrice = 100.0
	minPrice         = 1.0
	secondsPerDay    = 86400
)

var basePrices = map[string]float64{
	"AAPL":  150,
	"MSFT":  320,
	"GOOGL": 135,
	"AMZN":  125,
	"PYPL":  85,
	"TSLA":  210,
	"JPM":   145,
	"NVDA":  450,
	"NFLX":  380,
	"DIS":   95,
}

type statsRow struct {
	symbol    string
	bookValue string
	profit    string
}

// statsTable is kept in display order.
var statsTable = []statsRow{
	{"AAPL", "150.25", "25.5"},
	{"MSFT", "320.45", "45.3"},
	{"GOOGL", "135.75", "18.9"},
	{"AMZN", "125.6", "-5.2"},
	{"PYPL", "85.3", "12.4"},
	{"TSLA", "210.8", "65.75"},
	{"JPM", "145.9", "22.1"},
	{"NVDA", "450.25", "120.5"},
	{"NFLX", "380.4", "45.8"},
	{"DIS", "95.6", "-8.3"},
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Rand provides uniform floats in [0, 1)
type Rand interface {
	Float64() float64
}

// lockedRand makes a *rand.Rand safe for concurrent generators.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRand returns a concurrency-safe Rand seeded with seed.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// Generator produces mock series and lookups.
type Generator struct {
	clock Clock
	rng   Rand
}

// Option configures a Generator
type Option func(*Generator)

// WithClock sets the clock the series ends at
func WithClock(c Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithRand sets the noise source
func WithRand(r Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// NewGenerator creates a generator using the wall clock and a time-seeded RNG.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock: RealClock{},
		rng:   NewRand(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BasePrice returns the anchor price for symbol, 100 for unknown symbols.
func BasePrice(symbol string) float64 {
	if p, ok := basePrices[symbol]; ok {
		return p
	}
	return defaultBasePrice
}

// GenerateSeries returns SeriesDays+1 daily points ending at the clock's now,
// oldest first. i counts days back from today:
//
//	price = base + sin(0.01i)*20 + (rand-0.5)*10 + sin(0.03i)*5
//
// floored at 1.00 and rounded to cents.
func (g *Generator) GenerateSeries(symbol string) []models.PricePoint {
	now := g.clock.Now().Unix()
	base := BasePrice(symbol)

	points := make([]models.PricePoint, 0, SeriesDays+1)
	for i := SeriesDays; i >= 0; i-- {
		fi := float64(i)
		trend := math.Sin(fi*0.01) * 20
		noise := (g.rng.Float64() - 0.5) * 10
		cycle := math.Sin(fi*0.03) * 5

		price := common.RoundPrice(base + trend + noise + cycle)
		if price < minPrice {
			price = minPrice
		}

		points = append(points, models.PricePoint{
			Timestamp: now - int64(i)*secondsPerDay,
			Price:     price,
		})
	}
	return points
}

// Stats returns a fresh copy of the static stats table tagged mock.
func (g *Generator) Stats() []models.StatsRecord {
	out := make([]models.StatsRecord, 0, len(statsTable))
	for _, row := range statsTable {
		out = append(out, row.record())
	}
	return out
}

// Profile returns the static profile for symbol, or a generic description.
func (g *Generator) Profile(symbol string) models.ProfileRecord {
	summary, ok := profileTable[symbol]
	if !ok {
		summary = DefaultSummary(symbol)
	}
	return models.ProfileRecord{Symbol: symbol, Summary: summary, Source: models.SourceMock}
}

// DefaultSummary is the placeholder text for symbols without a profile.
func DefaultSummary(symbol string) string {
	return fmt.Sprintf("%s is a publicly traded company.", symbol)
}

func (r statsRow) record() models.StatsRecord {
	return models.StatsRecord{
		Symbol:    r.symbol,
		BookValue: decimal.RequireFromString(r.bookValue),
		Profit:    decimal.RequireFromString(r.profit),
		Source:    models.SourceMock,
	}
}

var _ interfaces.MockSource = (*Generator)(nil)
