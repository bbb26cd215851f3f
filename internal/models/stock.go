// Package models defines data structures for tickerboard
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go out as JSON numbers, matching the upstream wire format.
	decimal.MarshalJSONWithoutQuotes = true
}

// SourceTag records which data source produced a value.
type SourceTag string

const (
	SourceAPI  SourceTag = "api"
	SourceMock SourceTag = "mock"
)

// PricePoint is one daily closing price.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // epoch seconds
	Price     float64 `json:"price"`
}

// StatsRecord holds the per-symbol figures shown in the stock list and detail panel.
type StatsRecord struct {
	Symbol    string          `json:"symbol"`
	BookValue decimal.Decimal `json:"bookValue"`
	Profit    decimal.Decimal `json:"profit"`
	Source    SourceTag       `json:"source,omitempty"`
}

// ProfileRecord holds the company summary text.
type ProfileRecord struct {
	Symbol  string    `json:"symbol"`
	Summary string    `json:"summary"`
	Source  SourceTag `json:"source,omitempty"`
}

// Range selects a lookback window for a price series.
type Range string

const (
	Range1Month Range = "1month"
	Range3Month Range = "3month"
	Range1Year  Range = "1year"
	Range5Year  Range = "5year"

	DefaultRange = Range1Month
)

// Ranges lists the selectable ranges in display order.
var Ranges = []Range{Range1Month, Range3Month, Range1Year, Range5Year}

var rangeDays = map[Range]int{
	Range1Month: 30,
	Range3Month: 90,
	Range1Year:  365,
	Range5Year:  1825,
}

var rangeLabels = map[Range]string{
	Range1Month: "1M",
	Range3Month: "3M",
	Range1Year:  "1Y",
	Range5Year:  "5Y",
}

// Days returns the lookback length. Unrecognised ranges use 30 days.
func (r Range) Days() int {
	if d, ok := rangeDays[r]; ok {
		return d
	}
	return rangeDays[DefaultRange]
}

// Valid reports whether r is one of the enumerated ranges.
func (r Range) Valid() bool {
	_, ok := rangeDays[r]
	return ok
}

// Label is the short button caption for r.
func (r Range) Label() string {
	if l, ok := rangeLabels[r]; ok {
		return l
	}
	return rangeLabels[DefaultRange]
}

// Cutoff returns the oldest timestamp kept for r relative to now (epoch seconds).
func (r Range) Cutoff(now int64) int64 {
	return now - int64(r.Days())*86400
}

// ParseRange normalises a query value, falling back to DefaultRange.
func ParseRange(s string) Range {
	r := Range(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r
	}
	return DefaultRange
}

// FilterSince returns the points with Timestamp >= cutoff. The input is not modified.
func FilterSince(points []PricePoint, cutoff int64) []PricePoint {
	out := make([]PricePoint, 0, len(points))
	for _, p := range points {
		if p.Timestamp >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"PYPL":  "PayPal Holdings",
	"TSLA":  "Tesla Inc.",
	"JPM":   "JPMorgan Chase & Co.",
	"NVDA":  "NVIDIA Corporation",
	"NFLX":  "Netflix Inc.",
	"DIS":   "The Walt Disney Company",
}

// CompanyName returns the display name for symbol, or the symbol itself.
func CompanyName(symbol string) string {
	if n, ok := companyNames[symbol]; ok {
		return n
	}
	return symbol
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
