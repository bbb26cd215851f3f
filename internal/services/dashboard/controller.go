// Package dashboard turns dashboard selections into view models, resolving
// data through the arbiter and drawing through the chart renderer.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/models"
)

// Panel names. Each panel accepts only the result of its latest request.
const (
	PanelChart   = "stockChart"
	PanelDetails = "details"
)

const (
	NoSummary     = "No summary available."
	SummaryFailed = "Failed to load summary"
)

// StockItem is one entry of the selectable stock list.
type StockItem struct {
	Symbol      string `json:"symbol"`
	FullName    string `json:"full_name"`
	BookValue   string `json:"book_value"`
	Profit      string `json:"profit"`
	ProfitClass string `json:"profit_class"` // positive or negative
	Active      bool   `json:"active"`
	Href        string `json:"href"`
}

// DetailPanel holds the fields of the selected stock's detail panel.
type DetailPanel struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	BookValue   string           `json:"book_value"`
	Profit      string           `json:"profit"`
	ProfitClass string           `json:"profit_class"` // profit or loss
	Summary     string           `json:"summary"`
	Source      models.SourceTag `json:"source,omitempty"`
	Failed      bool             `json:"failed,omitempty"`
}

// RangeButton is one button of the range selector.
type RangeButton struct {
	Range  models.Range `json:"range"`
	Label  string       `json:"label"`
	Active bool         `json:"active"`
	Href   string       `json:"href"`
}

// Controller coordinates the data source and chart renderer for the dashboard.
type Controller struct {
	source   interfaces.DataSource
	renderer interfaces.ChartRenderer
	logger   *common.Logger
	symbols  []string
	title    string

	mu     sync.Mutex
	latest map[string]uint64
	detail DetailPanel
}

// Option configures a Controller
type Option func(*Controller)

// WithSymbols sets the selectable symbols in display order
func WithSymbols(symbols []string) Option {
	return func(c *Controller) {
		if len(symbols) > 0 {
			c.symbols = append([]string(nil), symbols...)
		}
	}
}

// WithTitle sets the page title
func WithTitle(title string) Option {
	return func(c *Controller) { c.title = title }
}

// NewController creates a Controller and binds the main chart surface.
func NewController(source interfaces.DataSource, renderer interfaces.ChartRenderer, logger *common.Logger, opts ...Option) *Controller {
	c := &Controller{
		source:   source,
		renderer: renderer,
		logger:   logger,
		symbols:  append([]string(nil), common.DefaultSymbols...),
		title:    "Stock Dashboard",
		latest:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	renderer.CreateChart(PanelChart)
	return c
}

// Symbols returns the selectable symbols in display order.
func (c *Controller) Symbols() []string {
	return append([]string(nil), c.symbols...)
}

// Source returns the data source behind the controller.
func (c *Controller) Source() interfaces.DataSource {
	return c.source
}

// begin issues a new request token for panel, invalidating earlier ones.
func (c *Controller) begin(panel string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[panel]++
	return c.latest[panel]
}

// commit runs apply only if token is still the latest for panel.
func (c *Controller) commit(panel string, token uint64, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest[panel] != token {
		return false
	}
	apply()
	return true
}

// StockList builds the stock list from the stats in configured symbol order.
// Symbols missing from the stats show zero values.
func (c *Controller) StockList(ctx context.Context, sel Selection) ([]StockItem, models.SourceTag) {
	records, source := c.source.FetchStats(ctx)
	bySymbol := indexStats(records)

	items := make([]StockItem, 0, len(c.symbols))
	for _, sym := range c.symbols {
		rec := bySymbol[sym]
		class := "positive"
		if rec.Profit.IsNegative() {
			class = "negative"
		}
		items = append(items, StockItem{
			Symbol:      sym,
			FullName:    models.CompanyName(sym),
			BookValue:   "BV: " + common.FormatDecimalCurrency(rec.BookValue),
			Profit:      common.FormatSignedCurrency(rec.Profit),
			ProfitClass: class,
			Active:      sym == sel.Symbol,
			Href:        sel.SelectSymbol(sym).Href(),
		})
	}
	return items, source
}

func indexStats(records []models.StatsRecord) map[string]models.StatsRecord {
	out := make(map[string]models.StatsRecord, len(records))
	for _, r := range records {
		out[r.Symbol] = r
	}
	return out
}

// Details joins the stats and profile for symbol. Any failure of the join
// replaces only the summary with a static message; the other fields keep
// what the panel last showed. The result is recorded as the detail panel
// only if no newer request has started since.
func (c *Controller) Details(ctx context.Context, symbol string) DetailPanel {
	symbol = models.NormalizeSymbol(symbol)
	token := c.begin(PanelDetails)

	panel, err := c.loadDetails(ctx, symbol)
	if err != nil {
		c.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to load stock details")
		panel = c.LastDetails()
		panel.Summary = SummaryFailed
		panel.Failed = true
	}

	if !c.commit(PanelDetails, token, func() { c.detail = panel }) {
		c.logger.Debug().Str("symbol", symbol).Msg("Discarding stale detail result")
	}
	return panel
}

func (c *Controller) loadDetails(ctx context.Context, symbol string) (DetailPanel, error) {
	var (
		records []models.StatsRecord
		profile models.ProfileRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("stats", func() error {
		records, _ = c.source.FetchStats(gctx)
		return nil
	}))
	g.Go(guard("profile", func() error {
		profile, _ = c.source.FetchProfile(gctx, symbol)
		return nil
	}))
	if err := g.Wait(); err != nil {
		return DetailPanel{}, err
	}

	rec := indexStats(records)[symbol]
	class := "profit"
	if rec.Profit.IsNegative() {
		class = "loss"
	}
	summary := profile.Summary
	if summary == "" {
		summary = NoSummary
	}
	return DetailPanel{
		Symbol:      symbol,
		Name:        models.CompanyName(symbol),
		BookValue:   common.FormatDecimalCurrency(rec.BookValue),
		Profit:      common.FormatSignedCurrency(rec.Profit),
		ProfitClass: class,
		Summary:     summary,
		Source:      profile.Source,
	}, nil
}

// guard converts a panic in fn into an error.
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s fetch panicked: %v", name, r)
			}
		}()
		return fn()
	}
}

// LastDetails returns the detail panel as last committed.
func (c *Controller) LastDetails() DetailPanel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail
}

// LoadChart resolves the series for sel and renders it to the main chart.
// It returns false when a newer chart request started while this one was in
// flight; the stale result is dropped and the chart is left untouched.
func (c *Controller) LoadChart(ctx context.Context, sel Selection) (models.ChartFrame, models.SourceTag, bool) {
	start := time.Now()
	token := c.begin(PanelChart)

	points, source := c.source.FetchSeries(ctx, sel.Symbol, sel.Range)

	var frame models.ChartFrame
	ok := c.commit(PanelChart, token, func() {
		frame = c.renderer.RenderSeries(PanelChart, sel.Symbol, sel.Range, points)
	})
	if !ok {
		c.logger.Debug().Str("symbol", sel.Symbol).Str("range", string(sel.Range)).Msg("Discarding stale chart result")
		return models.ChartFrame{}, source, false
	}

	c.logger.Debug().
		Str("symbol", sel.Symbol).
		Str("range", string(sel.Range)).
		Str("source", string(source)).
		Int("points", len(points)).
		Dur("elapsed", time.Since(start)).
		Msg("Chart updated")
	return frame, source, true
}

// Display returns the peak, low and selected text of the main chart.
func (c *Controller) Display() models.ChartDisplay {
	return c.renderer.Display(PanelChart)
}

// RangeButtons returns the range selector with exactly one active button.
func RangeButtons(sel Selection) []RangeButton {
	buttons := make([]RangeButton, 0, len(models.Ranges))
	for _, rng := range models.Ranges {
		buttons = append(buttons, RangeButton{
			Range:  rng,
			Label:  rng.Label(),
			Active: rng == sel.Range,
			Href:   sel.SelectRange(rng).Href(),
		})
	}
	return buttons
}
