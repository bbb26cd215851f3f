package dashboard

import (
	"context"
	"sync"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/models"
	"github.com/bobmcallan/tickerboard/internal/services/chart"
)

// PageView is everything the dashboard template renders.
type PageView struct {
	Title       string
	Version     string
	Theme       string
	ThemeLabel  string
	Selection   Selection
	Stocks      []StockItem
	StockCount  int
	Ranges      []RangeButton
	Details     DetailPanel
	Display     models.ChartDisplay
	ChartURL    string
	ChartSVGURL string
	Source      models.SourceTag
	LiveAPI     bool
}

// Page loads the stock list, detail panel and chart for sel concurrently and
// assembles the page.
func (c *Controller) Page(ctx context.Context, sel Selection, theme string) PageView {
	var (
		wg       sync.WaitGroup
		stocks   []StockItem
		details  DetailPanel
		source   models.SourceTag
		rendered bool
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		stocks, _ = c.StockList(ctx, sel)
	}()
	go func() {
		defer wg.Done()
		details = c.Details(ctx, sel.Symbol)
	}()
	go func() {
		defer wg.Done()
		_, source, rendered = c.LoadChart(ctx, sel)
	}()
	wg.Wait()

	display := c.Display()
	if !rendered {
		// A newer request owns the surface; describe our own selection instead.
		frame := c.ChartFrame(ctx, sel)
		display = models.ChartDisplay{
			Peak:     common.FormatCurrency(frame.Peak),
			Low:      common.FormatCurrency(frame.Low),
			Selected: sel.Symbol + " - " + models.CompanyName(sel.Symbol),
		}
	}

	return PageView{
		Title:       c.title,
		Version:     common.GetVersion(),
		Theme:       theme,
		ThemeLabel:  ToggleLabel(theme),
		Selection:   sel,
		Stocks:      stocks,
		StockCount:  len(stocks),
		Ranges:      RangeButtons(sel),
		Details:     details,
		Display:     display,
		ChartURL:    chartURL("/chart.png", sel, theme),
		ChartSVGURL: chartURL("/chart.svg", sel, theme),
		Source:      source,
		LiveAPI:     c.source.StatusSnapshot().UsingRealAPI,
	}
}

// ChartFrame resolves the series for sel into a frame without touching the
// main chart surface. Image handlers draw from it.
func (c *Controller) ChartFrame(ctx context.Context, sel Selection) models.ChartFrame {
	points, _ := c.source.FetchSeries(ctx, sel.Symbol, sel.Range)
	return chart.NewFrame(PanelChart, sel.Symbol, sel.Range, points)
}

func chartURL(path string, sel Selection, theme string) string {
	q := sel.Query()
	q.Set("theme", theme)
	return path + "?" + q.Encode()
}
