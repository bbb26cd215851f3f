package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/models"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type palette struct {
	background drawing.Color
	text       drawing.Color
	grid       drawing.Color
}

var (
	lineColor = drawing.ColorFromHex("3b82f6")
	fillColor = lineColor.WithAlpha(26) // 10%

	palettes = map[string]palette{
		ThemeLight: {
			background: drawing.ColorWhite,
			text:       drawing.ColorFromHex("94a3b8"),
			grid:       drawing.ColorFromHex("e2e8f0"),
		},
		ThemeDark: {
			background: drawing.ColorFromHex("1e293b"),
			text:       drawing.ColorFromHex("94a3b8"),
			grid:       drawing.ColorFromHex("e2e8f0").WithAlpha(51),
		},
	}
)

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[ThemeLight]
}

// WritePNG draws frame as a PNG image.
func (r *Renderer) WritePNG(w io.Writer, frame models.ChartFrame, theme string) error {
	return r.write(w, frame, theme, chart.PNG)
}

// WriteSVG draws frame as an SVG document.
func (r *Renderer) WriteSVG(w io.Writer, frame models.ChartFrame, theme string) error {
	return r.write(w, frame, theme, chart.SVG)
}

func (r *Renderer) write(w io.Writer, frame models.ChartFrame, theme string, provider chart.RendererProvider) error {
	start := time.Now()
	graph := r.buildGraph(frame, paletteFor(theme))
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	r.logger.Trace().
		Str("symbol", frame.Symbol).
		Str("range", string(frame.Range)).
		Int("points", len(frame.Values)).
		Dur("elapsed", time.Since(start)).
		Msg("Chart rendered")
	return nil
}

// buildGraph maps a frame onto a go-chart line chart. go-chart cannot draw
// fewer than two points or a zero-height range, so short or flat series get
// padded axes.
func (r *Renderer) buildGraph(frame models.ChartFrame, p palette) chart.Chart {
	xValues := make([]time.Time, len(frame.Timestamps))
	for i, ts := range frame.Timestamps {
		xValues[i] = time.Unix(ts, 0).UTC()
	}
	yValues := append([]float64(nil), frame.Values...)

	switch len(xValues) {
	case 0:
		now := time.Now().UTC()
		xValues = []time.Time{now.AddDate(0, 0, -1), now}
		yValues = []float64{0, 0}
	case 1:
		xValues = append(xValues, xValues[0].AddDate(0, 0, 1))
		yValues = append(yValues, yValues[0])
	}

	peak, low := CalculatePeakLow(yValues)
	if peak == low {
		peak++
		low--
	}

	name := "Stock Price"
	if frame.Symbol != "" {
		name = frame.Symbol + " Price"
	}

	axisStyle := chart.Style{
		FontColor:   p.text,
		StrokeColor: p.grid,
	}
	gridStyle := chart.Style{
		StrokeColor: p.grid,
		StrokeWidth: 1,
	}

	return chart.Chart{
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			FillColor: p.background,
			Padding:   chart.Box{Top: 20, Left: 10, Right: 20, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: p.background,
		},
		XAxis: chart.XAxis{
			Style:          axisStyle,
			GridMajorStyle: gridStyle,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatDate(chart.TimeFromFloat64(f).Unix())
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Style:          axisStyle,
			GridMajorStyle: gridStyle,
			Range:          &chart.ContinuousRange{Min: low, Max: peak},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatCurrency(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: name,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}
}
