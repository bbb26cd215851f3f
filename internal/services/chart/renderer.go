// Package chart owns the named chart surfaces of the dashboard and draws
// them as PNG or SVG images.
package chart

import (
	"fmt"
	"sync"

	"github.com/bobmcallan/tickerboard/internal/common"
	"github.com/bobmcallan/tickerboard/internal/interfaces"
	"github.com/bobmcallan/tickerboard/internal/models"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 400
)

// Renderer binds at most one chart to each target surface.
type Renderer struct {
	logger *common.Logger
	width  int
	height int

	mu         sync.Mutex
	generation uint64
	charts     map[string]*models.ChartState
	displays   map[string]models.ChartDisplay
	frames     map[string]models.ChartFrame
}

// Option configures a Renderer
type Option func(*Renderer)

// WithSize sets the image dimensions in pixels
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// NewRenderer creates a Renderer with no surfaces bound.
func NewRenderer(logger *common.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		logger:   logger,
		width:    DefaultWidth,
		height:   DefaultHeight,
		charts:   make(map[string]*models.ChartState),
		displays: make(map[string]models.ChartDisplay),
		frames:   make(map[string]models.ChartFrame),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateChart destroys any chart bound to target and binds an empty one.
func (r *Renderer) CreateChart(target string) *models.ChartState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(target)
}

func (r *Renderer) createLocked(target string) *models.ChartState {
	if _, ok := r.charts[target]; ok {
		r.logger.Debug().Str("target", target).Msg("Replacing chart instance")
	}
	r.generation++
	state := &models.ChartState{
		Target:     target,
		Generation: r.generation,
		Labels:     []string{},
		Values:     []float64{},
		Timestamps: []int64{},
	}
	r.charts[target] = state
	delete(r.frames, target)
	return state
}

// RenderSeries replaces the data of the chart bound to target, creating the
// chart first if needed, and updates the peak, low and selected fields.
// The bound state is swapped, never mutated, so earlier snapshots stay valid.
func (r *Renderer) RenderSeries(target, symbol string, rng models.Range, points []models.PricePoint) models.ChartFrame {
	frame := NewFrame(target, symbol, rng, points)

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.charts[target]
	if !ok {
		current = r.createLocked(target)
	}
	r.charts[target] = &models.ChartState{
		Target:     target,
		Generation: current.Generation,
		Labels:     frame.Labels,
		Values:     frame.Values,
		Timestamps: frame.Timestamps,
		Symbol:     symbol,
		Range:      rng,
	}

	r.displays[target] = models.ChartDisplay{
		Peak:     common.FormatCurrency(frame.Peak),
		Low:      common.FormatCurrency(frame.Low),
		Selected: fmt.Sprintf("%s - %s", symbol, models.CompanyName(symbol)),
	}
	r.frames[target] = frame
	return frame
}

// NewFrame builds a frame from points without binding it to a surface.
func NewFrame(target, symbol string, rng models.Range, points []models.PricePoint) models.ChartFrame {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	stamps := make([]int64, len(points))
	for i, p := range points {
		labels[i] = common.FormatDate(p.Timestamp)
		values[i] = p.Price
		stamps[i] = p.Timestamp
	}
	peak, low := CalculatePeakLow(values)
	return models.ChartFrame{
		Target:     target,
		Symbol:     symbol,
		Range:      rng,
		Labels:     labels,
		Values:     values,
		Timestamps: stamps,
		Peak:       peak,
		Low:        low,
	}
}

// Display returns the peak, low and selected text last written for target.
func (r *Renderer) Display(target string) models.ChartDisplay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.displays[target]
}

// State returns the chart currently bound to target.
func (r *Renderer) State(target string) (*models.ChartState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.charts[target]
	return s, ok
}

// Frame returns the last frame rendered to target since it was created.
func (r *Renderer) Frame(target string) (models.ChartFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.frames[target]
	return f, ok
}

// CalculatePeakLow returns the max and min of values, or (0, 0) when empty.
func CalculatePeakLow(values []float64) (peak, low float64) {
	if len(values) == 0 {
		return 0, 0
	}
	peak, low = values[0], values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
		if v < low {
			low = v
		}
	}
	return peak, low
}

var _ interfaces.ChartRenderer = (*Renderer)(nil)
