package server

import (
	"net/http"

	"github.com/bobmcallan/tickerboard/internal/models"
	"github.com/bobmcallan/tickerboard/internal/services/chart"
	"github.com/bobmcallan/tickerboard/internal/services/dashboard"
)

// handleStockList handles GET /api/stocks.
func (s *Server) handleStockList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sel := dashboard.SelectionFromQuery(r.URL.Query(), s.app.Dashboard.Symbols())
	records, source := s.app.Source.FetchStats(r.Context())
	items, _ := s.app.Dashboard.StockList(r.Context(), sel)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"source": source,
		"stats":  records,
		"stocks": items,
		"count":  len(items),
	})
}

// handleStockSeries handles GET /api/stocks/{symbol}/series?range=.
func (s *Server) handleStockSeries(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}
	rng := models.ParseRange(r.URL.Query().Get("range"))

	points, source := s.app.Source.FetchSeries(r.Context(), symbol, rng)
	peak, low := chart.CalculatePeakLow(pointPrices(points))

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"range":  rng,
		"source": source,
		"points": points,
		"peak":   peak,
		"low":    low,
	})
}

// handleStockProfile handles GET /api/stocks/{symbol}/profile.
func (s *Server) handleStockProfile(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	profile, source := s.app.Source.FetchProfile(r.Context(), symbol)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"source":  source,
	})
}

// handleStockDetails handles GET /api/stocks/{symbol}/details.
func (s *Server) handleStockDetails(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if models.NormalizeSymbol(symbol) == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Dashboard.Details(r.Context(), symbol))
}

// handleDashboardState handles GET /api/dashboard: the chart display and
// detail panel as last committed by the dashboard.
func (s *Server) handleDashboardState(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"display":        s.app.Dashboard.Display(),
		"details":        s.app.Dashboard.LastDetails(),
		"using_real_api": s.app.Source.StatusSnapshot().UsingRealAPI,
	})
}

func pointPrices(points []models.PricePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Price
	}
	return values
}
