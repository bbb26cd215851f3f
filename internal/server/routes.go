package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/tickerboard/internal/common"
)

// registerRoutes sets up the dashboard pages and JSON API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Dashboard
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/theme", s.handleThemeToggle)
	mux.HandleFunc("/chart.png", s.handleChartPNG)
	mux.HandleFunc("/chart.svg", s.handleChartSVG)
	mux.Handle("/static/", staticHandler())

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Stocks
	mux.HandleFunc("/api/stocks/", s.routeStocks)
	mux.HandleFunc("/api/stocks", s.handleStockList)
	mux.HandleFunc("/api/dashboard", s.handleDashboardState)

	// Data source
	mux.HandleFunc("/api/source/status", s.handleSourceStatus)
	mux.HandleFunc("/api/source/probe", s.handleSourceProbe)
	mux.HandleFunc("/api/source/force", s.handleSourceForce)
	mux.HandleFunc("/api/cache/reset", s.handleCacheReset)
}

// routeStocks dispatches /api/stocks/{symbol}/* to the appropriate handler.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	symbol, action, _ := splitResourcePath(r, "/api/stocks/")
	if symbol == "" && action == "" {
		s.handleStockList(w, r)
		return
	}

	switch action {
	case "series":
		s.handleStockSeries(w, r, symbol)
	case "profile":
		s.handleStockProfile(w, r, symbol)
	case "", "details":
		s.handleStockDetails(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}
