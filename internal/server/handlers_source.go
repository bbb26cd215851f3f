package server

import (
	"net/http"

	"github.com/bobmcallan/tickerboard/internal/models"
)

// handleSourceStatus handles GET /api/source/status.
func (s *Server) handleSourceStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.Source.StatusSnapshot())
}

// handleSourceProbe handles POST /api/source/probe. With ?async=1 the probe
// is scheduled through the debouncer and the handler returns immediately.
func (s *Server) handleSourceProbe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if r.URL.Query().Get("async") == "1" {
		s.app.RequestProbe()
		WriteJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
		return
	}

	health := s.app.Source.ProbeHealth(r.Context())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"health":         health,
		"online":         models.OnlineCount(health),
		"using_real_api": s.app.Source.StatusSnapshot().UsingRealAPI,
	})
}

type forceSourceRequest struct {
	UseReal *bool `json:"use_real"`
}

// handleSourceForce handles POST /api/source/force.
func (s *Server) handleSourceForce(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req forceSourceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UseReal == nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "use_real is required", "missing_field")
		return
	}

	s.app.Source.ForceSource(*req.UseReal)

	WriteJSON(w, http.StatusOK, s.app.Source.StatusSnapshot())
}

// handleCacheReset handles POST /api/cache/reset.
func (s *Server) handleCacheReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	s.app.Source.ResetCache()

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
