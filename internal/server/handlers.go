package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/models"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": s.app.Config.Environment,
		"uptime":      time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleCatalog handles GET /api/catalog: the hand-maintained instrument
// groups the UI offers as selectable defaults.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"indexes":      models.IndexOptions,
		"crypto":       models.CryptoOptions,
		"bonds":        models.BondOptions,
		"commodities":  models.CommodityOptions,
		"constituents": models.IndexConstituents,
	})
}

// handleScreener handles GET /api/screener?id=day_gainers&count=25.
func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id, ok := QueryParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Missing 'id' query parameter")
		return
	}
	count := 25
	if raw, ok := QueryParam(r, "count"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 250 {
			WriteError(w, http.StatusBadRequest, "Invalid 'count' query parameter")
			return
		}
		count = parsed
	}

	rows, err := s.app.Quotes.GetScreener(r.Context(), id, count)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}
