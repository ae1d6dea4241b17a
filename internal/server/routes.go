package server

import (
	"net/http"
	"time"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Symbols
	mux.HandleFunc("/api/validate", s.handleValidate)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/catalog", s.handleCatalog)
	mux.HandleFunc("/api/screener", s.handleScreener)

	// Analysis
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/analysis/latest", s.handleAnalysisLatest)
	mux.HandleFunc("/api/analysis/chart.png", s.handleAnalysisChart)
	mux.HandleFunc("/api/series", s.handleSeries)
	mux.HandleFunc("/api/trades", s.handleTrades)
	mux.HandleFunc("/api/enrich", s.handleEnrich)
	mux.HandleFunc("/api/scan", s.handleScan)

	// Reports
	mux.HandleFunc("/api/reports", s.handleReports)

	// Relay passthrough for browser clients
	mux.HandleFunc("/api/relay", s.handleRelay)
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
