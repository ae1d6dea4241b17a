package server

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/tomblance/drip/internal/clients/yahoo"
	"github.com/tomblance/drip/internal/models"
	"github.com/tomblance/drip/internal/services/simulation"
)

// handleValidate handles GET /api/validate?symbol=AAPL.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol, ok := QueryParam(r, "symbol")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Missing 'symbol' query parameter")
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Quotes.Validate(r.Context(), symbol))
}

// handleSearch handles GET /api/search?q=apple.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query, ok := QueryParam(r, "q")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Missing 'q' query parameter")
		return
	}

	results, err := s.app.Quotes.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

// handleAnalyze handles POST /api/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AnalysisRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Mode != models.ModeLumpSum && req.Mode != models.ModeMonthly {
		WriteError(w, http.StatusBadRequest, "Mode must be 'lumpsum' or 'monthly'")
		return
	}
	if req.Amount <= 0 {
		WriteError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	run, err := s.app.Analysis.Run(r.Context(), req)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, run)
}

// handleAnalysisLatest handles GET /api/analysis/latest.
func (s *Server) handleAnalysisLatest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	run := s.app.Analysis.Latest()
	if run == nil {
		WriteError(w, http.StatusNotFound, "No analysis run published yet")
		return
	}
	WriteJSON(w, http.StatusOK, run)
}

// handleAnalysisChart handles GET /api/analysis/chart.png, rendering the
// latest run.
func (s *Server) handleAnalysisChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	run := s.app.Analysis.Latest()
	if run == nil {
		WriteError(w, http.StatusNotFound, "No analysis run published yet")
		return
	}

	// The run's symbol order drives color assignment, keeping colors
	// stable across renders.
	symbols := run.Symbols
	if len(symbols) == 0 {
		symbols = make([]string, 0, len(run.Results))
		for symbol := range run.Results {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
	}

	png, err := simulation.RenderChartPNG(run.ChartRows, symbols)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleSeries handles GET /api/series?symbol=AAPL&start=2023-01-01&end=2024-01-01.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol, start, end, ok := seriesParams(w, r)
	if !ok {
		return
	}

	series, err := s.app.Quotes.GetDailySeries(r.Context(), symbol, start, end)
	if err != nil {
		writeSymbolError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleTrades handles GET /api/trades?symbol=AAPL&start=...&end=...
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol, start, end, ok := seriesParams(w, r)
	if !ok {
		return
	}

	result, err := s.app.Analysis.Trades(r.Context(), symbol, start, end)
	if err != nil {
		writeSymbolError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleEnrich handles GET /api/enrich?symbol=AAPL. Missing enrichment is a
// 200 with null: the data is informational and its absence is expected.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol, ok := QueryParam(r, "symbol")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Missing 'symbol' query parameter")
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Analysis.Enrich(r.Context(), symbol))
}

// handleScan handles POST /api/scan.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var opts models.ScanOptions
	if !DecodeJSON(w, r, &opts) {
		return
	}

	rows, err := s.app.Analysis.Scan(r.Context(), opts)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

func seriesParams(w http.ResponseWriter, r *http.Request) (symbol, start, end string, ok bool) {
	symbol, hasSymbol := QueryParam(r, "symbol")
	start, hasStart := QueryParam(r, "start")
	end, hasEnd := QueryParam(r, "end")
	if !hasSymbol || !hasStart || !hasEnd {
		WriteError(w, http.StatusBadRequest, "Missing 'symbol', 'start' or 'end' query parameter")
		return "", "", "", false
	}
	return symbol, start, end, true
}

// writeSymbolError maps a per-symbol upstream failure to 404 and everything
// else to 502.
func writeSymbolError(w http.ResponseWriter, err error) {
	var symErr *yahoo.SymbolError
	if errors.As(err, &symErr) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteError(w, http.StatusBadGateway, err.Error())
}
