package interfaces

import (
	"context"
	"io"

	"github.com/tomblance/drip/internal/models"
)

// AnalysisService orchestrates multi-symbol fetch-then-simulate runs.
type AnalysisService interface {
	// Run fetches each symbol's history and simulates it, returning an
	// atomically-published run. Per-symbol failures are recorded in the
	// run's Errors map and never abort the other symbols.
	Run(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRun, error)

	// Latest returns the most recently published run, or nil.
	Latest() *models.AnalysisRun

	// Enrich returns best-effort analyst data for a symbol, or nil when
	// every strategy fails.
	Enrich(ctx context.Context, symbol string) *models.AnalystSnapshot

	// Trades runs the exhaustive best/worst trade scan over a symbol's
	// series in the given range.
	Trades(ctx context.Context, symbol, startDate, endDate string) (*models.TradeResult, error)

	// Scan finds top movers over a lookback window.
	Scan(ctx context.Context, opts models.ScanOptions) ([]models.ScanRow, error)
}

// ReportService analyses uploaded quarterly earnings reports.
type ReportService interface {
	// Analyse extracts metrics from each named PDF and generates an
	// executive summary across quarters.
	Analyse(ctx context.Context, reports map[string]io.ReaderAt, sizes map[string]int64) (*models.ReportAnalysis, error)
}
