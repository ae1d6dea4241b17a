// Package analysis orchestrates fetch-then-simulate runs across symbols.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
	"github.com/tomblance/drip/internal/models"
	"github.com/tomblance/drip/internal/services/simulation"
)

// Service implements AnalysisService
type Service struct {
	quotes interfaces.QuoteClient
	logger *common.Logger

	mu     sync.RWMutex
	latest *models.AnalysisRun

	// now is injectable for tests
	now func() time.Time
}

// NewService creates a new analysis service
func NewService(quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		quotes: quotes,
		logger: logger,
		now:    time.Now,
	}
}

// Run fetches each symbol's history and simulates it. Per-symbol failures
// are recorded in the run's Errors map and never abort the other symbols.
// Each run owns its own accumulator and is published atomically on
// completion, so a re-triggered run never mixes stale and fresh rows.
func (s *Service) Run(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRun, error) {
	if len(req.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols to analyze")
	}

	endDate := req.EndDate
	if endDate == "" {
		endDate = s.now().UTC().Format("2006-01-02")
	}
	startDate := req.StartDate
	if startDate == "" {
		return nil, fmt.Errorf("start date is required")
	}

	symbols := normalizeSymbols(req.Symbols)
	run := &models.AnalysisRun{
		ID:      uuid.NewString(),
		Symbols: symbols,
		Results: make(map[string]*models.SimulationResult, len(req.Symbols)),
		Errors:  make(map[string]string),
	}

	s.logger.Info().Str("run", run.ID).Strs("symbols", symbols).
		Str("mode", string(req.Mode)).Msg("Starting analysis run")

	// Fetches are sequential on purpose: the upstream rate-limits bursty
	// clients, and the relay chain already paces public relays.
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resolved, err := s.quotes.Resolve(ctx, symbol)
		if err != nil {
			run.Errors[symbol] = err.Error()
			continue
		}

		series, err := s.quotes.GetDailySeries(ctx, resolved, startDate, endDate)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", resolved).Msg("Symbol fetch failed")
			run.Errors[symbol] = err.Error()
			continue
		}

		result := simulation.Simulate(series, req.SimulationParams)
		run.Results[symbol] = &result
	}

	run.ChartRows = simulation.BuildChartRows(run.Results, symbols, req.Mode, req.Amount)

	s.mu.Lock()
	s.latest = run
	s.mu.Unlock()

	s.logger.Info().Str("run", run.ID).Int("ok", len(run.Results)).
		Int("failed", len(run.Errors)).Msg("Analysis run published")
	return run, nil
}

// Latest returns the most recently published run, or nil.
func (s *Service) Latest() *models.AnalysisRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Trades runs the exhaustive best/worst trade scan over a symbol's series.
func (s *Service) Trades(ctx context.Context, symbol, startDate, endDate string) (*models.TradeResult, error) {
	resolved, err := s.quotes.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	series, err := s.quotes.GetDailySeries(ctx, resolved, startDate, endDate)
	if err != nil {
		return nil, err
	}

	result := simulation.FindBestAndWorstTrades(series)
	if result == nil {
		return nil, fmt.Errorf("%s: not enough data points for trade analysis", resolved)
	}
	return result, nil
}

func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	return out
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
