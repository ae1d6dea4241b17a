package analysis

import (
	"context"

	"github.com/tomblance/drip/internal/clients/yahoo"
	"github.com/tomblance/drip/internal/models"
)

// Enrich returns best-effort analyst data for a symbol. The rich
// quote-summary tier is tried first; on failure a minimal snapshot is
// derived from the same daily series used for simulations. Returns nil only
// when both tiers fail. Enrichment never errors; missing data is an
// acceptable outcome.
func (s *Service) Enrich(ctx context.Context, symbol string) *models.AnalystSnapshot {
	snap, err := s.quotes.GetQuoteSummary(ctx, symbol)
	if err == nil && snap != nil {
		return snap
	}
	s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Quote summary unavailable, deriving from daily series")

	return s.deriveSnapshot(ctx, symbol)
}

// deriveSnapshot builds the cheap fallback tier: current price plus a
// trailing-twelve-month dividend yield from one year of daily data.
func (s *Service) deriveSnapshot(ctx context.Context, symbol string) *models.AnalystSnapshot {
	end := s.now().UTC()
	start := end.AddDate(-1, 0, 0)

	series, err := s.quotes.GetDividendHistory(ctx, symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil || len(series) == 0 {
		return nil
	}

	price := series.LastPrice()
	snap := &models.AnalystSnapshot{
		CurrentPrice: price,
	}

	if yahoo.IsIndexSymbol(symbol) {
		// Treasury-style indexes quote the yield itself as the price.
		snap.DividendYield = yahoo.ImpliedYieldFromIndexPrice(price)
		return snap
	}

	if price > 0 {
		var ttmDividends float64
		for _, point := range series {
			ttmDividends += point.Dividend
		}
		snap.DividendYield = ttmDividends / price
	}
	return snap
}
