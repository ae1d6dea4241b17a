package analysis

import (
	"context"
	"sort"
	"strings"

	"github.com/tomblance/drip/internal/models"
)

const defaultScanLimit = 20

// Scan surveys the candidate universe for top movers over the lookback
// window. One batched spark request per chunk keeps the upstream call count
// far below per-symbol fetching; a failed chunk just thins the results.
func (s *Service) Scan(ctx context.Context, opts models.ScanOptions) ([]models.ScanRow, error) {
	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = models.ScanCandidates
	}
	candidates = mergeSymbols(candidates, opts.Extra)

	results, err := s.quotes.GetSparkBatch(ctx, candidates, rangeHintForDays(opts.Days))
	if err != nil {
		return nil, err
	}

	rows := make([]models.ScanRow, 0, len(results))
	for _, r := range results {
		if len(r.History) < 2 {
			continue
		}
		start := r.History[0]
		if start.Price <= 0 {
			continue
		}
		current := r.CurrentPrice
		if current == 0 {
			current = r.History.LastPrice()
		}
		growth := (current - start.Price) / start.Price * 100
		if growth < opts.Threshold {
			continue
		}
		rows = append(rows, models.ScanRow{
			Symbol:       r.Symbol,
			Name:         r.Name,
			StartPrice:   start.Price,
			CurrentPrice: current,
			StartDate:    start.Date,
			Growth:       growth,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Growth > rows[j].Growth })

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultScanLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	s.logger.Info().Int("candidates", len(candidates)).Int("movers", len(rows)).
		Int("days", opts.Days).Msg("Scan complete")
	return rows, nil
}

func rangeHintForDays(days int) string {
	switch {
	case days <= 0:
		return "1mo"
	case days <= 7:
		return "5d"
	case days <= 35:
		return "1mo"
	case days <= 100:
		return "3mo"
	case days <= 200:
		return "6mo"
	default:
		return "1y"
	}
}

func mergeSymbols(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
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
	}
	return out
}
