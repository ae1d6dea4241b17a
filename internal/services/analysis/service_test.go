package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/models"
)

// stubQuotes implements interfaces.QuoteClient for tests.
type stubQuotes struct {
	series        map[string]models.DailySeries
	seriesErr     map[string]error
	summaries     map[string]*models.AnalystSnapshot
	summaryErr    error
	sparks        []models.SparkResult
	sparkErr      error
	sparkCalls    [][]string
	seriesCalls   []string
	dividendCalls []string
}

func (s *stubQuotes) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	return nil, nil
}

func (s *stubQuotes) Validate(ctx context.Context, symbol string) models.Validation {
	return models.Validation{Valid: true, Symbol: symbol}
}

func (s *stubQuotes) Resolve(ctx context.Context, input string) (string, error) {
	return input, nil
}

func (s *stubQuotes) GetDailySeries(ctx context.Context, symbol, startDate, endDate string) (models.DailySeries, error) {
	s.seriesCalls = append(s.seriesCalls, symbol)
	if err, ok := s.seriesErr[symbol]; ok {
		return nil, err
	}
	return s.series[symbol], nil
}

func (s *stubQuotes) GetDividendHistory(ctx context.Context, symbol, startDate, endDate string) (models.DailySeries, error) {
	s.dividendCalls = append(s.dividendCalls, symbol)
	if err, ok := s.seriesErr[symbol]; ok {
		return nil, err
	}
	return s.series[symbol], nil
}

func (s *stubQuotes) GetSparkBatch(ctx context.Context, symbols []string, rangeHint string) ([]models.SparkResult, error) {
	s.sparkCalls = append(s.sparkCalls, symbols)
	return s.sparks, s.sparkErr
}

func (s *stubQuotes) GetQuoteSummary(ctx context.Context, symbol string) (*models.AnalystSnapshot, error) {
	if s.summaryErr != nil {
		return nil, s.summaryErr
	}
	return s.summaries[symbol], nil
}

func (s *stubQuotes) GetScreener(ctx context.Context, screenerID string, count int) ([]models.ScreenerRow, error) {
	return nil, nil
}

func newTestService(quotes *stubQuotes) *Service {
	svc := NewService(quotes, common.NewSilentLogger())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func flatSeries(dates []string, price float64) models.DailySeries {
	series := make(models.DailySeries, 0, len(dates))
	for _, d := range dates {
		series = append(series, models.PricePoint{Date: d, Price: price})
	}
	return series
}

func TestRunRecordsPerSymbolErrors(t *testing.T) {
	quotes := &stubQuotes{
		series: map[string]models.DailySeries{
			"AAPL": flatSeries([]string{"2024-01-15", "2024-02-15"}, 100),
		},
		seriesErr: map[string]error{
			"ZZZZZ": errors.New("ZZZZZ: No data found"),
		},
	}
	svc := newTestService(quotes)

	run, err := svc.Run(context.Background(), models.AnalysisRequest{
		Symbols: []string{"AAPL", "ZZZZZ"},
		SimulationParams: models.SimulationParams{
			Amount:    100,
			Mode:      models.ModeLumpSum,
			StartDate: "2024-01-01",
		},
		EndDate: "2024-03-01",
	})
	require.NoError(t, err)

	// The failed symbol is recorded and the healthy one still succeeds.
	require.Contains(t, run.Results, "AAPL")
	assert.Equal(t, 100.0, run.Results["AAPL"].TotalInvested)
	assert.Contains(t, run.Errors["ZZZZZ"], "ZZZZZ")
	assert.NotContains(t, run.Results, "ZZZZZ")
	assert.NotEmpty(t, run.ID)
	assert.NotEmpty(t, run.ChartRows)
}

func TestRunPublishesLatestAtomically(t *testing.T) {
	quotes := &stubQuotes{
		series: map[string]models.DailySeries{
			"AAPL": flatSeries([]string{"2024-01-15"}, 100),
		},
	}
	svc := newTestService(quotes)

	assert.Nil(t, svc.Latest())

	first, err := svc.Run(context.Background(), models.AnalysisRequest{
		Symbols:          []string{"AAPL"},
		SimulationParams: models.SimulationParams{Amount: 100, Mode: models.ModeLumpSum, StartDate: "2024-01-01"},
	})
	require.NoError(t, err)
	assert.Same(t, first, svc.Latest())

	second, err := svc.Run(context.Background(), models.AnalysisRequest{
		Symbols:          []string{"AAPL"},
		SimulationParams: models.SimulationParams{Amount: 200, Mode: models.ModeLumpSum, StartDate: "2024-01-01"},
	})
	require.NoError(t, err)
	assert.Same(t, second, svc.Latest())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRunRequiresSymbolsAndStartDate(t *testing.T) {
	svc := newTestService(&stubQuotes{})

	_, err := svc.Run(context.Background(), models.AnalysisRequest{})
	assert.Error(t, err)

	_, err = svc.Run(context.Background(), models.AnalysisRequest{Symbols: []string{"AAPL"}})
	assert.Error(t, err)
}

func TestRunDeduplicatesSymbols(t *testing.T) {
	quotes := &stubQuotes{
		series: map[string]models.DailySeries{
			"AAPL": flatSeries([]string{"2024-01-15"}, 100),
		},
	}
	svc := newTestService(quotes)

	_, err := svc.Run(context.Background(), models.AnalysisRequest{
		Symbols:          []string{"aapl", "AAPL", " AAPL "},
		SimulationParams: models.SimulationParams{Amount: 100, Mode: models.ModeLumpSum, StartDate: "2024-01-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, quotes.seriesCalls)
}

func TestRunPreservesSymbolOrder(t *testing.T) {
	quotes := &stubQuotes{
		series: map[string]models.DailySeries{
			"MSFT": flatSeries([]string{"2024-01-15"}, 200),
			"AAPL": flatSeries([]string{"2024-01-15"}, 100),
		},
	}
	svc := newTestService(quotes)

	run, err := svc.Run(context.Background(), models.AnalysisRequest{
		Symbols:          []string{"msft", "aapl"},
		SimulationParams: models.SimulationParams{Amount: 100, Mode: models.ModeLumpSum, StartDate: "2024-01-01"},
	})
	require.NoError(t, err)

	// Request order carries through so chart colors stay stable per symbol.
	assert.Equal(t, []string{"MSFT", "AAPL"}, run.Symbols)
}

func TestTrades(t *testing.T) {
	quotes := &stubQuotes{
		series: map[string]models.DailySeries{
			"AAPL": {
				{Date: "2024-01-01", Price: 100},
				{Date: "2024-01-02", Price: 80},
				{Date: "2024-01-03", Price: 130},
			},
		},
	}
	svc := newTestService(quotes)

	result, err := svc.Trades(context.Background(), "AAPL", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.BestTrade.Profit)
}

func TestTradesTooFewPoints(t *testing.T) {
	quotes := &stubQuotes{
		series: map[string]models.DailySeries{
			"AAPL": flatSeries([]string{"2024-01-01"}, 100),
		},
	}
	svc := newTestService(quotes)

	_, err := svc.Trades(context.Background(), "AAPL", "2024-01-01", "2024-01-31")
	assert.Error(t, err)
}

func TestEnrichPrefersQuoteSummary(t *testing.T) {
	quotes := &stubQuotes{
		summaries: map[string]*models.AnalystSnapshot{
			"AAPL": {Name: "Apple Inc.", TargetMean: 210},
		},
	}
	svc := newTestService(quotes)

	snap := svc.Enrich(context.Background(), "AAPL")
	require.NotNil(t, snap)
	assert.Equal(t, "Apple Inc.", snap.Name)
	assert.Empty(t, quotes.seriesCalls, "rich tier success must not touch the daily series")
	assert.Empty(t, quotes.dividendCalls, "rich tier success must not touch dividend history")
}

func TestEnrichFallsBackToDerivedYield(t *testing.T) {
	quotes := &stubQuotes{
		summaryErr: errors.New("all relays exhausted"),
		series: map[string]models.DailySeries{
			"KO": {
				{Date: "2023-09-01", Price: 58, Dividend: 0.46},
				{Date: "2023-12-01", Price: 59, Dividend: 0.46},
				{Date: "2024-03-01", Price: 60, Dividend: 0.46},
				{Date: "2024-05-30", Price: 62, Dividend: 0.46},
			},
		},
	}
	svc := newTestService(quotes)

	snap := svc.Enrich(context.Background(), "KO")
	require.NotNil(t, snap)
	assert.Equal(t, 62.0, snap.CurrentPrice)
	assert.InDelta(t, (4*0.46)/62.0, snap.DividendYield, 1e-9)
	assert.Equal(t, []string{"KO"}, quotes.dividendCalls, "fallback reads dividend history, not the chart series")
}

func TestEnrichIndexSymbolYieldIsPriceOverHundred(t *testing.T) {
	quotes := &stubQuotes{
		summaryErr: errors.New("all relays exhausted"),
		series: map[string]models.DailySeries{
			"^TNX": {
				{Date: "2024-05-29", Price: 4.1},
				{Date: "2024-05-30", Price: 4.2},
			},
		},
	}
	svc := newTestService(quotes)

	snap := svc.Enrich(context.Background(), "^TNX")
	require.NotNil(t, snap)
	assert.InDelta(t, 0.042, snap.DividendYield, 1e-9)
}

func TestEnrichReturnsNilWhenBothTiersFail(t *testing.T) {
	quotes := &stubQuotes{
		summaryErr: errors.New("all relays exhausted"),
		seriesErr:  map[string]error{"AAPL": errors.New("all relays exhausted")},
	}
	svc := newTestService(quotes)

	assert.Nil(t, svc.Enrich(context.Background(), "AAPL"))
}

func TestScanFiltersAndRanks(t *testing.T) {
	quotes := &stubQuotes{
		sparks: []models.SparkResult{
			{Symbol: "UP", Name: "Up Corp", CurrentPrice: 150, History: models.DailySeries{
				{Date: "2024-05-01", Price: 100}, {Date: "2024-05-30", Price: 150},
			}},
			{Symbol: "BIG", Name: "Big Mover", CurrentPrice: 300, History: models.DailySeries{
				{Date: "2024-05-01", Price: 100}, {Date: "2024-05-30", Price: 300},
			}},
			{Symbol: "FLAT", Name: "Flat Co", CurrentPrice: 101, History: models.DailySeries{
				{Date: "2024-05-01", Price: 100}, {Date: "2024-05-30", Price: 101},
			}},
			{Symbol: "THIN", Name: "One Point", CurrentPrice: 10, History: models.DailySeries{
				{Date: "2024-05-30", Price: 10},
			}},
		},
	}
	svc := newTestService(quotes)

	rows, err := svc.Scan(context.Background(), models.ScanOptions{
		Days:      30,
		Threshold: 10,
		Limit:     10,
	})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "BIG", rows[0].Symbol, "ranked by growth descending")
	assert.InDelta(t, 200.0, rows[0].Growth, 1e-9)
	assert.Equal(t, "UP", rows[1].Symbol)
}

func TestScanMergesExtraSymbols(t *testing.T) {
	quotes := &stubQuotes{}
	svc := newTestService(quotes)

	_, err := svc.Scan(context.Background(), models.ScanOptions{
		Candidates: []string{"AAPL", "MSFT"},
		Extra:      []string{"nvda", "AAPL"},
	})
	require.NoError(t, err)

	require.Len(t, quotes.sparkCalls, 1)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, quotes.sparkCalls[0])
}

func TestScanLimit(t *testing.T) {
	quotes := &stubQuotes{
		sparks: []models.SparkResult{
			{Symbol: "A", CurrentPrice: 120, History: models.DailySeries{{Date: "2024-05-01", Price: 100}, {Date: "2024-05-30", Price: 120}}},
			{Symbol: "B", CurrentPrice: 130, History: models.DailySeries{{Date: "2024-05-01", Price: 100}, {Date: "2024-05-30", Price: 130}}},
			{Symbol: "C", CurrentPrice: 140, History: models.DailySeries{{Date: "2024-05-01", Price: 100}, {Date: "2024-05-30", Price: 140}}},
		},
	}
	svc := newTestService(quotes)

	rows, err := svc.Scan(context.Background(), models.ScanOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "C", rows[0].Symbol)
}
