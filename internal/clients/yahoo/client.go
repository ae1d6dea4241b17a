// Package yahoo provides a client for the public finance quote API, reached
// exclusively through the relay chain.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
	"github.com/tomblance/drip/internal/models"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultChunkSize = 10

	summaryModules = "recommendationTrend,financialData,summaryDetail,price,calendarEvents,defaultKeyStatistics,fundProfile"
)

// SymbolError is a permanent per-symbol failure ("symbol not found", empty
// series). It carries the symbol so batch callers can record it against the
// right row.
type SymbolError struct {
	Symbol string
	Reason string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
}

// Client implements the QuoteClient interface on top of a RelayFetcher.
type Client struct {
	fetcher interfaces.RelayFetcher
	cache   interfaces.Cache // optional
	baseURL string
	// summaryBaseURL serves quoteSummary; the upstream hosts it on the
	// same origin by default but it is swappable independently.
	summaryBaseURL string
	chunkSize      int
	// chunkLimiter paces consecutive spark chunks so one scan doesn't trip
	// the upstream rate limit.
	chunkLimiter *rate.Limiter
	logger       *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the upstream base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSummaryBaseURL sets the base URL for the quote summary endpoint
func WithSummaryBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.summaryBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithCache sets the response cache
func WithCache(cache interfaces.Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithChunkSize sets the spark batch chunk size
func WithChunkSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkPause sets the pause between spark chunks
func WithChunkPause(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.chunkLimiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new quote client
func NewClient(fetcher interfaces.RelayFetcher, opts ...ClientOption) *Client {
	c := &Client{
		fetcher:        fetcher,
		baseURL:        DefaultBaseURL,
		summaryBaseURL: DefaultBaseURL,
		chunkSize:      DefaultChunkSize,
		chunkLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		logger:         common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search returns ranked symbol matches for free-text input.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	target := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0",
		c.baseURL, url.QueryEscape(query))

	body, err := c.fetcher.FetchJSON(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		results = append(results, models.SearchResult{
			Symbol:    q.Symbol,
			ShortName: q.ShortName,
			LongName:  q.LongName,
			QuoteType: q.QuoteType,
		})
	}
	return results, nil
}

// Resolve turns free-text input into a canonical symbol. ISIN-like inputs go
// through symbol search first; everything else is uppercased as-is.
func (c *Client) Resolve(ctx context.Context, input string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input))
	if !LooksLikeISIN(symbol) {
		return symbol, nil
	}

	results, err := c.Search(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("could not resolve identifier %s: %w", symbol, err)
	}
	if len(results) == 0 {
		return "", &SymbolError{Symbol: symbol, Reason: "no symbol matches identifier"}
	}

	c.logger.Debug().Str("input", symbol).Str("symbol", results[0].Symbol).Msg("Resolved identifier via search")
	return results[0].Symbol, nil
}

// Validate checks symbol format and existence. Network failure never blocks
// the user: the symbol is accepted with an "(unverified)" marker and only an
// explicit not-found response from upstream marks it invalid.
func (c *Client) Validate(ctx context.Context, symbol string) models.Validation {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if !ValidFormat(symbol) {
		return models.Validation{
			Valid:  false,
			Symbol: symbol,
			Error:  "Invalid format. Use ticker symbols like AAPL, MSFT, NVDA",
		}
	}

	if LooksLikeISIN(symbol) {
		resolved, err := c.Resolve(ctx, symbol)
		if err != nil {
			if _, notFound := errAsSymbolError(err); notFound {
				return models.Validation{Valid: false, Symbol: symbol, Error: "Symbol not found"}
			}
			return models.Validation{
				Valid:  true,
				Symbol: symbol,
				Name:   symbol + " (unverified - will validate on calculate)",
			}
		}
		symbol = resolved
	}

	target := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d",
		c.baseURL, url.PathEscape(symbol))

	// Existence is best-effort: a dead relay chain must not block the user.
	body := c.fetcher.TryFetchJSON(ctx, target)
	if body == nil {
		return models.Validation{
			Valid:  true,
			Symbol: symbol,
			Name:   symbol + " (unverified - will validate on calculate)",
		}
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if len(resp.Chart.Result) > 0 {
			meta := resp.Chart.Result[0].Meta
			name := meta.ShortName
			if name == "" {
				name = meta.LongName
			}
			if name == "" {
				name = symbol
			}
			return models.Validation{Valid: true, Symbol: symbol, Name: name}
		}
		if resp.Chart.Error != nil {
			desc := resp.Chart.Error.Description
			if desc == "" {
				desc = "Symbol not found"
			}
			return models.Validation{Valid: false, Symbol: symbol, Error: desc}
		}
	}

	return models.Validation{
		Valid:  true,
		Symbol: symbol,
		Name:   symbol + " (unverified - will validate on calculate)",
	}
}

// GetDailySeries retrieves daily prices with dividend events across the
// inclusive date range.
func (c *Client) GetDailySeries(ctx context.Context, symbol, startDate, endDate string) (models.DailySeries, error) {
	return c.getSeries(ctx, symbol, startDate, endDate, "chart", common.FreshnessSeries)
}

// GetDividendHistory retrieves the same daily series for dividend-yield
// derivation. Dividend events move over quarters, not hours, so these
// requests cache on the slower dividend TTL.
func (c *Client) GetDividendHistory(ctx context.Context, symbol, startDate, endDate string) (models.DailySeries, error) {
	return c.getSeries(ctx, symbol, startDate, endDate, "dividends", common.FreshnessDividends)
}

func (c *Client) getSeries(ctx context.Context, symbol, startDate, endDate, endpoint string, ttl time.Duration) (models.DailySeries, error) {
	period1, err := epochForDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	period2, err := epochForDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	period2 += 86400 // the upstream treats period2 as exclusive

	key := interfaces.CacheKey{Endpoint: endpoint, Symbol: symbol, Params: startDate + ":" + endDate}
	target := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div",
		c.baseURL, url.PathEscape(symbol), period1, period2)

	body, err := c.fetchCached(ctx, key, target, ttl, chartBodyOK)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s: %w", symbol, err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse chart response for %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		reason := resp.Chart.Error.Description
		if reason == "" {
			reason = "no data found"
		}
		return nil, &SymbolError{Symbol: symbol, Reason: reason}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &SymbolError{Symbol: symbol, Reason: "no data returned"}
	}

	series := seriesFromChart(resp.Chart.Result[0])
	if len(series) == 0 {
		return nil, &SymbolError{Symbol: symbol, Reason: "empty price series"}
	}
	return series, nil
}

// GetSparkBatch retrieves abbreviated history for many symbols, in chunks
// with a pause between chunks.
func (c *Client) GetSparkBatch(ctx context.Context, symbols []string, rangeHint string) ([]models.SparkResult, error) {
	if rangeHint == "" {
		rangeHint = "1mo"
	}

	var out []models.SparkResult
	for start := 0; start < len(symbols); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(symbols) {
			end = len(symbols)
		}
		chunk := symbols[start:end]

		if err := c.chunkLimiter.Wait(ctx); err != nil {
			return out, err
		}

		results, err := c.fetchSparkChunk(ctx, chunk, rangeHint)
		if err != nil {
			// One failed chunk degrades the scan; it must not abort the rest.
			c.logger.Warn().Err(err).Strs("symbols", chunk).Msg("Spark chunk failed")
			continue
		}
		out = append(out, results...)
	}
	return out, nil
}

func (c *Client) fetchSparkChunk(ctx context.Context, symbols []string, rangeHint string) ([]models.SparkResult, error) {
	joined := strings.Join(symbols, ",")
	key := interfaces.CacheKey{Endpoint: "spark", Symbol: joined, Params: rangeHint}
	target := fmt.Sprintf("%s/v8/finance/spark?symbols=%s&range=%s&interval=1d",
		c.baseURL, url.QueryEscape(joined), url.QueryEscape(rangeHint))

	body, err := c.fetchCached(ctx, key, target, common.FreshnessQuote, nil)
	if err != nil {
		return nil, err
	}

	var resp sparkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse spark response: %w", err)
	}
	if resp.Spark.Error != nil {
		return nil, fmt.Errorf("spark error: %s", resp.Spark.Error.Description)
	}

	results := make([]models.SparkResult, 0, len(resp.Spark.Result))
	for _, item := range resp.Spark.Result {
		if len(item.Response) == 0 {
			continue
		}
		chart := item.Response[0]
		history := seriesFromChart(chart)
		name := chart.Meta.ShortName
		if name == "" {
			name = chart.Meta.LongName
		}
		if name == "" {
			name = item.Symbol
		}
		results = append(results, models.SparkResult{
			Symbol:       item.Symbol,
			Name:         name,
			CurrentPrice: chart.Meta.RegularMarketPrice,
			History:      history,
		})
	}
	return results, nil
}

// GetQuoteSummary retrieves the aggregated analyst modules for one symbol.
func (c *Client) GetQuoteSummary(ctx context.Context, symbol string) (*models.AnalystSnapshot, error) {
	key := interfaces.CacheKey{Endpoint: "quoteSummary", Symbol: symbol, Params: "modules"}
	target := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.summaryBaseURL, url.PathEscape(symbol), summaryModules)

	body, err := c.fetchCached(ctx, key, target, common.FreshnessEnrichment, summaryBodyOK)
	if err != nil {
		return nil, fmt.Errorf("quote summary for %s failed: %w", symbol, err)
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse quote summary for %s: %w", symbol, err)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		if resp.QuoteSummary.Error != nil {
			return nil, &SymbolError{Symbol: symbol, Reason: resp.QuoteSummary.Error.Description}
		}
		return nil, &SymbolError{Symbol: symbol, Reason: "no quote summary returned"}
	}

	return snapshotFromSummary(resp.QuoteSummary.Result[0]), nil
}

// GetScreener retrieves currently-active symbols from a predefined screener.
func (c *Client) GetScreener(ctx context.Context, screenerID string, count int) ([]models.ScreenerRow, error) {
	if count <= 0 {
		count = 25
	}
	key := interfaces.CacheKey{Endpoint: "screener", Symbol: screenerID, Params: strconv.Itoa(count)}
	target := fmt.Sprintf("%s/v1/finance/screener/predefined/saved?scrIds=%s&count=%d",
		c.baseURL, url.QueryEscape(screenerID), count)

	body, err := c.fetchCached(ctx, key, target, common.FreshnessScreener, nil)
	if err != nil {
		return nil, fmt.Errorf("screener %s failed: %w", screenerID, err)
	}

	var resp screenerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse screener response: %w", err)
	}
	if resp.Finance.Error != nil {
		return nil, fmt.Errorf("screener error: %s", resp.Finance.Error.Description)
	}

	var rows []models.ScreenerRow
	for _, result := range resp.Finance.Result {
		for _, q := range result.Quotes {
			rows = append(rows, models.ScreenerRow{
				Symbol: q.Symbol,
				Name:   q.ShortName,
				Price:  q.RegularMarketPrice,
			})
		}
	}
	return rows, nil
}

// fetchCached serves the request from cache when fresh, otherwise through
// the relay chain. The body is stored only when cacheable accepts it (nil
// means always): upstream error envelopes like "symbol not found" must not
// be served as hits for the full TTL.
func (c *Client) fetchCached(ctx context.Context, key interfaces.CacheKey, target string, ttl time.Duration, cacheable func(json.RawMessage) bool) (json.RawMessage, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			c.logger.Debug().Str("key", key.String()).Msg("Cache hit")
			return cached, nil
		}
	}

	body, err := c.fetcher.FetchJSON(ctx, target)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && (cacheable == nil || cacheable(body)) {
		if err := c.cache.Set(ctx, key, body, ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache write failed (ignored)")
		}
	}
	return body, nil
}

// chartBodyOK reports whether a chart payload carries a real series rather
// than an error envelope.
func chartBodyOK(body json.RawMessage) bool {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.Chart.Error == nil && len(resp.Chart.Result) > 0
}

// summaryBodyOK is the quoteSummary counterpart of chartBodyOK.
func summaryBodyOK(body json.RawMessage) bool {
	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.QuoteSummary.Error == nil && len(resp.QuoteSummary.Result) > 0
}

// seriesFromChart flattens one chart result into a daily series: adjusted
// close when present, raw close otherwise, dividends keyed by ex-date, null
// prices dropped.
func seriesFromChart(result chartResult) models.DailySeries {
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil
	}

	closes := result.Indicators.Quote[0].Close
	var adjCloses []*float64
	if len(result.Indicators.Adjclose) > 0 && len(result.Indicators.Adjclose[0].Adjclose) == len(result.Timestamp) {
		adjCloses = result.Indicators.Adjclose[0].Adjclose
	}

	dividends := make(map[string]float64)
	if result.Events != nil {
		for _, div := range result.Events.Dividends {
			dividends[dateForEpoch(div.Date)] = div.Amount
		}
	}

	series := make(models.DailySeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		var price *float64
		if adjCloses != nil && adjCloses[i] != nil {
			price = adjCloses[i]
		} else if i < len(closes) {
			price = closes[i]
		}
		if price == nil || math.IsNaN(*price) {
			continue
		}
		date := dateForEpoch(ts)
		series = append(series, models.PricePoint{
			Date:     date,
			Price:    *price,
			Dividend: dividends[date],
		})
	}
	return series
}

// snapshotFromSummary flattens the nested module payload into an
// AnalystSnapshot, including the fair-market-value estimate tiers.
func snapshotFromSummary(r quoteSummaryResult) *models.AnalystSnapshot {
	snap := &models.AnalystSnapshot{}

	if r.RecommendationTrend != nil && len(r.RecommendationTrend.Trend) > 0 {
		trend := r.RecommendationTrend.Trend[0]
		snap.StrongBuy = trend.StrongBuy
		snap.Buy = trend.Buy
		snap.Hold = trend.Hold
		snap.Sell = trend.Sell
		snap.StrongSell = trend.StrongSell
	}

	if r.FinancialData != nil {
		snap.CurrentPrice = raw(r.FinancialData.CurrentPrice)
		snap.TargetMean = raw(r.FinancialData.TargetMeanPrice)
		snap.Recommendation = r.FinancialData.RecommendationKey
		snap.RevenueGrowth = raw(r.FinancialData.RevenueGrowth)
		snap.EarningsGrowth = raw(r.FinancialData.EarningsGrowth)
	}

	if r.Price != nil {
		snap.Name = r.Price.ShortName
		if snap.Name == "" {
			snap.Name = r.Price.LongName
		}
		snap.Currency = r.Price.Currency
		snap.Exchange = r.Price.ExchangeName
		snap.QuoteType = r.Price.QuoteType
		snap.MarketCap = raw(r.Price.MarketCap)
		if snap.CurrentPrice == 0 {
			snap.CurrentPrice = raw(r.Price.RegularMarketPrice)
		}
		snap.Volume = raw(r.Price.RegularMarketVolume)
		snap.AverageVolume = raw(r.Price.AverageDailyVolume10Day)
	}

	if r.SummaryDetail != nil {
		s := r.SummaryDetail
		snap.FiftyTwoWeekHigh = raw(s.FiftyTwoWeekHigh)
		snap.FiftyTwoWeekLow = raw(s.FiftyTwoWeekLow)
		snap.FiftyDayAverage = raw(s.FiftyDayAverage)
		snap.TwoHundredDayAverage = raw(s.TwoHundredDayAverage)
		snap.TrailingPE = raw(s.TrailingPE)
		snap.ForwardPE = raw(s.ForwardPE)
		snap.DividendYield = raw(s.DividendYield)
		snap.Beta = raw(s.Beta)
		if v := raw(s.Volume); v != 0 {
			snap.Volume = v
		}
		if v := raw(s.AverageVolume); v != 0 {
			snap.AverageVolume = v
		}
		snap.TotalAssets = raw(s.TotalAssets)
	}

	if r.DefaultKeyStatistics != nil {
		k := r.DefaultKeyStatistics
		snap.BookValue = raw(k.BookValue)
		snap.PriceToBook = raw(k.PriceToBook)
		if snap.ForwardPE == 0 {
			snap.ForwardPE = raw(k.ForwardPE)
		}
		snap.ForwardEps = raw(k.ForwardEps)
		snap.PegRatio = raw(k.PegRatio)
		snap.ProfitMargins = raw(k.ProfitMargins)
		if snap.TotalAssets == 0 {
			snap.TotalAssets = raw(k.TotalAssets)
		}
	}

	if r.FundProfile != nil && snap.TotalAssets == 0 {
		snap.TotalAssets = raw(r.FundProfile.TotalAssets)
	}

	if r.CalendarEvents != nil && r.CalendarEvents.Earnings != nil && len(r.CalendarEvents.Earnings.EarningsDate) > 0 {
		if epoch := r.CalendarEvents.Earnings.EarningsDate[0].Raw; epoch > 0 {
			snap.EarningsDate = dateForEpoch(int64(epoch))
		}
	}

	// Fair-market-value estimate: analyst target first, then forward
	// earnings, then book value with a capped multiple.
	switch {
	case snap.TargetMean > 0:
		snap.FMVEstimate = snap.TargetMean
		snap.FMVMethod = "Analyst Target"
	case snap.ForwardPE > 0 && snap.ForwardPE < 100 && snap.ForwardEps != 0:
		snap.FMVEstimate = snap.ForwardPE * snap.ForwardEps
		snap.FMVMethod = "Forward PE"
	case snap.BookValue > 0:
		multiple := snap.PriceToBook
		if multiple <= 0 {
			multiple = 2
		}
		if multiple > 5 {
			multiple = 5
		}
		snap.FMVEstimate = snap.BookValue * multiple
		snap.FMVMethod = "Book Value"
	}

	return snap
}

func epochForDate(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return t.UTC().Unix(), nil
}

func dateForEpoch(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}

func errAsSymbolError(err error) (*SymbolError, bool) {
	var symErr *SymbolError
	if errors.As(err, &symErr) {
		return symErr, true
	}
	return nil, false
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
