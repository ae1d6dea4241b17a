// Package models defines domain types for drip
package models

// PricePoint is one trading day for one symbol. Price is the
// dividend/split-adjusted close when the upstream provides it, else the raw
// close. Dividend is the per-share cash amount going ex on that date, 0 for
// days with none. Dates are "2006-01-02" strings so lexical order is date
// order.
type PricePoint struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	Dividend float64 `json:"dividend"`
}

// DailySeries is an ascending-by-date sequence of PricePoints for one symbol.
type DailySeries []PricePoint

// LastPrice returns the closing price of the final point, or 0 when empty.
func (s DailySeries) LastPrice() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Price
}

// Validation is the outcome of checking a user-entered symbol.
type Validation struct {
	Valid  bool   `json:"valid"`
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SearchResult is one ranked hit from the symbol search endpoint.
type SearchResult struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	QuoteType string `json:"quoteType"`
}

// DisplayName returns the best available human-readable name.
func (r SearchResult) DisplayName() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	if r.LongName != "" {
		return r.LongName
	}
	return r.Symbol
}

// SparkResult is abbreviated recent history for one symbol from the batched
// spark endpoint.
type SparkResult struct {
	Symbol       string      `json:"symbol"`
	Name         string      `json:"name"`
	CurrentPrice float64     `json:"currentPrice"`
	History      DailySeries `json:"history"`
}

// ScreenerRow is one currently-active symbol from a predefined screener.
type ScreenerRow struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// AnalystSnapshot is best-effort per-symbol enrichment from the aggregated
// quote summary. It may be entirely absent when every upstream strategy
// fails; nothing in the valuation flow depends on it.
type AnalystSnapshot struct {
	Name         string  `json:"name,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	Exchange     string  `json:"exchange,omitempty"`
	QuoteType    string  `json:"quoteType,omitempty"`
	CurrentPrice float64 `json:"currentPrice,omitempty"`

	// Recommendation trend
	StrongBuy      int     `json:"strongBuy"`
	Buy            int     `json:"buy"`
	Hold           int     `json:"hold"`
	Sell           int     `json:"sell"`
	StrongSell     int     `json:"strongSell"`
	TargetMean     float64 `json:"targetMean,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`

	// Summary statistics
	MarketCap            float64 `json:"marketCap,omitempty"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyDayAverage      float64 `json:"fiftyDayAverage,omitempty"`
	TwoHundredDayAverage float64 `json:"twoHundredDayAverage,omitempty"`
	TrailingPE           float64 `json:"trailingPE,omitempty"`
	ForwardPE            float64 `json:"forwardPE,omitempty"`
	DividendYield        float64 `json:"dividendYield,omitempty"`
	Beta                 float64 `json:"beta,omitempty"`
	Volume               float64 `json:"volume,omitempty"`
	AverageVolume        float64 `json:"averageVolume,omitempty"`
	TotalAssets          float64 `json:"totalAssets,omitempty"`
	EarningsDate         string  `json:"earningsDate,omitempty"`

	// Valuation
	BookValue      float64 `json:"bookValue,omitempty"`
	PriceToBook    float64 `json:"priceToBook,omitempty"`
	ForwardEps     float64 `json:"forwardEps,omitempty"`
	PegRatio       float64 `json:"pegRatio,omitempty"`
	FMVEstimate    float64 `json:"fmvEstimate,omitempty"`
	FMVMethod      string  `json:"fmvMethod,omitempty"`
	ProfitMargins  float64 `json:"profitMargins,omitempty"`
	RevenueGrowth  float64 `json:"revenueGrowth,omitempty"`
	EarningsGrowth float64 `json:"earningsGrowth,omitempty"`
}
