package yahoo

// Typed response schemas for each upstream endpoint. Raw JSON is parsed into
// these once, at this boundary; nothing downstream sees untyped payloads.

// upstreamError is the error envelope shared by the chart and quoteSummary
// endpoints.
type upstreamError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- chart / history ---

type chartResponse struct {
	Chart struct {
		Result []chartResult  `json:"result"`
		Error  *upstreamError `json:"error"`
	} `json:"chart"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	QuoteType          string  `json:"quoteType"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		Adjclose []struct {
			Adjclose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
	Events *chartEvents `json:"events"`
}

type chartEvents struct {
	// Dividends is keyed by ex-date epoch seconds as a string.
	Dividends map[string]dividendEvent `json:"dividends"`
}

type dividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// --- symbol search ---

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// --- batched spark ---

type sparkResponse struct {
	Spark struct {
		Result []struct {
			Symbol   string        `json:"symbol"`
			Response []chartResult `json:"response"`
		} `json:"result"`
		Error *upstreamError `json:"error"`
	} `json:"spark"`
}

// --- aggregated quote summary ---

// rawValue is the upstream's {raw, fmt} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *upstreamError       `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	RecommendationTrend *struct {
		Trend []struct {
			StrongBuy  int `json:"strongBuy"`
			Buy        int `json:"buy"`
			Hold       int `json:"hold"`
			Sell       int `json:"sell"`
			StrongSell int `json:"strongSell"`
		} `json:"trend"`
	} `json:"recommendationTrend"`

	FinancialData *struct {
		CurrentPrice      *rawValue `json:"currentPrice"`
		TargetMeanPrice   *rawValue `json:"targetMeanPrice"`
		RecommendationKey string    `json:"recommendationKey"`
		RevenueGrowth     *rawValue `json:"revenueGrowth"`
		EarningsGrowth    *rawValue `json:"earningsGrowth"`
	} `json:"financialData"`

	SummaryDetail *struct {
		FiftyTwoWeekHigh     *rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow      *rawValue `json:"fiftyTwoWeekLow"`
		FiftyDayAverage      *rawValue `json:"fiftyDayAverage"`
		TwoHundredDayAverage *rawValue `json:"twoHundredDayAverage"`
		TrailingPE           *rawValue `json:"trailingPE"`
		ForwardPE            *rawValue `json:"forwardPE"`
		DividendYield        *rawValue `json:"dividendYield"`
		Beta                 *rawValue `json:"beta"`
		Volume               *rawValue `json:"volume"`
		AverageVolume        *rawValue `json:"averageVolume"`
		TotalAssets          *rawValue `json:"totalAssets"`
	} `json:"summaryDetail"`

	Price *struct {
		ShortName               string    `json:"shortName"`
		LongName                string    `json:"longName"`
		Currency                string    `json:"currency"`
		ExchangeName            string    `json:"exchangeName"`
		QuoteType               string    `json:"quoteType"`
		RegularMarketPrice      *rawValue `json:"regularMarketPrice"`
		RegularMarketVolume     *rawValue `json:"regularMarketVolume"`
		AverageDailyVolume10Day *rawValue `json:"averageDailyVolume10Day"`
		MarketCap               *rawValue `json:"marketCap"`
	} `json:"price"`

	CalendarEvents *struct {
		Earnings *struct {
			EarningsDate []rawValue `json:"earningsDate"`
		} `json:"earnings"`
	} `json:"calendarEvents"`

	DefaultKeyStatistics *struct {
		BookValue       *rawValue `json:"bookValue"`
		PriceToBook     *rawValue `json:"priceToBook"`
		ForwardPE       *rawValue `json:"forwardPE"`
		ForwardEps      *rawValue `json:"forwardEps"`
		PegRatio        *rawValue `json:"pegRatio"`
		EnterpriseValue *rawValue `json:"enterpriseValue"`
		ProfitMargins   *rawValue `json:"profitMargins"`
		TotalAssets     *rawValue `json:"totalAssets"`
	} `json:"defaultKeyStatistics"`

	FundProfile *struct {
		TotalAssets *rawValue `json:"totalAssets"`
	} `json:"fundProfile"`
}

// --- predefined screener ---

type screenerResponse struct {
	Finance struct {
		Result []struct {
			Quotes []struct {
				Symbol             string  `json:"symbol"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"quotes"`
		} `json:"result"`
		Error *upstreamError `json:"error"`
	} `json:"finance"`
}

func raw(v *rawValue) float64 {
	if v == nil {
		return 0
	}
	return v.Raw
}
