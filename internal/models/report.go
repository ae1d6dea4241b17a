package models

// QuarterlyMetrics are the figures extracted from one quarterly earnings
// report. Field names match the JSON structure the extraction prompt asks
// the model to return.
type QuarterlyMetrics struct {
	QuarterlyRevenueBn        float64 `json:"quarterly_revenue_bn"`
	EPS                       float64 `json:"eps"`
	NetInterestIncomeMillions float64 `json:"net_interest_income_millions"`
	DividendPerShare          float64 `json:"dividend_per_share"`
	AssetsUnderSupervisionBn  float64 `json:"assets_under_supervision_bn"`
}

// ReportAnalysis is the outcome of analysing a set of quarterly reports:
// per-quarter metrics plus a generated executive summary.
type ReportAnalysis struct {
	Quarters map[string]QuarterlyMetrics `json:"quarters"`
	Summary  string                      `json:"summary"`
}
