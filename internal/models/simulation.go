package models

import "encoding/json"

// InvestmentMode selects how the amount is deployed across the series.
type InvestmentMode string

const (
	ModeLumpSum InvestmentMode = "lumpsum"
	ModeMonthly InvestmentMode = "monthly"
)

// SimulationParams are the user-supplied inputs to one simulation run.
type SimulationParams struct {
	Amount            float64        `json:"amount"`
	InvestDay         int            `json:"investDay"`
	Mode              InvestmentMode `json:"mode"`
	StartDate         string         `json:"startDate"`
	ReinvestDividends bool           `json:"reinvestDividends"`
}

// LedgerEntry records one investment event as the engine walks the series.
// The ledger is append-only and ordered by date.
type LedgerEntry struct {
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	SharesBought  float64 `json:"sharesBought"`
	TotalShares   float64 `json:"totalShares"`
	TotalInvested float64 `json:"totalInvested"`
}

// ValuePoint is the portfolio valuation on one trading day.
type ValuePoint struct {
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Invested float64 `json:"invested"`
}

// SimulationResult is the full outcome of one symbol's simulation.
// Recomputed on every run, never persisted.
type SimulationResult struct {
	TotalInvested  float64       `json:"totalInvested"`
	TotalShares    float64       `json:"totalShares"`
	TotalDividends float64       `json:"totalDividends"`
	FinalValue     float64       `json:"finalValue"`
	ReturnPercent  float64       `json:"returnPercent"`
	ValueOverTime  []ValuePoint  `json:"valueOverTime"`
	FirstTradeDate string        `json:"firstTradeDate,omitempty"`
	Ledger         []LedgerEntry `json:"ledger"`
}

// ChartRow is one date on the merged chart axis: the invested baseline plus
// each symbol's forward-filled value. Symbols with no value yet are absent.
type ChartRow struct {
	Date     string
	Invested float64
	Values   map[string]float64
}

// MarshalJSON flattens the row into {date, invested, SYM: value, ...} the way
// the charting layer consumes it.
func (r ChartRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Values)+2)
	flat["date"] = r.Date
	flat["invested"] = r.Invested
	for symbol, value := range r.Values {
		flat[symbol] = value
	}
	return json.Marshal(flat)
}

// Trade is one buy/sell pairing found by the trade analyzer.
type Trade struct {
	BuyDate   string  `json:"buyDate"`
	SellDate  string  `json:"sellDate"`
	BuyPrice  float64 `json:"buyPrice"`
	SellPrice float64 `json:"sellPrice"`
	Profit    float64 `json:"profit"`
	Percent   float64 `json:"percent"`
}

// TradeResult holds the optimal and pessimal buy/sell pairings for a series.
type TradeResult struct {
	BestTrade  Trade `json:"bestTrade"`
	WorstTrade Trade `json:"worstTrade"`
}

// ScanOptions configure a top-movers scan.
type ScanOptions struct {
	Days       int      `json:"days"`
	Threshold  float64  `json:"threshold"`
	Limit      int      `json:"limit"`
	Extra      []string `json:"extra,omitempty"`      // user symbols merged into the candidate set
	Candidates []string `json:"candidates,omitempty"` // overrides the default universe when set
}

// ScanRow is one mover surfaced by the market scanner.
type ScanRow struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	StartPrice   float64 `json:"startPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	StartDate    string  `json:"startDate"`
	Growth       float64 `json:"growth"`
}

// AnalysisRequest is one user-triggered multi-symbol analysis.
type AnalysisRequest struct {
	Symbols []string `json:"symbols"`
	SimulationParams
	EndDate string `json:"endDate"`
}

// AnalysisRun is the atomically-published result of one analysis request.
// Failed symbols are recorded in Errors and never block the others.
type AnalysisRun struct {
	ID string `json:"id"`
	// Symbols preserves the request order; chart colors are assigned by
	// position, so this order is stable across renders.
	Symbols   []string                     `json:"symbols"`
	Results   map[string]*SimulationResult `json:"results"`
	Errors    map[string]string            `json:"errors,omitempty"`
	ChartRows []ChartRow                   `json:"chartRows"`
}
