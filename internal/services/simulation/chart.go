package simulation

import (
	"math"
	"sort"
	"time"

	"github.com/tomblance/drip/internal/models"
)

// BuildChartRows merges per-symbol valuation series onto one shared date
// axis. Gaps after a symbol's first observed value are forward-filled from
// the most recent known value; dates before it leave the cell absent so the
// chart does not draw a line before the symbol entered the simulation. The
// invested baseline is computed from the earliest first trade across all
// symbols and is independent of any single symbol.
func BuildChartRows(results map[string]*models.SimulationResult, symbols []string, mode models.InvestmentMode, amount float64) []models.ChartRow {
	dateSet := make(map[string]struct{})
	valuesBySymbol := make(map[string]map[string]float64, len(results))
	for symbol, result := range results {
		if result == nil {
			continue
		}
		byDate := make(map[string]float64, len(result.ValueOverTime))
		for _, v := range result.ValueOverTime {
			dateSet[v.Date] = struct{}{}
			byDate[v.Date] = math.Round(v.Value*100) / 100
		}
		valuesBySymbol[symbol] = byDate
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	firstTrade := earliestFirstTrade(results)

	rows := make([]models.ChartRow, 0, len(dates))
	lastKnown := make(map[string]float64, len(symbols))
	known := make(map[string]bool, len(symbols))
	for _, date := range dates {
		row := models.ChartRow{
			Date:   date,
			Values: make(map[string]float64, len(symbols)),
		}
		for _, symbol := range symbols {
			if value, ok := valuesBySymbol[symbol][date]; ok {
				row.Values[symbol] = value
				lastKnown[symbol] = value
				known[symbol] = true
			} else if known[symbol] {
				row.Values[symbol] = lastKnown[symbol]
			}
		}
		if firstTrade != "" {
			row.Invested = investedBaseline(date, firstTrade, mode, amount)
		}
		rows = append(rows, row)
	}
	return rows
}

func earliestFirstTrade(results map[string]*models.SimulationResult) string {
	earliest := ""
	for _, result := range results {
		if result == nil || result.FirstTradeDate == "" {
			continue
		}
		if earliest == "" || result.FirstTradeDate < earliest {
			earliest = result.FirstTradeDate
		}
	}
	return earliest
}

func investedBaseline(date, firstTrade string, mode models.InvestmentMode, amount float64) float64 {
	if mode == models.ModeLumpSum {
		if date >= firstTrade {
			return amount
		}
		return 0
	}
	months := wholeMonthsBetween(firstTrade, date) + 1
	if months < 0 {
		months = 0
	}
	return float64(months) * amount
}

// wholeMonthsBetween counts calendar-month boundaries crossed between two
// dates, ignoring the day of month.
func wholeMonthsBetween(from, to string) int {
	start, err1 := time.Parse("2006-01-02", from)
	end, err2 := time.Parse("2006-01-02", to)
	if err1 != nil || err2 != nil {
		return 0
	}
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}
