// Package simulation implements the pure investment-return calculations:
// share accumulation, dividend reinvestment, chart row merging and the
// buy/sell pair scan. Nothing here performs I/O.
package simulation

import (
	"math"
	"strconv"

	"github.com/tomblance/drip/internal/models"
)

// Simulate walks one symbol's daily series and produces the accumulation
// ledger, the per-day valuation series and the headline totals. It is a pure
// function; identical inputs produce identical results.
//
// Lump-sum mode deploys the full amount on the first point at or after the
// start date. Monthly mode invests the amount once per calendar month, on
// the point whose day-of-month is closest to the configured invest day.
// A zero-price day is skipped as an investment event rather than dividing
// by zero.
func Simulate(series models.DailySeries, params models.SimulationParams) models.SimulationResult {
	if len(series) == 0 {
		return models.SimulationResult{}
	}

	buys := selectBuyDates(series, params)

	var (
		totalShares    float64
		totalInvested  float64
		totalDividends float64
		ledger         []models.LedgerEntry
		valueOverTime  = make([]models.ValuePoint, 0, len(series))
	)

	for _, point := range series {
		// Dividends settle against shares held before any same-day buy.
		if point.Dividend > 0 && totalShares > 0 {
			cash := point.Dividend * totalShares
			totalDividends += cash
			if params.ReinvestDividends && point.Price > 0 {
				totalShares += cash / point.Price
			}
		}

		if buyPrice, ok := buys[point.Date]; ok && buyPrice > 0 {
			shares := params.Amount / buyPrice
			totalShares += shares
			totalInvested += params.Amount
			ledger = append(ledger, models.LedgerEntry{
				Date:          point.Date,
				Price:         buyPrice,
				SharesBought:  shares,
				TotalShares:   totalShares,
				TotalInvested: totalInvested,
			})
		}

		valueOverTime = append(valueOverTime, models.ValuePoint{
			Date:     point.Date,
			Value:    totalShares * point.Price,
			Invested: totalInvested,
		})
	}

	result := models.SimulationResult{
		TotalInvested:  totalInvested,
		TotalShares:    totalShares,
		TotalDividends: totalDividends,
		FinalValue:     totalShares * series.LastPrice(),
		ValueOverTime:  valueOverTime,
		Ledger:         ledger,
	}
	if len(ledger) > 0 {
		result.FirstTradeDate = ledger[0].Date
		if totalInvested > 0 {
			result.ReturnPercent = (result.FinalValue - totalInvested) / totalInvested * 100
		}
	}
	return result
}

// selectBuyDates returns the investment dates and prices for the run, keyed
// by date.
func selectBuyDates(series models.DailySeries, params models.SimulationParams) map[string]float64 {
	buys := make(map[string]float64)

	if params.Mode == models.ModeLumpSum {
		// First point at or after the start date, else the first point.
		// Zero-price points cannot host the buy so the event slides to the
		// next priced day.
		start := -1
		for i, point := range series {
			if point.Date >= params.StartDate {
				start = i
				break
			}
		}
		if start < 0 {
			start = 0
		}
		for _, point := range series[start:] {
			if point.Price > 0 {
				buys[point.Date] = point.Price
				break
			}
		}
		return buys
	}

	// Monthly: one point per calendar month, the one whose day-of-month is
	// closest to the invest day. Ties keep the earlier point.
	type candidate struct {
		date     string
		price    float64
		distance int
	}
	byMonth := make(map[string]candidate)
	for _, point := range series {
		if len(point.Date) < 10 {
			continue
		}
		month := point.Date[:7]
		distance := dayDistance(point.Date, params.InvestDay)
		best, seen := byMonth[month]
		if !seen || distance < best.distance {
			byMonth[month] = candidate{date: point.Date, price: point.Price, distance: distance}
		}
	}
	for _, c := range byMonth {
		if c.price > 0 {
			buys[c.date] = c.price
		}
	}
	return buys
}

func dayDistance(date string, investDay int) int {
	day, err := strconv.Atoi(date[8:10])
	if err != nil {
		return math.MaxInt32
	}
	if day > investDay {
		return day - investDay
	}
	return investDay - day
}
