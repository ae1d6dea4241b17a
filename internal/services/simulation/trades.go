package simulation

import (
	"math"

	"github.com/tomblance/drip/internal/models"
)

// FindBestAndWorstTrades enumerates every (buy day, sell day) pair with the
// sell strictly after the buy and returns the most and least profitable
// pairings. Returns nil for fewer than two points.
//
// The scan is O(n^2) over the series. That is fine for multi-year daily
// data (a few thousand points); it is a known scaling limit for anything
// larger. A single-pass min-so-far transform would find the best trade but
// not the worst one under the sell-after-buy constraint, so the exhaustive
// scan stays.
func FindBestAndWorstTrades(series models.DailySeries) *models.TradeResult {
	if len(series) < 2 {
		return nil
	}

	best := models.Trade{Profit: math.Inf(-1)}
	worst := models.Trade{Profit: math.Inf(1)}

	for i := 0; i < len(series)-1; i++ {
		buy := series[i]
		for j := i + 1; j < len(series); j++ {
			sell := series[j]
			profit := sell.Price - buy.Price

			percent := 0.0
			if buy.Price != 0 {
				percent = profit / buy.Price * 100
			}

			if profit > best.Profit {
				best = models.Trade{
					BuyDate:   buy.Date,
					SellDate:  sell.Date,
					BuyPrice:  buy.Price,
					SellPrice: sell.Price,
					Profit:    profit,
					Percent:   percent,
				}
			}
			if profit < worst.Profit {
				worst = models.Trade{
					BuyDate:   buy.Date,
					SellDate:  sell.Date,
					BuyPrice:  buy.Price,
					SellPrice: sell.Price,
					Profit:    profit,
					Percent:   percent,
				}
			}
		}
	}

	return &models.TradeResult{BestTrade: best, WorstTrade: worst}
}
