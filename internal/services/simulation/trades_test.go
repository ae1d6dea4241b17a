package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomblance/drip/internal/models"
)

func TestFindBestAndWorstTrades(t *testing.T) {
	series := models.DailySeries{
		{Date: "2024-01-01", Price: 100},
		{Date: "2024-01-02", Price: 80},
		{Date: "2024-01-03", Price: 130},
		{Date: "2024-01-04", Price: 60},
	}

	result := FindBestAndWorstTrades(series)
	require.NotNil(t, result)

	// Best: buy at 80, sell at 130.
	assert.Equal(t, "2024-01-02", result.BestTrade.BuyDate)
	assert.Equal(t, "2024-01-03", result.BestTrade.SellDate)
	assert.Equal(t, 50.0, result.BestTrade.Profit)
	assert.InDelta(t, 62.5, result.BestTrade.Percent, 1e-9)

	// Worst: buy at 130, sell at 60.
	assert.Equal(t, "2024-01-03", result.WorstTrade.BuyDate)
	assert.Equal(t, "2024-01-04", result.WorstTrade.SellDate)
	assert.Equal(t, -70.0, result.WorstTrade.Profit)
}

func TestFindBestAndWorstTradesTooShort(t *testing.T) {
	assert.Nil(t, FindBestAndWorstTrades(nil))
	assert.Nil(t, FindBestAndWorstTrades(models.DailySeries{{Date: "2024-01-01", Price: 100}}))
}

func TestFindBestAndWorstTradesMonotonicSeries(t *testing.T) {
	series := models.DailySeries{
		{Date: "2024-01-01", Price: 10},
		{Date: "2024-01-02", Price: 20},
		{Date: "2024-01-03", Price: 30},
	}

	result := FindBestAndWorstTrades(series)
	require.NotNil(t, result)

	assert.Equal(t, 20.0, result.BestTrade.Profit)
	// Even in a rising market the worst trade is the least profitable pair,
	// which here is still a gain.
	assert.Equal(t, 10.0, result.WorstTrade.Profit)
	assert.GreaterOrEqual(t, result.BestTrade.Profit, result.WorstTrade.Profit)
}

func TestFindBestAndWorstTradesSellFollowsBuy(t *testing.T) {
	// The global minimum comes after the global maximum, so the naive
	// min/max pairing would be illegal. The scan must respect buy-then-sell.
	series := models.DailySeries{
		{Date: "2024-01-01", Price: 50},
		{Date: "2024-01-02", Price: 100},
		{Date: "2024-01-03", Price: 10},
	}

	result := FindBestAndWorstTrades(series)
	require.NotNil(t, result)

	assert.Equal(t, 50.0, result.BestTrade.Profit)
	assert.Greater(t, result.BestTrade.SellDate, result.BestTrade.BuyDate)
	assert.Equal(t, -90.0, result.WorstTrade.Profit)
	assert.Greater(t, result.WorstTrade.SellDate, result.WorstTrade.BuyDate)
}

func TestFindBestAndWorstTradesBounds(t *testing.T) {
	series := models.DailySeries{
		{Date: "2024-01-01", Price: 42.5},
		{Date: "2024-01-02", Price: 39.1},
		{Date: "2024-01-03", Price: 40.0},
		{Date: "2024-01-04", Price: 44.7},
		{Date: "2024-01-05", Price: 41.2},
	}

	result := FindBestAndWorstTrades(series)
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.BestTrade.Profit, result.WorstTrade.Profit)

	// Both trades must be attained by an actual pair in the input.
	inSeries := func(date string, price float64) bool {
		for _, p := range series {
			if p.Date == date && p.Price == price {
				return true
			}
		}
		return false
	}
	assert.True(t, inSeries(result.BestTrade.BuyDate, result.BestTrade.BuyPrice))
	assert.True(t, inSeries(result.BestTrade.SellDate, result.BestTrade.SellPrice))
	assert.True(t, inSeries(result.WorstTrade.BuyDate, result.WorstTrade.BuyPrice))
	assert.True(t, inSeries(result.WorstTrade.SellDate, result.WorstTrade.SellPrice))
}
