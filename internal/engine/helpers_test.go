package engine

import (
	"strconv"

	"TradeCompass/internal/domain/models"
)

// flatCandles builds n identical bars around price with the given volume.
func flatCandles(n int, price, vol float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Date:   "d" + strconv.Itoa(i),
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: vol,
		}
	}
	return out
}

// trendCandles builds n bars whose closes move by step each bar.
func trendCandles(n int, start, step, vol float64) []models.Candle {
	out := make([]models.Candle, n)
	price := start
	for i := range out {
		out[i] = models.Candle{
			Date:   "d" + strconv.Itoa(i),
			Open:   price,
			High:   price + 0.05,
			Low:    price - 0.05,
			Close:  price,
			Volume: vol,
		}
		price += step
	}
	return out
}

// spikeSeries builds a flat base, a breakout bar at index spikeAt with heavy
// volume, then bars whose closes move by afterStep per bar.
func spikeSeries(n, spikeAt int, afterStep float64) []models.Candle {
	out := flatCandles(n, 100, 100)
	out[spikeAt] = models.Candle{
		Date:   out[spikeAt].Date,
		Open:   100,
		High:   120.5,
		Low:    119.5,
		Close:  120,
		Volume: 1000,
	}
	price := 120.0
	for i := spikeAt + 1; i < n; i++ {
		price += afterStep
		out[i] = models.Candle{
			Date:   out[i].Date,
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 100,
		}
	}
	return out
}
