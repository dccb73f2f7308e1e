package indicators

import (
	"TradeCompass/internal/domain/models"
)

// SMA computes the arithmetic mean of the last period values.
// ok is false when there are fewer values than the period.
func SMA(period int, values []float64) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), true
}

// TrueRange computes the true range of candle c given the previous close.
// hasPrev must be false for the first candle of a series, in which case the
// range falls back to high-low.
func TrueRange(c models.Candle, prevClose float64, hasPrev bool) float64 {
	tr := c.High - c.Low
	if !hasPrev {
		return tr
	}
	if d := abs(c.High - prevClose); d > tr {
		tr = d
	}
	if d := abs(c.Low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// ATR computes the Average True Range as the arithmetic mean of the last
// period true-range values. Requires period+1 candles so every sampled bar
// has a previous close.
func ATR(period int, candles []models.Candle) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}
	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += TrueRange(candles[i], candles[i-1].Close, true)
	}
	return sum / float64(period), true
}

// ATRPercent expresses ATR relative to the latest close, in percent.
func ATRPercent(period int, candles []models.Candle) (float64, bool) {
	atr, ok := ATR(period, candles)
	if !ok {
		return 0, false
	}
	last := candles[len(candles)-1].Close
	if last <= 0 {
		return 0, false
	}
	return atr / last * 100, true
}

// AvgVolume computes the mean volume of the period candles immediately
// preceding the latest one. The latest candle is excluded.
func AvgVolume(period int, candles []models.Candle) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}
	sum := 0.0
	for i := len(candles) - 1 - period; i < len(candles)-1; i++ {
		sum += candles[i].Volume
	}
	return sum / float64(period), true
}

// VolumeRatio compares the latest candle's volume to the preceding average.
func VolumeRatio(period int, candles []models.Candle) (float64, bool) {
	avg, ok := AvgVolume(period, candles)
	if !ok || avg <= 0 {
		return 0, false
	}
	return candles[len(candles)-1].Volume / avg, true
}

// Closes extracts the close series from candles.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
