package engine

import (
	"TradeCompass/internal/domain/models"
	"TradeCompass/internal/engine/indicators"
)

// Classification thresholds. Fixed by contract with the chart frontend;
// changing them changes every stored recommendation downstream.
const (
	smaFastPeriod     = 20
	smaSlowPeriod     = 50
	volumeRatioPeriod = 20
	atrPeriod         = 14

	volumeLowRatio  = 0.8
	volumeHighRatio = 1.2

	volatilityLowPct  = 1.5
	volatilityHighPct = 3.0
)

// CalculateTrend classifies direction from SMA20/SMA50 against the last
// close. Lateral whenever either average cannot be computed.
func CalculateTrend(candles []models.Candle) models.Trend {
	closes := indicators.Closes(candles)
	smaFast, okFast := indicators.SMA(smaFastPeriod, closes)
	smaSlow, okSlow := indicators.SMA(smaSlowPeriod, closes)
	if !okFast || !okSlow {
		return models.TrendLateral
	}
	last := closes[len(closes)-1]
	switch {
	case last > smaSlow && smaFast > smaSlow:
		return models.TrendAlta
	case last < smaSlow && smaFast < smaSlow:
		return models.TrendBaixa
	default:
		return models.TrendLateral
	}
}

// CalculateVolumeLevel classifies the latest volume against the 20-period
// average. Normal whenever there is not enough history.
func CalculateVolumeLevel(candles []models.Candle) models.VolumeLevel {
	ratio, ok := indicators.VolumeRatio(volumeRatioPeriod, candles)
	if !ok {
		return models.VolumeNormal
	}
	switch {
	case ratio < volumeLowRatio:
		return models.VolumeAbaixo
	case ratio > volumeHighRatio:
		return models.VolumeAcima
	default:
		return models.VolumeNormal
	}
}

// CalculateVolatilityLevel classifies ATR% buckets. Media whenever there is
// not enough history.
func CalculateVolatilityLevel(candles []models.Candle) models.VolatilityLevel {
	pct, ok := indicators.ATRPercent(atrPeriod, candles)
	if !ok {
		return models.VolatilityMedia
	}
	switch {
	case pct < volatilityLowPct:
		return models.VolatilityBaixa
	case pct > volatilityHighPct:
		return models.VolatilityAlta
	default:
		return models.VolatilityMedia
	}
}

// CalculateContext derives the full market context. The three signals are
// independent; each falls back to its neutral value on short series.
func CalculateContext(candles []models.Candle) models.Context {
	return models.Context{
		Trend:      CalculateTrend(candles),
		Volume:     CalculateVolumeLevel(candles),
		Volatility: CalculateVolatilityLevel(candles),
	}
}
