package indicators

import (
	"TradeCompass/internal/domain/models"
)

// TrendPulse is a momentum oscillator built on Wilder-smoothed directional
// movement: the spread between upward and downward pressure, normalized to
// 0..100 and smoothed again over the same period. High readings mean the
// series is moving decisively in one direction; low readings mean chop.
//
// Requires 2*period+1 candles: one period to seed the smoothed sums and one
// more to seed the pulse average.
func TrendPulse(period int, candles []models.Candle) (float64, bool) {
	if period <= 0 || len(candles) < 2*period+1 {
		return 0, false
	}

	var smTR, smUp, smDown float64

	// seed with plain sums over the first period of movements
	for i := 1; i <= period; i++ {
		up, down := directionalMove(candles[i], candles[i-1])
		smUp += up
		smDown += down
		smTR += TrueRange(candles[i], candles[i-1].Close, true)
	}

	pulse := 0.0
	seeded := 0
	for i := period + 1; i < len(candles); i++ {
		up, down := directionalMove(candles[i], candles[i-1])
		tr := TrueRange(candles[i], candles[i-1].Close, true)

		// Wilder smoothing: drop 1/period of the running sum each bar
		f := float64(period)
		smUp = smUp - smUp/f + up
		smDown = smDown - smDown/f + down
		smTR = smTR - smTR/f + tr

		spread := directionalSpread(smUp, smDown, smTR)
		if seeded < period {
			pulse += spread
			seeded++
			if seeded == period {
				pulse /= float64(period)
			}
			continue
		}
		pulse = (pulse*(f-1) + spread) / f
	}
	if seeded < period {
		return 0, false
	}
	return pulse, true
}

func directionalMove(c, prev models.Candle) (up, down float64) {
	upMove := c.High - prev.High
	downMove := prev.Low - c.Low
	if upMove > downMove && upMove > 0 {
		up = upMove
	}
	if downMove > upMove && downMove > 0 {
		down = downMove
	}
	return up, down
}

func directionalSpread(smUp, smDown, smTR float64) float64 {
	if smTR <= 0 {
		return 0
	}
	upRatio := 100 * smUp / smTR
	downRatio := 100 * smDown / smTR
	total := upRatio + downRatio
	if total <= 0 {
		return 0
	}
	return 100 * abs(upRatio-downRatio) / total
}
