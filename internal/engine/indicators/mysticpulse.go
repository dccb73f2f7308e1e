package indicators

import (
	"math"

	"TradeCompass/internal/domain/models"
)

// MysticPulse is a stateful 0..100 momentum oscillator used for supplementary
// charting. It runs a small state machine: it seeds plain averages of gains
// and losses over the first period closes, then switches to Wilder smoothing
// for every subsequent update. It takes no part in the decision zone.
type MysticPulse struct {
	period    int
	prevClose float64
	avgGain   float64
	avgLoss   float64
	samples   int
	primed    bool
}

// NewMysticPulse creates an oscillator with the given smoothing period.
func NewMysticPulse(period int) *MysticPulse {
	if period < 2 {
		period = 2
	}
	return &MysticPulse{period: period}
}

// Update feeds the next close into the oscillator. ok is false until the
// state machine has seen period+1 closes.
func (m *MysticPulse) Update(close float64) (float64, bool) {
	if m.samples == 0 {
		m.prevClose = close
		m.samples++
		return 0, false
	}

	gain, loss := 0.0, 0.0
	if diff := close - m.prevClose; diff > 0 {
		gain = diff
	} else {
		loss = -diff
	}
	m.prevClose = close
	m.samples++

	if !m.primed {
		m.avgGain += gain
		m.avgLoss += loss
		if m.samples <= m.period {
			return 0, false
		}
		m.avgGain /= float64(m.period)
		m.avgLoss /= float64(m.period)
		m.primed = true
		return m.value(), true
	}

	f := float64(m.period)
	m.avgGain = (m.avgGain*(f-1) + gain) / f
	m.avgLoss = (m.avgLoss*(f-1) + loss) / f
	return m.value(), true
}

func (m *MysticPulse) value() float64 {
	if m.avgLoss == 0 {
		if m.avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := m.avgGain / m.avgLoss
	return 100 - 100/(1+rs)
}

// MysticPulseSeries replays the oscillator over a candle series and returns
// one point per resolvable candle.
func MysticPulseSeries(period int, candles []models.Candle) []models.PulsePoint {
	mp := NewMysticPulse(period)
	out := make([]models.PulsePoint, 0, len(candles))
	for _, c := range candles {
		v, ok := mp.Update(c.Close)
		if !ok {
			continue
		}
		out = append(out, models.PulsePoint{Date: c.Date, Value: round2(v)})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
