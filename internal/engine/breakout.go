package engine

import (
	"fmt"
	"math"

	"TradeCompass/internal/domain/models"
	"TradeCompass/internal/engine/indicators"
)

// Detector thresholds shared by breakout and breakdown.
const (
	lookbackWindow      = 20
	activationVolumeMin = 1.5
	breakoutFormingPct  = 0.98
	breakdownFormingPct = 1.02
	stopATRFraction     = 0.5
)

// DetectBreakout evaluates a resistance breakout (long bias) at the latest
// candle. Returns nil only when there is not enough history to evaluate;
// once evaluable it always returns a result, possibly INVALIDO.
func DetectBreakout(ticker string, candles []models.Candle, volatility models.VolatilityLevel, successRate int) *models.SetupResult {
	if len(candles) < lookbackWindow+1 {
		return nil
	}

	last := candles[len(candles)-1]
	resistance := highestHigh(candles[len(candles)-1-lookbackWindow : len(candles)-1])
	volRatio, _ := indicators.VolumeRatio(lookbackWindow, candles)
	atr, _ := indicators.ATR(atrPeriod, candles)
	stop := resistance - stopATRFraction*atr

	status := models.StatusInvalido
	switch {
	case last.Close > resistance && volRatio > activationVolumeMin:
		status = models.StatusAtivo
	case last.Close >= resistance*breakoutFormingPct:
		status = models.StatusEmFormacao
	}

	risk := models.RiskModerado
	switch volatility {
	case models.VolatilityAlta:
		risk = models.RiskAlto
	case models.VolatilityBaixa:
		risk = models.RiskBaixo
	}

	signals := []string{
		fmt.Sprintf("Resistência dos últimos %d períodos em %.2f", lookbackWindow, resistance),
		fmt.Sprintf("Fechamento atual em %.2f", last.Close),
		fmt.Sprintf("Volume %.2fx a média do período", volRatio),
	}
	if status == models.StatusAtivo {
		signals = append(signals, "Rompimento confirmado com volume")
	}

	return &models.SetupResult{
		ID:          ticker + "-compra-rompimento",
		Title:       "Rompimento de Resistência",
		Status:      status,
		SuccessRate: successRate,
		Risk:        risk,
		StopSuggestion: fmt.Sprintf("Stop sugerido abaixo de %.2f (resistência - %.1f ATR)",
			stop, stopATRFraction),
		TargetNote: "Alvo proporcional ao risco assumido; projete a amplitude do rompimento",
		Explanation: fmt.Sprintf(
			"O preço fechou em %.2f contra uma resistência de %.2f formada nos últimos %d períodos. "+
				"Rompimentos válidos exigem fechamento acima da resistência com volume ao menos %.1fx a média; "+
				"o volume atual está em %.2fx.",
			last.Close, resistance, lookbackWindow, activationVolumeMin, volRatio),
		Signals: signals,
		Meta: map[string]float64{
			"resistance":  round2(resistance),
			"close":       round2(last.Close),
			"volumeRatio": round2(volRatio),
			"atr":         round2(atr),
			"stop":        round2(stop),
		},
	}
}

// wasBreakoutActive reports whether the breakout activation condition held at
// index idx, looking only at candles up to and including idx.
func wasBreakoutActive(candles []models.Candle, idx int) bool {
	if idx < lookbackWindow+1 || idx >= len(candles) {
		return false
	}
	resistance := highestHigh(candles[idx-lookbackWindow : idx])
	ratio, ok := indicators.VolumeRatio(lookbackWindow, candles[:idx+1])
	if !ok {
		return false
	}
	return candles[idx].Close > resistance && ratio > activationVolumeMin
}

func highestHigh(candles []models.Candle) float64 {
	max := math.Inf(-1)
	for _, c := range candles {
		if c.High > max {
			max = c.High
		}
	}
	return max
}

func lowestLow(candles []models.Candle) float64 {
	min := math.Inf(1)
	for _, c := range candles {
		if c.Low < min {
			min = c.Low
		}
	}
	return min
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
