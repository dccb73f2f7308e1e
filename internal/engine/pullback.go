package engine

import (
	"fmt"

	"TradeCompass/internal/domain/models"
	"TradeCompass/internal/engine/indicators"
)

// Pullback tolerances. The touch tolerance is multiplicative on price while
// the proximity tolerance is ATR-scaled; the mismatch is intentional and
// must not be unified, or detector output drifts from the charted levels.
const (
	pullbackTouchTolerance = 1.002
	pullbackProximityATR   = 0.5
)

// DetectPullbackSMA20 evaluates a pullback to the 20-period moving average
// (trend-continuation long bias). The trend precondition is computed by the
// caller: anything other than Alta short-circuits to INVALIDO, regardless of
// price action. Returns nil only on insufficient history.
func DetectPullbackSMA20(ticker string, candles []models.Candle, trend models.Trend, volume models.VolumeLevel, volatility models.VolatilityLevel, successRate int) *models.SetupResult {
	if len(candles) < lookbackWindow+1 {
		return nil
	}

	last := candles[len(candles)-1]
	sma20, okSMA := indicators.SMA(smaFastPeriod, indicators.Closes(candles))
	atr, okATR := indicators.ATR(atrPeriod, candles)
	if !okSMA || !okATR {
		return nil
	}
	stop := sma20 - atr*pullbackProximityATR

	result := &models.SetupResult{
		ID:          ticker + "-compra-pullback",
		Title:       "Pullback na Média de 20",
		SuccessRate: successRate,
		Meta: map[string]float64{
			"sma20": round2(sma20),
			"close": round2(last.Close),
			"atr":   round2(atr),
			"stop":  round2(stop),
		},
	}

	if trend != models.TrendAlta {
		result.Status = models.StatusInvalido
		result.Risk = models.RiskAlto
		result.Explanation = "Setup exige tendência de alta confirmada; contexto atual não atende."
		result.Signals = []string{"Tendência de alta ausente"}
		return result
	}

	status := models.StatusInvalido
	switch {
	case last.Low <= sma20*pullbackTouchTolerance && last.Close > sma20:
		status = models.StatusAtivo
	case absFloat(last.Close-sma20) <= atr*pullbackProximityATR:
		status = models.StatusEmFormacao
	}

	risk := models.RiskBaixo
	switch {
	case volume == models.VolumeAbaixo || volatility == models.VolatilityAlta:
		risk = models.RiskAlto
	case volatility == models.VolatilityMedia:
		risk = models.RiskModerado
	}

	signals := []string{
		fmt.Sprintf("Média de 20 períodos em %.2f", sma20),
		fmt.Sprintf("Mínima do dia em %.2f, fechamento em %.2f", last.Low, last.Close),
		"Tendência de alta preservada",
	}
	if status == models.StatusAtivo {
		signals = append(signals, "Toque na média com fechamento acima")
	}

	result.Status = status
	result.Risk = risk
	result.StopSuggestion = fmt.Sprintf("Stop sugerido abaixo de %.2f (média - %.1f ATR)",
		stop, pullbackProximityATR)
	result.TargetNote = "Alvo na retomada da máxima recente; gerencie parciais na resistência"
	result.Explanation = fmt.Sprintf(
		"Em tendência de alta, recuos até a média de 20 períodos (%.2f) com fechamento acima dela "+
			"tendem a retomar o movimento. A mínima atual foi %.2f e o fechamento %.2f.",
		sma20, last.Low, last.Close)
	result.Signals = signals
	return result
}

// wasPullbackActive reports whether the pullback activation held at index
// idx. The caller is responsible for the trend precondition over the prefix
// ending at idx; this predicate only checks price action.
func wasPullbackActive(candles []models.Candle, idx int) bool {
	if idx < lookbackWindow || idx >= len(candles) {
		return false
	}
	sma20, ok := indicators.SMA(smaFastPeriod, indicators.Closes(candles[:idx+1]))
	if !ok {
		return false
	}
	c := candles[idx]
	return c.Low <= sma20*pullbackTouchTolerance && c.Close > sma20
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
