package engine

import (
	"fmt"

	"TradeCompass/internal/domain/models"
	"TradeCompass/internal/engine/indicators"
)

// DetectBreakdown evaluates a support breakdown at the latest candle. It is
// the mirror of DetectBreakout but is flagged as risk rather than
// opportunity: risk never grades Baixo here.
func DetectBreakdown(ticker string, candles []models.Candle, volatility models.VolatilityLevel, successRate int) *models.SetupResult {
	if len(candles) < lookbackWindow+1 {
		return nil
	}

	last := candles[len(candles)-1]
	support := lowestLow(candles[len(candles)-1-lookbackWindow : len(candles)-1])
	volRatio, _ := indicators.VolumeRatio(lookbackWindow, candles)
	atr, _ := indicators.ATR(atrPeriod, candles)
	invalidation := support + stopATRFraction*atr

	status := models.StatusInvalido
	switch {
	case last.Close < support && volRatio > activationVolumeMin:
		status = models.StatusAtivo
	case last.Close <= support*breakdownFormingPct:
		status = models.StatusEmFormacao
	}

	risk := models.RiskModerado
	if volatility == models.VolatilityAlta {
		risk = models.RiskAlto
	}

	signals := []string{
		fmt.Sprintf("Suporte dos últimos %d períodos em %.2f", lookbackWindow, support),
		fmt.Sprintf("Fechamento atual em %.2f", last.Close),
		fmt.Sprintf("Volume %.2fx a média do período", volRatio),
	}
	if status == models.StatusAtivo {
		signals = append(signals, "Perda de suporte confirmada com volume")
	}

	return &models.SetupResult{
		ID:          ticker + "-venda-rompimento",
		Title:       "Rompimento de Suporte",
		Status:      status,
		SuccessRate: successRate,
		Risk:        risk,
		StopSuggestion: fmt.Sprintf("Invalidação acima de %.2f (suporte + %.1f ATR)",
			invalidation, stopATRFraction),
		TargetNote: "Sinal de alerta para posições compradas; evite novas entradas",
		Explanation: fmt.Sprintf(
			"O preço fechou em %.2f contra um suporte de %.2f formado nos últimos %d períodos. "+
				"A perda do suporte com volume acima de %.1fx a média indica pressão vendedora; "+
				"o volume atual está em %.2fx.",
			last.Close, support, lookbackWindow, activationVolumeMin, volRatio),
		Signals: signals,
		Meta: map[string]float64{
			"support":      round2(support),
			"close":        round2(last.Close),
			"volumeRatio":  round2(volRatio),
			"atr":          round2(atr),
			"invalidation": round2(invalidation),
		},
	}
}

// wasBreakdownActive reports whether the breakdown activation condition held
// at index idx, looking only at candles up to and including idx.
func wasBreakdownActive(candles []models.Candle, idx int) bool {
	if idx < lookbackWindow+1 || idx >= len(candles) {
		return false
	}
	support := lowestLow(candles[idx-lookbackWindow : idx])
	ratio, ok := indicators.VolumeRatio(lookbackWindow, candles[:idx+1])
	if !ok {
		return false
	}
	return candles[idx].Close < support && ratio > activationVolumeMin
}
