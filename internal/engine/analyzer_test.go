package engine

import (
	"errors"
	"testing"

	"TradeCompass/internal/domain/models"
)

func TestAnalyzeInsufficientData(t *testing.T) {
	a := NewAnalyzer(nil)
	_, err := a.Analyze("XPTO", flatCandles(MinCandlesForAnalysis-1, 100, 100))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyzeFlatSeries(t *testing.T) {
	a := NewAnalyzer(nil)
	res, err := a.AnalyzeAt("XPTO", flatCandles(100, 100, 100), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ticker != "XPTO" {
		t.Fatalf("unexpected ticker %s", res.Ticker)
	}
	if len(res.Setups) != 3 {
		t.Fatalf("expected all three detectors to report, got %d", len(res.Setups))
	}
	for _, s := range res.Setups {
		if s.Status == models.StatusAtivo {
			t.Fatalf("flat series should not activate %s", s.ID)
		}
		// nil estimator leaves the placeholder
		if s.SuccessRate != 50 {
			t.Fatalf("expected placeholder rate for %s, got %d", s.ID, s.SuccessRate)
		}
	}
	if res.DecisionZone.Zone != models.ZoneNeutra {
		t.Fatalf("expected NEUTRA, got %s", res.DecisionZone.Zone)
	}
	if res.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not set")
	}
}

func TestAnalyzeWithEstimator(t *testing.T) {
	est := NewEstimator()
	a := NewAnalyzer(est)
	candles := spikeSeries(200, 100, 2)
	res, err := a.AnalyzeAt("XPTO", candles, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range res.Setups {
		if s.ID == "XPTO-compra-rompimento" && s.SuccessRate != 100 {
			t.Fatalf("breakout rate should come from the backtest, got %d", s.SuccessRate)
		}
	}
}

func TestAnalyzeDetectorOrder(t *testing.T) {
	a := NewAnalyzer(nil)
	res, err := a.AnalyzeAt("XPTO", flatCandles(100, 100, 100), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"XPTO-compra-rompimento", "XPTO-compra-pullback", "XPTO-venda-rompimento"}
	for i, s := range res.Setups {
		if s.ID != want[i] {
			t.Fatalf("setup %d: got %s want %s", i, s.ID, want[i])
		}
	}
}
