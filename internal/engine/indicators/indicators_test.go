package indicators

import (
	"math"
	"testing"

	"TradeCompass/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	got, ok := SMA(3, []float64{1, 2, 3, 4})
	if !ok {
		t.Fatalf("expected ok")
	}
	if !almostEqual(got, 3) {
		t.Fatalf("unexpected sma %v", got)
	}
}

func TestSMAExactLength(t *testing.T) {
	got, ok := SMA(4, []float64{1, 2, 3, 4})
	if !ok {
		t.Fatalf("expected ok with len == period")
	}
	if !almostEqual(got, 2.5) {
		t.Fatalf("unexpected sma %v", got)
	}
}

func TestSMAInsufficient(t *testing.T) {
	if _, ok := SMA(5, []float64{1, 2, 3, 4}); ok {
		t.Fatalf("expected not ok")
	}
	if _, ok := SMA(0, []float64{1, 2}); ok {
		t.Fatalf("expected not ok for zero period")
	}
}

func TestTrueRange(t *testing.T) {
	c := models.Candle{High: 10, Low: 8}
	if got := TrueRange(c, 0, false); !almostEqual(got, 2) {
		t.Fatalf("unexpected tr without prev %v", got)
	}
	// gap down: low against previous close dominates
	if got := TrueRange(c, 11, true); !almostEqual(got, 3) {
		t.Fatalf("unexpected tr %v", got)
	}
}

func TestATR(t *testing.T) {
	candles := []models.Candle{
		{High: 10.5, Low: 9.5, Close: 10},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}
	got, ok := ATR(2, candles)
	if !ok {
		t.Fatalf("expected ok")
	}
	if !almostEqual(got, 2) {
		t.Fatalf("unexpected atr %v", got)
	}
}

func TestATRNeedsPeriodPlusOne(t *testing.T) {
	candles := []models.Candle{
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}
	if _, ok := ATR(2, candles); ok {
		t.Fatalf("expected not ok with period candles only")
	}
}

func TestATRPercent(t *testing.T) {
	candles := []models.Candle{
		{High: 10.5, Low: 9.5, Close: 10},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}
	got, ok := ATRPercent(2, candles)
	if !ok {
		t.Fatalf("expected ok")
	}
	want := 2.0 / 11 * 100
	if !almostEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestVolumeRatioExcludesLatest(t *testing.T) {
	candles := []models.Candle{
		{Volume: 10},
		{Volume: 20},
		{Volume: 30},
		{Volume: 60},
	}
	got, ok := VolumeRatio(2, candles)
	if !ok {
		t.Fatalf("expected ok")
	}
	// average of the two candles preceding the latest is 25
	if !almostEqual(got, 2.4) {
		t.Fatalf("unexpected ratio %v", got)
	}
}

func TestVolumeRatioZeroAverage(t *testing.T) {
	candles := []models.Candle{
		{Volume: 0},
		{Volume: 0},
		{Volume: 100},
	}
	if _, ok := VolumeRatio(2, candles); ok {
		t.Fatalf("expected not ok with zero average")
	}
}
