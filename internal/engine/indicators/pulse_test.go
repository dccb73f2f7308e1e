package indicators

import (
	"strconv"
	"testing"

	"TradeCompass/internal/domain/models"
)

func risingCandles(n int, step float64) []models.Candle {
	out := make([]models.Candle, n)
	price := 100.0
	for i := range out {
		out[i] = models.Candle{
			Date:   strconv.Itoa(i),
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 100,
		}
		price += step
	}
	return out
}

func TestMysticPulseSeeding(t *testing.T) {
	mp := NewMysticPulse(3)
	closes := []float64{1, 2, 3, 4}
	for i, c := range closes[:3] {
		if _, ok := mp.Update(c); ok {
			t.Fatalf("expected not ok at close %d", i)
		}
	}
	v, ok := mp.Update(closes[3])
	if !ok {
		t.Fatalf("expected ok after period+1 closes")
	}
	if v != 100 {
		t.Fatalf("all gains should pin the pulse at 100, got %v", v)
	}
}

func TestMysticPulseFlat(t *testing.T) {
	mp := NewMysticPulse(3)
	var v float64
	var ok bool
	for i := 0; i < 10; i++ {
		v, ok = mp.Update(50)
	}
	if !ok {
		t.Fatalf("expected ok")
	}
	if v != 50 {
		t.Fatalf("flat series should read 50, got %v", v)
	}
}

func TestMysticPulseAllLosses(t *testing.T) {
	mp := NewMysticPulse(3)
	var v float64
	var ok bool
	for c := 100.0; c > 80; c-- {
		v, ok = mp.Update(c)
	}
	if !ok {
		t.Fatalf("expected ok")
	}
	if v != 0 {
		t.Fatalf("all losses should pin the pulse at 0, got %v", v)
	}
}

func TestMysticPulseBounds(t *testing.T) {
	mp := NewMysticPulse(5)
	closes := []float64{10, 12, 9, 14, 8, 15, 7, 16, 6, 17, 5, 18}
	for _, c := range closes {
		v, ok := mp.Update(c)
		if !ok {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("pulse out of bounds: %v", v)
		}
	}
}

func TestMysticPulseSeries(t *testing.T) {
	candles := risingCandles(30, 1)
	series := MysticPulseSeries(14, candles)
	if len(series) != 30-14 {
		t.Fatalf("unexpected series length %d", len(series))
	}
	if series[0].Date != candles[14].Date {
		t.Fatalf("first point should align with candle %s, got %s", candles[14].Date, series[0].Date)
	}
	// strictly rising closes pin every point at 100
	for _, p := range series {
		if p.Value != 100 {
			t.Fatalf("expected 100 at %s, got %v", p.Date, p.Value)
		}
	}
}

func TestMysticPulseSeriesDeterministic(t *testing.T) {
	candles := risingCandles(40, 0.7)
	candles[10].Close = 95
	candles[25].Close = 90
	a := MysticPulseSeries(14, candles)
	b := MysticPulseSeries(14, candles)
	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("series diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTrendPulseUptrend(t *testing.T) {
	candles := risingCandles(30, 1)
	v, ok := TrendPulse(5, candles)
	if !ok {
		t.Fatalf("expected ok")
	}
	if v < 90 || v > 100 {
		t.Fatalf("one-way trend should read near 100, got %v", v)
	}
}

func TestTrendPulseInsufficient(t *testing.T) {
	candles := risingCandles(10, 1)
	if _, ok := TrendPulse(5, candles); ok {
		t.Fatalf("expected not ok with fewer than 2*period+1 candles")
	}
}

func TestTrendPulseBounds(t *testing.T) {
	candles := risingCandles(60, 0.3)
	for i := range candles {
		if i%2 == 0 {
			candles[i].High += 2
		} else {
			candles[i].Low -= 2
		}
	}
	v, ok := TrendPulse(14, candles)
	if !ok {
		t.Fatalf("expected ok")
	}
	if v < 0 || v > 100 {
		t.Fatalf("pulse out of bounds: %v", v)
	}
}
