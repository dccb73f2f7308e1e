package engine

import (
	"testing"

	"TradeCompass/internal/domain/models"
)

func breakoutBase() []models.Candle {
	out := flatCandles(30, 95, 100)
	for i := range out {
		out[i].High = 100
		out[i].Low = 94
	}
	return out
}

func TestDetectBreakoutActive(t *testing.T) {
	candles := breakoutBase()
	last := len(candles) - 1
	candles[last].Close = 102
	candles[last].High = 103
	candles[last].Volume = 250

	s := DetectBreakout("XPTO", candles, models.VolatilityMedia, 62)
	if s == nil {
		t.Fatalf("expected a result")
	}
	if s.ID != "XPTO-compra-rompimento" {
		t.Fatalf("unexpected id %s", s.ID)
	}
	if s.Status != models.StatusAtivo {
		t.Fatalf("expected ATIVO, got %s", s.Status)
	}
	if s.Risk != models.RiskModerado {
		t.Fatalf("expected Moderado, got %s", s.Risk)
	}
	if s.SuccessRate != 62 {
		t.Fatalf("success rate not propagated: %d", s.SuccessRate)
	}
	if s.Meta["resistance"] != 100 {
		t.Fatalf("unexpected resistance %v", s.Meta["resistance"])
	}
	if s.Meta["close"] != 102 {
		t.Fatalf("unexpected close %v", s.Meta["close"])
	}
}

func TestDetectBreakoutForming(t *testing.T) {
	candles := breakoutBase()
	candles[len(candles)-1].Close = 99

	s := DetectBreakout("XPTO", candles, models.VolatilityMedia, 50)
	if s == nil || s.Status != models.StatusEmFormacao {
		t.Fatalf("expected EM_FORMACAO, got %+v", s)
	}
}

func TestDetectBreakoutCloseWithoutVolume(t *testing.T) {
	// closing above resistance without volume confirmation is forming, not active
	candles := breakoutBase()
	candles[len(candles)-1].Close = 102
	candles[len(candles)-1].High = 103

	s := DetectBreakout("XPTO", candles, models.VolatilityMedia, 50)
	if s == nil || s.Status != models.StatusEmFormacao {
		t.Fatalf("expected EM_FORMACAO, got %+v", s)
	}
}

func TestDetectBreakoutInvalid(t *testing.T) {
	candles := breakoutBase()
	candles[len(candles)-1].Close = 90

	s := DetectBreakout("XPTO", candles, models.VolatilityMedia, 50)
	if s == nil || s.Status != models.StatusInvalido {
		t.Fatalf("expected INVALIDO, got %+v", s)
	}
}

func TestDetectBreakoutInsufficient(t *testing.T) {
	if s := DetectBreakout("XPTO", flatCandles(20, 100, 100), models.VolatilityMedia, 50); s != nil {
		t.Fatalf("expected nil on short history")
	}
}

func TestDetectBreakoutRiskFromVolatility(t *testing.T) {
	candles := breakoutBase()
	if s := DetectBreakout("XPTO", candles, models.VolatilityAlta, 50); s.Risk != models.RiskAlto {
		t.Fatalf("expected Alto, got %s", s.Risk)
	}
	if s := DetectBreakout("XPTO", candles, models.VolatilityBaixa, 50); s.Risk != models.RiskBaixo {
		t.Fatalf("expected Baixo, got %s", s.Risk)
	}
}

// mirrorCandles reflects every price around the pivot, swapping highs and
// lows so each bar stays well formed. Volumes are unchanged.
func mirrorCandles(candles []models.Candle, pivot float64) []models.Candle {
	out := make([]models.Candle, len(candles))
	for i, c := range candles {
		out[i] = models.Candle{
			Date:   c.Date,
			Open:   2*pivot - c.Open,
			High:   2*pivot - c.Low,
			Low:    2*pivot - c.High,
			Close:  2*pivot - c.Close,
			Volume: c.Volume,
		}
	}
	return out
}

func TestBreakoutBreakdownMirrorSymmetry(t *testing.T) {
	cases := []struct {
		name   string
		close  float64
		high   float64
		low    float64
		volume float64
	}{
		{"close and volume", 102, 103, 101, 250},
		{"close without volume", 102, 103, 101, 100},
		{"volume without close", 99, 100, 94, 250},
		{"far below resistance", 90, 94, 89, 100},
	}
	activations := 0
	for _, tc := range cases {
		candles := breakoutBase()
		last := len(candles) - 1
		candles[last].Close = tc.close
		candles[last].High = tc.high
		candles[last].Low = tc.low
		candles[last].Volume = tc.volume
		mirrored := mirrorCandles(candles, 100)

		up := DetectBreakout("XPTO", candles, models.VolatilityMedia, 50)
		down := DetectBreakdown("XPTO", mirrored, models.VolatilityMedia, 50)
		if up == nil || down == nil {
			t.Fatalf("%s: expected results on both sides", tc.name)
		}
		upActive := up.Status == models.StatusAtivo
		downActive := down.Status == models.StatusAtivo
		if upActive != downActive {
			t.Fatalf("%s: breakout is %s but mirrored breakdown is %s", tc.name, up.Status, down.Status)
		}
		if upActive {
			activations++
		}
	}
	if activations == 0 {
		t.Fatalf("expected at least one activated case")
	}
}

func breakdownBase() []models.Candle {
	out := flatCandles(30, 103, 100)
	for i := range out {
		out[i].High = 105
		out[i].Low = 100
	}
	return out
}

func TestDetectBreakdownActive(t *testing.T) {
	candles := breakdownBase()
	last := len(candles) - 1
	candles[last].Close = 97
	candles[last].Low = 96
	candles[last].Volume = 250

	s := DetectBreakdown("XPTO", candles, models.VolatilityMedia, 41)
	if s == nil {
		t.Fatalf("expected a result")
	}
	if s.ID != "XPTO-venda-rompimento" {
		t.Fatalf("unexpected id %s", s.ID)
	}
	if s.Status != models.StatusAtivo {
		t.Fatalf("expected ATIVO, got %s", s.Status)
	}
	if s.Meta["support"] != 100 {
		t.Fatalf("unexpected support %v", s.Meta["support"])
	}
}

func TestDetectBreakdownForming(t *testing.T) {
	candles := breakdownBase()
	candles[len(candles)-1].Close = 101.5

	s := DetectBreakdown("XPTO", candles, models.VolatilityMedia, 50)
	if s == nil || s.Status != models.StatusEmFormacao {
		t.Fatalf("expected EM_FORMACAO, got %+v", s)
	}
}

func TestDetectBreakdownRiskNeverBaixo(t *testing.T) {
	candles := breakdownBase()
	if s := DetectBreakdown("XPTO", candles, models.VolatilityBaixa, 50); s.Risk != models.RiskModerado {
		t.Fatalf("expected Moderado even on low volatility, got %s", s.Risk)
	}
	if s := DetectBreakdown("XPTO", candles, models.VolatilityAlta, 50); s.Risk != models.RiskAlto {
		t.Fatalf("expected Alto, got %s", s.Risk)
	}
}

func TestDetectPullbackRequiresUptrend(t *testing.T) {
	candles := flatCandles(30, 100, 100)
	for _, trend := range []models.Trend{models.TrendBaixa, models.TrendLateral} {
		s := DetectPullbackSMA20("XPTO", candles, trend, models.VolumeNormal, models.VolatilityBaixa, 50)
		if s == nil {
			t.Fatalf("expected a result")
		}
		if s.Status != models.StatusInvalido {
			t.Fatalf("expected INVALIDO for trend %s, got %s", trend, s.Status)
		}
		if s.Risk != models.RiskAlto {
			t.Fatalf("expected Alto for trend %s, got %s", trend, s.Risk)
		}
	}
}

func TestDetectPullbackActive(t *testing.T) {
	candles := flatCandles(30, 100, 100)
	last := len(candles) - 1
	candles[last].Low = 99.5
	candles[last].Close = 100.5
	candles[last].High = 101

	s := DetectPullbackSMA20("XPTO", candles, models.TrendAlta, models.VolumeNormal, models.VolatilityBaixa, 58)
	if s == nil {
		t.Fatalf("expected a result")
	}
	if s.ID != "XPTO-compra-pullback" {
		t.Fatalf("unexpected id %s", s.ID)
	}
	if s.Status != models.StatusAtivo {
		t.Fatalf("expected ATIVO, got %s", s.Status)
	}
	if s.Risk != models.RiskBaixo {
		t.Fatalf("expected Baixo, got %s", s.Risk)
	}
	if s.SuccessRate != 58 {
		t.Fatalf("success rate not propagated: %d", s.SuccessRate)
	}
}

func TestDetectPullbackForming(t *testing.T) {
	candles := flatCandles(30, 100, 100)
	for i := range candles {
		candles[i].High = candles[i].Close + 1
		candles[i].Low = candles[i].Close - 1
	}
	last := len(candles) - 1
	candles[last].Close = 100.8
	candles[last].Low = 100.5
	candles[last].High = 101.8

	s := DetectPullbackSMA20("XPTO", candles, models.TrendAlta, models.VolumeNormal, models.VolatilityMedia, 50)
	if s == nil || s.Status != models.StatusEmFormacao {
		t.Fatalf("expected EM_FORMACAO, got %+v", s)
	}
	if s.Risk != models.RiskModerado {
		t.Fatalf("expected Moderado, got %s", s.Risk)
	}
}

func TestDetectPullbackRiskOnWeakVolume(t *testing.T) {
	candles := flatCandles(30, 100, 100)
	candles[len(candles)-1].Low = 99.5
	candles[len(candles)-1].Close = 100.5

	s := DetectPullbackSMA20("XPTO", candles, models.TrendAlta, models.VolumeAbaixo, models.VolatilityBaixa, 50)
	if s.Risk != models.RiskAlto {
		t.Fatalf("expected Alto on weak volume, got %s", s.Risk)
	}
}

func TestDetectPullbackInsufficient(t *testing.T) {
	if s := DetectPullbackSMA20("XPTO", flatCandles(20, 100, 100), models.TrendAlta, models.VolumeNormal, models.VolatilityBaixa, 50); s != nil {
		t.Fatalf("expected nil on short history")
	}
}
