package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TradeCompass/internal/domain/models"
	domrepo "TradeCompass/internal/domain/repository"
	"TradeCompass/internal/engine"
	"TradeCompass/pkg/logger"
)

type fakeSource struct {
	candles []models.Candle
	err     error
}

func (f *fakeSource) GetLatestNCandles(_ context.Context, _ string, n int, _ domrepo.Timeframe) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.candles) > n {
		return f.candles[len(f.candles)-n:], nil
	}
	return f.candles, nil
}

type capturePublisher struct {
	events []*models.SignalEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev *models.SignalEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

// breakoutCandles builds a series whose last candle closes a resistance
// breakout with heavy volume.
func breakoutCandles(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Date: "d", Open: 95, High: 100, Low: 94, Close: 95, Volume: 100}
	}
	last := &out[n-1]
	last.Close = 102
	last.High = 103
	last.Low = 101
	last.Volume = 300
	return out
}

// spikeCandles builds a flat base, a heavy-volume breakout bar at index
// spikeAt, then bars whose closes move by afterStep per bar.
func spikeCandles(n, spikeAt int, afterStep float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Date: "d", Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 100}
	}
	out[spikeAt] = models.Candle{Date: "d", Open: 100, High: 120.5, Low: 119.5, Close: 120, Volume: 1000}
	price := 120.0
	for i := spikeAt + 1; i < n; i++ {
		price += afterStep
		out[i] = models.Candle{Date: "d", Open: price, High: price + 0.5, Low: price - 0.5, Close: price, Volume: 100}
	}
	return out
}

func newUC(src domrepo.CandleSource, pub domrepo.SignalPublisher) *AnalysisUseCase {
	return NewAnalysisUseCase(src, engine.NewAnalyzer(nil), nil, pub, nil, logger.Nop())
}

func TestGetAnalysisPublishesActiveSetups(t *testing.T) {
	pub := &capturePublisher{}
	uc := newUC(&fakeSource{candles: breakoutCandles(100)}, pub)

	res, err := uc.GetAnalysis(context.Background(), AnalysisParams{Symbol: "xpto", N: 100, Timeframe: domrepo.TF1d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ticker != "XPTO" {
		t.Fatalf("symbol should be normalized, got %s", res.Ticker)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected one signal event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.SetupType != "XPTO-compra-rompimento" || ev.Status != models.StatusAtivo {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Close != 102 {
		t.Fatalf("unexpected close %v", ev.Close)
	}
}

func TestGetAnalysisPublishFailureIsNonFatal(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	uc := newUC(&fakeSource{candles: breakoutCandles(100)}, pub)

	if _, err := uc.GetAnalysis(context.Background(), AnalysisParams{Symbol: "XPTO", N: 100, Timeframe: domrepo.TF1d}); err != nil {
		t.Fatalf("publish failure must not fail the analysis: %v", err)
	}
}

func TestGetAnalysisSourceError(t *testing.T) {
	uc := newUC(&fakeSource{err: errors.New("provider down")}, &capturePublisher{})
	if _, err := uc.GetAnalysis(context.Background(), AnalysisParams{Symbol: "XPTO", N: 100, Timeframe: domrepo.TF1d}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetContext(t *testing.T) {
	uc := newUC(&fakeSource{candles: breakoutCandles(100)}, nil)
	ctx, err := uc.GetContext(context.Background(), AnalysisParams{Symbol: "XPTO", N: 100, Timeframe: domrepo.TF1d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Volume != models.VolumeAcima {
		t.Fatalf("expected Acima volume, got %s", ctx.Volume)
	}
}

func TestGetBacktestGoesThroughEstimator(t *testing.T) {
	src := &fakeSource{candles: spikeCandles(200, 100, 2)}
	est := engine.NewEstimator(engine.WithCacheTTL(time.Hour))
	uc := NewAnalysisUseCase(src, engine.NewAnalyzer(est), est, nil, nil, logger.Nop())

	p := BacktestParams{Symbol: "XPTO", Setup: engine.SetupBreakout, N: 200, Timeframe: domrepo.TF1d}
	first, err := uc.GetBacktest(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.SuccessRate != 100 {
		t.Fatalf("expected 100, got %d", first.SuccessRate)
	}

	// same symbol and setup inside the TTL: the estimator cache answers even
	// though the source now returns a losing series
	src.candles = spikeCandles(200, 100, -2)
	second, err := uc.GetBacktest(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.SuccessRate != 100 {
		t.Fatalf("expected the cached rate, got %d", second.SuccessRate)
	}
}

func TestGetPulse(t *testing.T) {
	uc := newUC(&fakeSource{candles: breakoutCandles(100)}, nil)
	res, err := uc.GetPulse(context.Background(), PulseParams{Symbol: "XPTO", Period: 14, N: 100, Timeframe: domrepo.TF1d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Series) == 0 {
		t.Fatalf("expected a pulse series")
	}
	if res.Current < 0 || res.Current > 100 {
		t.Fatalf("pulse out of bounds: %v", res.Current)
	}
}
