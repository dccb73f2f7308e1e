package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeCompass/internal/domain/models"
	domrepo "TradeCompass/internal/domain/repository"
	"TradeCompass/internal/engine"
	"TradeCompass/internal/engine/indicators"
	"TradeCompass/pkg/logger"
	"TradeCompass/pkg/util"
)

// AnalysisUseCase orchestrates candle retrieval, the analysis engine, and
// best-effort signal publication.
type AnalysisUseCase struct {
	source    domrepo.CandleSource
	analyzer  *engine.Analyzer
	estimator *engine.Estimator
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
}

func NewAnalysisUseCase(
	source domrepo.CandleSource,
	analyzer *engine.Analyzer,
	estimator *engine.Estimator,
	publisher domrepo.SignalPublisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		source:    source,
		analyzer:  analyzer,
		estimator: estimator,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

type AnalysisParams struct {
	Symbol    string
	N         int
	Timeframe domrepo.Timeframe
}

// GetAnalysis runs the full pipeline for one symbol. Activated setups are
// published as signal events; publish failures are logged and never fail the
// analysis.
func (uc *AnalysisUseCase) GetAnalysis(ctx context.Context, p AnalysisParams) (*models.Analysis, error) {
	start := time.Now()
	symbol := util.NormalizeTicker(p.Symbol)

	candles, err := uc.source.GetLatestNCandles(ctx, symbol, p.N, p.Timeframe)
	if err != nil {
		uc.record(symbol, "error")
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	analysis, err := uc.analyzer.Analyze(symbol, candles)
	if err != nil {
		uc.record(symbol, "insufficient")
		return nil, err
	}

	uc.publishActive(ctx, analysis, p.Timeframe, candles)
	uc.record(symbol, "ok")
	if uc.metrics != nil {
		uc.metrics.RecordLatency("analysis", time.Since(start).Seconds())
	}
	return analysis, nil
}

// GetContext classifies trend, volume and volatility without running the
// detectors.
func (uc *AnalysisUseCase) GetContext(ctx context.Context, p AnalysisParams) (*models.Context, error) {
	symbol := util.NormalizeTicker(p.Symbol)
	candles, err := uc.source.GetLatestNCandles(ctx, symbol, p.N, p.Timeframe)
	if err != nil {
		uc.record(symbol, "error")
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	c := engine.CalculateContext(candles)
	return &c, nil
}

// GetSetups runs the full analysis and returns only the detector findings.
func (uc *AnalysisUseCase) GetSetups(ctx context.Context, p AnalysisParams) ([]models.SetupResult, error) {
	analysis, err := uc.GetAnalysis(ctx, p)
	if err != nil {
		return nil, err
	}
	return analysis.Setups, nil
}

type BacktestParams struct {
	Symbol    string
	Setup     engine.SetupType
	N         int
	Timeframe domrepo.Timeframe
}

// GetBacktest replays one setup over the requested history. Results go
// through the estimator so the endpoint shares both the cache and the
// configured window/risk multiple with the analysis pipeline.
func (uc *AnalysisUseCase) GetBacktest(ctx context.Context, p BacktestParams) (*models.BacktestResult, error) {
	symbol := util.NormalizeTicker(p.Symbol)
	candles, err := uc.source.GetLatestNCandles(ctx, symbol, p.N, p.Timeframe)
	if err != nil {
		uc.record(symbol, "error")
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	if uc.estimator != nil {
		res := uc.estimator.SuccessRate(symbol, candles, p.Setup)
		return &res, nil
	}
	res := engine.RunBacktest(candles, p.Setup, 0, 0)
	return &res, nil
}

type PulseParams struct {
	Symbol    string
	Period    int
	N         int
	Timeframe domrepo.Timeframe
}

// PulseResult carries the oscillator series plus the latest values.
type PulseResult struct {
	Symbol     string              `json:"symbol"`
	Period     int                 `json:"period"`
	Series     []models.PulsePoint `json:"series"`
	Current    float64             `json:"current"`
	TrendPulse float64             `json:"trendPulse"`
}

// GetPulse computes the mystic-pulse series and the directional trend pulse.
func (uc *AnalysisUseCase) GetPulse(ctx context.Context, p PulseParams) (*PulseResult, error) {
	symbol := util.NormalizeTicker(p.Symbol)
	candles, err := uc.source.GetLatestNCandles(ctx, symbol, p.N, p.Timeframe)
	if err != nil {
		uc.record(symbol, "error")
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	series := indicators.MysticPulseSeries(p.Period, candles)
	res := &PulseResult{Symbol: symbol, Period: p.Period, Series: series}
	if len(series) > 0 {
		res.Current = series[len(series)-1].Value
	}
	if tp, ok := indicators.TrendPulse(p.Period, candles); ok {
		res.TrendPulse = tp
	}
	return res, nil
}

// publishActive emits one signal event per activated setup.
func (uc *AnalysisUseCase) publishActive(ctx context.Context, a *models.Analysis, tf domrepo.Timeframe, candles []models.Candle) {
	if uc.publisher == nil {
		return
	}
	signalTime := ""
	if len(candles) > 0 {
		signalTime = candles[len(candles)-1].Date
	}
	for _, s := range a.Setups {
		if s.Status != models.StatusAtivo {
			continue
		}
		ev := &models.SignalEvent{
			Ticker:     a.Ticker,
			SetupType:  s.ID,
			Timeframe:  string(tf),
			SignalTime: signalTime,
			Status:     s.Status,
			Close:      s.Meta["close"],
			Stop:       s.StopSuggestion,
			EmittedAt:  time.Now().UTC(),
		}
		if err := uc.publisher.Publish(ctx, ev); err != nil {
			uc.log.Warn("signal publish failed",
				logger.String("ticker", a.Ticker),
				logger.String("setup", s.ID),
				logger.Error(err))
			if uc.metrics != nil {
				uc.metrics.RecordError("signal_publish")
			}
		}
	}
}

func (uc *AnalysisUseCase) record(symbol, outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordAnalysis(symbol, outcome)
		if outcome == "error" {
			uc.metrics.RecordError("candle_source")
		}
	}
}
