package engine

import (
	"errors"
	"fmt"
	"time"

	"TradeCompass/internal/domain/models"
)

// MinCandlesForAnalysis guarantees every indicator in the pipeline resolves
// (SMA50 for trend, warm-up margin for the backtester's shortest scan).
const MinCandlesForAnalysis = 85

// ErrInsufficientData is returned when the caller supplies fewer candles
// than the pipeline needs. Short series inside individual indicators are
// handled as values, not errors; this guards the boundary only.
var ErrInsufficientData = errors.New("engine: insufficient candle history")

// Analyzer runs the full pipeline for one symbol: context classification,
// the three setup detectors annotated with historical success rates, and the
// decision-zone aggregation.
type Analyzer struct {
	estimator *Estimator
}

// NewAnalyzer creates an analyzer. A nil estimator disables backtesting and
// leaves every success rate at the 50 placeholder.
func NewAnalyzer(estimator *Estimator) *Analyzer {
	return &Analyzer{estimator: estimator}
}

// Analyze produces the full analysis for ticker from an ordered candle
// series. Purely computational; completes in-memory with no I/O.
func (a *Analyzer) Analyze(ticker string, candles []models.Candle) (*models.Analysis, error) {
	return a.AnalyzeAt(ticker, candles, DayIndex(time.Now()))
}

// AnalyzeAt is the clock-injected form used by tests: day selects the
// decision-zone message rotation.
func (a *Analyzer) AnalyzeAt(ticker string, candles []models.Candle, day int) (*models.Analysis, error) {
	if len(candles) < MinCandlesForAnalysis {
		return nil, fmt.Errorf("%w: got %d candles, need %d", ErrInsufficientData, len(candles), MinCandlesForAnalysis)
	}

	ctx := CalculateContext(candles)

	setups := make([]models.SetupResult, 0, 3)
	if s := DetectBreakout(ticker, candles, ctx.Volatility, a.rate(ticker, candles, SetupBreakout)); s != nil {
		setups = append(setups, *s)
	}
	if s := DetectPullbackSMA20(ticker, candles, ctx.Trend, ctx.Volume, ctx.Volatility, a.rate(ticker, candles, SetupPullback)); s != nil {
		setups = append(setups, *s)
	}
	if s := DetectBreakdown(ticker, candles, ctx.Volatility, a.rate(ticker, candles, SetupBreakdown)); s != nil {
		setups = append(setups, *s)
	}

	zone := CalculateDecisionZoneAt(DecisionInput{Context: ctx, Setups: setups}, day)

	return &models.Analysis{
		Ticker:       ticker,
		Context:      ctx,
		Setups:       setups,
		DecisionZone: zone,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

func (a *Analyzer) rate(ticker string, candles []models.Candle, setup SetupType) int {
	if a.estimator == nil {
		return placeholderSuccessPct
	}
	return a.estimator.SuccessRate(ticker, candles, setup).SuccessRate
}
