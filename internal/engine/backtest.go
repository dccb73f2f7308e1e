package engine

import (
	"math"
	"sync"
	"time"

	"TradeCompass/internal/domain/models"
	"TradeCompass/internal/engine/indicators"
)

// SetupType names a detector for backtesting and cache keying.
type SetupType string

const (
	SetupBreakout  SetupType = "breakout"
	SetupBreakdown SetupType = "breakdown"
	SetupPullback  SetupType = "pullback"
)

// Backtest defaults. Warm-up of 60 covers SMA50 plus margin so the pullback
// trend recomputation always resolves.
const (
	backtestWarmup        = 60
	defaultForwardWindow  = 20
	defaultRiskATRMult    = 2.0
	defaultCacheTTL       = 15 * time.Minute
	defaultCacheCapacity  = 512
	placeholderSuccessPct = 50
)

// RunBacktest replays a setup's activation predicate over historical candles
// and scores each activation against a volatility-scaled target/stop pair.
// Trades that resolve neither way inside the forward window count as
// failures. With zero occurrences the rate is the fixed placeholder 50, an
// explicit "no data" convention rather than an estimate.
func RunBacktest(candles []models.Candle, setup SetupType, forwardWindow int, atrMult float64) models.BacktestResult {
	if forwardWindow <= 0 {
		forwardWindow = defaultForwardWindow
	}
	if atrMult <= 0 {
		atrMult = defaultRiskATRMult
	}

	total, wins := 0, 0
	for i := backtestWarmup; i < len(candles)-forwardWindow; i++ {
		if !wasActiveAt(candles, i, setup) {
			continue
		}
		atr, ok := indicators.ATR(atrPeriod, candles[:i+1])
		if !ok || atr <= 0 {
			continue
		}
		total++
		entry := candles[i].Close
		r := atr * atrMult
		if simulateForward(candles, i, forwardWindow, entry, r, setup == SetupBreakdown) {
			wins++
		}
	}

	rate := placeholderSuccessPct
	if total > 0 {
		rate = int(math.Round(float64(wins) / float64(total) * 100))
	}
	return models.BacktestResult{
		TotalOccurrences: total,
		SuccessCount:     wins,
		SuccessRate:      rate,
	}
}

// wasActiveAt checks the activation predicate at index i using only the
// prefix ending at i. For pullback the trend is recomputed from that prefix,
// which is quadratic in the worst case but avoids look-ahead bias.
func wasActiveAt(candles []models.Candle, i int, setup SetupType) bool {
	switch setup {
	case SetupBreakout:
		return wasBreakoutActive(candles, i)
	case SetupBreakdown:
		return wasBreakdownActive(candles, i)
	case SetupPullback:
		if CalculateTrend(candles[:i+1]) != models.TrendAlta {
			return false
		}
		return wasPullbackActive(candles, i)
	default:
		return false
	}
}

// simulateForward walks the forward window and reports whether the target
// triggered strictly before the stop.
func simulateForward(candles []models.Candle, entryIdx, window int, entry, r float64, short bool) bool {
	target, stop := entry+r, entry-r
	if short {
		target, stop = entry-r, entry+r
	}
	for j := entryIdx + 1; j <= entryIdx+window && j < len(candles); j++ {
		c := candles[j]
		if short {
			if c.Low <= target {
				return true
			}
			if c.High >= stop {
				return false
			}
			continue
		}
		if c.High >= target {
			return true
		}
		if c.Low <= stop {
			return false
		}
	}
	return false
}

type backtestEntry struct {
	result   models.BacktestResult
	expireAt time.Time
	access   time.Time
}

// Estimator computes and caches backtest results per ticker+setup. The cache
// is capacity-bounded with TTL expiry and an explicit Invalidate hook, so a
// long-running process does not accumulate entries forever.
type Estimator struct {
	mu            sync.Mutex
	entries       map[string]*backtestEntry
	capacity      int
	ttl           time.Duration
	forwardWindow int
	atrMult       float64
	now           func() time.Time
}

// EstimatorOption configures Estimator.
type EstimatorOption func(*Estimator)

// WithForwardWindow sets how many candles a simulated trade may run.
func WithForwardWindow(n int) EstimatorOption {
	return func(e *Estimator) { e.forwardWindow = n }
}

// WithRiskMultiple sets the ATR multiple defining the risk unit R.
func WithRiskMultiple(m float64) EstimatorOption {
	return func(e *Estimator) { e.atrMult = m }
}

// WithCacheTTL sets how long cached results stay valid.
func WithCacheTTL(ttl time.Duration) EstimatorOption {
	return func(e *Estimator) { e.ttl = ttl }
}

// WithCacheCapacity bounds the number of cached ticker+setup entries.
func WithCacheCapacity(n int) EstimatorOption {
	return func(e *Estimator) { e.capacity = n }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) EstimatorOption {
	return func(e *Estimator) { e.now = now }
}

// NewEstimator creates an estimator with bounded result caching.
func NewEstimator(opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		entries:       make(map[string]*backtestEntry),
		capacity:      defaultCacheCapacity,
		ttl:           defaultCacheTTL,
		forwardWindow: defaultForwardWindow,
		atrMult:       defaultRiskATRMult,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SuccessRate returns the cached backtest for ticker+setup, recomputing it
// when missing or expired. Concurrent callers for the same key may race on
// population; the computation is idempotent so last-writer-wins is fine.
func (e *Estimator) SuccessRate(ticker string, candles []models.Candle, setup SetupType) models.BacktestResult {
	key := ticker + "-" + string(setup)
	now := e.now()

	e.mu.Lock()
	if ent, ok := e.entries[key]; ok && now.Before(ent.expireAt) {
		ent.access = now
		res := ent.result
		e.mu.Unlock()
		return res
	}
	e.mu.Unlock()

	res := RunBacktest(candles, setup, e.forwardWindow, e.atrMult)

	e.mu.Lock()
	if len(e.entries) >= e.capacity {
		e.evictOldest()
	}
	e.entries[key] = &backtestEntry{result: res, expireAt: now.Add(e.ttl), access: now}
	e.mu.Unlock()
	return res
}

// Invalidate drops the cached result for ticker+setup, forcing the next call
// to recompute. Used when fresh candles arrive for a symbol.
func (e *Estimator) Invalidate(ticker string, setup SetupType) {
	e.mu.Lock()
	delete(e.entries, ticker+"-"+string(setup))
	e.mu.Unlock()
}

// InvalidateTicker drops all cached setups for a ticker.
func (e *Estimator) InvalidateTicker(ticker string) {
	e.mu.Lock()
	for _, st := range []SetupType{SetupBreakout, SetupBreakdown, SetupPullback} {
		delete(e.entries, ticker+"-"+string(st))
	}
	e.mu.Unlock()
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (e *Estimator) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, ent := range e.entries {
		if first || ent.access.Before(oldest) {
			oldest = ent.access
			oldestKey = k
			first = false
		}
	}
	if oldestKey != "" {
		delete(e.entries, oldestKey)
	}
}
