package engine

import (
	"testing"
	"time"
)

func TestRunBacktestNoOccurrences(t *testing.T) {
	res := RunBacktest(flatCandles(100, 100, 100), SetupBreakout, 0, 0)
	if res.TotalOccurrences != 0 {
		t.Fatalf("expected no occurrences, got %d", res.TotalOccurrences)
	}
	if res.SuccessRate != 50 {
		t.Fatalf("expected placeholder 50, got %d", res.SuccessRate)
	}
}

func TestRunBacktestWinningBreakout(t *testing.T) {
	candles := spikeSeries(200, 100, 2)
	res := RunBacktest(candles, SetupBreakout, 0, 0)
	if res.TotalOccurrences != 1 {
		t.Fatalf("expected 1 occurrence, got %d", res.TotalOccurrences)
	}
	if res.SuccessCount != 1 || res.SuccessRate != 100 {
		t.Fatalf("expected a winning trade, got %+v", res)
	}
}

func TestRunBacktestLosingBreakout(t *testing.T) {
	candles := spikeSeries(200, 100, -2)
	res := RunBacktest(candles, SetupBreakout, 0, 0)
	if res.TotalOccurrences != 1 {
		t.Fatalf("expected 1 occurrence, got %d", res.TotalOccurrences)
	}
	if res.SuccessCount != 0 || res.SuccessRate != 0 {
		t.Fatalf("expected a losing trade, got %+v", res)
	}
}

func TestRunBacktestUnresolvedCountsAsFailure(t *testing.T) {
	candles := spikeSeries(200, 100, 0)
	res := RunBacktest(candles, SetupBreakout, 0, 0)
	if res.TotalOccurrences != 1 {
		t.Fatalf("expected 1 occurrence, got %+v", res)
	}
	if res.SuccessCount != 0 {
		t.Fatalf("unresolved trade must count as failure, got %+v", res)
	}
}

func TestRunBacktestRateBounds(t *testing.T) {
	for _, setup := range []SetupType{SetupBreakout, SetupBreakdown, SetupPullback} {
		res := RunBacktest(trendCandles(300, 50, 0.2, 100), setup, 0, 0)
		if res.SuccessRate < 0 || res.SuccessRate > 100 {
			t.Fatalf("%s: rate out of bounds: %d", setup, res.SuccessRate)
		}
	}
}

func TestEstimatorCachesResults(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	est := NewEstimator(WithCacheTTL(time.Minute), WithClock(clock))

	winning := spikeSeries(200, 100, 2)
	losing := spikeSeries(200, 100, -2)

	if r := est.SuccessRate("XPTO", winning, SetupBreakout); r.SuccessRate != 100 {
		t.Fatalf("expected 100, got %d", r.SuccessRate)
	}
	// same key inside the TTL returns the cached result even with new data
	if r := est.SuccessRate("XPTO", losing, SetupBreakout); r.SuccessRate != 100 {
		t.Fatalf("expected cached 100, got %d", r.SuccessRate)
	}

	est.Invalidate("XPTO", SetupBreakout)
	if r := est.SuccessRate("XPTO", losing, SetupBreakout); r.SuccessRate != 0 {
		t.Fatalf("expected recompute after invalidation, got %d", r.SuccessRate)
	}

	now = now.Add(2 * time.Minute)
	if r := est.SuccessRate("XPTO", winning, SetupBreakout); r.SuccessRate != 100 {
		t.Fatalf("expected recompute after TTL expiry, got %d", r.SuccessRate)
	}
}

func TestEstimatorInvalidateTicker(t *testing.T) {
	est := NewEstimator(WithCacheTTL(time.Hour))
	winning := spikeSeries(200, 100, 2)
	losing := spikeSeries(200, 100, -2)

	est.SuccessRate("XPTO", winning, SetupBreakout)
	est.InvalidateTicker("XPTO")
	if r := est.SuccessRate("XPTO", losing, SetupBreakout); r.SuccessRate != 0 {
		t.Fatalf("expected recompute after ticker invalidation, got %d", r.SuccessRate)
	}
}

func TestEstimatorCapacityEviction(t *testing.T) {
	est := NewEstimator(WithCacheTTL(time.Hour), WithCacheCapacity(1))
	winning := spikeSeries(200, 100, 2)
	losing := spikeSeries(200, 100, -2)

	est.SuccessRate("AAA", winning, SetupBreakout)
	est.SuccessRate("BBB", winning, SetupBreakout) // evicts AAA
	if r := est.SuccessRate("AAA", losing, SetupBreakout); r.SuccessRate != 0 {
		t.Fatalf("expected AAA evicted and recomputed, got %d", r.SuccessRate)
	}
}
