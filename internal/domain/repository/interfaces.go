package repository

import (
	"context"

	"TradeCompass/internal/domain/models"
)

// CandleSource provides read-only access to ordered candle series. Candles
// are returned ascending by date; the engine assumes well-formed input.
type CandleSource interface {
	GetLatestNCandles(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Candle, error)
}

// QuoteStream is a live tick feed for a fixed set of symbols.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalPublisher hands activated setups off to an external collaborator.
// Publishing is best-effort; analysis results never depend on it.
type SignalPublisher interface {
	Publish(ctx context.Context, ev *models.SignalEvent) error
	Close() error
}

// Metrics records operational metrics for the service.
type Metrics interface {
	RecordAnalysis(symbol, outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
