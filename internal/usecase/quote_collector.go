package usecase

import (
	"context"
	"sync"

	"TradeCompass/internal/domain/models"
	drepo "TradeCompass/internal/domain/repository"
	"TradeCompass/internal/engine"
)

// QuoteCollector consumes the live quote stream, keeps the latest quote per
// symbol, and invalidates cached backtests when new prices arrive.
type QuoteCollector struct {
	stream    drepo.QuoteStream
	metrics   drepo.Metrics
	estimator *engine.Estimator

	mu     sync.RWMutex
	latest map[string]*models.Quote
}

// NewQuoteCollector creates a new QuoteCollector instance.
func NewQuoteCollector(stream drepo.QuoteStream, metrics drepo.Metrics, estimator *engine.Estimator) *QuoteCollector {
	return &QuoteCollector{
		stream:    stream,
		metrics:   metrics,
		estimator: estimator,
		latest:    make(map[string]*models.Quote),
	}
}

// IsConnected returns true if the quote stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			c.store(q)
			c.metrics.RecordLastPrice(q.Symbol, q.Price)
		}
	}
}

func (c *QuoteCollector) store(q *models.Quote) {
	c.mu.Lock()
	prev := c.latest[q.Symbol]
	c.latest[q.Symbol] = q
	c.mu.Unlock()

	// a fresh price means cached success rates may be stale
	if c.estimator != nil && (prev == nil || prev.Price != q.Price) {
		c.estimator.InvalidateTicker(q.Symbol)
	}
}

// Latest returns the most recent quote for symbol, if any.
func (c *QuoteCollector) Latest(symbol string) (*models.Quote, bool) {
	c.mu.RLock()
	q, ok := c.latest[symbol]
	c.mu.RUnlock()
	return q, ok
}

// Stop closes the stream.
func (c *QuoteCollector) Stop() error { return c.stream.Close() }
