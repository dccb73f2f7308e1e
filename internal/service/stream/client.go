package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"TradeCompass/internal/domain/models"
	drepo "TradeCompass/internal/domain/repository"
	"TradeCompass/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	quoteBuffer = 1024
	dropLogStep = 500 // log every N dropped ticks
)

// Client implements a QuoteStream backed by a provider WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	dropped atomic.Int64
}

// New creates a new quote stream client.
func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, l *logger.Logger) drepo.QuoteStream {
	if l == nil {
		l = logger.Nop()
	}
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            l,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.apiKey != "" {
		u = fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.log.Info("quote stream connected", logger.String("url", c.websocketURL))
	return nil
}

// Subscribe subscribes to configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	conn := c.current()
	if conn == nil {
		return fmt.Errorf("stream not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
	}
	c.log.Info("quote stream subscribed", logger.Strings("symbols", c.symbols))
	return nil
}

type wsTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string   `json:"type"`
	Data []wsTick `json:"data"`
}

// Read streams Quote events and errors. The quote channel is buffered; when
// the consumer falls behind, ticks are dropped rather than blocking the read
// loop, and drops are counted and logged in batches.
func (c *Client) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	quotes := make(chan *models.Quote, quoteBuffer)
	errs := make(chan error, 1)
	go c.pingLoop(ctx)
	go c.readLoop(ctx, quotes, errs)
	return quotes, errs
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn := c.current()
			if conn == nil {
				continue
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Warn("quote stream ping failed", logger.Error(err))
			}
		}
	}
}

func (c *Client) readLoop(ctx context.Context, quotes chan<- *models.Quote, errs chan<- error) {
	defer close(quotes)
	defer close(errs)
	for ctx.Err() == nil {
		conn := c.current()
		if conn == nil {
			errs <- fmt.Errorf("quote stream not connected")
			return
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			errs <- fmt.Errorf("stream read: %w", err)
			return
		}
		c.dispatch(quotes, frame)
	}
}

// dispatch decodes one frame and fans its ticks into the quote channel,
// dropping on backpressure.
func (c *Client) dispatch(quotes chan<- *models.Quote, frame []byte) {
	var m wsMessage
	if err := json.Unmarshal(frame, &m); err != nil || m.Type != "trade" {
		return
	}
	for _, d := range m.Data {
		q := &models.Quote{Symbol: d.S, Timestamp: d.T / 1000, Price: d.P, Volume: d.V}
		select {
		case quotes <- q:
		default:
			if n := c.dropped.Add(1); n%dropLogStep == 1 {
				c.log.Warn("quote stream consumer behind, dropping ticks",
					logger.Int64("droppedTotal", n))
			}
		}
	}
}

// Dropped reports how many ticks were discarded under backpressure.
func (c *Client) Dropped() int64 { return c.dropped.Load() }

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.reconnectDelay):
	}
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
