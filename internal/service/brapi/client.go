package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"TradeCompass/internal/domain/models"
	drepo "TradeCompass/internal/domain/repository"
	"TradeCompass/pkg/cache"
	phttp "TradeCompass/pkg/http"
	"TradeCompass/pkg/logger"
	"TradeCompass/pkg/util"
)

// Client fetches historical candles from the brapi quote API and caches
// the decoded series so repeated analyses of the same ticker stay cheap.
type Client struct {
	baseURL  string
	apiToken string
	http     *phttp.Client
	cache    cache.BytesCache
	cacheTTL time.Duration
	log      *logger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithCache sets the candle cache and its TTL.
func WithCache(c cache.BytesCache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithToken sets the API token.
func WithToken(token string) Option {
	return func(cl *Client) { cl.apiToken = token }
}

// WithHTTPClient overrides the outbound HTTP client.
func WithHTTPClient(h *phttp.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// New creates a brapi-backed CandleSource.
func New(baseURL string, log *logger.Logger, opts ...Option) drepo.CandleSource {
	c := &Client{
		baseURL:  baseURL,
		http:     phttp.NewClient(),
		cacheTTL: 5 * time.Minute,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type historicalPrice struct {
	Date   int64   `json:"date"` // unix seconds
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type quoteResult struct {
	Symbol     string            `json:"symbol"`
	Historical []historicalPrice `json:"historicalDataPrice"`
}

type quoteResponse struct {
	Results []quoteResult `json:"results"`
	Error   bool          `json:"error"`
	Message string        `json:"message"`
}

// GetLatestNCandles returns the most recent n candles for symbol, ascending
// by date. Returns fewer than n when the provider has less history.
func (c *Client) GetLatestNCandles(ctx context.Context, symbol string, n int, tf drepo.Timeframe) ([]models.Candle, error) {
	symbol = util.NormalizeTicker(symbol)
	key := cache.Key("candles", symbol, string(tf), strconv.Itoa(n))

	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(ctx, key); err == nil && ok {
			var cached []models.Candle
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	candles, err := c.fetch(ctx, symbol, n, tf)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if b, err := json.Marshal(candles); err == nil {
			_ = c.cache.SetBytes(ctx, key, b, c.cacheTTL)
		}
	}
	return candles, nil
}

func (c *Client) fetch(ctx context.Context, symbol string, n int, tf drepo.Timeframe) ([]models.Candle, error) {
	url := fmt.Sprintf("%s/api/quote/%s", c.baseURL, symbol)
	query := map[string]string{
		"range":    rangeFor(n, tf),
		"interval": string(tf),
	}
	if c.apiToken != "" {
		query["token"] = c.apiToken
	}

	var resp quoteResponse
	if err := c.http.GetJSON(ctx, url, query, nil, &resp); err != nil {
		return nil, fmt.Errorf("brapi fetch %s: %w", symbol, err)
	}
	if resp.Error {
		return nil, fmt.Errorf("brapi fetch %s: %s", symbol, resp.Message)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("brapi fetch %s: empty results", symbol)
	}

	hist := resp.Results[0].Historical
	sort.Slice(hist, func(i, j int) bool { return hist[i].Date < hist[j].Date })

	candles := make([]models.Candle, 0, len(hist))
	for _, h := range hist {
		if h.Close <= 0 {
			continue
		}
		candles = append(candles, models.Candle{
			Date:   util.FormatCandleDate(time.Unix(h.Date, 0)),
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	c.log.Debug("fetched candles",
		logger.String("symbol", symbol),
		logger.Int("count", len(candles)))
	return candles, nil
}

// rangeFor maps a candle count and timeframe to the provider's range values.
func rangeFor(n int, tf drepo.Timeframe) string {
	switch tf {
	case drepo.TF1wk:
		if n <= 104 {
			return "2y"
		}
		return "5y"
	case drepo.TF1mo:
		if n <= 60 {
			return "5y"
		}
		return "10y"
	default:
		switch {
		case n <= 65:
			return "3mo"
		case n <= 130:
			return "6mo"
		case n <= 260:
			return "1y"
		case n <= 520:
			return "2y"
		default:
			return "5y"
		}
	}
}
