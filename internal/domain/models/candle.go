package models

// Candle represents one OHLCV bar as delivered by the market-data provider.
// Date is a calendar date ("2024-10-10") for daily bars or an RFC3339 instant
// for intraday bars; a series is always ordered ascending by Date.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Quote is a single streamed tick for a symbol.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"` // unix seconds
}
