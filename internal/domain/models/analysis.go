package models

import "time"

// Trend classifies the prevailing direction of a candle series.
type Trend string

const (
	TrendAlta    Trend = "Alta"
	TrendBaixa   Trend = "Baixa"
	TrendLateral Trend = "Lateral"
)

// VolumeLevel classifies the latest volume against its recent average.
type VolumeLevel string

const (
	VolumeAbaixo VolumeLevel = "Abaixo"
	VolumeNormal VolumeLevel = "Normal"
	VolumeAcima  VolumeLevel = "Acima"
)

// VolatilityLevel classifies ATR% into coarse buckets.
type VolatilityLevel string

const (
	VolatilityBaixa VolatilityLevel = "Baixa"
	VolatilityMedia VolatilityLevel = "Media"
	VolatilityAlta  VolatilityLevel = "Alta"
)

// Context is the derived market context for a symbol. It has no identity and
// is recomputed on every analysis call.
type Context struct {
	Trend      Trend           `json:"trend"`
	Volume     VolumeLevel     `json:"volume"`
	Volatility VolatilityLevel `json:"volatility"`
}

// SetupStatus is the evaluation state of a setup detector.
type SetupStatus string

const (
	StatusAtivo      SetupStatus = "ATIVO"
	StatusEmFormacao SetupStatus = "EM_FORMACAO"
	StatusInvalido   SetupStatus = "INVALIDO"
)

// RiskLevel grades a setup's risk from volatility and volume conditions.
type RiskLevel string

const (
	RiskBaixo    RiskLevel = "Baixo"
	RiskModerado RiskLevel = "Moderado"
	RiskAlto     RiskLevel = "Alto"
)

// SetupResult is one detector's finding for a ticker at the latest candle.
// Meta values are rounded to 2 decimal places before being set.
type SetupResult struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Status         SetupStatus        `json:"status"`
	SuccessRate    int                `json:"successRate"`
	Risk           RiskLevel          `json:"risk"`
	StopSuggestion string             `json:"stopSuggestion"`
	TargetNote     string             `json:"targetNote"`
	Explanation    string             `json:"explanation"`
	Signals        []string           `json:"signals"`
	Meta           map[string]float64 `json:"meta"`
}

// BacktestResult summarizes how often a setup resolved in its favor
// historically. SuccessRate is an integer percent; 50 is the explicit
// "no data" placeholder when TotalOccurrences is zero.
type BacktestResult struct {
	TotalOccurrences int `json:"totalOccurrences"`
	SuccessCount     int `json:"successCount"`
	SuccessRate      int `json:"successRate"`
}

// Zone is the engine's final categorical recommendation.
type Zone string

const (
	ZoneFavoravel Zone = "FAVORAVEL"
	ZoneNeutra    Zone = "NEUTRA"
	ZoneRisco     Zone = "RISCO"
)

// DecisionZone combines context and setups into a recommendation. Message is
// rotated daily from a fixed list per zone; Reasons are deterministic.
type DecisionZone struct {
	Zone    Zone     `json:"zone"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons"`
}

// Analysis is the full engine output for one symbol.
type Analysis struct {
	Ticker       string        `json:"ticker"`
	Context      Context       `json:"context"`
	Setups       []SetupResult `json:"setups"`
	DecisionZone DecisionZone  `json:"decisionZone"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// PulsePoint is one mystic-pulse oscillator sample for charting.
type PulsePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SignalEvent is the hand-off record published when a setup activates. The
// historical-signal store consuming these events is an external collaborator.
type SignalEvent struct {
	Ticker     string      `json:"ticker"`
	SetupType  string      `json:"setup_type"`
	Timeframe  string      `json:"timeframe"`
	SignalTime string      `json:"signal_time"`
	Status     SetupStatus `json:"status"`
	Close      float64     `json:"close"`
	Stop       string      `json:"stop"`
	EmittedAt  time.Time   `json:"emitted_at"`
}
