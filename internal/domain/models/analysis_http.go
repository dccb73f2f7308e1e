package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency
// and reuse between handlers.

type AnalysisRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=85,lte=2000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1d 1wk 1mo"`
}

type ContextRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=50,lte=2000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1d 1wk 1mo"`
}

type BacktestRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Setup  string `query:"setup" json:"setup" validate:"required,oneof=breakout breakdown pullback"`
	N      int    `query:"n" json:"n" default:"500" validate:"gte=85,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1d 1wk 1mo"`
}

type PulseRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Period int    `query:"period" json:"period" default:"14" validate:"gte=2,lte=100"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=30,lte=2000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1d 1wk 1mo"`
}

type QuoteRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}
