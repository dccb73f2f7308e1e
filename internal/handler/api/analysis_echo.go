package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	models "TradeCompass/internal/domain/models"
	domrepo "TradeCompass/internal/domain/repository"
	"TradeCompass/internal/engine"
	enginemetrics "TradeCompass/internal/service/metrics"
	"TradeCompass/internal/service/ratelimit"
	"TradeCompass/internal/usecase"
	"TradeCompass/pkg/cache"
	xhttp "TradeCompass/pkg/http"
	xlogger "TradeCompass/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	defaultResponseTTL = 30 * time.Second
	limiterCapacity    = 30
	limiterRefill      = 10 // tokens per second per client
)

// AnalysisEchoHandler exposes the analysis engine over Echo.
type AnalysisEchoHandler struct {
	logger    *xlogger.Logger
	uc        *usecase.AnalysisUseCase
	collector *usecase.QuoteCollector
	cache     cache.BytesCache
	cacheTTL  time.Duration
	limiter   *ratelimit.Limiter
}

func NewAnalysisEchoHandler(
	logger *xlogger.Logger,
	uc *usecase.AnalysisUseCase,
	collector *usecase.QuoteCollector,
	respCache cache.BytesCache,
	respTTL time.Duration,
) *AnalysisEchoHandler {
	if respTTL <= 0 {
		respTTL = defaultResponseTTL
	}
	enginemetrics.Register()
	return &AnalysisEchoHandler{
		logger:    logger,
		uc:        uc,
		collector: collector,
		cache:     respCache,
		cacheTTL:  respTTL,
		limiter:   ratelimit.New(),
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/context", h.Context)
	g.GET("/setups", h.Setups)
	g.GET("/backtest", h.Backtest)
	g.GET("/pulse", h.Pulse)
	g.GET("/quote", h.Quote)
}

func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	start := time.Now()
	defer h.observe("analysis", start)

	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	key := cache.Key("analysis", req.Symbol, string(tf), strconv.Itoa(req.N))
	if ok := h.serveCached(c, key); ok {
		return nil
	}

	res, err := h.uc.GetAnalysis(c.Request().Context(), usecase.AnalysisParams{
		Symbol: req.Symbol, N: req.N, Timeframe: tf,
	})
	if err != nil {
		return h.fail(c, "analysis", err)
	}
	for _, s := range res.Setups {
		enginemetrics.SetupsDetected.WithLabelValues(s.ID, string(s.Status)).Inc()
	}
	h.storeCached(c, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Context(c echo.Context) error {
	start := time.Now()
	defer h.observe("context", start)

	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.ContextRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	key := cache.Key("context", req.Symbol, string(tf), strconv.Itoa(req.N))
	if ok := h.serveCached(c, key); ok {
		return nil
	}

	res, err := h.uc.GetContext(c.Request().Context(), usecase.AnalysisParams{
		Symbol: req.Symbol, N: req.N, Timeframe: tf,
	})
	if err != nil {
		return h.fail(c, "context", err)
	}
	h.storeCached(c, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Setups(c echo.Context) error {
	start := time.Now()
	defer h.observe("setups", start)

	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.uc.GetSetups(c.Request().Context(), usecase.AnalysisParams{
		Symbol: req.Symbol, N: req.N, Timeframe: tf,
	})
	if err != nil {
		return h.fail(c, "setups", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Backtest(c echo.Context) error {
	start := time.Now()
	defer h.observe("backtest", start)

	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	key := cache.Key("backtest", req.Symbol, req.Setup, string(tf), strconv.Itoa(req.N))
	if ok := h.serveCached(c, key); ok {
		return nil
	}

	res, err := h.uc.GetBacktest(c.Request().Context(), usecase.BacktestParams{
		Symbol: req.Symbol, Setup: engine.SetupType(req.Setup), N: req.N, Timeframe: tf,
	})
	if err != nil {
		return h.fail(c, "backtest", err)
	}
	h.storeCached(c, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Pulse(c echo.Context) error {
	start := time.Now()
	defer h.observe("pulse", start)

	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.PulseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.uc.GetPulse(c.Request().Context(), usecase.PulseParams{
		Symbol: req.Symbol, Period: req.Period, N: req.N, Timeframe: tf,
	})
	if err != nil {
		return h.fail(c, "pulse", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Quote(c echo.Context) error {
	start := time.Now()
	defer h.observe("quote", start)

	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.collector == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("quote stream disabled"))
	}
	q, ok := h.collector.Latest(req.Symbol)
	if !ok {
		return xhttp.NotFoundResponse(c, "no quote for "+req.Symbol)
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *AnalysisEchoHandler) allow(c echo.Context) bool {
	return h.limiter.Allow(c.RealIP(), limiterCapacity, limiterRefill)
}

func (h *AnalysisEchoHandler) observe(endpoint string, start time.Time) {
	enginemetrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *AnalysisEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	enginemetrics.EngineErrors.WithLabelValues(endpoint).Inc()
	if errors.Is(err, engine.ErrInsufficientData) {
		h.logger.Warn(endpoint+" insufficient data", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_INSUFFICIENT_DATA",
			Field:   "n",
			Message: err.Error(),
		}})
	}
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

// serveCached writes a cached envelope body if present.
func (h *AnalysisEchoHandler) serveCached(c echo.Context, key string) bool {
	if h.cache == nil {
		return false
	}
	b, ok, err := h.cache.GetBytes(c.Request().Context(), key)
	if err != nil || !ok {
		return false
	}
	var data json.RawMessage = b
	if err := xhttp.SuccessResponse(c, data); err != nil {
		return false
	}
	return true
}

func (h *AnalysisEchoHandler) storeCached(c echo.Context, key string, data interface{}) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	_ = h.cache.SetBytes(c.Request().Context(), key, b, h.cacheTTL)
}
