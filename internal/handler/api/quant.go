package api

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"QuantDesk/internal/domain/models"
	icache "QuantDesk/internal/service/cache"
	"QuantDesk/internal/service/metrics"
	"QuantDesk/internal/service/ratelimit"
	"QuantDesk/internal/usecase"
	xhttp "QuantDesk/pkg/http"
	xlogger "QuantDesk/pkg/logger"
)

const (
	payloadTTL = 60 * time.Second

	// simulation endpoints are CPU-bound, so they get a tighter budget
	simCapacity = 5
	simRefill   = 2
)

// QuantHandler exposes the analytics and paper trading surface over
// Echo. Read endpoints cache their serialized payloads; the simulation
// endpoints are rate limited per client.
type QuantHandler struct {
	logger  *xlogger.Logger
	market  *usecase.MarketUseCase
	analyze *usecase.AnalysisUseCase
	trading *usecase.TradingUseCase

	cache icache.BytesCache
	rl    *ratelimit.Limiter
}

func NewQuantHandler(
	logger *xlogger.Logger,
	market *usecase.MarketUseCase,
	analyze *usecase.AnalysisUseCase,
	trading *usecase.TradingUseCase,
	cache icache.BytesCache,
) *QuantHandler {
	metrics.Register()
	return &QuantHandler{
		logger:  logger,
		market:  market,
		analyze: analyze,
		trading: trading,
		cache:   cache,
		rl:      ratelimit.New(),
	}
}

func (h *QuantHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/bars", h.Bars)
	g.GET("/indicators", h.Indicators)
	g.GET("/sentiment", h.Sentiment)
	g.POST("/backtest", h.Backtest)
	g.POST("/forecast", h.Forecast)
	g.POST("/paper/order", h.PlaceOrder)
	g.GET("/paper/portfolio", h.Portfolio)
}

func (h *QuantHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *QuantHandler) Bars(c echo.Context) error {
	defer h.observe("bars", time.Now())

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := icache.Key("bars", req.Ticker, req.Start, req.End)
	if blob, ok := h.cached("bars", key); ok {
		return xhttp.SuccessResponse(c, blob)
	}

	res, err := h.market.GetBars(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "bars", err)
	}
	return xhttp.SuccessResponse(c, h.store("bars", key, res))
}

func (h *QuantHandler) Indicators(c echo.Context) error {
	defer h.observe("indicators", time.Now())

	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := icache.Key("indicators", req.Ticker, req.Start, req.End,
		strconv.Itoa(req.MAShort), strconv.Itoa(req.MALong),
		strconv.Itoa(req.RSIPeriod), strconv.Itoa(req.BBPeriod),
		strconv.Itoa(req.MACDFast), strconv.Itoa(req.MACDSlow))
	if blob, ok := h.cached("indicators", key); ok {
		return xhttp.SuccessResponse(c, blob)
	}

	res, err := h.market.GetIndicators(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "indicators", err)
	}
	return xhttp.SuccessResponse(c, h.store("indicators", key, res))
}

func (h *QuantHandler) Sentiment(c echo.Context) error {
	defer h.observe("sentiment", time.Now())

	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// The provider memoizes per ticker already, no payload cache here.
	snap := h.analyze.GetSentiment(c.Request().Context(), *req)
	return xhttp.SuccessResponse(c, snap)
}

func (h *QuantHandler) Backtest(c echo.Context) error {
	defer h.observe("backtest", time.Now())

	if !h.rl.Allow(c.RealIP()+":backtest", simCapacity, simRefill) {
		return xhttp.TooManyRequestsResponse(c)
	}

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyze.RunBacktest(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "backtest", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *QuantHandler) Forecast(c echo.Context) error {
	defer h.observe("forecast", time.Now())

	if !h.rl.Allow(c.RealIP()+":forecast", simCapacity, simRefill) {
		return xhttp.TooManyRequestsResponse(c)
	}

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyze.RunForecast(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "forecast", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *QuantHandler) PlaceOrder(c echo.Context) error {
	defer h.observe("paper_order", time.Now())

	req := &models.OrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.trading.PlaceOrder(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "paper_order", err)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *QuantHandler) Portfolio(c echo.Context) error {
	defer h.observe("paper_portfolio", time.Now())

	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, err := h.trading.GetPortfolio(c.Request().Context(), req.AccountID)
	if err != nil {
		return h.fail(c, "paper_portfolio", err)
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *QuantHandler) observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *QuantHandler) fail(c echo.Context, endpoint string, err error) error {
	metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

// cached fetches a previously serialized payload.
func (h *QuantHandler) cached(endpoint, key string) (json.RawMessage, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil || !ok {
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(endpoint).Inc()
	return json.RawMessage(b), true
}

// store serializes v into the payload cache and returns a raw message
// so the response bytes match the cached bytes exactly.
func (h *QuantHandler) store(endpoint, key string, v any) any {
	if h.cache == nil {
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	if err := h.cache.SetBytes(key, b, payloadTTL); err != nil {
		h.logger.Warn(endpoint+" payload cache write failed", xlogger.Error(err))
	}
	return json.RawMessage(b)
}
