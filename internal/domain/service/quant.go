package service

import (
	"context"
	"time"

	"QuantDesk/internal/domain/models"
)

// IndicatorParams selects the window sizes for an indicator report.
type IndicatorParams struct {
	MAShort   int
	MALong    int
	RSIPeriod int
	BBPeriod  int
	MACDFast  int
	MACDSlow  int
}

// IndicatorEngine computes technical indicator series over close prices.
type IndicatorEngine interface {
	Report(bars []models.Bar, p IndicatorParams) models.IndicatorBundle
}

// SentimentProvider produces the sentiment snapshot for a ticker.
type SentimentProvider interface {
	Snapshot(ctx context.Context, ticker string) models.SentimentSnapshot
}

// BacktestParams are the knobs of a strategy simulation. Values outside
// their sane ranges are clamped, not rejected.
type BacktestParams struct {
	Strategy       string
	InitialCapital float64
	PositionPct    float64
	StopLoss       float64
	TakeProfit     float64
	Commission     float64
}

// BacktestEngine replays a strategy over historical bars.
type BacktestEngine interface {
	Run(ctx context.Context, ticker string, bars []models.Bar, p BacktestParams) models.BacktestResult
}

// ForecastParams configure a model fit and forward projection.
type ForecastParams struct {
	ModelType string
	Horizon   int
	TestSize  float64
	Sentiment float64
}

// ForecastModel fits a return model on historical bars and projects
// prices over the horizon.
type ForecastModel interface {
	Forecast(ctx context.Context, ticker string, bars []models.Bar, p ForecastParams) models.ForecastResult
}

// PaperTradingLedger executes paper orders against real latest prices
// and the shared account balance.
type PaperTradingLedger interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderOutcome, error)
	Portfolio(ctx context.Context, accountID string) (models.Portfolio, error)
}

// Clock abstracts time for services whose output depends on the
// current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return ClockFunc(time.Now) }
