package models

// Request DTOs for the HTTP API. Defaults are applied by the request
// reader before validation, so a zero query string still yields a
// usable request.

type BarsRequest struct {
	Ticker string `query:"ticker" validate:"required,min=1,max=16"`
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

type IndicatorsRequest struct {
	Ticker    string `query:"ticker" validate:"required,min=1,max=16"`
	Start     string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End       string `query:"end" validate:"omitempty,datetime=2006-01-02"`
	MAShort   int    `query:"ma_short" default:"20" validate:"gte=1,lte=200"`
	MALong    int    `query:"ma_long" default:"50" validate:"gte=1,lte=400"`
	RSIPeriod int    `query:"rsi_period" default:"14" validate:"gte=2,lte=100"`
	BBPeriod  int    `query:"bb_period" default:"20" validate:"gte=1,lte=200"`
	MACDFast  int    `query:"macd_fast" default:"12" validate:"gte=1,lte=100"`
	MACDSlow  int    `query:"macd_slow" default:"26" validate:"gte=2,lte=200"`
}

type SentimentRequest struct {
	Ticker string `query:"ticker" validate:"required,min=1,max=16"`
}

type ForecastRequest struct {
	Ticker    string  `json:"ticker" validate:"required,min=1,max=16"`
	ModelType string  `json:"modelType" default:"linear_regression"`
	Horizon   int     `json:"horizon" default:"5" validate:"gte=1,lte=30"`
	TestSize  float64 `json:"testSize" default:"0.2" validate:"gte=0,lte=1"`
	Start     string  `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End       string  `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

type BacktestRequest struct {
	Ticker         string  `json:"ticker" validate:"required,min=1,max=16"`
	Strategy       string  `json:"strategy" default:"ma" validate:"oneof=ma rsi macd ml momentum"`
	Start          string  `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End            string  `json:"end" validate:"omitempty,datetime=2006-01-02"`
	InitialCapital float64 `json:"initialCapital" default:"10000"`
	PositionPct    float64 `json:"positionPct" default:"1"`
	StopLoss       float64 `json:"stopLoss"`
	TakeProfit     float64 `json:"takeProfit"`
	Commission     float64 `json:"commission"`
}

type OrderRequest struct {
	AccountID string `json:"accountId" validate:"required,min=1,max=64"`
	Ticker    string `json:"ticker" validate:"required,min=1,max=16"`
	Side      string `json:"side" validate:"required,oneof=buy sell"`
	Qty       int64  `json:"qty" validate:"required,gt=0"`
}

type PortfolioRequest struct {
	AccountID string `query:"account_id" validate:"required,min=1,max=64"`
}
