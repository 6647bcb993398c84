package models

// IndicatorBundle is the full indicator report for one close series.
// Every series is aligned index-for-index with the input bars.
type IndicatorBundle struct {
	Dates      []string  `json:"dates"`
	Close      []float64 `json:"close"`
	MAShort    Series    `json:"maShort"`
	MALong     Series    `json:"maLong"`
	EMA        Series    `json:"ema"`
	RSI        Series    `json:"rsi"`
	BBUpper    Series    `json:"bbUpper"`
	BBMiddle   Series    `json:"bbMiddle"`
	BBLower    Series    `json:"bbLower"`
	MACD       Series    `json:"macd"`
	MACDSignal Series    `json:"macdSignal"`
	MACDHist   Series    `json:"macdHist"`

	LatestSignals LatestSignals `json:"latestSignals"`
}

// LatestSignals summarises the most recent bar's recommendation per rule.
type LatestSignals struct {
	MA   Signal `json:"ma"`
	RSI  Signal `json:"rsi"`
	MACD Signal `json:"macd"`
}
