package models

// TradeRecord is one fill produced during a backtest run.
type TradeRecord struct {
	Date  string  `json:"date"`
	Side  string  `json:"side"`
	Qty   int64   `json:"qty"`
	Price float64 `json:"price"`
}

// BacktestResult is the full outcome of a strategy simulation. The
// per-bar slices are aligned with each other; Note carries a human
// readable degradation message when the run could not proceed normally.
type BacktestResult struct {
	Ticker         string        `json:"ticker"`
	Strategy       string        `json:"strategy"`
	Dates          []string      `json:"dates"`
	PortfolioValue []float64     `json:"portfolioValue"`
	BenchmarkValue []float64     `json:"benchmarkValue"`
	Returns        []float64     `json:"returns"`
	Trades         []TradeRecord `json:"trades"`
	TotalReturnPct float64       `json:"totalReturnPct"`
	MaxDrawdownPct float64       `json:"maxDrawdownPct"`
	WinRatePct     float64       `json:"winRatePct"`
	FinalValue     float64       `json:"finalValue"`
	Note           string        `json:"note,omitempty"`
}
