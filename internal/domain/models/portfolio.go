package models

import "time"

// Position is one open paper holding. AvgCost is the volume-weighted
// average entry price; the market fields are refreshed on read.
type Position struct {
	Ticker        string  `json:"ticker"`
	Qty           int64   `json:"qty"`
	AvgCost       float64 `json:"avgCost"`
	MarketPrice   float64 `json:"marketPrice"`
	MarketValue   float64 `json:"marketValue"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
}

// OrderRecord is an executed paper order.
type OrderRecord struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Ticker string    `json:"ticker"`
	Side   string    `json:"side"`
	Qty    int64     `json:"qty"`
	Price  float64   `json:"price"`
	Total  float64   `json:"total"`
}

// Portfolio is the paper trading state for one account.
type Portfolio struct {
	AccountID   string              `json:"accountId"`
	CashBalance float64             `json:"cashBalance"`
	Positions   map[string]Position `json:"positions"`
	Orders      []OrderRecord       `json:"orders"`
	TotalValue  float64             `json:"totalValue"`
}

// OrderOutcome reports whether an order executed and why not if it
// did not. Rejections are outcomes, never errors.
type OrderOutcome struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	OrderID string  `json:"orderId,omitempty"`
	Ticker  string  `json:"ticker"`
	Side    string  `json:"side"`
	Qty     int64   `json:"qty"`
	Price   float64 `json:"price,omitempty"`
	Total   float64 `json:"total,omitempty"`
	Balance float64 `json:"balance"`
}
