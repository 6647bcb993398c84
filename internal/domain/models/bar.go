package models

import "time"

// Bar is a single OHLCV bar. Time is always UTC midnight of the
// trading day; Timeframe labels the bar interval, "1d" for daily.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Time      time.Time `json:"time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	Timeframe string    `json:"timeframe"`
}

// Closes extracts the close series from a slice of bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
