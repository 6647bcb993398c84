package models

import "time"

// CategoryScore pairs a news category with its sentiment score.
// Categories are kept as an ordered slice because the summary logic
// breaks score ties by category order.
type CategoryScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Headline is a synthetic news headline with its own sentiment score.
type Headline struct {
	Title  string  `json:"title"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// SentimentSnapshot is the sentiment picture for one ticker at one
// point in time. Scores are in [-1, 1].
type SentimentSnapshot struct {
	Ticker            string          `json:"ticker"`
	GeneratedAt       time.Time       `json:"generatedAt"`
	OverallScore      float64         `json:"overallScore"`
	Categories        []CategoryScore `json:"categories"`
	NewsVolume24h     int             `json:"newsVolume24h"`
	NegativeNewsRatio float64         `json:"negativeNewsRatio"`
	Headlines         []Headline      `json:"headlines"`
	Summary           string          `json:"summary"`
}
