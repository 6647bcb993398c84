package models

// ForecastResult holds the evaluation of a fitted model on held-out
// bars plus a short forward projection. Chart slices are aligned;
// Note explains degradations such as model substitution or thin data.
type ForecastResult struct {
	Ticker    string `json:"ticker"`
	ModelType string `json:"modelType"`
	Horizon   int    `json:"horizon"`

	MAE                 float64 `json:"mae"`
	RMSE                float64 `json:"rmse"`
	R2                  float64 `json:"r2"`
	DirectionalAccuracy float64 `json:"directionalAccuracy"`

	Dates          []string  `json:"dates"`
	ActualPrice    []float64 `json:"actualPrice"`
	PredictedPrice []float64 `json:"predictedPrice"`

	FutureDates  []string  `json:"futureDates"`
	FuturePrices []float64 `json:"futurePrices"`

	Note string `json:"note,omitempty"`
}
