package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/pkg/logger"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return NewEngine(log)
}

func mkBars(closes []float64) []models.Bar {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Time: day.AddDate(0, 0, i), Close: c}
	}
	return bars
}

// steadyGrowth compounds a fixed daily return.
func steadyGrowth(n int, daily float64) []float64 {
	out := make([]float64, n)
	p := 100.0
	for i := range out {
		out[i] = p
		p *= 1 + daily
	}
	return out
}

func TestSolveNormalRecoversWeights(t *testing.T) {
	// y = 2 + 3a - b over a small grid.
	var X [][]float64
	var y []float64
	for a := 0.0; a < 4; a++ {
		for b := 0.0; b < 4; b++ {
			X = append(X, []float64{1, a, b})
			y = append(y, 2+3*a-b)
		}
	}

	w := solveNormal(X, y)
	require.Len(t, w, 3)
	assert.InDelta(t, 2.0, w[0], 1e-9)
	assert.InDelta(t, 3.0, w[1], 1e-9)
	assert.InDelta(t, -1.0, w[2], 1e-9)
}

func TestSolveNormalSingularReturnsZero(t *testing.T) {
	// Duplicate columns make the normal matrix singular.
	X := [][]float64{{1, 2, 2}, {1, 3, 3}, {1, 4, 4}}
	y := []float64{1, 2, 3}

	w := solveNormal(X, y)
	assert.Equal(t, []float64{0, 0, 0}, w)
}

func TestReturnVolatility(t *testing.T) {
	closes := []float64{100, 110, 99, 108.9}
	// Returns are +10%, -10%, +10%; sample stddev of {.1,-.1,.1}.
	got := returnVolatility(closes, 1, 3)
	assert.InDelta(t, 0.11547, got, 1e-4)

	// Window clamped below a usable span.
	assert.Equal(t, 0.0, returnVolatility(closes, 0, 1))
}

func TestBuildDataset(t *testing.T) {
	closes := steadyGrowth(100, 0.001)
	rows := buildDataset(mkBars(closes), 5, 0.25)

	// Rows cover [30, 95).
	require.Len(t, rows, 65)
	assert.Equal(t, 30, rows[0].BarIndex)
	assert.Equal(t, 94, rows[len(rows)-1].BarIndex)

	r := rows[0]
	require.Len(t, r.X, 6)
	assert.Equal(t, 1.0, r.X[0])
	assert.InDelta(t, 0.001, r.X[1], 1e-9)
	assert.InDelta(t, math.Pow(1.001, 5)-1, r.X[2], 1e-9)
	assert.InDelta(t, math.Pow(1.001, 20)-1, r.X[3], 1e-9)
	assert.InDelta(t, 0.0, r.X[4], 1e-9)
	assert.Equal(t, 0.25, r.X[5])
	assert.InDelta(t, math.Pow(1.001, 5)-1, r.Target, 1e-9)
}

func TestForecastTooFewBars(t *testing.T) {
	res := testEngine(t).Forecast(context.Background(), "aapl", mkBars(steadyGrowth(79, 0.001)), domsvc.ForecastParams{
		ModelType: "linear_regression", Horizon: 5, TestSize: 0.2,
	})
	assert.Equal(t, "insufficient data for forecast", res.Note)
	assert.Empty(t, res.Dates)
}

func TestForecastLSTMSubstituted(t *testing.T) {
	res := testEngine(t).Forecast(context.Background(), "aapl", mkBars(steadyGrowth(50, 0.001)), domsvc.ForecastParams{
		ModelType: "lstm", Horizon: 5, TestSize: 0.2,
	})
	// Too little data, but the substitution is decided up front.
	assert.Equal(t, "insufficient data for forecast", res.Note)
	assert.Equal(t, "linear_regression", res.ModelType)
}

func TestForecastRandomForestKeepsLabel(t *testing.T) {
	// random_forest is fitted as linear regression but the requested
	// label is preserved in the result.
	res := testEngine(t).Forecast(context.Background(), "aapl", mkBars(steadyGrowth(150, 0.001)), domsvc.ForecastParams{
		ModelType: "Random_Forest", Horizon: 5, TestSize: 0.2,
	})
	assert.Equal(t, "random_forest", res.ModelType)
	assert.NotEmpty(t, res.Dates)
	assert.Len(t, res.FutureDates, 5)
}

func TestForecastDegenerateSeries(t *testing.T) {
	// Constant growth makes every feature column constant, which is
	// collinear with the intercept; the fit degrades to zero weights.
	closes := steadyGrowth(150, 0.001)
	res := testEngine(t).Forecast(context.Background(), "aapl", mkBars(closes), domsvc.ForecastParams{
		ModelType: "linear_regression", Horizon: 5, TestSize: 0.2,
	})

	assert.Empty(t, res.Note)
	assert.Equal(t, 0.0, res.R2)
	// Zero predictions still call the direction of an always-up series.
	assert.Equal(t, 1.0, res.DirectionalAccuracy)
	assert.InDelta(t, math.Pow(1.001, 5)-1, res.MAE, 1e-9)

	require.NotEmpty(t, res.Dates)
	assert.Len(t, res.FutureDates, 5)
	assert.Len(t, res.FuturePrices, 5)
	// Zero weights predict a flat continuation from the last close.
	lastClose := closes[len(closes)-1]
	assert.InDelta(t, lastClose, res.FuturePrices[0], 0.005)
	assert.Equal(t, "2024-05-30", res.FutureDates[0])
}

func TestForecastChartAlignment(t *testing.T) {
	closes := steadyGrowth(150, 0.001)
	bars := mkBars(closes)
	res := testEngine(t).Forecast(context.Background(), "aapl", bars, domsvc.ForecastParams{
		ModelType: "linear_regression", Horizon: 5, TestSize: 0.2,
	})

	require.NotEmpty(t, res.ActualPrice)
	require.Len(t, res.PredictedPrice, len(res.ActualPrice))
	require.Len(t, res.Dates, len(res.ActualPrice))
	// Chart rows carry the feature bar's date; the last feature row is
	// horizon bars before the end of the series.
	assert.Equal(t, "2024-05-24", res.Dates[len(res.Dates)-1])
	// Its actual price is the realized close of the final bar.
	last := len(res.ActualPrice) - 1
	assert.InDelta(t, closes[len(closes)-1], res.ActualPrice[last], 0.005)
}

func TestNoiseFreeFitScoresPerfectly(t *testing.T) {
	// Targets are an exact linear function of the features, so the
	// held-out evaluation should report an essentially perfect model.
	var X [][]float64
	var y []float64
	for a := 0.0; a < 5; a++ {
		for b := 0.0; b < 5; b++ {
			X = append(X, []float64{1, a, b})
			y = append(y, 0.05+0.02*a-0.03*b)
		}
	}
	train, test := X[:18], X[18:]
	w := solveNormal(train, y[:18])

	preds := make([]float64, len(test))
	for i, row := range test {
		preds[i] = dot(w, row)
	}

	mae, rmse, r2, dirAcc := evaluate(y[18:], preds)
	assert.InDelta(t, 0.0, mae, 1e-9)
	assert.InDelta(t, 0.0, rmse, 1e-9)
	assert.InDelta(t, 1.0, r2, 1e-9)
	assert.Equal(t, 1.0, dirAcc)
}
