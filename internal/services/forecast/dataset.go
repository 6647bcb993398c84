package forecast

import (
	"math"

	"QuantDesk/internal/domain/models"
)

// featureRow is one training example. BarIndex points at the bar the
// features were computed on, so predictions can be mapped back to
// prices and dates.
type featureRow struct {
	BarIndex int
	X        []float64 // intercept, r1, r5, r20, vol10, sentiment
	Target   float64
}

const featureWarmup = 30

// buildDataset derives return features and the forward return target
// from a close series. Rows exist for bars that have both a full
// lookback window and a bar `horizon` steps ahead.
func buildDataset(bars []models.Bar, horizon int, sentiment float64) []featureRow {
	closes := models.Closes(bars)
	var rows []featureRow
	for i := featureWarmup; i < len(closes)-horizon; i++ {
		x := []float64{
			1,
			closes[i]/closes[i-1] - 1,
			closes[i]/closes[i-5] - 1,
			closes[i]/closes[i-20] - 1,
			returnVolatility(closes, i-10, i),
			sentiment,
		}
		rows = append(rows, featureRow{
			BarIndex: i,
			X:        x,
			Target:   closes[i+horizon]/closes[i] - 1,
		})
	}
	return rows
}

// returnVolatility is the sample standard deviation of daily returns
// over the index window [start, end], clamped to valid bar indices.
func returnVolatility(closes []float64, start, end int) float64 {
	if start < 1 {
		start = 1
	}
	if end > len(closes)-1 {
		end = len(closes) - 1
	}
	n := end - start + 1
	if n < 2 {
		return 0
	}

	rets := make([]float64, 0, n)
	var mean float64
	for j := start; j <= end; j++ {
		r := closes[j]/closes[j-1] - 1
		rets = append(rets, r)
		mean += r
	}
	mean /= float64(len(rets))

	var sq float64
	for _, r := range rets {
		d := r - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(rets)-1))
}
