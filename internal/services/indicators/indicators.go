package indicators

import (
	"math"

	"QuantDesk/internal/domain/models"
)

// SMA computes the simple moving average with a running window sum.
// Points before the window fills are undefined. A period of one or
// less passes the input through unchanged.
func SMA(values []float64, period int) models.Series {
	out := make(models.Series, len(values))
	if period <= 1 {
		for i, v := range values {
			out[i] = models.Val(v)
		}
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = models.Val(sum / float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average over a possibly gappy
// series. The average seeds at the first defined point; an undefined
// input after seeding holds the previous average.
func EMA(values models.Series, period int) models.Series {
	out := make(models.Series, len(values))
	if period < 1 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1.0)
	var ema float64
	seeded := false
	for i := range values {
		v, ok := values.At(i)
		switch {
		case !seeded && !ok:
			continue
		case !seeded:
			ema = v
			seeded = true
		case ok:
			ema = alpha*v + (1-alpha)*ema
		}
		out[i] = models.Val(ema)
	}
	return out
}

// EMAFloats is EMA over an all-defined input.
func EMAFloats(values []float64, period int) models.Series {
	s := make(models.Series, len(values))
	for i, v := range values {
		s[i] = models.Val(v)
	}
	return EMA(s, period)
}

// RSI computes Wilder's relative strength index. The first `period`
// points are undefined; fewer than period+1 inputs yield an entirely
// undefined series. A zero average loss pins the index at 100.
func RSI(values []float64, period int) models.Series {
	out := make(models.Series, len(values))
	if period < 1 || len(values) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		diff := values[i] - values[i-1]
		if diff > 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = models.Val(rsiFrom(avgGain, avgLoss))

	for i := period + 1; i < len(values); i++ {
		diff := values[i] - values[i-1]
		var gain, loss float64
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = models.Val(rsiFrom(avgGain, avgLoss))
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Bollinger computes the middle SMA band with upper and lower bands at
// two population standard deviations. A period of one or less collapses
// all three bands onto the raw series.
func Bollinger(values []float64, period int) (upper, middle, lower models.Series) {
	middle = SMA(values, period)
	upper = make(models.Series, len(values))
	lower = make(models.Series, len(values))
	if period <= 1 {
		copy(upper, middle)
		copy(lower, middle)
		return upper, middle, lower
	}

	for i := period - 1; i < len(values); i++ {
		mean, _ := middle.At(i)
		var sq float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(period))
		upper[i] = models.Val(mean + 2*sd)
		lower[i] = models.Val(mean - 2*sd)
	}
	return upper, middle, lower
}

// MACD computes the MACD line, its signal line and the histogram.
// The MACD line is defined only where both underlying EMAs are; the
// signal line is a nine period EMA of the MACD line.
func MACD(values []float64, fast, slow int) (macd, signal, hist models.Series) {
	emaFast := EMAFloats(values, fast)
	emaSlow := EMAFloats(values, slow)

	macd = make(models.Series, len(values))
	for i := range values {
		f, okF := emaFast.At(i)
		s, okS := emaSlow.At(i)
		if okF && okS {
			macd[i] = models.Val(f - s)
		}
	}

	signal = EMA(macd, 9)

	hist = make(models.Series, len(values))
	for i := range values {
		m, okM := macd.At(i)
		s, okS := signal.At(i)
		if okM && okS {
			hist[i] = models.Val(m - s)
		}
	}
	return macd, signal, hist
}

// CrossoverSignal reports whether fast crossed above or below slow at
// index i. Any undefined operand means Hold.
func CrossoverSignal(fast, slow models.Series, i int) models.Signal {
	f0, ok1 := fast.At(i - 1)
	s0, ok2 := slow.At(i - 1)
	f1, ok3 := fast.At(i)
	s1, ok4 := slow.At(i)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.SignalHold
	}
	if f0 <= s0 && f1 > s1 {
		return models.SignalBuy
	}
	if f0 >= s0 && f1 < s1 {
		return models.SignalSell
	}
	return models.SignalHold
}

// RSISignal maps the latest defined RSI value to a recommendation
// with the conventional 30/70 thresholds.
func RSISignal(rsi models.Series) models.Signal {
	v, ok := rsi.Last()
	if !ok {
		return models.SignalHold
	}
	if v < 30 {
		return models.SignalBuy
	}
	if v > 70 {
		return models.SignalSell
	}
	return models.SignalHold
}
