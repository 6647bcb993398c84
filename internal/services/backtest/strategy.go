package backtest

import (
	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/services/indicators"
)

// Indicators holds the precomputed series a strategy may consult.
// They are computed once per run and shared across all bars.
type Indicators struct {
	MAShort    models.Series
	MALong     models.Series
	RSI        models.Series
	MACD       models.Series
	MACDSignal models.Series
}

func computeIndicators(bars []models.Bar) *Indicators {
	closes := models.Closes(bars)
	macd, signal, _ := indicators.MACD(closes, 12, 26)
	return &Indicators{
		MAShort:    indicators.SMA(closes, 20),
		MALong:     indicators.SMA(closes, 50),
		RSI:        indicators.RSI(closes, 14),
		MACD:       macd,
		MACDSignal: signal,
	}
}

// Strategy emits a per-bar recommendation. Implementations form a
// closed set; an unknown name falls back to the moving average rule.
type Strategy interface {
	Name() string
	Signal(i int, bars []models.Bar, ind *Indicators) models.Signal
}

// StrategyFor resolves a strategy by name. ok is false for names
// outside the known set.
func StrategyFor(name string) (Strategy, bool) {
	switch name {
	case "ma", "":
		return maStrategy{}, true
	case "rsi":
		return rsiStrategy{}, true
	case "macd":
		return macdStrategy{}, true
	case "ml", "momentum":
		return momentumStrategy{}, true
	}
	return maStrategy{}, false
}

type maStrategy struct{}

func (maStrategy) Name() string { return "ma" }

func (maStrategy) Signal(i int, _ []models.Bar, ind *Indicators) models.Signal {
	return indicators.CrossoverSignal(ind.MAShort, ind.MALong, i)
}

type rsiStrategy struct{}

func (rsiStrategy) Name() string { return "rsi" }

// The per-bar thresholds are inclusive so a touch of 30 or 70 acts.
func (rsiStrategy) Signal(i int, _ []models.Bar, ind *Indicators) models.Signal {
	v, ok := ind.RSI.At(i)
	if !ok {
		return models.SignalHold
	}
	if v <= 30 {
		return models.SignalBuy
	}
	if v >= 70 {
		return models.SignalSell
	}
	return models.SignalHold
}

type macdStrategy struct{}

func (macdStrategy) Name() string { return "macd" }

func (macdStrategy) Signal(i int, _ []models.Bar, ind *Indicators) models.Signal {
	return indicators.CrossoverSignal(ind.MACD, ind.MACDSignal, i)
}

// momentumStrategy trades on the trailing 20 bar return.
type momentumStrategy struct{}

func (momentumStrategy) Name() string { return "momentum" }

func (momentumStrategy) Signal(i int, bars []models.Bar, _ *Indicators) models.Signal {
	if i < 20 {
		return models.SignalHold
	}
	base := bars[i-20].Close
	if base <= 0 {
		return models.SignalHold
	}
	r := bars[i].Close/base - 1
	if r > 0.02 {
		return models.SignalBuy
	}
	if r < -0.02 {
		return models.SignalSell
	}
	return models.SignalHold
}
