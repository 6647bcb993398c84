package indicators

import (
	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/pkg/util"
)

// Engine assembles the full indicator report for a close series.
type Engine struct{}

var _ domsvc.IndicatorEngine = (*Engine)(nil)

func NewEngine() *Engine { return &Engine{} }

func (e *Engine) Report(bars []models.Bar, p domsvc.IndicatorParams) models.IndicatorBundle {
	closes := models.Closes(bars)
	dates := make([]string, len(bars))
	for i, b := range bars {
		dates[i] = util.FormatDate(b.Time)
	}

	maShort := SMA(closes, p.MAShort)
	maLong := SMA(closes, p.MALong)
	rsi := RSI(closes, p.RSIPeriod)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, p.BBPeriod)
	macd, signal, hist := MACD(closes, p.MACDFast, p.MACDSlow)

	b := models.IndicatorBundle{
		Dates:      dates,
		Close:      closes,
		MAShort:    maShort,
		MALong:     maLong,
		EMA:        EMAFloats(closes, p.MAShort),
		RSI:        rsi,
		BBUpper:    bbUpper,
		BBMiddle:   bbMiddle,
		BBLower:    bbLower,
		MACD:       macd,
		MACDSignal: signal,
		MACDHist:   hist,
	}

	last := len(bars) - 1
	b.LatestSignals = models.LatestSignals{
		MA:   CrossoverSignal(maShort, maLong, last),
		RSI:  RSISignal(rsi),
		MACD: CrossoverSignal(macd, signal, last),
	}
	return b
}
