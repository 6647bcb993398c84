package backtest

import (
	"context"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/pkg/logger"
	"QuantDesk/pkg/util"
)

const minBars = 60

// Engine replays a signal strategy bar by bar against historical data.
// Exits from risk limits always run before the strategy signal on the
// same bar, and both use the bar close as the fill price.
type Engine struct {
	log *logger.Logger
}

var _ domsvc.BacktestEngine = (*Engine)(nil)

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

func (e *Engine) Run(_ context.Context, ticker string, bars []models.Bar, p domsvc.BacktestParams) models.BacktestResult {
	strat, known := StrategyFor(p.Strategy)
	res := e.simulate(ticker, bars, strat, p)
	if !known && res.Note == "" {
		res.Note = "unknown strategy, using ma"
	}
	return res
}

func (e *Engine) simulate(ticker string, bars []models.Bar, strat Strategy, p domsvc.BacktestParams) models.BacktestResult {
	res := models.BacktestResult{Ticker: ticker, Strategy: strat.Name()}
	if len(bars) < minBars {
		res.Note = "insufficient data for backtest"
		return res
	}

	initial := p.InitialCapital
	if initial < 1 {
		initial = 1
	}
	pct := clampRange(p.PositionPct, 0.01, 1)
	stop := clampRange(p.StopLoss, 0, 0.5)
	take := clampRange(p.TakeProfit, 0, 2)
	comm := clampRange(p.Commission, 0, 0.02)

	ind := computeIndicators(bars)

	cash := initial
	var qty int64
	var entry float64
	benchShares := initial / bars[0].Close

	peak := initial
	maxDD := 0.0

	for i := 1; i < len(bars); i++ {
		price := bars[i].Close
		date := util.FormatDate(bars[i].Time)

		// Risk exits run first, but the strategy still gets this bar:
		// a Buy signal may re-enter at the exit price.
		if qty > 0 && stop > 0 && price <= entry*(1-stop) {
			cash += float64(qty) * price * (1 - comm)
			res.Trades = append(res.Trades, models.TradeRecord{Date: date, Side: "SELL", Qty: qty, Price: price})
			qty = 0
		} else if qty > 0 && take > 0 && price >= entry*(1+take) {
			cash += float64(qty) * price * (1 - comm)
			res.Trades = append(res.Trades, models.TradeRecord{Date: date, Side: "SELL", Qty: qty, Price: price})
			qty = 0
		}

		switch strat.Signal(i, bars, ind) {
		case models.SignalBuy:
			if qty == 0 {
				budget := cash * pct
				q := int64(budget / price)
				cost := float64(q) * price * (1 + comm)
				if q > 0 && cost <= cash {
					qty = q
					cash -= cost
					entry = price
					res.Trades = append(res.Trades, models.TradeRecord{Date: date, Side: "BUY", Qty: q, Price: price})
				}
			}
		case models.SignalSell:
			if qty > 0 {
				cash += float64(qty) * price * (1 - comm)
				res.Trades = append(res.Trades, models.TradeRecord{Date: date, Side: "SELL", Qty: qty, Price: price})
				qty = 0
			}
		}

		value := cash + float64(qty)*price
		res.Dates = append(res.Dates, date)
		if n := len(res.PortfolioValue); n > 0 {
			ret := 0.0
			if prev := res.PortfolioValue[n-1]; prev > 0 {
				ret = value/prev - 1
			}
			res.Returns = append(res.Returns, ret)
		}
		res.PortfolioValue = append(res.PortfolioValue, util.Round2(value))
		res.BenchmarkValue = append(res.BenchmarkValue, util.Round2(benchShares*price))

		if value > peak {
			peak = value
		}
		if dd := value/peak - 1; dd < maxDD {
			maxDD = dd
		}
	}

	final := initial
	if n := len(res.PortfolioValue); n > 0 {
		final = res.PortfolioValue[n-1]
	}
	res.FinalValue = util.Round2(final)
	res.TotalReturnPct = util.Round2((final/initial - 1) * 100)
	if maxDD < 0 {
		res.MaxDrawdownPct = util.Round2(-maxDD * 100)
	}
	res.WinRatePct = util.Round2(winRate(res.Trades))

	if e.log != nil {
		e.log.Debug("backtest complete",
			logger.String("ticker", ticker),
			logger.String("strategy", strat.Name()),
			logger.Int("trades", len(res.Trades)),
			logger.Float64("final_value", res.FinalValue),
		)
	}
	return res
}

// winRate pairs each SELL with the BUY before it and counts profitable
// round trips. No completed round trips means zero.
func winRate(trades []models.TradeRecord) float64 {
	var pairs, wins int
	var buyPrice float64
	holding := false
	for _, tr := range trades {
		switch tr.Side {
		case "BUY":
			buyPrice = tr.Price
			holding = true
		case "SELL":
			if holding {
				pairs++
				if tr.Price > buyPrice {
					wins++
				}
				holding = false
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(wins) / float64(pairs) * 100
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
