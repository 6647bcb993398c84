package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/pkg/logger"
)

func mkBars(closes []float64) []models.Bar {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Time: day.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func flatThen(n int, base float64, rest ...float64) []float64 {
	out := make([]float64, 0, n+len(rest))
	for i := 0; i < n; i++ {
		out = append(out, base)
	}
	return append(out, rest...)
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return NewEngine(log)
}

func TestRunInsufficientData(t *testing.T) {
	res := testEngine(t).Run(context.Background(), "aapl", mkBars(flatThen(59, 100)), domsvc.BacktestParams{
		Strategy: "ma", InitialCapital: 10000, PositionPct: 1,
	})

	assert.Equal(t, "insufficient data for backtest", res.Note)
	assert.Empty(t, res.Dates)
	assert.Empty(t, res.Trades)
}

func TestRunMomentumStopLoss(t *testing.T) {
	// Flat at 100, a 3% pop triggers a momentum buy, then a slide to 90
	// trips the 10% stop.
	closes := flatThen(21, 100)             // 0..20
	closes = append(closes, 103)            // 21: buy
	closes = append(closes, flatThen(19, 103)...) // 22..40
	closes = append(closes, flatThen(19, 90)...)  // 41..59: stop at 41

	res := testEngine(t).Run(context.Background(), "aapl", mkBars(closes), domsvc.BacktestParams{
		Strategy:       "momentum",
		InitialCapital: 10000,
		PositionPct:    1,
		StopLoss:       0.1,
	})

	require.Len(t, res.Trades, 2)
	assert.Equal(t, models.TradeRecord{Date: "2024-01-22", Side: "BUY", Qty: 97, Price: 103}, res.Trades[0])
	assert.Equal(t, models.TradeRecord{Date: "2024-02-11", Side: "SELL", Qty: 97, Price: 90}, res.Trades[1])

	assert.Equal(t, 8739.0, res.FinalValue)
	assert.Equal(t, -12.61, res.TotalReturnPct)
	assert.Equal(t, 12.61, res.MaxDrawdownPct)
	assert.Equal(t, 0.0, res.WinRatePct)

	require.Len(t, res.Dates, 59)
	require.Len(t, res.PortfolioValue, 59)
	require.Len(t, res.Returns, 58)
	assert.Equal(t, 10000.0, res.PortfolioValue[20])
	// Benchmark holds 100 shares from the first close.
	assert.Equal(t, 9000.0, res.BenchmarkValue[40])
	assert.Equal(t, 0.0, res.Returns[0])
}

func TestRunMomentumTakeProfitReenters(t *testing.T) {
	// The take profit liquidates at 112 while the 20 bar return still
	// screams Buy, so the position is reopened on the same bar at the
	// exit price and later closed by the momentum sell.
	closes := flatThen(21, 100)            // 0..20
	closes = append(closes, 103, 112)      // 21: buy, 22: take profit + re-entry
	closes = append(closes, flatThen(37, 101)...) // 23..59

	res := testEngine(t).Run(context.Background(), "aapl", mkBars(closes), domsvc.BacktestParams{
		Strategy:       "momentum",
		InitialCapital: 10000,
		PositionPct:    1,
		TakeProfit:     0.05,
	})

	require.Len(t, res.Trades, 4)
	assert.Equal(t, models.TradeRecord{Date: "2024-01-22", Side: "BUY", Qty: 97, Price: 103}, res.Trades[0])
	assert.Equal(t, models.TradeRecord{Date: "2024-01-23", Side: "SELL", Qty: 97, Price: 112}, res.Trades[1])
	assert.Equal(t, models.TradeRecord{Date: "2024-01-23", Side: "BUY", Qty: 97, Price: 112}, res.Trades[2])
	assert.Equal(t, models.TradeRecord{Date: "2024-02-12", Side: "SELL", Qty: 97, Price: 101}, res.Trades[3])

	assert.Equal(t, 9806.0, res.FinalValue)
	assert.Equal(t, -1.94, res.TotalReturnPct)
	assert.Equal(t, 50.0, res.WinRatePct)
	assert.Equal(t, 9.81, res.MaxDrawdownPct)
}

func TestRunCommissionBlocksOverspend(t *testing.T) {
	// With the whole balance budgeted, the commission pushes the cost
	// past available cash and the buy is skipped.
	closes := flatThen(21, 100)
	closes = append(closes, flatThen(39, 103)...)

	res := testEngine(t).Run(context.Background(), "aapl", mkBars(closes), domsvc.BacktestParams{
		Strategy:       "momentum",
		InitialCapital: 10000,
		PositionPct:    1,
		Commission:     0.02,
	})

	assert.Empty(t, res.Trades)
	assert.Equal(t, 10000.0, res.FinalValue)
}

func TestRunClampsParams(t *testing.T) {
	closes := flatThen(21, 100)
	closes = append(closes, flatThen(39, 103)...)

	// Zero capital is raised to 1 and an oversized position fraction is
	// clamped to 1, so the run still produces a sane series.
	res := testEngine(t).Run(context.Background(), "aapl", mkBars(closes), domsvc.BacktestParams{
		Strategy:       "ma",
		InitialCapital: 0,
		PositionPct:    5,
	})

	require.Len(t, res.PortfolioValue, 59)
	assert.Equal(t, 1.0, res.PortfolioValue[0])
}

func TestRunUnknownStrategyFallsBack(t *testing.T) {
	res := testEngine(t).Run(context.Background(), "aapl", mkBars(flatThen(60, 100)), domsvc.BacktestParams{
		Strategy:       "alien",
		InitialCapital: 10000,
		PositionPct:    1,
	})

	assert.Equal(t, "ma", res.Strategy)
	assert.Equal(t, "unknown strategy, using ma", res.Note)
}

func TestStrategyFor(t *testing.T) {
	for _, name := range []string{"ma", "rsi", "macd", "ml", "momentum", ""} {
		s, ok := StrategyFor(name)
		assert.True(t, ok, name)
		assert.NotNil(t, s)
	}
	_, ok := StrategyFor("nope")
	assert.False(t, ok)
}

func TestMomentumSignals(t *testing.T) {
	closes := flatThen(21, 100)
	closes[20] = 100
	bars := mkBars(append(closes, 103, 97))

	strat, _ := StrategyFor("momentum")
	assert.Equal(t, models.SignalHold, strat.Signal(10, bars, nil))
	assert.Equal(t, models.SignalBuy, strat.Signal(21, bars, nil))
	assert.Equal(t, models.SignalSell, strat.Signal(22, bars, nil))
}

func TestWinRate(t *testing.T) {
	trades := []models.TradeRecord{
		{Side: "BUY", Price: 100},
		{Side: "SELL", Price: 110},
		{Side: "BUY", Price: 110},
		{Side: "SELL", Price: 105},
	}
	assert.Equal(t, 50.0, winRate(trades))
	assert.Equal(t, 0.0, winRate(nil))
	assert.Equal(t, 0.0, winRate(trades[:1]))
}

// alwaysLongStrategy enters on the first evaluated bar and never exits.
type alwaysLongStrategy struct{}

func (alwaysLongStrategy) Name() string { return "always-long" }

func (alwaysLongStrategy) Signal(int, []models.Bar, *Indicators) models.Signal {
	return models.SignalBuy
}

func TestBuyAndHoldTracksBenchmark(t *testing.T) {
	closes := make([]float64, 100)
	closes[0], closes[1] = 100, 100
	for i := 2; i < len(closes); i++ {
		closes[i] = 100 + 0.5*float64(i-1)
	}

	res := testEngine(t).simulate("aapl", mkBars(closes), alwaysLongStrategy{}, domsvc.BacktestParams{
		InitialCapital: 10000, PositionPct: 1,
	})

	require.Len(t, res.Trades, 1)
	assert.Equal(t, "BUY", res.Trades[0].Side)
	assert.Equal(t, int64(100), res.Trades[0].Qty)
	assert.Equal(t, 100.0, res.Trades[0].Price)

	require.Equal(t, len(res.PortfolioValue), len(res.BenchmarkValue))
	for i := range res.PortfolioValue {
		assert.Equal(t, res.BenchmarkValue[i], res.PortfolioValue[i], "bar %d", i)
	}

	assert.Equal(t, 14900.0, res.FinalValue)
	assert.InDelta(t, (res.FinalValue/10000-1)*100, res.TotalReturnPct, 0.01)
	assert.Equal(t, 49.0, res.TotalReturnPct)
}

func TestRunMACrossoverAfterRecovery(t *testing.T) {
	closes := make([]float64, 100)
	for i := 0; i < 50; i++ {
		closes[i] = 149 - float64(i)
	}
	for i := 50; i < 100; i++ {
		closes[i] = 100 + float64(i-49)
	}

	res := testEngine(t).Run(context.Background(), "aapl", mkBars(closes), domsvc.BacktestParams{
		Strategy: "ma", InitialCapital: 10000, PositionPct: 1,
	})

	assert.Equal(t, "ma", res.Strategy)
	assert.Empty(t, res.Note)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "BUY", res.Trades[0].Side)
	assert.Greater(t, res.TotalReturnPct, 0.0)
	assert.InDelta(t, (res.FinalValue/10000-1)*100, res.TotalReturnPct, 0.01)
}
