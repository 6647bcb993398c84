package paper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/repository"
	"QuantDesk/pkg/logger"
)

type stubBars struct {
	price float64
	ok    bool
}

func (s *stubBars) DailyBars(context.Context, string, time.Time, time.Time) []models.Bar {
	return nil
}

func (s *stubBars) LatestPrice(context.Context, string) (float64, bool) {
	return s.price, s.ok
}

func newTestLedger(t *testing.T, bars *stubBars, initial float64) (*Ledger, *repository.MemoryBalanceStore) {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	store := repository.NewMemoryBalanceStore(initial)
	return NewLedger(bars, store, log, nil), store
}

func order(acct, ticker, side string, qty int64) models.OrderRequest {
	return models.OrderRequest{AccountID: acct, Ticker: ticker, Side: side, Qty: qty}
}

func TestBuyDebitsBalanceAndOpensPosition(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, store := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	out, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)
	require.True(t, out.Success, out.Message)
	assert.Equal(t, "AAPL", out.Ticker)
	assert.Equal(t, 50.0, out.Price)
	assert.Equal(t, 500.0, out.Total)
	assert.Equal(t, 99_500.0, out.Balance)
	assert.NotEmpty(t, out.OrderID)

	hist := store.History("a")
	require.Len(t, hist, 1)
	assert.Equal(t, "paper_trade_buy", hist[0].Reason)

	p, err := l.Portfolio(ctx, "a")
	require.NoError(t, err)
	pos, ok := p.Positions["AAPL"]
	require.True(t, ok)
	assert.Equal(t, int64(10), pos.Qty)
	assert.Equal(t, 50.0, pos.AvgCost)
}

func TestBuyAveragesEntryPrice(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, _ := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	_, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)

	bars.price = 100
	_, err = l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)

	p, err := l.Portfolio(ctx, "a")
	require.NoError(t, err)
	pos := p.Positions["AAPL"]
	assert.Equal(t, int64(20), pos.Qty)
	assert.Equal(t, 75.0, pos.AvgCost)
}

func TestBuyInsufficientBalance(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, store := newTestLedger(t, bars, 100)
	ctx := context.Background()

	out, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "insufficient balance", out.Message)
	assert.Empty(t, store.History("a"))
}

func TestSellRequiresPosition(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, _ := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	out, err := l.PlaceOrder(ctx, order("a", "aapl", "sell", 5))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "insufficient position", out.Message)

	_, err = l.PlaceOrder(ctx, order("a", "aapl", "buy", 3))
	require.NoError(t, err)
	out, err = l.PlaceOrder(ctx, order("a", "aapl", "sell", 5))
	require.NoError(t, err)
	assert.False(t, out.Success)
}

func TestSellPartialAndFull(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, store := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	_, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)

	bars.price = 60
	out, err := l.PlaceOrder(ctx, order("a", "aapl", "sell", 4))
	require.NoError(t, err)
	require.True(t, out.Success)
	assert.Equal(t, 240.0, out.Total)

	p, err := l.Portfolio(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.Positions["AAPL"].Qty)

	out, err = l.PlaceOrder(ctx, order("a", "aapl", "sell", 6))
	require.NoError(t, err)
	require.True(t, out.Success)

	p, err = l.Portfolio(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, p.Positions)
	// 100000 - 500 + 240 + 360
	assert.Equal(t, 100_100.0, p.CashBalance)

	hist := store.History("a")
	require.Len(t, hist, 3)
	assert.Equal(t, "paper_trade_sell", hist[2].Reason)
}

func TestOrderRejectedWithoutPrice(t *testing.T) {
	bars := &stubBars{ok: false}
	l, store := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	out, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 1))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "no market price")

	bal, err := store.Balance(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 100_000.0, bal)

	p, err := l.Portfolio(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, p.Positions)
	assert.Empty(t, p.Orders)
}

func TestOrderValidation(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, _ := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	for _, req := range []models.OrderRequest{
		order("a", "", "buy", 1),
		order("a", "aapl", "hold", 1),
		order("a", "aapl", "buy", 0),
		order("a", "aapl", "buy", -3),
	} {
		out, err := l.PlaceOrder(ctx, req)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "invalid order parameters", out.Message)
	}
}

func TestPortfolioMarksPositions(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, _ := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	_, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)

	bars.price = 60
	p, err := l.Portfolio(ctx, "a")
	require.NoError(t, err)

	pos := p.Positions["AAPL"]
	assert.Equal(t, 60.0, pos.MarketPrice)
	assert.Equal(t, 600.0, pos.MarketValue)
	assert.Equal(t, 100.0, pos.UnrealizedPnL)
	assert.Equal(t, 99_500.0, p.CashBalance)
	assert.Equal(t, 100_100.0, p.TotalValue)
	require.Len(t, p.Orders, 1)
	assert.Equal(t, "buy", p.Orders[0].Side)
}

func TestAccountsAreIsolated(t *testing.T) {
	bars := &stubBars{price: 50, ok: true}
	l, _ := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	_, err := l.PlaceOrder(ctx, order("a", "aapl", "buy", 10))
	require.NoError(t, err)

	p, err := l.Portfolio(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, p.Positions)
	assert.Equal(t, 100_000.0, p.CashBalance)
}

func TestRoundTripRestoresBalance(t *testing.T) {
	bars := &stubBars{price: 80, ok: true}
	l, store := newTestLedger(t, bars, 100_000)
	ctx := context.Background()

	buy, err := l.PlaceOrder(ctx, order("a", "msft", "buy", 25))
	require.NoError(t, err)
	require.True(t, buy.Success, buy.Message)

	sell, err := l.PlaceOrder(ctx, order("a", "msft", "sell", 25))
	require.NoError(t, err)
	require.True(t, sell.Success, sell.Message)
	assert.Equal(t, 100_000.0, sell.Balance)

	bal, err := store.Balance(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 100_000.0, bal)

	p, err := l.Portfolio(ctx, "a")
	require.NoError(t, err)
	_, held := p.Positions["MSFT"]
	assert.False(t, held)
	assert.Equal(t, 100_000.0, p.CashBalance)
	require.Len(t, p.Orders, 2)
}
