package paper

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/pkg/logger"
	"QuantDesk/pkg/metrics"
	"QuantDesk/pkg/util"
)

// Ledger executes paper orders at the latest real market price and
// settles cash through the shared balance store. Portfolios are kept
// per account and created lazily; each account has its own lock so
// concurrent orders for one account serialize while accounts stay
// independent.
type Ledger struct {
	bars     drepo.BarSource
	balances drepo.BalanceStore
	log      *logger.Logger
	recorder *metrics.Recorder
	clock    domsvc.Clock

	mu       sync.Mutex
	accounts map[string]*accountState

	entropyMu sync.Mutex
	entropy   *rand.Rand
}

var _ domsvc.PaperTradingLedger = (*Ledger)(nil)

type accountState struct {
	mu        sync.Mutex
	positions map[string]models.Position
	orders    []models.OrderRecord
}

func NewLedger(bars drepo.BarSource, balances drepo.BalanceStore, log *logger.Logger, rec *metrics.Recorder) *Ledger {
	return &Ledger{
		bars:     bars,
		balances: balances,
		log:      log,
		recorder: rec,
		clock:    domsvc.SystemClock(),
		accounts: make(map[string]*accountState),
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock overrides the order timestamp source.
func (l *Ledger) WithClock(c domsvc.Clock) *Ledger {
	l.clock = c
	return l
}

func (l *Ledger) account(id string) *accountState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.accounts[id]
	if !ok {
		st = &accountState{positions: make(map[string]models.Position)}
		l.accounts[id] = st
	}
	return st
}

func (l *Ledger) newOrderID(now time.Time) string {
	l.entropyMu.Lock()
	defer l.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), l.entropy).String()
}

func (l *Ledger) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderOutcome, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	side := strings.ToLower(strings.TrimSpace(req.Side))
	out := models.OrderOutcome{Ticker: ticker, Side: side, Qty: req.Qty}

	if ticker == "" || (side != "buy" && side != "sell") || req.Qty <= 0 {
		out.Message = "invalid order parameters"
		l.record(side, "rejected")
		return out, nil
	}

	st := l.account(req.AccountID)
	st.mu.Lock()
	defer st.mu.Unlock()

	// Cash always comes fresh from the balance store, never from a
	// portfolio-local copy.
	balance, err := l.balances.Balance(ctx, req.AccountID)
	if err != nil {
		return out, fmt.Errorf("read balance: %w", err)
	}
	out.Balance = balance

	price, ok := l.bars.LatestPrice(ctx, ticker)
	if !ok {
		out.Message = "no market price available for " + ticker
		l.record(side, "rejected")
		return out, nil
	}
	out.Price = price

	switch side {
	case "buy":
		cost := float64(req.Qty) * price
		if cost > balance {
			out.Message = "insufficient balance"
			l.record(side, "rejected")
			return out, nil
		}
		newBal, err := l.balances.AdjustBalance(ctx, req.AccountID, -cost, "paper_trade_buy")
		if err != nil {
			return out, fmt.Errorf("debit balance: %w", err)
		}

		pos := st.positions[ticker]
		newQty := pos.Qty + req.Qty
		pos.AvgCost = (float64(pos.Qty)*pos.AvgCost + float64(req.Qty)*price) / float64(newQty)
		pos.Qty = newQty
		pos.Ticker = ticker
		st.positions[ticker] = pos

		out.Success = true
		out.Total = util.Round2(cost)
		out.Balance = newBal
		out.Message = fmt.Sprintf("bought %d %s at %.2f", req.Qty, ticker, price)

	case "sell":
		pos, held := st.positions[ticker]
		if !held || req.Qty > pos.Qty {
			out.Message = "insufficient position"
			l.record(side, "rejected")
			return out, nil
		}
		proceeds := float64(req.Qty) * price
		newBal, err := l.balances.AdjustBalance(ctx, req.AccountID, proceeds, "paper_trade_sell")
		if err != nil {
			return out, fmt.Errorf("credit balance: %w", err)
		}

		pos.Qty -= req.Qty
		if pos.Qty == 0 {
			delete(st.positions, ticker)
		} else {
			st.positions[ticker] = pos
		}

		out.Success = true
		out.Total = util.Round2(proceeds)
		out.Balance = newBal
		out.Message = fmt.Sprintf("sold %d %s at %.2f", req.Qty, ticker, price)
	}

	now := l.clock.Now().UTC()
	order := models.OrderRecord{
		ID:     l.newOrderID(now),
		Time:   now,
		Ticker: ticker,
		Side:   side,
		Qty:    req.Qty,
		Price:  price,
		Total:  out.Total,
	}
	st.orders = append(st.orders, order)
	out.OrderID = order.ID

	l.record(side, "filled")
	if l.log != nil {
		l.log.Info("paper order filled",
			logger.String("account", req.AccountID),
			logger.String("ticker", ticker),
			logger.String("side", side),
			logger.Int64("qty", req.Qty),
			logger.Float64("price", price),
		)
	}
	return out, nil
}

// Portfolio re-marks every open position at the latest price and
// returns a copy of the account state.
func (l *Ledger) Portfolio(ctx context.Context, accountID string) (models.Portfolio, error) {
	st := l.account(accountID)
	st.mu.Lock()
	defer st.mu.Unlock()

	balance, err := l.balances.Balance(ctx, accountID)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("read balance: %w", err)
	}

	p := models.Portfolio{
		AccountID:   accountID,
		CashBalance: util.Round2(balance),
		Positions:   make(map[string]models.Position, len(st.positions)),
		Orders:      append([]models.OrderRecord(nil), st.orders...),
	}

	total := balance
	for ticker, pos := range st.positions {
		if price, ok := l.bars.LatestPrice(ctx, ticker); ok {
			pos.MarketPrice = util.Round2(price)
			pos.MarketValue = util.Round2(float64(pos.Qty) * price)
			pos.UnrealizedPnL = util.Round2(float64(pos.Qty) * (price - pos.AvgCost))
			total += float64(pos.Qty) * price
		}
		pos.AvgCost = util.Round2(pos.AvgCost)
		p.Positions[ticker] = pos
	}
	p.TotalValue = util.Round2(total)
	return p, nil
}

func (l *Ledger) record(side, outcome string) {
	if l.recorder != nil {
		l.recorder.RecordOrder(side, outcome)
	}
}
