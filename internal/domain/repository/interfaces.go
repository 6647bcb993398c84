package repository

import (
	"context"
	"time"

	"QuantDesk/internal/domain/models"
)

// BarSource delivers daily OHLCV bars. Implementations degrade to an
// empty slice on upstream failure rather than returning an error, so
// callers only deal with "no data" as a business condition.
type BarSource interface {
	// DailyBars returns bars for ticker between start and end inclusive,
	// sorted ascending by time. A nil or empty result means no data.
	DailyBars(ctx context.Context, ticker string, start, end time.Time) []models.Bar

	// LatestPrice returns the most recent close for ticker. ok is false
	// when no price could be established.
	LatestPrice(ctx context.Context, ticker string) (price float64, ok bool)
}

// BalanceStore owns account cash balances. Every mutation carries a
// reason tag so the history explains itself.
type BalanceStore interface {
	Balance(ctx context.Context, accountID string) (float64, error)
	// AdjustBalance applies delta (may be negative) to the account and
	// records reason. It returns the balance after the change.
	AdjustBalance(ctx context.Context, accountID string, delta float64, reason string) (float64, error)
}
