package usecase

import (
	"context"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
)

// TradingUseCase fronts the paper trading ledger.
type TradingUseCase struct {
	ledger domsvc.PaperTradingLedger
}

func NewTradingUseCase(ledger domsvc.PaperTradingLedger) *TradingUseCase {
	return &TradingUseCase{ledger: ledger}
}

func (uc *TradingUseCase) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderOutcome, error) {
	return uc.ledger.PlaceOrder(ctx, req)
}

func (uc *TradingUseCase) GetPortfolio(ctx context.Context, accountID string) (models.Portfolio, error) {
	return uc.ledger.Portfolio(ctx, accountID)
}
