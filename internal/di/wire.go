//go:build wireinject
// +build wireinject

package di

import (
	"QuantDesk/pkg/config"
	"QuantDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvidePayloadCache,

		ProvideBarSource,
		ProvideBalanceStore,

		ProvideIndicatorEngine,
		ProvideSentimentProvider,
		ProvideBacktestEngine,
		ProvideForecastModel,
		ProvidePaperLedger,

		ProvideMarketUseCase,
		ProvideAnalysisUseCase,
		ProvideTradingUseCase,

		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
