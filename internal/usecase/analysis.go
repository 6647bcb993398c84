package usecase

import (
	"context"

	"QuantDesk/internal/domain/models"
	domrepo "QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
)

// AnalysisUseCase wires the simulation engines to market data and
// sentiment. Thin on purpose: range resolution and engine dispatch,
// all business rules live in the engines.
type AnalysisUseCase struct {
	bars      domrepo.BarSource
	sentiment domsvc.SentimentProvider
	backtest  domsvc.BacktestEngine
	forecast  domsvc.ForecastModel
}

func NewAnalysisUseCase(
	bars domrepo.BarSource,
	sentiment domsvc.SentimentProvider,
	backtest domsvc.BacktestEngine,
	forecast domsvc.ForecastModel,
) *AnalysisUseCase {
	return &AnalysisUseCase{bars: bars, sentiment: sentiment, backtest: backtest, forecast: forecast}
}

func (uc *AnalysisUseCase) GetSentiment(ctx context.Context, req models.SentimentRequest) models.SentimentSnapshot {
	return uc.sentiment.Snapshot(ctx, req.Ticker)
}

func (uc *AnalysisUseCase) RunBacktest(ctx context.Context, req models.BacktestRequest) (*models.BacktestResult, error) {
	start, end, err := resolveRange(req.Start, req.End, analysisLookback)
	if err != nil {
		return nil, err
	}

	bars := uc.bars.DailyBars(ctx, req.Ticker, start, end)
	res := uc.backtest.Run(ctx, req.Ticker, bars, domsvc.BacktestParams{
		Strategy:       req.Strategy,
		InitialCapital: req.InitialCapital,
		PositionPct:    req.PositionPct,
		StopLoss:       req.StopLoss,
		TakeProfit:     req.TakeProfit,
		Commission:     req.Commission,
	})
	return &res, nil
}

func (uc *AnalysisUseCase) RunForecast(ctx context.Context, req models.ForecastRequest) (*models.ForecastResult, error) {
	start, end, err := resolveRange(req.Start, req.End, analysisLookback)
	if err != nil {
		return nil, err
	}

	bars := uc.bars.DailyBars(ctx, req.Ticker, start, end)
	snap := uc.sentiment.Snapshot(ctx, req.Ticker)

	res := uc.forecast.Forecast(ctx, req.Ticker, bars, domsvc.ForecastParams{
		ModelType: req.ModelType,
		Horizon:   req.Horizon,
		TestSize:  req.TestSize,
		Sentiment: snap.OverallScore,
	})
	return &res, nil
}
