package usecase

import (
	"context"
	"time"

	"QuantDesk/internal/domain/models"
	domrepo "QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
	xhttp "QuantDesk/pkg/http"
	"QuantDesk/pkg/util"
)

// default lookback windows when the caller leaves the range open
const (
	barsLookback     = 365 // days
	analysisLookback = 730
)

// MarketUseCase provides business logic for retrieving market history
// and indicator reports.
type MarketUseCase struct {
	bars       domrepo.BarSource
	indicators domsvc.IndicatorEngine
}

func NewMarketUseCase(bars domrepo.BarSource, ind domsvc.IndicatorEngine) *MarketUseCase {
	return &MarketUseCase{bars: bars, indicators: ind}
}

// resolveRange fills missing bounds: end defaults to today, start to
// end minus lookback days.
func resolveRange(startStr, endStr string, lookbackDays int) (time.Time, time.Time, error) {
	end := util.DayUTC(time.Now().UTC())
	if endStr != "" {
		e, ok := util.ParseDate(endStr)
		if !ok {
			return time.Time{}, time.Time{}, xhttp.BadRequestErrorf("invalid end date %q", endStr)
		}
		end = e
	}

	start := end.AddDate(0, 0, -lookbackDays)
	if startStr != "" {
		s, ok := util.ParseDate(startStr)
		if !ok {
			return time.Time{}, time.Time{}, xhttp.BadRequestErrorf("invalid start date %q", startStr)
		}
		start = s
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, xhttp.BadRequestError("start must be before end")
	}
	return start, end, nil
}

type GetBarsResult struct {
	Ticker string       `json:"ticker"`
	Start  string       `json:"start"`
	End    string       `json:"end"`
	Count  int          `json:"count"`
	Bars   []models.Bar `json:"bars"`
}

func (uc *MarketUseCase) GetBars(ctx context.Context, req models.BarsRequest) (*GetBarsResult, error) {
	start, end, err := resolveRange(req.Start, req.End, barsLookback)
	if err != nil {
		return nil, err
	}

	bars := uc.bars.DailyBars(ctx, req.Ticker, start, end)
	return &GetBarsResult{
		Ticker: req.Ticker,
		Start:  util.FormatDate(start),
		End:    util.FormatDate(end),
		Count:  len(bars),
		Bars:   bars,
	}, nil
}

func (uc *MarketUseCase) GetIndicators(ctx context.Context, req models.IndicatorsRequest) (*models.IndicatorBundle, error) {
	start, end, err := resolveRange(req.Start, req.End, barsLookback)
	if err != nil {
		return nil, err
	}

	bars := uc.bars.DailyBars(ctx, req.Ticker, start, end)
	bundle := uc.indicators.Report(bars, domsvc.IndicatorParams{
		MAShort:   req.MAShort,
		MALong:    req.MALong,
		RSIPeriod: req.RSIPeriod,
		BBPeriod:  req.BBPeriod,
		MACDFast:  req.MACDFast,
		MACDSlow:  req.MACDSlow,
	})
	return &bundle, nil
}
