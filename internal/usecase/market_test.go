package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/services/indicators"
)

type stubBars struct {
	bars      []models.Bar
	lastStart time.Time
	lastEnd   time.Time
}

func (s *stubBars) DailyBars(_ context.Context, _ string, start, end time.Time) []models.Bar {
	s.lastStart, s.lastEnd = start, end
	return s.bars
}

func (s *stubBars) LatestPrice(context.Context, string) (float64, bool) {
	if len(s.bars) == 0 {
		return 0, false
	}
	return s.bars[len(s.bars)-1].Close, true
}

func TestResolveRangeExplicit(t *testing.T) {
	start, end, err := resolveRange("2024-01-01", "2024-06-01", barsLookback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveRangeDefaults(t *testing.T) {
	start, end, err := resolveRange("", "", barsLookback)
	require.NoError(t, err)
	assert.Equal(t, end.AddDate(0, 0, -barsLookback), start)
	assert.False(t, end.After(time.Now().UTC()))
}

func TestResolveRangeRejectsInvalid(t *testing.T) {
	_, _, err := resolveRange("junk", "", barsLookback)
	assert.Error(t, err)

	_, _, err = resolveRange("2024-06-01", "2024-01-01", barsLookback)
	assert.Error(t, err)
}

func TestGetBars(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	src := &stubBars{bars: []models.Bar{{Time: day, Close: 100}}}
	uc := NewMarketUseCase(src, indicators.NewEngine())

	res, err := uc.GetBars(context.Background(), models.BarsRequest{
		Ticker: "aapl", Start: "2024-01-01", End: "2024-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "2024-01-01", res.Start)
	assert.Equal(t, "2024-06-01", res.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), src.lastStart)
}

func TestGetIndicatorsPlumbsParams(t *testing.T) {
	bars := make([]models.Bar, 30)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{Time: day.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	uc := NewMarketUseCase(&stubBars{bars: bars}, indicators.NewEngine())

	bundle, err := uc.GetIndicators(context.Background(), models.IndicatorsRequest{
		Ticker: "aapl", Start: "2024-01-01", End: "2024-02-01",
		MAShort: 5, MALong: 10, RSIPeriod: 14, BBPeriod: 5, MACDFast: 12, MACDSlow: 26,
	})
	require.NoError(t, err)
	require.Len(t, bundle.MAShort, 30)
	assert.False(t, bundle.MAShort[3].Valid)
	assert.True(t, bundle.MAShort[4].Valid)
	assert.True(t, bundle.MALong[9].Valid)
}
