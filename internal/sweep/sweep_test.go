package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterysim/internal/efficiency"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

func twoDayPrices(t *testing.T) *series.PriceSeries {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]series.PricePoint, 48)
	for i := range points {
		price := 20.0
		if i%24 >= 12 {
			price = 150.0
		}
		points[i] = series.PricePoint{Instant: start.Add(time.Duration(i) * time.Hour), PriceMWh: price}
	}
	ps, err := series.NewPriceSeries(series.Hourly, points)
	require.NoError(t, err)
	return ps
}

func baseConfig(t *testing.T) Config {
	return Config{
		ChargeRange:    Range{Min: 3, Max: 6, Step: 3},
		DischargeRange: Range{Min: 3, Max: 6, Step: 3},
		CapacityKwh:    10,
		MinSocPct:      0.1,
		MaxSocPct:      0.9,
		InitialSocPct:  0.1,
		Coefficients:   efficiency.ThreePhase11_15.Coefficients,
		Prices:         twoDayPrices(t),
		Tariff:         tariff.Bare(),
	}
}

func TestRangeValuesZeroStepCollapsesToSinglePoint(t *testing.T) {
	r := Range{Min: 3, Max: 10, Step: 0}
	assert.Equal(t, []float64{3}, r.values(0))
}

func TestRangeValuesStepLargerThanSpanCollapses(t *testing.T) {
	r := Range{Min: 3, Max: 5, Step: 100}
	assert.Equal(t, []float64{3}, r.values(0))
}

func TestRangeValuesClippedByHardwareMax(t *testing.T) {
	r := Range{Min: 1, Max: 10, Step: 1}
	vals := r.values(4)
	assert.Equal(t, 4.0, vals[len(vals)-1])
}

func TestRunProducesFullGridAndDiagonal(t *testing.T) {
	cfg := baseConfig(t)
	result, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Len(t, result.Grid, 4) // 2 charge vals x 2 discharge vals
	assert.Len(t, result.Diagonal, 2)
	for _, e := range result.Diagonal {
		assert.Equal(t, e.Point.ChargeKw, e.Point.DischargeKw)
	}
}

func TestRunSelectsBestByProfit(t *testing.T) {
	cfg := baseConfig(t)
	result, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	for _, e := range result.Grid {
		assert.LessOrEqual(t, e.Profit, result.Best.Profit)
	}
}

func TestRunInvokesProgressForEveryPoint(t *testing.T) {
	cfg := baseConfig(t)
	calls := 0
	_, err := Run(context.Background(), cfg, func(index, total int, chargeKw, dischargeKw float64) {
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestRunRespectsCancellation(t *testing.T) {
	cfg := baseConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cfg, nil)
	require.Error(t, err)
}
