package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterysim/internal/efficiency"
	"batterysim/internal/objective"
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
		ChargeBounds:    Bounds{Low: 1, High: 10},
		DischargeBounds: Bounds{Low: 1, High: 10},
		Tolerance:       1e-3,
		Objective: objective.Config{
			CapacityKwh:   10,
			MinSocPct:     0.1,
			MaxSocPct:     0.9,
			InitialSocPct: 0.1,
			Coefficients:  efficiency.ThreePhase11_15.Coefficients,
			Prices:        twoDayPrices(t),
			Tariff:        tariff.Bare(),
		},
	}
}

func TestBoundsClip(t *testing.T) {
	b := Bounds{Low: 1, High: 5}
	assert.Equal(t, 1.0, b.clip(-3))
	assert.Equal(t, 5.0, b.clip(100))
	assert.Equal(t, 3.0, b.clip(3))
}

func TestRunConverges(t *testing.T) {
	cfg := baseConfig(t)
	result, err := Run(cfg, Point{ChargeKw: 5, DischargeKw: 5})
	require.NoError(t, err)
	assert.Greater(t, result.Evaluations, 0)
	assert.LessOrEqual(t, result.Iterations, maxIterations)
}

func TestRunStaysWithinBounds(t *testing.T) {
	cfg := baseConfig(t)
	result, err := Run(cfg, Point{ChargeKw: 5, DischargeKw: 5})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Best.ChargeKw, cfg.ChargeBounds.Low)
	assert.LessOrEqual(t, result.Best.ChargeKw, cfg.ChargeBounds.High)
	assert.GreaterOrEqual(t, result.Best.DischargeKw, cfg.DischargeBounds.Low)
	assert.LessOrEqual(t, result.Best.DischargeKw, cfg.DischargeBounds.High)
}

func TestReflectMidpointReturnsCentroidWhenWorstEqualsCentroid(t *testing.T) {
	c := Point{ChargeKw: 3, DischargeKw: 3}
	r := reflect(c, c, reflectionAlpha)
	assert.Equal(t, c, r)
}

func TestSimplexDiameterIsMaxPairwiseDistance(t *testing.T) {
	simplex := []vertex{
		{point: Point{ChargeKw: 0, DischargeKw: 0}},
		{point: Point{ChargeKw: 3, DischargeKw: 0}},
		{point: Point{ChargeKw: 0, DischargeKw: 4}},
	}
	assert.InDelta(t, 5, simplexDiameter(simplex), 1e-9)
}

func TestRunHandlesZeroStartPerturbation(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ChargeBounds.Low = 0
	cfg.DischargeBounds.Low = 0
	result, err := Run(cfg, Point{ChargeKw: 0, DischargeKw: 0})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
