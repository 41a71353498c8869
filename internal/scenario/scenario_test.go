package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterysim/internal/battery"
	"batterysim/internal/efficiency"
	"batterysim/internal/planner"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := make([]series.PricePoint, 48)
	forecasts := make([]series.ForecastPoint, 48)
	for i := range prices {
		price := 20.0
		if i%24 >= 12 {
			price = 150.0
		}
		prices[i] = series.PricePoint{Instant: start.Add(time.Duration(i) * time.Hour), PriceMWh: price}
		forecasts[i] = series.ForecastPoint{Instant: prices[i].Instant, ConsumptionKwh: 1, SolarKwh: 0.5}
	}
	ps, err := series.NewPriceSeries(series.Hourly, prices)
	require.NoError(t, err)
	fs, err := series.NewForecastSeries(series.Hourly, forecasts)
	require.NoError(t, err)

	bundle, err := efficiency.Compute(5, 5, 10, efficiency.ThreePhase11_15.Coefficients)
	require.NoError(t, err)
	batCfg := battery.FromBundle(5, 5, 10, 0.1, 0.9, bundle)

	return Config{
		Prices:        ps,
		Forecast:      fs,
		FixedTariff:   tariff.StandardSaldering(),
		DynamicTariff: tariff.Bare(),
		Battery:       batCfg,
		InitialSocKwh: batCfg.MinSocKwh(),
	}
}

func TestRunAllProducesFourScenarios(t *testing.T) {
	cfg := testConfig(t)
	results := RunAll(context.Background(), cfg)
	require.Len(t, results, 4)

	names := map[Name]bool{}
	for _, r := range results {
		names[r.Name] = true
		assert.False(t, r.Failed, r.Reason)
		assert.NotNil(t, r.History)
	}
	assert.True(t, names[FixedNoBattery])
	assert.True(t, names[FixedWithBattery])
	assert.True(t, names[DynamicNoBattery])
	assert.True(t, names[DynamicWithBattery])
}

func TestRunNoBatteryHasNoDcMovement(t *testing.T) {
	cfg := testConfig(t)
	result := runNoBattery(cfg, FixedNoBattery, cfg.FixedTariff)
	for _, r := range result.History.Records {
		assert.Equal(t, 0.0, r.DcMovedKwh)
	}
}

func TestRunGreedyBatteryChargesOnSurplus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Forecast = mustForecastSeries(t, series.ForecastPoint{ConsumptionKwh: 0, SolarKwh: 1})
	result := runGreedyBattery(cfg, FixedWithBattery, cfg.FixedTariff)
	require.NotEmpty(t, result.History.Records)
	assert.Equal(t, planner.Charge, result.History.Records[0].Action)
}

func TestRunGreedyBatteryChargeRequestsDcNetOfInverterEfficiency(t *testing.T) {
	cfg := testConfig(t)
	// Solar surplus over consumption drives a charge period.
	cfg.Forecast = mustForecastSeries(t, series.ForecastPoint{ConsumptionKwh: 0, SolarKwh: 1})

	result := runGreedyBattery(cfg, FixedWithBattery, cfg.FixedTariff)
	rec := result.History.Records[0]

	assert.Equal(t, planner.Charge, rec.Action)
	assert.InDelta(t, cfg.Battery.ChargeEff, rec.DcMovedKwh, 1e-9)
	assert.InDelta(t, 0, rec.EnergyToGridKwh, 1e-9)
}

func TestRunGreedyBatteryDischargeRequestsDcNetOfInverterEfficiency(t *testing.T) {
	cfg := testConfig(t)
	// Consumption with no solar drives a discharge period; start near the top
	// of the SoC window so the AC deficit is fully covered rather than
	// clipped by the SoC floor.
	cfg.InitialSocKwh = cfg.Battery.MaxSocKwh()
	cfg.Forecast = mustForecastSeries(t, series.ForecastPoint{ConsumptionKwh: 1, SolarKwh: 0})

	result := runGreedyBattery(cfg, FixedWithBattery, cfg.FixedTariff)
	rec := result.History.Records[0]

	assert.Equal(t, planner.Discharge, rec.Action)
	assert.InDelta(t, 1/cfg.Battery.DischargeEff, rec.DcMovedKwh, 1e-9)
	assert.InDelta(t, 0, rec.EnergyFromGridKwh, 1e-9)
}

func mustForecastSeries(t *testing.T, point series.ForecastPoint) *series.ForecastSeries {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]series.ForecastPoint, 48)
	for i := range points {
		points[i] = point
		points[i].Instant = start.Add(time.Duration(i) * time.Hour)
	}
	fs, err := series.NewForecastSeries(series.Hourly, points)
	require.NoError(t, err)
	return fs
}

func TestSummariesSkipsFailedScenarios(t *testing.T) {
	results := []Result{
		{Name: FixedNoBattery, Failed: true, Reason: "boom"},
	}
	summaries := Summaries(results, 10)
	assert.Empty(t, summaries)
}

func TestSummariesIncludesSuccessfulScenarios(t *testing.T) {
	cfg := testConfig(t)
	results := RunAll(context.Background(), cfg)
	summaries := Summaries(results, cfg.Battery.CapacityKwh)
	assert.Len(t, summaries, 4)
}
