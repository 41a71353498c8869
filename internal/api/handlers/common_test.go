package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterysim/internal/api/models"
	"batterysim/internal/series"
)

func TestResolveBatteryUsesPresetDefaults(t *testing.T) {
	cfg, err := resolveBattery(models.BatteryConfig{
		Preset:      "three-phase-11-15",
		CapacityKwh: 10,
		MinSocPct:   0.1,
		MaxSocPct:   0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, 11.0, cfg.MaxChargePowerKw)
	assert.Equal(t, 15.0, cfg.MaxDischargePowerKw)
}

func TestResolveBatteryUnknownPreset(t *testing.T) {
	_, err := resolveBattery(models.BatteryConfig{Preset: "does-not-exist", CapacityKwh: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown battery preset")
}

func TestResolveTariffCustomFormula(t *testing.T) {
	m, err := resolveTariff(models.TariffConfig{Preset: "custom", BuyFormula: "epex/1000", SellFormula: "epex/1000"})
	require.NoError(t, err)
	assert.InDelta(t, 0.08, m.Buy(80), 1e-9)
}

func TestResolveTariffUnknownPreset(t *testing.T) {
	_, err := resolveTariff(models.TariffConfig{Preset: "does-not-exist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tariff preset")
}

func TestResolvePeriodDefaultsToHourly(t *testing.T) {
	assert.Equal(t, series.Hourly, resolvePeriod(""))
	assert.Equal(t, series.QuarterHourly, resolvePeriod("quarter_hourly"))
}
