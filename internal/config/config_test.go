package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResolvesPresetAndDefaultsInitialSoc(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
battery:
  preset: three-phase-11-15
  capacity_kwh: 10
  min_soc_pct: 0.1
  max_soc_pct: 0.9
tariff:
  preset: bare
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, cfg.Battery.InitialSocPct, 1e-9)
}

func TestLoadRejectsUnknownPreset(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
battery:
  preset: does-not-exist
  capacity_kwh: 10
tariff:
  preset: bare
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMergesBatteryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "battery.yaml", `
battery:
  preset: three-phase-11-15
  capacity_kwh: 10
  min_soc_pct: 0.1
  max_soc_pct: 0.9
`)
	path := writeFile(t, dir, "config.yaml", `
battery_file: battery.yaml
tariff:
  preset: bare
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "three-phase-11-15", cfg.Battery.Preset)
}

func TestLoadOverridesBatteryFileWithExplicitFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "battery.yaml", `
battery:
  preset: three-phase-11-15
  capacity_kwh: 10
  min_soc_pct: 0.1
  max_soc_pct: 0.9
`)
	path := writeFile(t, dir, "config.yaml", `
battery_file: battery.yaml
battery:
  capacity_kwh: 20
tariff:
  preset: bare
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Battery.CapacityKwh)
	assert.Equal(t, "three-phase-11-15", cfg.Battery.Preset)
}

func TestMergeBatteryOverlaysOnlyNonZeroFields(t *testing.T) {
	base := BatteryConfig{Preset: "base-preset", CapacityKwh: 10, MinSocPct: 0.1}
	override := BatteryConfig{CapacityKwh: 20}
	merged := MergeBattery(base, override)
	assert.Equal(t, "base-preset", merged.Preset)
	assert.Equal(t, 20.0, merged.CapacityKwh)
	assert.Equal(t, 0.1, merged.MinSocPct)
}

func TestBatteryConfigResolveExplicitOverridesPreset(t *testing.T) {
	b := BatteryConfig{
		Preset:              "three-phase-11-15",
		CapacityKwh:         10,
		MaxChargePowerKw:    3,
		MaxDischargePowerKw: 4,
		MinSocPct:           0.1,
		MaxSocPct:           0.9,
	}
	cfg, err := b.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.MaxChargePowerKw)
	assert.Equal(t, 4.0, cfg.MaxDischargePowerKw)
}

func TestTariffConfigResolveCustomFormula(t *testing.T) {
	tc := TariffConfig{Preset: "custom", BuyFormula: "epex/1000", SellFormula: "epex/1000"}
	m, err := tc.Resolve()
	require.NoError(t, err)
	assert.InDelta(t, 0.08, m.Buy(80), 1e-9)
}

func TestTariffConfigResolveUnknownPreset(t *testing.T) {
	tc := TariffConfig{Preset: "does-not-exist"}
	_, err := tc.Resolve()
	require.Error(t, err)
}

func TestToSweepRangesAndSearchBounds(t *testing.T) {
	sc := SweepConfig{ChargeMin: 1, ChargeMax: 5, ChargeStep: 1, DischargeMin: 2, DischargeMax: 6, DischargeStep: 2}
	chargeRange, dischargeRange := sc.ToSweepRanges()
	assert.Equal(t, 1.0, chargeRange.Min)
	assert.Equal(t, 2.0, dischargeRange.Min)

	search := SearchConfig{ChargeLow: 1, ChargeHigh: 10, DischargeLow: 2, DischargeHigh: 12, StartChargeKw: 5, StartDischargeKw: 5}
	cb, db, start := search.ToSearchBounds()
	assert.Equal(t, 1.0, cb.Low)
	assert.Equal(t, 12.0, db.High)
	assert.Equal(t, 5.0, start.ChargeKw)
}
