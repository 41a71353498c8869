// Package config loads the YAML run configuration: battery parameters,
// tariff selection, and sweep/search parameters, mirroring the teacher's
// battery-file-plus-overrides loading shape.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"batterysim/internal/battery"
	"batterysim/internal/efficiency"
	"batterysim/internal/search"
	"batterysim/internal/sweep"
	"batterysim/internal/tariff"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g.
	// examples/batteries/*.yaml). If both BatteryFile and Battery are
	// provided, Battery overrides BatteryFile.
	BatteryFile string        `yaml:"battery_file"`
	Battery     BatteryConfig `yaml:"battery"`
	Tariff      TariffConfig  `yaml:"tariff"`
	Sweep       *SweepConfig  `yaml:"sweep"`
	Search      *SearchConfig `yaml:"search"`
}

// BatteryConfig is the battery section: either a named preset (Preset set to
// an efficiency.Registry ID) or fully explicit capacity/power/coefficients.
// Explicit fields override the preset's when both are set.
type BatteryConfig struct {
	Preset              string  `yaml:"preset"`
	CapacityKwh         float64 `yaml:"capacity_kwh"`
	MaxChargePowerKw    float64 `yaml:"max_charge_power_kw"`
	MaxDischargePowerKw float64 `yaml:"max_discharge_power_kw"`
	MinSocPct           float64 `yaml:"min_soc_pct"`
	MaxSocPct           float64 `yaml:"max_soc_pct"`
	InitialSocPct       float64 `yaml:"initial_soc_pct"`

	InverterChargeA    float64 `yaml:"inverter_charge_a"`
	InverterChargeB    float64 `yaml:"inverter_charge_b"`
	InverterDischargeA float64 `yaml:"inverter_discharge_a"`
	InverterDischargeB float64 `yaml:"inverter_discharge_b"`
	RTESlope           float64 `yaml:"rte_slope"`
}

// TariffConfig selects a tariff preset, or "custom" plus formulas.
type TariffConfig struct {
	Preset      string `yaml:"preset"`
	BuyFormula  string `yaml:"buy_formula"`
	SellFormula string `yaml:"sell_formula"`
}

// SweepConfig mirrors sweep.Config's ranges for YAML loading.
type SweepConfig struct {
	ChargeMin     float64 `yaml:"charge_min"`
	ChargeMax     float64 `yaml:"charge_max"`
	ChargeStep    float64 `yaml:"charge_step"`
	DischargeMin  float64 `yaml:"discharge_min"`
	DischargeMax  float64 `yaml:"discharge_max"`
	DischargeStep float64 `yaml:"discharge_step"`
}

// SearchConfig mirrors search.Config's bounds and tolerance for YAML loading.
type SearchConfig struct {
	ChargeLow        float64 `yaml:"charge_low"`
	ChargeHigh       float64 `yaml:"charge_high"`
	DischargeLow     float64 `yaml:"discharge_low"`
	DischargeHigh    float64 `yaml:"discharge_high"`
	Tolerance        float64 `yaml:"tolerance"`
	StartChargeKw    float64 `yaml:"start_charge_kw"`
	StartDischargeKw float64 `yaml:"start_discharge_kw"`
}

// Load reads, merges, defaults, and validates the config at path.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// An unset initial SoC defaults to the minimum, matching the backtest's
	// conservative start-empty convention.
	if c.Battery.InitialSocPct == 0 {
		c.Battery.InitialSocPct = c.Battery.MinSocPct
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it. Useful
// for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := loadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	return &c, nil
}

// Validate resolves the preset (if any) and constructs a battery.Config and
// tariff.Model to confirm the section is usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Battery.Resolve(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if _, err := c.Tariff.Resolve(); err != nil {
		return fmt.Errorf("tariff config invalid: %w", err)
	}
	return nil
}

// Resolve turns the battery section into the battery.Config this run uses,
// preferring the preset's hardware limits and coefficients and layering any
// explicit overrides on top.
func (b BatteryConfig) Resolve() (battery.Config, error) {
	coef := efficiency.Coefficients{
		InverterChargeA:    b.InverterChargeA,
		InverterChargeB:    b.InverterChargeB,
		InverterDischargeA: b.InverterDischargeA,
		InverterDischargeB: b.InverterDischargeB,
		RTESlope:           b.RTESlope,
	}
	chargeKw, dischargeKw := b.MaxChargePowerKw, b.MaxDischargePowerKw

	if b.Preset != "" {
		p, ok := efficiency.Lookup(b.Preset)
		if !ok {
			return battery.Config{}, fmt.Errorf("unknown battery preset %q", b.Preset)
		}
		if chargeKw == 0 {
			chargeKw = p.MaxChargePowerKw
		}
		if dischargeKw == 0 {
			dischargeKw = p.MaxDischargePowerKw
		}
		if coef == (efficiency.Coefficients{}) {
			coef = p.Coefficients
		}
	}

	bundle, err := efficiency.Compute(chargeKw, dischargeKw, b.CapacityKwh, coef)
	if err != nil {
		return battery.Config{}, err
	}
	cfg := battery.FromBundle(chargeKw, dischargeKw, b.CapacityKwh, b.MinSocPct, b.MaxSocPct, bundle)
	if err := cfg.Validate(); err != nil {
		return battery.Config{}, err
	}
	return cfg, nil
}

// Resolve turns the tariff section into a tariff.Model.
func (t TariffConfig) Resolve() (tariff.Model, error) {
	if t.Preset == "custom" {
		return tariff.NewCustom(t.BuyFormula, t.SellFormula)
	}
	m, ok := tariff.Preset(t.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown tariff preset %q", t.Preset)
	}
	return m, nil
}

// ToSweepRanges converts the loaded ranges to sweep.Range pairs.
func (s SweepConfig) ToSweepRanges() (sweep.Range, sweep.Range) {
	return sweep.Range{Min: s.ChargeMin, Max: s.ChargeMax, Step: s.ChargeStep},
		sweep.Range{Min: s.DischargeMin, Max: s.DischargeMax, Step: s.DischargeStep}
}

// ToSearchBounds converts the loaded bounds to search.Bounds pairs and a
// starting point.
func (s SearchConfig) ToSearchBounds() (search.Bounds, search.Bounds, search.Point) {
	return search.Bounds{Low: s.ChargeLow, High: s.ChargeHigh},
		search.Bounds{Low: s.DischargeLow, High: s.DischargeHigh},
		search.Point{ChargeKw: s.StartChargeKw, DischargeKw: s.StartDischargeKw}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func loadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Preset != "" {
		out.Preset = override.Preset
	}
	if override.CapacityKwh != 0 {
		out.CapacityKwh = override.CapacityKwh
	}
	if override.MaxChargePowerKw != 0 {
		out.MaxChargePowerKw = override.MaxChargePowerKw
	}
	if override.MaxDischargePowerKw != 0 {
		out.MaxDischargePowerKw = override.MaxDischargePowerKw
	}
	if override.MinSocPct != 0 {
		out.MinSocPct = override.MinSocPct
	}
	if override.MaxSocPct != 0 {
		out.MaxSocPct = override.MaxSocPct
	}
	if override.InitialSocPct != 0 {
		out.InitialSocPct = override.InitialSocPct
	}
	if override.InverterChargeA != 0 {
		out.InverterChargeA = override.InverterChargeA
	}
	if override.InverterChargeB != 0 {
		out.InverterChargeB = override.InverterChargeB
	}
	if override.InverterDischargeA != 0 {
		out.InverterDischargeA = override.InverterDischargeA
	}
	if override.InverterDischargeB != 0 {
		out.InverterDischargeB = override.InverterDischargeB
	}
	if override.RTESlope != 0 {
		out.RTESlope = override.RTESlope
	}
	return out
}
