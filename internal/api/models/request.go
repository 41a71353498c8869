package models

// BatteryConfig mirrors config.BatteryConfig for JSON request bodies.
type BatteryConfig struct {
	Preset              string  `json:"preset,omitempty"`
	CapacityKwh         float64 `json:"capacity_kwh"`
	MaxChargePowerKw    float64 `json:"max_charge_power_kw,omitempty"`
	MaxDischargePowerKw float64 `json:"max_discharge_power_kw,omitempty"`
	MinSocPct           float64 `json:"min_soc_pct"`
	MaxSocPct           float64 `json:"max_soc_pct"`
	InitialSocPct       float64 `json:"initial_soc_pct,omitempty"`
}

// TariffConfig selects a built-in tariff or a custom pair of formulas.
type TariffConfig struct {
	Preset      string `json:"preset" binding:"required"`
	BuyFormula  string `json:"buy_formula,omitempty"`
	SellFormula string `json:"sell_formula,omitempty"`
}

// PriceSource locates the day-ahead price series and the aligned
// consumption/solar forecast to run against.
type PriceSource struct {
	PricesFile   string `json:"prices_file" binding:"required"`
	ForecastFile string `json:"forecast_file,omitempty"`
	Period       string `json:"period,omitempty"` // "hourly" or "quarter_hourly"
}

// SimulationRequest represents the request body for running one
// rolling-horizon simulation.
type SimulationRequest struct {
	Source  PriceSource   `json:"source" binding:"required"`
	Battery BatteryConfig `json:"battery" binding:"required"`
	Tariff  TariffConfig  `json:"tariff" binding:"required"`
}

// RangeSpec is an inclusive [Min,Max] swept in Step increments.
type RangeSpec struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// SweepRequest represents the request body for running a power-rating grid
// sweep.
type SweepRequest struct {
	Source         PriceSource   `json:"source" binding:"required"`
	Battery        BatteryConfig `json:"battery" binding:"required"`
	Tariff         TariffConfig  `json:"tariff" binding:"required"`
	ChargeRange    RangeSpec     `json:"charge_range" binding:"required"`
	DischargeRange RangeSpec     `json:"discharge_range" binding:"required"`
}

// SearchStartPoint is the initial (chargeKw, dischargeKw) guess.
type SearchStartPoint struct {
	ChargeKw    float64 `json:"charge_kw"`
	DischargeKw float64 `json:"discharge_kw"`
}

// BoundsSpec is an inclusive [Low,High] clipping range.
type BoundsSpec struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// SearchRequest represents the request body for running the Nelder-Mead
// power-rating search.
type SearchRequest struct {
	Source          PriceSource       `json:"source" binding:"required"`
	Battery         BatteryConfig     `json:"battery" binding:"required"`
	Tariff          TariffConfig      `json:"tariff" binding:"required"`
	ChargeBounds    BoundsSpec        `json:"charge_bounds" binding:"required"`
	DischargeBounds BoundsSpec        `json:"discharge_bounds" binding:"required"`
	Start           SearchStartPoint  `json:"start" binding:"required"`
	Tolerance       float64           `json:"tolerance,omitempty"`
}

// CompareRequest represents the request body for running all four canonical
// scenarios (fixed/dynamic tariff x no-battery/with-battery) side by side.
type CompareRequest struct {
	Source        PriceSource   `json:"source" binding:"required"`
	Battery       BatteryConfig `json:"battery" binding:"required"`
	FixedTariff   TariffConfig  `json:"fixed_tariff" binding:"required"`
	DynamicTariff TariffConfig  `json:"dynamic_tariff" binding:"required"`
}
