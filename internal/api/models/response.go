package models

import "time"

// TimestepRow is one simulated period, mirroring rolling.TimestepRecord for
// JSON responses.
type TimestepRow struct {
	Instant           time.Time `json:"instant"`
	Action            string    `json:"action"`
	DcMovedKwh        float64   `json:"dc_moved_kwh"`
	EnergyFromGridKwh float64   `json:"energy_from_grid_kwh"`
	EnergyToGridKwh   float64   `json:"energy_to_grid_kwh"`
	SocKwh            float64   `json:"soc_kwh"`
	BuyPrice          float64   `json:"buy_price"`
	SellPrice         float64   `json:"sell_price"`
	Cashflow          float64   `json:"cashflow"`
	CumCashflow       float64   `json:"cum_cashflow"`
}

// MonthlySummary mirrors aggregate.Monthly for JSON responses.
type MonthlySummary struct {
	Year                int     `json:"year"`
	Month               int     `json:"month"`
	EnergyChargedKwh    float64 `json:"energy_charged_kwh"`
	EnergyDischargedKwh float64 `json:"energy_discharged_kwh"`
	GridImportKwh       float64 `json:"grid_import_kwh"`
	GridExportKwh       float64 `json:"grid_export_kwh"`
	Cashflow            float64 `json:"cashflow"`
	Cycles              float64 `json:"cycles"`
}

// SimulationSummary contains the aggregated outcome of one simulation run.
type SimulationSummary struct {
	TotalCashflow float64          `json:"total_cashflow"`
	FinalSocKwh   float64          `json:"final_soc_kwh"`
	TotalPeriods  int              `json:"total_periods"`
	Cycles        float64          `json:"cycles"`
	Monthly       []MonthlySummary `json:"monthly"`
}

// SimulationResponse represents the response from running one rolling
// simulation.
type SimulationResponse struct {
	Status   string         `json:"status"`
	Summary  SimulationSummary `json:"summary"`
	Ledger   []TimestepRow  `json:"ledger,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// SweepPoint is one evaluated grid point.
type SweepPoint struct {
	ChargeKw       float64 `json:"charge_kw"`
	DischargeKw    float64 `json:"discharge_kw"`
	Profit         float64 `json:"profit"`
	Cycles         float64 `json:"cycles"`
	ProfitPerCycle float64 `json:"profit_per_cycle"`
}

// SweepResponse represents the response from a power-rating grid sweep.
type SweepResponse struct {
	Grid     []SweepPoint `json:"grid"`
	Best     SweepPoint   `json:"best"`
	Diagonal []SweepPoint `json:"diagonal"`
}

// SearchResponse represents the response from the Nelder-Mead power-rating
// search.
type SearchResponse struct {
	Best        SweepPoint `json:"best"`
	Iterations  int        `json:"iterations"`
	Evaluations int        `json:"evaluations"`
	Converged   bool       `json:"converged"`
}

// ScenarioResult carries one of the four canonical scenarios' summary.
type ScenarioResult struct {
	Name    string            `json:"name"`
	Failed  bool              `json:"failed,omitempty"`
	Reason  string            `json:"reason,omitempty"`
	Monthly []MonthlySummary  `json:"monthly,omitempty"`
}

// CompareResponse represents the response from running all four canonical
// scenarios.
type CompareResponse struct {
	Scenarios []ScenarioResult `json:"scenarios"`
}

// BatteryPresetInfo represents information about a battery hardware preset.
type BatteryPresetInfo struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	MaxChargePowerKw    float64 `json:"max_charge_power_kw"`
	MaxDischargePowerKw float64 `json:"max_discharge_power_kw"`
}

// TariffPresetInfo represents information about a built-in tariff model.
type TariffPresetInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
