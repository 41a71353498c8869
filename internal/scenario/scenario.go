// Package scenario orchestrates the four canonical load-coupled analyses
// spec.md §4.8 defines: {fixed tariff, dynamic tariff} x {no battery, with
// battery}, all sharing one aggregation pipeline and result layout.
package scenario

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"batterysim/internal/aggregate"
	"batterysim/internal/battery"
	"batterysim/internal/planner"
	"batterysim/internal/rolling"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

// Name identifies one of the four canonical scenarios.
type Name string

const (
	FixedNoBattery     Name = "fixed_no_battery"
	FixedWithBattery   Name = "fixed_with_battery"
	DynamicNoBattery   Name = "dynamic_no_battery"
	DynamicWithBattery Name = "dynamic_with_battery"
)

// Config supplies the shared load and price inputs, and the battery
// configuration used in the two battery-coupled scenarios.
type Config struct {
	Prices       *series.PriceSeries
	Forecast     *series.ForecastSeries // required: consumption/solar
	FixedTariff  tariff.Model
	DynamicTariff tariff.Model
	Battery      battery.Config
	InitialSocKwh float64

	Log zerolog.Logger
}

// Result is one scenario's outcome, sharing TimestepRecord's layout so all
// four scenarios can be aggregated identically.
type Result struct {
	Name    Name
	History *rolling.History
	Failed  bool
	Reason  string
}

// RunAll runs all four scenarios and returns them together; a failing
// scenario does not abort the others; its Result carries Failed/Reason.
func RunAll(ctx context.Context, cfg Config) []Result {
	results := make([]Result, 0, 4)

	results = append(results, runNoBattery(cfg, FixedNoBattery, cfg.FixedTariff))
	results = append(results, runGreedyBattery(cfg, FixedWithBattery, cfg.FixedTariff))
	results = append(results, runNoBattery(cfg, DynamicNoBattery, cfg.DynamicTariff))
	results = append(results, runPlannedBattery(ctx, cfg, DynamicWithBattery, cfg.DynamicTariff))

	return results
}

// runNoBattery computes cashflow from raw netFlow (consumption - solar)
// priced at the given tariff's buy/sell rates; no battery involved.
func runNoBattery(cfg Config, name Name, tar tariff.Model) Result {
	hist := &rolling.History{}
	cum := 0.0
	for _, pp := range cfg.Prices.Points {
		f := cfg.Forecast.At(pp.Instant)
		net := f.ConsumptionKwh - f.SolarKwh

		buy := tar.Buy(pp.PriceMWh)
		sell := tar.Sell(pp.PriceMWh)

		rec := rolling.TimestepRecord{
			Instant:   pp.Instant,
			BuyPrice:  buy,
			SellPrice: sell,
		}
		if net >= 0 {
			rec.Action = planner.Idle
			rec.EnergyFromGridKwh = net
			rec.Cashflow = -net * buy
		} else {
			rec.Action = planner.Idle
			rec.EnergyToGridKwh = -net
			rec.Cashflow = -net * sell
		}
		cum += rec.Cashflow
		rec.CumCashflow = cum
		hist.Records = append(hist.Records, rec)
	}
	return Result{Name: name, History: hist}
}

// runGreedyBattery implements the rule-based "fixed tariff + battery"
// scenario: when netFlow < 0 (surplus) attempt to charge with the surplus;
// when netFlow > 0 (deficit) attempt to discharge to cover it; idle
// otherwise. This mirrors the teacher's ScheduleStrategy.Decide shape (a
// pure function of the current context) but keyed on net load instead of a
// fixed daily time window.
func runGreedyBattery(cfg Config, name Name, tar tariff.Model) Result {
	state, err := battery.New(cfg.Battery, cfg.InitialSocKwh)
	if err != nil {
		return Result{Name: name, Failed: true, Reason: err.Error()}
	}

	periodHours := cfg.Prices.Period.Duration().Hours()
	hist := &rolling.History{}
	cum := 0.0

	for _, pp := range cfg.Prices.Points {
		f := cfg.Forecast.At(pp.Instant)
		net := f.ConsumptionKwh - f.SolarKwh

		buy := tar.Buy(pp.PriceMWh)
		sell := tar.Sell(pp.PriceMWh)

		rec := rolling.TimestepRecord{Instant: pp.Instant, BuyPrice: buy, SellPrice: sell}

		switch {
		case net < 0:
			surplus := -net
			res := state.Charge(surplus*cfg.Battery.ChargeEff, periodHours)
			rec.Action = planner.Charge
			rec.DcMovedKwh = res.DcMovedKwh
			residual := surplus - res.AcKwh
			rec.EnergyFromGridKwh = 0
			rec.EnergyToGridKwh = math.Max(0, residual)
			rec.Cashflow = rec.EnergyToGridKwh * sell
		case net > 0:
			res := state.Discharge(net/cfg.Battery.DischargeEff, periodHours)
			rec.Action = planner.Discharge
			rec.DcMovedKwh = res.DcMovedKwh
			residual := net - res.AcKwh
			rec.EnergyFromGridKwh = math.Max(0, residual)
			rec.EnergyToGridKwh = 0
			rec.Cashflow = -rec.EnergyFromGridKwh * buy
		default:
			rec.Action = planner.Idle
		}

		rec.SocKwh = state.SocKwh
		cum += rec.Cashflow
		rec.CumCashflow = cum
		hist.Records = append(hist.Records, rec)
	}

	return Result{Name: name, History: hist}
}

// runPlannedBattery is the dynamic-tariff + battery scenario: a full
// RollingSimulator run with the load-aware planner.
func runPlannedBattery(ctx context.Context, cfg Config, name Name, tar tariff.Model) Result {
	state, err := battery.New(cfg.Battery, cfg.InitialSocKwh)
	if err != nil {
		return Result{Name: name, Failed: true, Reason: err.Error()}
	}

	sim := &rolling.Simulator{
		Planner:  planner.New(),
		Battery:  state,
		Prices:   cfg.Prices,
		Forecast: cfg.Forecast,
		Tariff:   tar,
		Log:      cfg.Log,
	}

	hist, err := sim.Run(ctx, cfg.Prices.Start())
	if err != nil {
		return Result{Name: name, History: hist, Failed: true, Reason: err.Error()}
	}
	return Result{Name: name, History: hist}
}

// Summaries reduces each scenario's history into the monthly aggregates
// spec.md §4.7 defines, for side-by-side comparison.
func Summaries(results []Result, capacityKwh float64) map[Name][]aggregate.Monthly {
	out := make(map[Name][]aggregate.Monthly, len(results))
	for _, r := range results {
		if r.Failed || r.History == nil {
			continue
		}
		out[r.Name] = aggregate.Monthlies(r.History, capacityKwh)
	}
	return out
}
