// Package objective provides the shared full-year-simulation scoring
// function the power-rating search layers (sweep and Nelder-Mead) both
// call: given a charge/discharge power rating, build the efficiency bundle,
// battery, and a fresh rolling simulation, and report total profit and
// cycles. Keeping this in one place guarantees the sweep and the direct
// search agree on what "profit at this rating" means.
package objective

import (
	"context"

	"github.com/rs/zerolog"

	"batterysim/internal/battery"
	"batterysim/internal/efficiency"
	"batterysim/internal/planner"
	"batterysim/internal/rolling"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

// Config holds everything constant across evaluations at different power
// ratings: capacity, SoC window, efficiency coefficients, and the
// price/forecast/tariff inputs for the simulation.
type Config struct {
	CapacityKwh   float64
	MinSocPct     float64
	MaxSocPct     float64
	InitialSocPct float64

	Coefficients efficiency.Coefficients

	Prices   *series.PriceSeries
	Forecast *series.ForecastSeries
	Tariff   tariff.Model

	Log zerolog.Logger
}

// Score is one evaluation's result.
type Score struct {
	Profit float64
	Cycles float64
}

// Evaluate runs a full simulation at the given power rating and returns its
// profit and cycle count.
func Evaluate(cfg Config, chargeKw, dischargeKw float64) (Score, error) {
	bundle, err := efficiency.Compute(chargeKw, dischargeKw, cfg.CapacityKwh, cfg.Coefficients)
	if err != nil {
		return Score{}, err
	}
	batCfg := battery.FromBundle(chargeKw, dischargeKw, cfg.CapacityKwh, cfg.MinSocPct, cfg.MaxSocPct, bundle)
	state, err := battery.New(batCfg, cfg.InitialSocPct*cfg.CapacityKwh)
	if err != nil {
		return Score{}, err
	}

	sim := &rolling.Simulator{
		Planner:  planner.New(),
		Battery:  state,
		Prices:   cfg.Prices,
		Forecast: cfg.Forecast,
		Tariff:   cfg.Tariff,
		Log:      cfg.Log,
	}

	hist, err := sim.Run(context.Background(), cfg.Prices.Start())
	if err != nil {
		return Score{}, err
	}

	return Score{
		Profit: hist.TotalCashflow(),
		Cycles: hist.Cycles(cfg.CapacityKwh),
	}, nil
}
