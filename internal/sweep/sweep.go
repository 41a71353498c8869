// Package sweep implements the two-dimensional grid search over
// charge/discharge power ratings (spec.md §4.5), scoring each point with a
// full rolling-horizon simulation.
package sweep

import (
	"context"

	"github.com/rs/zerolog"

	"batterysim/internal/efficiency"
	"batterysim/internal/objective"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

// Range is an inclusive [Min,Max] swept in Step increments.
type Range struct {
	Min, Max, Step float64
}

// values expands the range into grid points, clipped at the upper end by
// hwMax. A step larger than the span collapses to a single evaluation at
// Min, per spec.md §8's zero-range boundary rule.
func (r Range) values(hwMax float64) []float64 {
	max := r.Max
	if hwMax > 0 && max > hwMax {
		max = hwMax
	}
	min := r.Min
	step := r.Step
	if step <= 0 || step > max-min {
		return []float64{min}
	}
	var out []float64
	for v := min; v <= max+1e-9; v += step {
		out = append(out, v)
	}
	return out
}

// Point is one (chargePowerKw, dischargePowerKw) grid coordinate.
type Point struct {
	ChargeKw    float64
	DischargeKw float64
}

// Evaluation is one grid point's simulated outcome.
type Evaluation struct {
	Point          Point
	Profit         float64
	Cycles         float64
	ProfitPerCycle float64
}

// Result is the complete sweep output: the full grid, the best point by
// profit, and the diagonal slice where charge power equals discharge power.
type Result struct {
	Grid     []Evaluation
	Best     Evaluation
	Diagonal []Evaluation
}

// Config parameterizes one sweep run.
type Config struct {
	ChargeRange    Range
	DischargeRange Range

	CapacityKwh   float64
	MinSocPct     float64
	MaxSocPct     float64
	InitialSocPct float64

	Coefficients        efficiency.Coefficients
	HardwareMaxChargeKw float64
	HardwareMaxDischargeKw float64

	Prices   *series.PriceSeries
	Forecast *series.ForecastSeries
	Tariff   tariff.Model

	Log zerolog.Logger
}

// ProgressFunc is invoked once per grid-point evaluation.
type ProgressFunc func(index, total int, chargeKw, dischargeKw float64)

// Run evaluates every grid point in sequence, yielding between points (the
// only suspension point spec.md §5 allows inside the sweep).
func Run(ctx context.Context, cfg Config, progress ProgressFunc) (*Result, error) {
	chargeVals := cfg.ChargeRange.values(cfg.HardwareMaxChargeKw)
	dischargeVals := cfg.DischargeRange.values(cfg.HardwareMaxDischargeKw)

	total := len(chargeVals) * len(dischargeVals)
	grid := make([]Evaluation, 0, total)

	idx := 0
	var best Evaluation
	haveBest := false

	for _, pCh := range chargeVals {
		for _, pDis := range dischargeVals {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			eval, err := evaluate(cfg, pCh, pDis)
			if err != nil {
				cfg.Log.Warn().Float64("charge_kw", pCh).Float64("discharge_kw", pDis).Err(err).Msg("sweep point failed")
			} else {
				grid = append(grid, eval)
				if !haveBest || eval.Profit > best.Profit {
					best = eval
					haveBest = true
				}
			}

			idx++
			if progress != nil {
				progress(idx, total, pCh, pDis)
			}
		}
	}

	diagonal := diagonalSlice(grid, chargeVals, dischargeVals)

	return &Result{Grid: grid, Best: best, Diagonal: diagonal}, nil
}

func (cfg Config) objectiveConfig() objective.Config {
	return objective.Config{
		CapacityKwh:   cfg.CapacityKwh,
		MinSocPct:     cfg.MinSocPct,
		MaxSocPct:     cfg.MaxSocPct,
		InitialSocPct: cfg.InitialSocPct,
		Coefficients:  cfg.Coefficients,
		Prices:        cfg.Prices,
		Forecast:      cfg.Forecast,
		Tariff:        cfg.Tariff,
		Log:           cfg.Log,
	}
}

func evaluate(cfg Config, chargeKw, dischargeKw float64) (Evaluation, error) {
	score, err := objective.Evaluate(cfg.objectiveConfig(), chargeKw, dischargeKw)
	if err != nil {
		return Evaluation{}, err
	}

	ppc := 0.0
	if score.Cycles > 0 {
		ppc = score.Profit / score.Cycles
	}

	return Evaluation{
		Point:          Point{ChargeKw: chargeKw, DischargeKw: dischargeKw},
		Profit:         score.Profit,
		Cycles:         score.Cycles,
		ProfitPerCycle: ppc,
	}, nil
}

func diagonalSlice(grid []Evaluation, chargeVals, dischargeVals []float64) []Evaluation {
	dischargeSet := make(map[float64]bool, len(dischargeVals))
	for _, v := range dischargeVals {
		dischargeSet[v] = true
	}
	var diag []Evaluation
	for _, e := range grid {
		if e.Point.ChargeKw == e.Point.DischargeKw && dischargeSet[e.Point.ChargeKw] {
			diag = append(diag, e)
		}
	}
	for i := 1; i < len(diag); i++ {
		for j := i; j > 0 && diag[j-1].Point.ChargeKw > diag[j].Point.ChargeKw; j-- {
			diag[j-1], diag[j] = diag[j], diag[j-1]
		}
	}
	return diag
}
