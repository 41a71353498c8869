// Package search implements the two-dimensional Nelder-Mead direct search
// over (chargePowerKw, dischargePowerKw), spec.md §4.6: the objective is
// negative total profit from a full-year simulation, bounds are clipped per
// candidate, and termination is by simplex-diameter tolerance or an
// iteration/evaluation cap, whichever comes first.
package search

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"batterysim/internal/objective"
)

const (
	reflectionAlpha  = 1.0
	expansionGamma   = 2.0
	contractionRho   = 0.5
	shrinkSigma      = 0.5
	maxIterations    = 100
	maxEvaluations   = 500
	defaultLowBound  = 0.1
)

// Bounds is the per-axis clipping range [Low, High].
type Bounds struct {
	Low, High float64
}

func (b Bounds) clip(v float64) float64 {
	if v < b.Low {
		return b.Low
	}
	if v > b.High {
		return b.High
	}
	return v
}

// Point is one (chargePowerKw, dischargePowerKw) candidate.
type Point struct {
	ChargeKw    float64
	DischargeKw float64
}

func (p Point) clip(chargeBounds, dischargeBounds Bounds) Point {
	return Point{
		ChargeKw:    chargeBounds.clip(p.ChargeKw),
		DischargeKw: dischargeBounds.clip(p.DischargeKw),
	}
}

func distance(a, b Point) float64 {
	dx := a.ChargeKw - b.ChargeKw
	dy := a.DischargeKw - b.DischargeKw
	return math.Hypot(dx, dy)
}

// Config parameterizes one search run.
type Config struct {
	ChargeBounds    Bounds
	DischargeBounds Bounds

	Tolerance      float64 // simplex-diameter convergence threshold
	MaxIterations  int     // 0 selects the spec default (100)
	MaxEvaluations int     // 0 selects the spec default (500)

	Objective objective.Config

	Log zerolog.Logger
}

// Result carries the best configuration found, its profit, and the search's
// termination bookkeeping.
type Result struct {
	Best        Point
	BestProfit  float64
	Iterations  int
	Evaluations int
	Converged   bool
}

type vertex struct {
	point Point
	value float64 // objective value (negative profit, lower is better)
}

// Run performs the search starting from start, a user-supplied initial
// guess. The initial simplex is start plus two perturbations of magnitude
// 0.2*max(chargeKw,dischargeKw) along each axis, per spec.md §4.6.
func Run(cfg Config, start Point) (*Result, error) {
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = maxIterations
	}
	maxEval := cfg.MaxEvaluations
	if maxEval <= 0 {
		maxEval = maxEvaluations
	}

	start = start.clip(cfg.ChargeBounds, cfg.DischargeBounds)
	perturb := 0.2 * math.Max(start.ChargeKw, start.DischargeKw)
	if perturb == 0 {
		perturb = 0.2
	}

	evalCount := 0
	evaluate := func(p Point) (vertex, error) {
		p = p.clip(cfg.ChargeBounds, cfg.DischargeBounds)
		score, err := objective.Evaluate(cfg.Objective, p.ChargeKw, p.DischargeKw)
		evalCount++
		if err != nil {
			return vertex{}, err
		}
		return vertex{point: p, value: -score.Profit}, nil
	}

	simplex := make([]vertex, 3)
	var err error
	if simplex[0], err = evaluate(start); err != nil {
		return nil, err
	}
	if simplex[1], err = evaluate(Point{ChargeKw: start.ChargeKw + perturb, DischargeKw: start.DischargeKw}); err != nil {
		return nil, err
	}
	if simplex[2], err = evaluate(Point{ChargeKw: start.ChargeKw, DischargeKw: start.DischargeKw + perturb}); err != nil {
		return nil, err
	}

	iterations := 0
	converged := false

	for iterations < maxIter && evalCount < maxEval {
		sort.Slice(simplex, func(i, j int) bool { return simplex[i].value < simplex[j].value })

		if simplexDiameter(simplex) < cfg.Tolerance {
			converged = true
			break
		}

		best, secondWorst, worst := simplex[0], simplex[1], simplex[2]

		centroid := Point{
			ChargeKw:    (best.point.ChargeKw + secondWorst.point.ChargeKw) / 2,
			DischargeKw: (best.point.DischargeKw + secondWorst.point.DischargeKw) / 2,
		}

		reflected := reflect(centroid, worst.point, reflectionAlpha)
		reflectedV, err := evaluate(reflected)
		if err != nil {
			return nil, err
		}

		switch {
		case reflectedV.value < best.value:
			expanded := reflect(centroid, worst.point, expansionGamma)
			expandedV, err := evaluate(expanded)
			if err != nil {
				return nil, err
			}
			if expandedV.value < reflectedV.value {
				simplex[2] = expandedV
			} else {
				simplex[2] = reflectedV
			}
		case reflectedV.value < secondWorst.value:
			simplex[2] = reflectedV
		default:
			contracted := reflect(centroid, worst.point, -contractionRho)
			contractedV, err := evaluate(contracted)
			if err != nil {
				return nil, err
			}
			if contractedV.value < worst.value {
				simplex[2] = contractedV
			} else {
				// Shrink toward the best vertex.
				for i := 1; i < len(simplex); i++ {
					shrunk := Point{
						ChargeKw:    best.point.ChargeKw + shrinkSigma*(simplex[i].point.ChargeKw-best.point.ChargeKw),
						DischargeKw: best.point.DischargeKw + shrinkSigma*(simplex[i].point.DischargeKw-best.point.DischargeKw),
					}
					v, err := evaluate(shrunk)
					if err != nil {
						return nil, err
					}
					simplex[i] = v
				}
			}
		}

		iterations++
		cfg.Log.Debug().Int("iteration", iterations).Int("evaluations", evalCount).Msg("nelder-mead step")

		if evalCount >= maxEval {
			break
		}
	}

	sort.Slice(simplex, func(i, j int) bool { return simplex[i].value < simplex[j].value })
	if !converged {
		converged = simplexDiameter(simplex) < cfg.Tolerance
	}

	return &Result{
		Best:        simplex[0].point,
		BestProfit:  -simplex[0].value,
		Iterations:  iterations,
		Evaluations: evalCount,
		Converged:   converged,
	}, nil
}

// reflect moves worst through centroid by factor t: centroid + t*(centroid - worst).
func reflect(centroid, worst Point, t float64) Point {
	return Point{
		ChargeKw:    centroid.ChargeKw + t*(centroid.ChargeKw-worst.ChargeKw),
		DischargeKw: centroid.DischargeKw + t*(centroid.DischargeKw-worst.DischargeKw),
	}
}

func simplexDiameter(simplex []vertex) float64 {
	maxD := 0.0
	for i := range simplex {
		for j := i + 1; j < len(simplex); j++ {
			if d := distance(simplex[i].point, simplex[j].point); d > maxD {
				maxD = d
			}
		}
	}
	return maxD
}
