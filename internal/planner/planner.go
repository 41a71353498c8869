// Package planner builds and solves the rolling-horizon dispatch linear
// program: a per-period charge/discharge/SoC trajectory that maximises
// arbitrage profit, optionally net of a consumption/solar forecast.
package planner

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"batterysim/internal/batteryerr"
	"batterysim/internal/battery"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

// Kind is the dispatch action for one period.
type Kind int

const (
	Idle Kind = iota
	Charge
	Discharge
)

func (k Kind) String() string {
	switch k {
	case Charge:
		return "charge"
	case Discharge:
		return "discharge"
	default:
		return "idle"
	}
}

// Action is one period's planned dispatch, indexed by instant.
type Action struct {
	Instant     time.Time
	Kind        Kind
	EnergyDcKwh float64
	BuyPrice    float64
	SellPrice   float64
}

// idleEps is the energy threshold below which both charge and discharge
// variables are considered zero, per spec.md's idle rule.
const idleEps = 1e-6

// feasibilityTolerance bounds how far a returned solution may violate the
// standard-form constraints (Ax=b, x>=0) before Plan treats it as a
// non-optimal-but-feasible result rather than an exact solve. gonum's
// lp.Simplex reports only success or a failure class (infeasible, unbounded,
// singular) via err, with no status distinguishing a certified-optimal
// vertex from one reached by a tolerance-bounded pivot; residual-checking
// the returned x against A and b is the only way this module can detect that
// case itself. See DESIGN.md.
const feasibilityTolerance = 1e-6

// Solver is the external LP-solver collaborator. The planner builds a
// dense-tableau standard-form problem (minimize c^T x s.t. A x = b, x >= 0)
// and hands it to Solver, so the core stays solver-independent per spec.md
// §9's in-memory-tableau guidance.
type Solver interface {
	Solve(c []float64, A mat.Matrix, b []float64) (x []float64, objective float64, err error)
}

// SimplexSolver is the default Solver, backed by gonum's dense simplex
// implementation.
type SimplexSolver struct {
	Tolerance float64
}

func (s SimplexSolver) Solve(c []float64, A mat.Matrix, b []float64) ([]float64, float64, error) {
	tol := s.Tolerance
	if tol <= 0 {
		tol = 1e-9
	}
	opt, x, err := lp.Simplex(c, A, b, tol, nil)
	if err != nil {
		return nil, 0, err
	}
	return x, opt, nil
}

// Planner builds and solves the dispatch LP for one planning window.
type Planner struct {
	Solver Solver
}

// New returns a Planner backed by the default gonum simplex solver.
func New() *Planner {
	return &Planner{Solver: SimplexSolver{}}
}

// Plan solves the LP over the given price points (already clipped to the
// available series and to the planning window) for the given battery
// configuration, initial SoC, and tariff. If forecast is non-nil the
// load-aware formulation is used; otherwise the arbitrage-only formulation
// is used. Returns the per-period actions, a warning flag set when the
// returned solution violates the constraints by more than
// feasibilityTolerance, and a SolverError if the LP is infeasible or
// unbounded.
func (p *Planner) Plan(
	prices []series.PricePoint,
	forecast *series.ForecastSeries,
	periodHours float64,
	cfg battery.Config,
	initialSocKwh float64,
	tar tariff.Model,
) ([]Action, bool, error) {
	n := len(prices)
	if n == 0 {
		return nil, false, batteryerr.MissingData("no price points in planning window")
	}
	if periodHours <= 0 {
		return nil, false, batteryerr.InvalidParameter("periodHours must be > 0")
	}

	loadAware := forecast != nil

	prob := buildProblem(prices, forecast, periodHours, cfg, initialSocKwh, tar, loadAware)

	solver := p.Solver
	if solver == nil {
		solver = SimplexSolver{}
	}
	x, _, err := solver.Solve(prob.c, prob.A, prob.b)
	if err != nil {
		return nil, false, batteryerr.SolverError(fmt.Sprintf("LP solve failed for %d-period window", n), err)
	}

	warn := feasibilityResidual(prob, x) > feasibilityTolerance

	actions := make([]Action, n)
	for t := 0; t < n; t++ {
		chargeVal := x[prob.chargeIdx(t)]
		dischargeVal := x[prob.dischargeIdx(t)]
		buy := tar.Buy(prices[t].PriceMWh)
		sell := tar.Sell(prices[t].PriceMWh)

		a := Action{
			Instant:   prices[t].Instant,
			BuyPrice:  buy,
			SellPrice: sell,
		}
		switch {
		case chargeVal < idleEps && dischargeVal < idleEps:
			a.Kind = Idle
		case chargeVal >= dischargeVal:
			// Ties resolve to charge, per spec.md §4.3.
			a.Kind = Charge
			a.EnergyDcKwh = chargeVal
		default:
			a.Kind = Discharge
			a.EnergyDcKwh = dischargeVal
		}
		actions[t] = a
	}
	return actions, warn, nil
}

// feasibilityResidual reports the largest constraint violation in x: the
// max absolute row residual |Ax-b| across the equality constraints, or the
// most negative variable value, whichever is larger. A well-converged exact
// solve returns a value near zero; anything above feasibilityTolerance means
// x satisfies the problem only approximately.
func feasibilityResidual(prob *problem, x []float64) float64 {
	rows, cols := prob.A.Dims()
	worst := 0.0
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += prob.A.At(i, j) * x[j]
		}
		if r := math.Abs(sum - prob.b[i]); r > worst {
			worst = r
		}
	}
	for _, v := range x {
		if v < 0 && -v > worst {
			worst = -v
		}
	}
	return worst
}
