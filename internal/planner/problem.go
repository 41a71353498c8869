package planner

import (
	"gonum.org/v1/gonum/mat"

	"batterysim/internal/battery"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

// problem is the dense-tableau standard-form LP: minimize c^T x subject to
// A x = b, x >= 0. Variables are laid out in contiguous per-quantity blocks
// of length n (the window length), in this order:
//
//	charge[0..n) discharge[0..n) socOffset[0..n)
//	slackCharge[0..n) slackDischarge[0..n) slackSoc[0..n)
//	[gridImport[0..n) gridExport[0..n)]   (load-aware only)
//
// socOffset_t represents soc_t - MinSocKwh so that it, like every other
// variable, only needs a >= 0 bound; its upper bound (MaxSocKwh-MinSocKwh)
// is enforced the same way as the power bounds, via an equality to a slack
// variable.
type problem struct {
	n         int
	loadAware bool
	c         []float64
	A         *mat.Dense
	b         []float64
}

func (p *problem) chargeIdx(t int) int     { return t }
func (p *problem) dischargeIdx(t int) int  { return p.n + t }
func (p *problem) socOffsetIdx(t int) int  { return 2*p.n + t }
func (p *problem) slackChargeIdx(t int) int    { return 3*p.n + t }
func (p *problem) slackDischargeIdx(t int) int { return 4*p.n + t }
func (p *problem) slackSocIdx(t int) int       { return 5*p.n + t }
func (p *problem) gridImportIdx(t int) int { return 6*p.n + t }
func (p *problem) gridExportIdx(t int) int { return 7*p.n + t }

func buildProblem(
	prices []series.PricePoint,
	forecast *series.ForecastSeries,
	periodHours float64,
	cfg battery.Config,
	initialSocKwh float64,
	tar tariff.Model,
	loadAware bool,
) *problem {
	n := len(prices)
	nVars := 6 * n
	nRows := 4 * n // dynamics + charge/discharge/soc upper-bound slack rows
	if loadAware {
		nVars += 2 * n
		nRows += n // grid balance rows
	}

	p := &problem{n: n, loadAware: loadAware}
	c := make([]float64, nVars)
	A := mat.NewDense(nRows, nVars, nil)
	b := make([]float64, nRows)
	p.c, p.A, p.b = c, A, b

	minSoc := cfg.MinSocKwh()
	maxSoc := cfg.MaxSocKwh()
	socRange := maxSoc - minSoc
	chargeCap := cfg.MaxChargePowerKw * periodHours
	dischargeCap := cfg.MaxDischargePowerKw * periodHours

	row := 0

	// SoC dynamics: row per period.
	for t := 0; t < n; t++ {
		A.Set(row, p.socOffsetIdx(t), 1)
		A.Set(row, p.chargeIdx(t), -1)
		A.Set(row, p.dischargeIdx(t), 1)
		if t == 0 {
			b[row] = initialSocKwh - minSoc
		} else {
			A.Set(row, p.socOffsetIdx(t-1), -1)
			b[row] = 0
		}
		row++
	}

	// Load-aware grid balance: row per period.
	if loadAware {
		invChargeEff := 1 / cfg.ChargeEff
		for t := 0; t < n; t++ {
			f := forecast.At(prices[t].Instant)
			A.Set(row, p.gridImportIdx(t), 1)
			A.Set(row, p.gridExportIdx(t), -1)
			A.Set(row, p.chargeIdx(t), -invChargeEff)
			A.Set(row, p.dischargeIdx(t), cfg.DischargeEff)
			b[row] = f.ConsumptionKwh - f.SolarKwh
			row++
		}
	}

	// Power and SoC upper bounds via slack equalities.
	for t := 0; t < n; t++ {
		A.Set(row, p.chargeIdx(t), 1)
		A.Set(row, p.slackChargeIdx(t), 1)
		b[row] = chargeCap
		row++
	}
	for t := 0; t < n; t++ {
		A.Set(row, p.dischargeIdx(t), 1)
		A.Set(row, p.slackDischargeIdx(t), 1)
		b[row] = dischargeCap
		row++
	}
	for t := 0; t < n; t++ {
		A.Set(row, p.socOffsetIdx(t), 1)
		A.Set(row, p.slackSocIdx(t), 1)
		b[row] = socRange
		row++
	}

	// Objective.
	if loadAware {
		for t := 0; t < n; t++ {
			buy := tar.Buy(prices[t].PriceMWh)
			sell := tar.Sell(prices[t].PriceMWh)
			c[p.gridImportIdx(t)] = buy
			c[p.gridExportIdx(t)] = -sell
		}
	} else {
		invChargeEff := 1 / cfg.ChargeEff
		for t := 0; t < n; t++ {
			buy := tar.Buy(prices[t].PriceMWh)
			sell := tar.Sell(prices[t].PriceMWh)
			c[p.chargeIdx(t)] = buy * invChargeEff
			c[p.dischargeIdx(t)] = -sell * cfg.DischargeEff
		}
	}

	return p
}
