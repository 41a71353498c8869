// Package efficiency computes the power-dependent efficiency bundle that
// links a charge/discharge power rating to inverter and battery round-trip
// losses. Planner, simulator, and the power-rating search layers all derive
// their efficiencies from the same bundle for a given rating so they agree
// on the physics.
package efficiency

import (
	"math"

	"batterysim/internal/batteryerr"
)

// clampLo/clampHi bound every derived efficiency: below 0.5 a cell is not
// worth modeling as round-trip storage, and above 0.999 risks numerical
// degeneracies in the LP objective.
const (
	clampLo = 0.5
	clampHi = 0.999
)

// Coefficients parameterize the inverter efficiency curves and the
// battery round-trip-efficiency slope for one hardware preset.
//
// InverterChargeA/B and InverterDischargeA/B describe an affine model in DC
// watts: eff(P) = A + B*P. RTESlope is k in batteryRTE = 1 + k*(C_ch+C_dis)/100
// and must be negative (losses rise with C-rate).
type Coefficients struct {
	InverterChargeA    float64
	InverterChargeB    float64
	InverterDischargeA float64
	InverterDischargeB float64
	RTESlope           float64
}

// Bundle is the derived efficiency set for a specific power rating and
// capacity, computed once and reused by planner, simulator, and search.
type Bundle struct {
	InverterChargeEff    float64
	InverterDischargeEff float64
	BatteryRTE           float64
	BatteryOneWay        float64
	ChargeTotal          float64
	DischargeTotal       float64
	CRateCharge          float64
	CRateDischarge       float64
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Compute derives the efficiency bundle for the given charge/discharge power
// ratings (kW, DC) and battery capacity (kWh) under the given Coefficients.
func Compute(chargePowerKw, dischargePowerKw, capacityKwh float64, coef Coefficients) (Bundle, error) {
	if capacityKwh <= 0 {
		return Bundle{}, batteryerr.InvalidParameter("capacityKwh must be > 0")
	}
	if chargePowerKw < 0 || dischargePowerKw < 0 {
		return Bundle{}, batteryerr.InvalidParameter("power ratings must be non-negative")
	}

	chargeWatt := chargePowerKw * 1000
	dischargeWatt := dischargePowerKw * 1000

	invCharge := clamp(coef.InverterChargeA+coef.InverterChargeB*chargeWatt, clampLo, clampHi)
	invDischarge := clamp(coef.InverterDischargeA+coef.InverterDischargeB*dischargeWatt, clampLo, clampHi)

	cRateCharge := chargePowerKw / capacityKwh
	cRateDischarge := dischargePowerKw / capacityKwh

	rte := clamp(1+coef.RTESlope*(cRateCharge+cRateDischarge)/100, clampLo, clampHi)
	oneWay := math.Sqrt(rte)

	return Bundle{
		InverterChargeEff:    invCharge,
		InverterDischargeEff: invDischarge,
		BatteryRTE:           rte,
		BatteryOneWay:        oneWay,
		ChargeTotal:          invCharge * oneWay,
		DischargeTotal:       invDischarge * oneWay,
		CRateCharge:          cRateCharge,
		CRateDischarge:       cRateDischarge,
	}, nil
}
