// Package battery implements the stateful single-battery model: state of
// charge bookkeeping and the charge/discharge primitives that enforce power,
// capacity, and SoC-window limits.
package battery

import (
	"batterysim/internal/batteryerr"
	"batterysim/internal/efficiency"
)

// Config is the immutable physical specification of a battery for one run.
// Units: CapacityKwh in kWh, the power ratings in kW DC, efficiencies in
// (0.5,1), SoC fractions in [0,1].
type Config struct {
	CapacityKwh         float64
	MaxChargePowerKw    float64
	MaxDischargePowerKw float64
	ChargeEff           float64 // one-way, e.g. efficiency.Bundle.ChargeTotal
	DischargeEff        float64
	MinSocPct           float64
	MaxSocPct           float64
}

// Validate checks the invariants from the data model: all values finite and
// non-negative, efficiencies in (0.5,1), MaxSocPct > MinSocPct.
func (c Config) Validate() error {
	if c.CapacityKwh <= 0 {
		return batteryerr.InvalidParameter("CapacityKwh must be > 0")
	}
	if c.MaxChargePowerKw < 0 || c.MaxDischargePowerKw < 0 {
		return batteryerr.InvalidParameter("power ratings must be >= 0")
	}
	if c.ChargeEff <= 0.5 || c.ChargeEff >= 1 {
		return batteryerr.InvalidParameter("ChargeEff must be in (0.5, 1)")
	}
	if c.DischargeEff <= 0.5 || c.DischargeEff >= 1 {
		return batteryerr.InvalidParameter("DischargeEff must be in (0.5, 1)")
	}
	if c.MinSocPct < 0 || c.MaxSocPct > 1 || c.MinSocPct >= c.MaxSocPct {
		return batteryerr.InvalidParameter("MinSocPct/MaxSocPct must satisfy 0<=min<max<=1")
	}
	return nil
}

// MinSocKwh and MaxSocKwh convert the configured SoC window into kWh.
func (c Config) MinSocKwh() float64 { return c.MinSocPct * c.CapacityKwh }
func (c Config) MaxSocKwh() float64 { return c.MaxSocPct * c.CapacityKwh }

// FromBundle builds a Config from hardware ratings plus a derived
// efficiency Bundle, the join point spec.md requires between EfficiencyModel
// and BatteryState so both use identical efficiencies for a given rating.
func FromBundle(chargePowerKw, dischargePowerKw, capacityKwh, minSocPct, maxSocPct float64, b efficiency.Bundle) Config {
	return Config{
		CapacityKwh:         capacityKwh,
		MaxChargePowerKw:    chargePowerKw,
		MaxDischargePowerKw: dischargePowerKw,
		ChargeEff:           b.ChargeTotal,
		DischargeEff:        b.DischargeTotal,
		MinSocPct:           minSocPct,
		MaxSocPct:           maxSocPct,
	}
}

// State holds the single piece of mutable state: energy stored, in kWh.
type State struct {
	Config Config
	SocKwh float64
}

// New creates a State at the given initial SoC (kWh). The initial SoC may
// fall outside [MinSocKwh, MaxSocKwh]; no error is raised here since spec.md
// prescribes graceful convergence to the window on the first feasible
// operation rather than a construction-time fault.
func New(cfg Config, initialSocKwh float64) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &State{Config: cfg, SocKwh: initialSocKwh}, nil
}

// Result is the outcome of one charge or discharge call.
type Result struct {
	DcMovedKwh float64
	AcKwh      float64
}

// Charge moves at most requestedDcKwh of DC energy into the battery over
// durationHours, clipped by power rating and the remaining headroom to
// MaxSocKwh. Returns the realized DC energy moved and the AC energy drawn
// from the grid to achieve it (dcMoved/chargeEff).
func (s *State) Charge(requestedDcKwh, durationHours float64) Result {
	if requestedDcKwh < 0 {
		requestedDcKwh = 0
	}
	headroomKwh := s.Config.MaxSocKwh() - s.SocKwh
	if headroomKwh < 0 {
		headroomKwh = 0
	}
	maxDc := requestedDcKwh
	if limit := s.Config.MaxChargePowerKw * durationHours; limit < maxDc {
		maxDc = limit
	}
	if headroomKwh < maxDc {
		maxDc = headroomKwh
	}
	dcMoved := maxDc
	if dcMoved < 0 {
		dcMoved = 0
	}
	s.SocKwh += dcMoved
	return Result{
		DcMovedKwh: dcMoved,
		AcKwh:      dcMoved / s.Config.ChargeEff,
	}
}

// Discharge is the symmetric operation: AC energy delivered to the grid is
// dcMoved*dischargeEff.
func (s *State) Discharge(requestedDcKwh, durationHours float64) Result {
	if requestedDcKwh < 0 {
		requestedDcKwh = 0
	}
	availableKwh := s.SocKwh - s.Config.MinSocKwh()
	if availableKwh < 0 {
		availableKwh = 0
	}
	maxDc := requestedDcKwh
	if limit := s.Config.MaxDischargePowerKw * durationHours; limit < maxDc {
		maxDc = limit
	}
	if availableKwh < maxDc {
		maxDc = availableKwh
	}
	dcMoved := maxDc
	if dcMoved < 0 {
		dcMoved = 0
	}
	s.SocKwh -= dcMoved
	return Result{
		DcMovedKwh: dcMoved,
		AcKwh:      dcMoved * s.Config.DischargeEff,
	}
}

// SocPct reports the current state of charge as a fraction of capacity.
func (s *State) SocPct() float64 {
	if s.Config.CapacityKwh == 0 {
		return 0
	}
	return s.SocKwh / s.Config.CapacityKwh
}
