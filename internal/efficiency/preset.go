package efficiency

// Preset bundles the hardware limits and efficiency coefficients for one
// inverter/battery reference unit, the way the teacher's BatteryConfig YAML
// bundles capacity and power for one named battery.
type Preset struct {
	ID                string
	Name              string
	MaxChargePowerKw  float64
	MaxDischargePowerKw float64
	Coefficients      Coefficients
}

// ThreePhase11_15 is the reference three-phase 11/15 kW unit.
var ThreePhase11_15 = Preset{
	ID:                  "three-phase-11-15",
	Name:                "Three-phase 11/15 kW",
	MaxChargePowerKw:    11,
	MaxDischargePowerKw: 15,
	Coefficients: Coefficients{
		InverterChargeA:    0.97,
		InverterChargeB:    -0.00002,
		InverterDischargeA: 0.97,
		InverterDischargeB: -0.00002,
		RTESlope:           -0.6,
	},
}

// SinglePhase3_7_5 is the reference single-phase 3.7/5 kW unit; its inverter
// loss coefficients are 3x the three-phase unit's per spec.
var SinglePhase3_7_5 = Preset{
	ID:                  "single-phase-3.7-5",
	Name:                "Single-phase 3.7/5 kW",
	MaxChargePowerKw:    3.7,
	MaxDischargePowerKw: 5,
	Coefficients: Coefficients{
		InverterChargeA:    0.97,
		InverterChargeB:    -0.00006,
		InverterDischargeA: 0.97,
		InverterDischargeB: -0.00006,
		RTESlope:           -0.6,
	},
}

// Registry lists all built-in presets by ID, the way the teacher's
// examples/batteries directory lists named battery files.
var Registry = map[string]Preset{
	ThreePhase11_15.ID:  ThreePhase11_15,
	SinglePhase3_7_5.ID: SinglePhase3_7_5,
}

// Lookup returns the preset for id, or false if unknown.
func Lookup(id string) (Preset, bool) {
	p, ok := Registry[id]
	return p, ok
}
