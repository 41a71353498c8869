package efficiency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRejectsInvalidInputs(t *testing.T) {
	_, err := Compute(1, 1, 0, Coefficients{})
	require.Error(t, err)

	_, err = Compute(-1, 1, 10, Coefficients{})
	require.Error(t, err)
}

func TestComputeThreePhasePreset(t *testing.T) {
	b, err := Compute(ThreePhase11_15.MaxChargePowerKw, ThreePhase11_15.MaxDischargePowerKw, 10, ThreePhase11_15.Coefficients)
	require.NoError(t, err)

	assert.InDelta(t, 1.1, b.CRateCharge, 1e-9)
	assert.InDelta(t, 1.5, b.CRateDischarge, 1e-9)
	assert.Greater(t, b.BatteryRTE, 0.5)
	assert.Less(t, b.BatteryRTE, 1.0)
	assert.InDelta(t, b.BatteryOneWay*b.BatteryOneWay, b.BatteryRTE, 1e-9)
	assert.InDelta(t, b.InverterChargeEff*b.BatteryOneWay, b.ChargeTotal, 1e-9)
}

func TestComputeClampsEfficiencyBounds(t *testing.T) {
	coef := Coefficients{
		InverterChargeA:    2.0, // forces clamp to clampHi
		InverterDischargeA: 2.0,
		RTESlope:           -1000, // forces clamp to clampLo
	}
	b, err := Compute(5, 5, 1, coef)
	require.NoError(t, err)

	assert.LessOrEqual(t, b.InverterChargeEff, clampHi)
	assert.LessOrEqual(t, b.InverterDischargeEff, clampHi)
	assert.GreaterOrEqual(t, b.BatteryRTE, clampLo)
}

func TestComputeIsIdempotent(t *testing.T) {
	a, err := Compute(3.7, 5, 10, SinglePhase3_7_5.Coefficients)
	require.NoError(t, err)
	b, err := Compute(3.7, 5, 10, SinglePhase3_7_5.Coefficients)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLookupPreset(t *testing.T) {
	p, ok := Lookup(ThreePhase11_15.ID)
	require.True(t, ok)
	assert.Equal(t, ThreePhase11_15, p)

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)
}
