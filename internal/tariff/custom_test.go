package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomEvaluatesArithmetic(t *testing.T) {
	c, err := NewCustom("epex/1000 + 0.05", "epex/1000 - 0.02")
	require.NoError(t, err)

	assert.InDelta(t, 0.13, c.Buy(80), 1e-9)
	assert.InDelta(t, 0.06, c.Sell(80), 1e-9)
}

func TestNewCustomRejectsFunctionCalls(t *testing.T) {
	_, err := NewCustom("math.Abs(epex)", "epex")
	require.Error(t, err)
}

func TestNewCustomRejectsUnknownIdentifiers(t *testing.T) {
	_, err := NewCustom("epex + other", "epex")
	require.Error(t, err)
}

func TestNewCustomRejectsIndexingAndSelectors(t *testing.T) {
	_, err := NewCustom("epex[0]", "epex")
	require.Error(t, err)

	_, err = NewCustom("epex.Foo", "epex")
	require.Error(t, err)
}

func TestNewCustomAllowsParenthesesAndUnaryMinus(t *testing.T) {
	c, err := NewCustom("-(epex/1000)", "epex")
	require.NoError(t, err)
	assert.InDelta(t, -0.08, c.Buy(80), 1e-9)
}

func TestNewCustomDivisionByZeroYieldsZero(t *testing.T) {
	c, err := NewCustom("epex/0", "epex")
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Buy(80))
}
