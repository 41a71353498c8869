package batteryerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := InvalidParameter("bad value")
	assert.True(t, Is(err, KindInvalidParameter))
	assert.False(t, Is(err, KindMissingData))
}

func TestIsFalseForPlainErrors(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), KindInvalidParameter))
}

func TestErrorUnwrapsSolverCause(t *testing.T) {
	cause := errors.New("infeasible")
	err := SolverError("LP failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "infeasible")
}

func TestKindStringNames(t *testing.T) {
	assert.Equal(t, "InvalidParameter", KindInvalidParameter.String())
	assert.Equal(t, "Unknown", Kind(999).String())
}
