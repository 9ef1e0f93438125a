package nurbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestNewRejectsNonPositiveDegree(t *testing.T) {
	_, err := New(0, []vec3.T{{0, 0, 0}, {1, 0, 0}}, []float64{1, 1}, []float64{0, 1})
	assert.Error(t, err)
}

func TestNewRejectsDecreasingKnots(t *testing.T) {
	controlPoints := []vec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	weights := []float64{1, 1, 1}
	knots := []float64{0, 0, 0.5, 0.2, 1, 1}

	_, err := New(2, controlPoints, weights, knots)
	assert.Error(t, err)
}

func TestCheckParamInDomainRejectsOutOfRange(t *testing.T) {
	curve := s1Curve(t)
	_, err := curve.InsertKnot(-1, 1)
	assert.Error(t, err)
	_, err = curve.InsertKnot(100, 1)
	assert.Error(t, err)
}

func TestReduceDegreeRejectsDegreeBelowTwo(t *testing.T) {
	controlPoints := []vec3.T{{0, 0, 0}, {1, 1, 0}}
	weights := []float64{1, 1}
	knots := []float64{0, 0, 1, 1}

	curve, err := New(1, controlPoints, weights, knots)
	require.NoError(t, err)

	_, ok := curve.ReduceDegree()
	assert.False(t, ok)
}
