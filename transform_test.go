package nurbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestReverseTwiceRestoresCurve(t *testing.T) {
	curve := s1Curve(t)
	restored := curve.Reverse().Reverse()

	assert.Equal(t, curve.Degree(), restored.Degree())
	assert.Equal(t, curve.Knots(), restored.Knots())

	original := curve.ControlPoints()
	got := restored.ControlPoints()
	a := assert.New(t)
	a.Len(got, len(original))
	for i := range original {
		a.InDelta(original[i][0], got[i][0], 1e-9)
		a.InDelta(original[i][1], got[i][1], 1e-9)
		a.InDelta(original[i][2], got[i][2], 1e-9)
	}
}

func TestReverseSwapsDomainEndpoints(t *testing.T) {
	curve := s1Curve(t)
	reversed := curve.Reverse()

	min, max := curve.Domain()
	start := curve.PointAt(min)
	end := curve.PointAt(max)

	rmin, rmax := reversed.Domain()
	rstart := reversed.PointAt(rmin)
	rend := reversed.PointAt(rmax)

	assert.InDelta(t, start[0], rend[0], 1e-9)
	assert.InDelta(t, start[1], rend[1], 1e-9)
	assert.InDelta(t, end[0], rstart[0], 1e-9)
	assert.InDelta(t, end[1], rstart[1], 1e-9)
}

func TestTransformMatchesShiftedEvaluation(t *testing.T) {
	curve := s1Curve(t)

	offset := vec3.T{3, -2, 1}
	mat := mat4.Ident
	mat.SetTranslation(&offset)

	moved := curve.Transform(&mat)

	min, max := curve.Domain()
	for i := 0; i <= 20; i++ {
		u := min + (max-min)*float64(i)/20

		expected := curve.PointAt(u)
		expected.Add(&offset)

		got := moved.PointAt(u)
		assert.InDelta(t, expected[0], got[0], 1e-9)
		assert.InDelta(t, expected[1], got[1], 1e-9)
		assert.InDelta(t, expected[2], got[2], 1e-9)
	}
}

func TestTransformPreservesWeights(t *testing.T) {
	curve := s1Curve(t)

	offset := vec3.T{1, 1, 1}
	mat := mat4.Ident
	mat.SetTranslation(&offset)

	moved := curve.Transform(&mat)
	assert.Equal(t, curve.Weights(), moved.Weights())
}
