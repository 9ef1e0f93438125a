package nurbs

import (
	"math"
	"testing"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

// s1Curve builds the degree-3 curve used throughout this package's test
// suite: eight weighted control points over a twelve-knot clamped vector.
func s1Curve(t *testing.T) *Curve {
	t.Helper()

	controlPoints := []vec3.T{
		{0, 0, 0},
		{1, 1, 0},
		{3, 2, 0},
		{4, 1, 0},
		{5, -1, 0},
		{6, 0, 0},
		{7, 1, 0},
		{8, 0, 0},
	}
	weights := []float64{1, 4, 1, 1, 1, 1, 1, 1}
	knots := []float64{0, 0, 0, 0, 1, 2, 3, 4, 5, 5, 5, 5}

	curve, err := New(3, controlPoints, weights, knots)
	require.NoError(t, err)
	return curve
}

func TestPartitionOfUnity(t *testing.T) {
	knots := KnotVec{0, 0, 0, 0, 1, 2, 3, 4, 5, 5, 5, 5}
	degree := 3

	for _, u := range []float64{0, 0.5, 1, 2.5, 4, 4.999, 5} {
		span := knots.Span(degree, u)
		basis := BasisFunctionsGivenKnotSpanIndex(span, u, degree, knots)

		var sum float64
		for _, v := range basis {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "basis functions must sum to 1 at u=%v", u)
	}
}

// TestPointOnCurve is scenario S1: evaluating the curve directly must agree
// with the same point reached by repeated corner-cutting (a from-scratch
// reimplementation of the classical de Boor algorithm).
func TestPointOnCurve(t *testing.T) {
	curve := s1Curve(t)

	direct := curve.PointAt(2.5)
	cornerCut, err := curve.PointAtByCornerCut(2.5)
	require.NoError(t, err)

	assert.InDelta(t, direct[0], cornerCut[0], DistanceEpsilon)
	assert.InDelta(t, direct[1], cornerCut[1], DistanceEpsilon)
	assert.InDelta(t, direct[2], cornerCut[2], DistanceEpsilon)
}

// TestArcGeometry is invariant 8: every point of a unit circle must lie at
// distance 1 from the center.
func TestArcGeometry(t *testing.T) {
	circle := CreateCircle(vec3.T{0, 0, 0}, vec3.T{1, 0, 0}, vec3.T{0, 1, 0}, 1)

	min, max := circle.Domain()
	for i := 0; i <= 50; i++ {
		u := min + (max-min)*float64(i)/50
		p := circle.PointAt(u)
		dist := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
		assert.InDelta(t, 1.0, dist, 1e-6)
	}
}

// TestCreateCircleShape is scenario S3: the exact control-point count,
// weights, and knot vector Piegl & Tiller's construction produces for a
// full circle.
func TestCreateCircleShape(t *testing.T) {
	circle := CreateCircle(vec3.T{0, 0, 0}, vec3.T{1, 0, 0}, vec3.T{0, 1, 0}, 1)

	require.Equal(t, 2, circle.Degree())
	require.Len(t, circle.ControlPoints(), 9)

	weights := circle.Weights()
	shoulder := math.Sqrt2 / 2
	expectedWeights := []float64{1, shoulder, 1, shoulder, 1, shoulder, 1, shoulder, 1}
	for i, w := range expectedWeights {
		assert.InDelta(t, w, weights[i], 1e-9)
	}

	expectedKnots := []float64{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1, 1, 1}
	knots := circle.Knots()
	require.Len(t, knots, len(expectedKnots))
	for i, k := range expectedKnots {
		assert.InDelta(t, k, knots[i], 1e-9)
	}
}

func TestTangentMatchesDerivatives(t *testing.T) {
	curve := s1Curve(t)

	ders := curve.Derivatives(2.0, 1)
	tangent := curve.Tangent(2.0)

	assert.InDelta(t, ders[1][0], tangent[0], DistanceEpsilon)
	assert.InDelta(t, ders[1][1], tangent[1], DistanceEpsilon)
}

func TestNewRejectsInvalidKnotVector(t *testing.T) {
	_, err := New(3, []vec3.T{{0, 0, 0}, {1, 0, 0}}, []float64{1, 1}, []float64{0, 0, 1, 1})
	assert.Error(t, err)
}

func TestNewRejectsMismatchedLengths(t *testing.T) {
	controlPoints := []vec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	weights := []float64{1, 1, 1}
	knots := []float64{0, 0, 1, 1} // too short for degree 1, 3 points

	_, err := New(1, controlPoints, weights, knots)
	assert.Error(t, err)
}
