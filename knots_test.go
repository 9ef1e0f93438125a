package nurbs

import (
	"testing"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

// TestKnotInsertionPreservesPoint is scenario S2: inserting u = 5/2 twice
// into the S1 curve must not move the point evaluated there.
func TestKnotInsertionPreservesPoint(t *testing.T) {
	curve := s1Curve(t)
	before := curve.PointAt(2.5)

	inserted, err := curve.InsertKnot(2.5, 2)
	require.NoError(t, err)

	after := inserted.PointAt(2.5)
	assert.InDelta(t, before[0], after[0], DistanceEpsilon)
	assert.InDelta(t, before[1], after[1], DistanceEpsilon)
	assert.InDelta(t, before[2], after[2], DistanceEpsilon)

	assert.Equal(t, len(curve.Knots())+2, len(inserted.Knots()))
	assert.Equal(t, len(curve.ControlPoints())+2, len(inserted.ControlPoints()))
}

func TestInsertKnotClampsToDegreeMinusMultiplicity(t *testing.T) {
	curve := s1Curve(t)

	// u=1 already has multiplicity 1 in the knot vector; degree is 3, so at
	// most 2 more insertions are possible before full multiplicity.
	inserted, err := curve.InsertKnot(1, 10)
	require.NoError(t, err)

	s := KnotVec(inserted.Knots()).Multiplicity(1, Epsilon)
	assert.Equal(t, curve.Degree(), s)
}

func TestInsertKnotRejectsOutOfDomain(t *testing.T) {
	curve := s1Curve(t)
	_, err := curve.InsertKnot(10, 1)
	assert.Error(t, err)
}

// TestRefineMatchesSequentialInsertKnot checks that Refine's single-pass
// Boehm's-algorithm bookkeeping produces the same control points as
// inserting each value one at a time via InsertKnot.
func TestRefineMatchesSequentialInsertKnot(t *testing.T) {
	curve := s1Curve(t)

	sequential := curve
	for _, u := range []float64{1.5, 1.5, 3.5} {
		var err error
		sequential, err = sequential.InsertKnot(u, 1)
		require.NoError(t, err)
	}

	refined, err := curve.Refine([]float64{1.5, 1.5, 3.5})
	require.NoError(t, err)

	require.Equal(t, len(sequential.ControlPoints()), len(refined.ControlPoints()))

	for _, u := range []float64{0, 1.2, 2.5, 3.7, 4.9} {
		p0 := sequential.PointAt(u)
		p1 := refined.PointAt(u)
		assert.InDelta(t, p0[0], p1[0], DistanceEpsilon)
		assert.InDelta(t, p0[1], p1[1], DistanceEpsilon)
	}
}

// TestRemoveKnotInvertsInsertKnot checks that removing a knot just inserted
// restores the original control polygon and curve shape.
func TestRemoveKnotInvertsInsertKnot(t *testing.T) {
	curve := s1Curve(t)

	inserted, err := curve.InsertKnot(2.5, 1)
	require.NoError(t, err)

	removed, count := inserted.RemoveKnot(2.5, 1)
	require.Equal(t, 1, count)

	require.Equal(t, len(curve.ControlPoints()), len(removed.ControlPoints()))

	for _, u := range []float64{0.5, 2.5, 4.5} {
		p0 := curve.PointAt(u)
		p1 := removed.PointAt(u)
		assert.InDelta(t, p0[0], p1[0], DistanceEpsilon)
		assert.InDelta(t, p0[1], p1[1], DistanceEpsilon)
	}
}

func TestRemoveKnotFailsWhenNotRemovable(t *testing.T) {
	controlPoints := []vec3.T{{0, 0, 0}, {1, 5, 0}, {2, 0, 0}, {3, 0, 0}}
	weights := []float64{1, 1, 1, 1}
	knots := []float64{0, 0, 0, 0.5, 1, 1, 1}

	curve, err := New(2, controlPoints, weights, knots)
	require.NoError(t, err)

	_, count := curve.RemoveKnot(0.5, 1)
	assert.Equal(t, 0, count)
}
