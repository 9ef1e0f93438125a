package nurbs

import (
	"math"
	"testing"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

// TestDecomposeToBeziersRoundTrip is scenario S4: every Bezier segment has
// degree+1 control points, and evaluating the right segment at any sample
// parameter reproduces the original curve exactly.
func TestDecomposeToBeziersRoundTrip(t *testing.T) {
	curve := s1Curve(t)
	segments := curve.DecomposeToBeziers()

	for _, seg := range segments {
		assert.Len(t, seg.ControlPoints(), curve.Degree()+1)
	}

	min, max := curve.Domain()
	for i := 0; i <= 100; i++ {
		u := min + (max-min)*float64(i)/100
		if u >= max {
			u = max - 1e-9
		}

		expected := curve.PointAt(u)

		var seg *Curve
		for _, s := range segments {
			lo, hi := s.Domain()
			if u >= lo-Epsilon && u <= hi+Epsilon {
				seg = s
				break
			}
		}
		require.NotNil(t, seg, "no segment covers u=%v", u)

		actual := seg.PointAt(u)
		assert.InDelta(t, expected[0], actual[0], 1e-6)
		assert.InDelta(t, expected[1], actual[1], 1e-6)
	}
}

// TestElevateDegreePreservesCurve is scenario S6: raising degree 3 to 5
// must not move any sampled point.
func TestElevateDegreePreservesCurve(t *testing.T) {
	curve := s1Curve(t)
	elevated := curve.ElevateDegree(5)

	require.Equal(t, 5, elevated.Degree())

	min, max := curve.Domain()
	for i := 0; i <= 100; i++ {
		u := min + (max-min)*float64(i)/100

		p0 := curve.PointAt(u)
		p1 := elevated.PointAt(u)
		assert.InDelta(t, p0[0], p1[0], DistanceEpsilon)
		assert.InDelta(t, p0[1], p1[1], DistanceEpsilon)
		assert.InDelta(t, p0[2], p1[2], DistanceEpsilon)
	}
}

func TestElevateDegreeIsNoOpWhenNotHigher(t *testing.T) {
	curve := s1Curve(t)
	same := curve.ElevateDegree(curve.Degree())
	assert.Equal(t, curve.Degree(), same.Degree())
	assert.Equal(t, len(curve.ControlPoints()), len(same.ControlPoints()))
}

// TestReduceDegreeInvertsElevation checks that elevating then reducing
// returns (within tolerance) to the original curve's shape.
func TestReduceDegreeInvertsElevation(t *testing.T) {
	curve := s1Curve(t)
	elevated := curve.ElevateDegree(4)

	reduced, ok := elevated.ReduceDegree()
	require.True(t, ok)
	require.Equal(t, elevated.Degree()-1, reduced.Degree())

	min, max := curve.Domain()
	for i := 0; i <= 20; i++ {
		u := min + (max-min)*float64(i)/20
		p0 := curve.PointAt(u)
		p1 := reduced.PointAt(u)
		assert.InDelta(t, p0[0], p1[0], 1e-3)
		assert.InDelta(t, p0[1], p1[1], 1e-3)
	}
}

// TestReduceDegreeOfRationalSegmentPreservesShape elevates a single conic
// arc (a genuinely rational segment, shoulder weight far from 1) to degree
// 3 and back down to degree 2, checking at a tight tolerance that the
// reduced curve still traces the same rational shape. This is the case a
// reduction that dehomogenizes before reducing, and only guesses weights
// afterward, gets wrong.
func TestReduceDegreeOfRationalSegmentPreservesShape(t *testing.T) {
	arc := CreateArc(vec3.T{0, 0, 0}, vec3.T{1, 0, 0}, vec3.T{0, 1, 0}, 2, 0, math.Pi/2)
	require.Equal(t, 2, arc.Degree())

	elevated := arc.ElevateDegree(3)
	reduced, ok := elevated.ReduceDegree()
	require.True(t, ok)
	require.Equal(t, 2, reduced.Degree())

	min, max := arc.Domain()
	for i := 0; i <= 20; i++ {
		u := min + (max-min)*float64(i)/20
		p0 := arc.PointAt(u)
		p1 := reduced.PointAt(u)
		assert.InDelta(t, p0[0], p1[0], 1e-9)
		assert.InDelta(t, p0[1], p1[1], 1e-9)
	}
}
