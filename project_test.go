package nurbs

import (
	"testing"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

// TestInverseProjection is scenario S5: projecting a slightly perturbed
// sample point must recover a parameter close to the original.
func TestInverseProjection(t *testing.T) {
	curve := s1Curve(t)

	t0 := 2.7
	q := curve.PointAt(t0)
	perturbed := vec3.T{q[0] + 1e-4, q[1] - 1e-4, q[2] + 1e-4}

	t1 := curve.ParamAt(perturbed)

	closeInParam := t1-t0 < 1e-3 && t0-t1 < 1e-3
	if !closeInParam {
		p1 := curve.PointAt(t1)
		dist := vec3.Distance(&p1, &perturbed)
		assert.Less(t, dist, DistanceEpsilon*10)
	}
}

func TestInverseProjectionExactPointReturnsExactParam(t *testing.T) {
	curve := s1Curve(t)

	for _, t0 := range []float64{0.5, 1.5, 2.5, 3.5, 4.5} {
		q := curve.PointAt(t0)
		found := curve.ParamAt(q)
		p := curve.PointAt(found)

		dist := vec3.Distance(&p, &q)
		assert.Less(t, dist, DistanceEpsilon*10)
	}
}
