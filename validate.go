package nurbs

import (
	"math"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/pkg/errors"
	"github.com/ungerik/go3d/float64/vec3"
)

// isValidNurbs confirms the relation between degree (p), number of control
// points (n+1), and length of the knot array (m+1), per The NURBS Book
// section 3.2: m = n + p + 1.
func isValidNurbs(degree, numControlPoints, knotsLength int) bool {
	return numControlPoints+degree+1 == knotsLength
}

// isValidKnotVector reports whether U is nondecreasing.
func isValidKnotVector(knots KnotVec) bool {
	return knots.IsNonDecreasing()
}

// isValidDegreeReduction reports whether degree reduction is even defined
// for the given degree; Bezier degree reduction requires at least a
// quadratic to drop to a line.
func isValidDegreeReduction(degree int) bool {
	return degree >= 2
}

// computeModifyTolerance returns the deviation budget used by knot removal
// and degree reduction: smaller weights and larger control point magnitudes
// both shrink the budget, since the same absolute coordinate error
// represents a larger relative change on a low-weight or far-flung point.
func computeModifyTolerance(controlPoints []Vec4w) float64 {
	minW := controlPoints[0].W
	var maxLen float64

	for _, cp := range controlPoints {
		if cp.W < minW {
			minW = cp.W
		}

		pt := cp.Dehomogenized()
		l := pt.Length()
		if l > maxLen {
			maxLen = l
		}
	}

	return minW * DistanceEpsilon / (1 + maxLen)
}

// computeMaxErrorOfBezierReduction bounds the deviation introduced by
// reducing a single (possibly rational) Bezier segment of degree p to
// degree p-1, given the original and candidate-reduced homogeneous control
// points, by sampling the maximum deviation between their actual
// dehomogenized positions at 4*degree+1 evenly spaced parameters in [0, 1].
func computeMaxErrorOfBezierReduction(degree int, original, reduced []Vec4w) float64 {
	var maxErr float64

	samples := degree * 4
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)

		bp0 := bezierPoint(original, t)
		bp1 := bezierPoint(reduced, t)
		p0 := bp0.Dehomogenized()
		p1 := bp1.Dehomogenized()

		d := vec3.Distance(&p0, &p1)
		if d > maxErr {
			maxErr = d
		}
	}

	return maxErr
}

// bezierPoint evaluates a (possibly rational) Bezier curve given by
// homogeneous control points at parameter t via De Casteljau's algorithm,
// run entirely in homogeneous space so the caller can dehomogenize the
// result to the correct rational position.
func bezierPoint(controlPoints []Vec4w, t float64) Vec4w {
	pts := append([]Vec4w(nil), controlPoints...)

	n := len(pts) - 1
	for r := 1; r <= n; r++ {
		for i := 0; i <= n-r; i++ {
			a := pts[i]
			a.Scale(1 - t)
			b := pts[i+1]
			b.Scale(t)
			a.Add(&b)
			pts[i] = a
		}
	}

	return pts[0]
}

func checkDegreePositive(degree int) error {
	if degree < 1 {
		return errors.New("degree must be at least 1")
	}
	return nil
}

func checkParamInDomain(curve *Curve, u float64) error {
	min, max := curve.Domain()
	if u < min-Epsilon || u > max+Epsilon {
		return errors.Errorf("parameter %g outside curve domain [%g, %g]", u, min, max)
	}
	return nil
}

func checkEnoughPoints(points []vec3.T, degree int) error {
	if len(points) < degree+1 {
		return errors.Errorf("must supply at least degree+1 = %d points, got %d", degree+1, len(points))
	}
	return nil
}

func almostEqualFloat(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
