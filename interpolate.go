package nurbs

import (
	"math"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/pkg/errors"
	"github.com/ungerik/go3d/float64/vec3"
)

// chordLengthParameters assigns a parameter to each point by normalized
// cumulative chord length: ubar_0 = 0, ubar_i - ubar_{i-1} proportional to
// |Q_i - Q_{i-1}|, ubar_last = 1.
func chordLengthParameters(points []vec3.T) []float64 {
	us := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		chord := vec3.Distance(&points[i], &points[i-1])
		us[i] = us[i-1] + chord
	}

	total := us[len(us)-1]
	if total > Epsilon {
		for i := range us {
			us[i] /= total
		}
	}

	return us
}

// averagedKnotVector builds a clamped knot vector from parameters by
// averaging each interior knot over a window of degree consecutive
// parameters (Piegl & Tiller eq. 9.8), the standard companion to
// chord-length parameterization for global interpolation.
func averagedKnotVector(us []float64, degree int) KnotVec {
	n := len(us) - 1
	knots := make(KnotVec, n+degree+2)

	for i := 0; i <= degree; i++ {
		knots[i] = 0
		knots[len(knots)-1-i] = 1
	}

	for j := 1; j <= n-degree; j++ {
		var sum float64
		for i := j; i <= j+degree-1; i++ {
			sum += us[i]
		}
		knots[j+degree] = sum / float64(degree)
	}

	return knots
}

// interpolationMatrix builds the N x N matrix of basis function values
// N[i][j] = N_{j,degree}(us[i]) used to solve for the interpolating control
// points.
func interpolationMatrix(us []float64, degree int, knots KnotVec) Matrix {
	n := len(us) - 1
	mat := make(Matrix, n+1)
	for i := range mat {
		mat[i] = make([]float64, n+1)
	}

	for i, u := range us {
		span := knots.SpanGivenN(n, degree, u)
		basis := BasisFunctionsGivenKnotSpanIndex(span, u, degree, knots)
		for j, v := range basis {
			mat[i][span-degree+j] = v
		}
	}

	return mat
}

// Interpolate computes the unique degree-p NURBS curve (weight 1
// throughout) that passes through every point in points, in order, using
// chord-length parameterization and the averaged knot vector (Piegl &
// Tiller's global interpolation).
func Interpolate(points []vec3.T, degree int) (*Curve, error) {
	if err := checkEnoughPoints(points, degree); err != nil {
		return nil, err
	}

	us := chordLengthParameters(points)
	knots := averagedKnotVector(us, degree)
	mat := interpolationMatrix(us, degree, knots)

	controlPoints := make([]vec3.T, len(points))
	for dim := 0; dim < 3; dim++ {
		b := make([]float64, len(points))
		for i, pt := range points {
			b[i] = pt[dim]
		}

		x := mat.Solve(b)
		for i := range controlPoints {
			controlPoints[i][dim] = x[i]
		}
	}

	weights := make([]float64, len(controlPoints))
	for i := range weights {
		weights[i] = 1
	}

	return NewUnchecked(degree, controlPoints, weights, []float64(knots)), nil
}

// InterpolateWithTangents is the tangent-constrained variant of Interpolate:
// it additionally requires the curve's first derivative at the first and
// last point to match startTangent/endTangent, by inserting two extra
// constraint rows into the interpolation system (Piegl & Tiller's
// GlobalInterpolationByTangents).
func InterpolateWithTangents(points []vec3.T, degree int, startTangent, endTangent vec3.T) (*Curve, error) {
	if err := checkEnoughPoints(points, degree); err != nil {
		return nil, err
	}
	if degree < 2 {
		return nil, errors.New("tangent-constrained interpolation requires degree >= 2")
	}

	us := chordLengthParameters(points)

	n := len(points) + 1 // two extra control points for the tangent constraints
	m := n + degree + 1

	knots := make(KnotVec, m+1)
	for i := 0; i <= degree; i++ {
		knots[i] = 0
		knots[len(knots)-1-i] = 1
	}

	interior := len(us) - 2
	for j := 0; j < interior; j++ {
		var sum float64
		for i := j; i < j+degree-1; i++ {
			sum += us[i+1]
		}
		knots[j+degree+1] = sum / float64(degree-1)
	}

	size := len(points) + 2
	mat := make(Matrix, size)
	for i := range mat {
		mat[i] = make([]float64, size)
	}

	mat[0][0] = 1
	mat[size-1][size-1] = 1

	ders := DerivativeBasisFunctionsGivenNI(knots.SpanGivenN(n, degree, us[0]), us[0], degree, 1, knots)
	span0 := knots.SpanGivenN(n, degree, us[0])
	for j, v := range ders[1] {
		mat[1][span0-degree+j] = v
	}

	lastIdx := len(us) - 1
	spanLast := knots.SpanGivenN(n, degree, us[lastIdx])
	dersLast := DerivativeBasisFunctionsGivenNI(spanLast, us[lastIdx], degree, 1, knots)
	for j, v := range dersLast[1] {
		mat[size-2][spanLast-degree+j] = v
	}

	for i := 1; i < lastIdx; i++ {
		span := knots.SpanGivenN(n, degree, us[i])
		basis := BasisFunctionsGivenKnotSpanIndex(span, us[i], degree, knots)
		for j, v := range basis {
			mat[i+1][span-degree+j] = v
		}
	}

	controlPoints := make([]vec3.T, size)
	for dim := 0; dim < 3; dim++ {
		b := make([]float64, size)
		b[0] = points[0][dim]
		b[1] = startTangent[dim]
		for i := 1; i < lastIdx; i++ {
			b[i+1] = points[i][dim]
		}
		b[size-2] = endTangent[dim]
		b[size-1] = points[lastIdx][dim]

		x := mat.Solve(b)
		for i := range controlPoints {
			controlPoints[i][dim] = x[i]
		}
	}

	weights := make([]float64, len(controlPoints))
	for i := range weights {
		weights[i] = 1
	}

	return NewUnchecked(degree, controlPoints, weights, []float64(knots)), nil
}

// LocalCubicInterpolate builds a piecewise-cubic curve through points
// without solving any global linear system: it estimates a tangent
// direction at each point from its neighbors (reflecting at the ends), then
// for each segment solves a small quadratic for the Bezier handle length
// that reproduces the chord distance exactly (Piegl & Tiller's local cubic
// interpolation, entirely new relative to the B-spline port this engine
// started from, which only ever solved interpolation globally).
func LocalCubicInterpolate(points []vec3.T) (*Curve, error) {
	if len(points) < 3 {
		return nil, errors.New("local cubic interpolation requires at least 3 points")
	}

	tangents := estimateTangents(points)

	n := len(points) - 1
	controlPoints := make([]vec3.T, 0, 3*n+1)
	controlPoints = append(controlPoints, points[0])

	knots := make(KnotVec, 0)
	for i := 0; i < 4; i++ {
		knots = append(knots, 0)
	}

	uk := 0.0

	for k := 0; k < n; k++ {
		p0, p3 := points[k], points[k+1]
		t0, t3 := tangents[k], tangents[k+1]

		tsum := vec3.Add(&t0, &t3)
		a := 16 - vec3.Dot(&tsum, &tsum)

		diff := vec3.Sub(&p3, &p0)
		bcoef := 12 * vec3.Dot(&diff, &tsum)
		ccoef := -36 * vec3.Dot(&diff, &diff)

		var alpha float64
		disc := bcoef*bcoef - 4*a*ccoef
		if math.Abs(a) < Epsilon || disc < 0 {
			alpha = vec3.Distance(&p0, &p3) / 3
		} else {
			alpha = (-bcoef + math.Sqrt(disc)) / (2 * a)
		}

		t0Scaled := t0.Scaled(alpha / 3)
		pk1 := vec3.Add(&p0, &t0Scaled)

		t3Scaled := t3.Scaled(alpha / 3)
		pk2 := vec3.Sub(&p3, &t3Scaled)

		controlPoints = append(controlPoints, pk1, pk2, p3)

		segLen := vec3.Distance(&pk1, &p0) + vec3.Distance(&pk2, &pk1) + vec3.Distance(&p3, &pk2)
		uk += 3 * segLen
		knots = append(knots, uk, uk, uk)
	}
	// The end knot needs degree+1 = 4 copies to clamp the curve.
	knots = append(knots, uk)

	last := knots[len(knots)-1]
	if last < Epsilon {
		last = 1
	}
	for i := range knots {
		knots[i] /= last
	}
	for i := 0; i < 4; i++ {
		knots[len(knots)-1-i] = 1
	}

	weights := make([]float64, len(controlPoints))
	for i := range weights {
		weights[i] = 1
	}

	return NewUnchecked(3, controlPoints, weights, []float64(knots)), nil
}

// estimateTangents derives a unit tangent direction at every point from the
// chord between its two immediate neighbors, reflecting the one neighbor
// across the endpoint when the other side is missing. Points further away
// do not affect the tangent; no five-point estimate is made.
func estimateTangents(points []vec3.T) []vec3.T {
	n := len(points)
	tangents := make([]vec3.T, n)

	for i := 0; i < n; i++ {
		var prev, next vec3.T
		if i == 0 {
			prev = reflect(points[1], points[0])
		} else {
			prev = points[i-1]
		}
		if i == n-1 {
			next = reflect(points[n-2], points[n-1])
		} else {
			next = points[i+1]
		}

		d := vec3.Sub(&next, &prev)
		if d.Length() < Epsilon {
			d = vec3.Sub(&points[imin(i+1, n-1)], &points[imax(i-1, 0)])
		}
		d.Normalize()
		tangents[i] = d
	}

	return tangents
}

func reflect(p, about vec3.T) vec3.T {
	d := vec3.Sub(&about, &p)
	r := about
	r.Add(&d)
	return r
}

// Approximate computes a least-squares degree-p NURBS curve (weight 1
// throughout) through numControlPoints control points that best fits
// points in the least-squares sense, with the first and last control point
// pinned to the first and last input point (Piegl & Tiller's least-squares
// approximation).
func Approximate(points []vec3.T, degree, numControlPoints int) (*Curve, error) {
	if err := checkEnoughPoints(points, degree); err != nil {
		return nil, err
	}
	if numControlPoints < degree+1 || numControlPoints > len(points)-1 {
		return nil, errors.Errorf("invalid control point count %d for %d points at degree %d", numControlPoints, len(points), degree)
	}

	us := chordLengthParameters(points)
	knots := approximationKnotVector(us, degree, numControlPoints)

	m := len(points) - 1
	ctrlN := numControlPoints - 1

	n := make(Matrix, m-1)
	for i := range n {
		n[i] = make([]float64, ctrlN-1)
	}

	for k := 1; k < m; k++ {
		span := knots.SpanGivenN(ctrlN, degree, us[k])
		basis := BasisFunctionsGivenKnotSpanIndex(span, us[k], degree, knots)
		for j, v := range basis {
			col := span - degree + j - 1
			if col >= 0 && col < ctrlN-1 {
				n[k-1][col] = v
			}
		}
	}

	controlPoints := make([]vec3.T, numControlPoints)
	controlPoints[0] = points[0]
	controlPoints[numControlPoints-1] = points[len(points)-1]

	n0 := make([]float64, m-1)
	nn := make([]float64, m-1)
	for k := 1; k < m; k++ {
		n0[k-1] = OneBasisFunction(0, degree, knots, us[k])
		nn[k-1] = OneBasisFunction(ctrlN, degree, knots, us[k])
	}

	for dim := 0; dim < 3; dim++ {
		r := make([]float64, m-1)
		for k := 1; k < m; k++ {
			r[k-1] = points[k][dim] - n0[k-1]*controlPoints[0][dim] - nn[k-1]*controlPoints[numControlPoints-1][dim]
		}

		rhs := make([]float64, ctrlN-1)
		for i := range rhs {
			var sum float64
			for k := range r {
				sum += n[k][i] * r[k]
			}
			rhs[i] = sum
		}

		x := solveNormalEquations(n, rhs)
		for i, v := range x {
			controlPoints[i+1][dim] = v
		}
	}

	weights := make([]float64, numControlPoints)
	for i := range weights {
		weights[i] = 1
	}

	return NewUnchecked(degree, controlPoints, weights, []float64(knots)), nil
}

// solveNormalEquations solves (N^T N) x = rhs for x, given N directly
// (not precomputed N^T N) and the already formed right-hand side
// rhs = N^T r, rebuilding N^T N each
// call since least-squares approximation is not performance-critical for
// this engine's expected curve sizes.
func solveNormalEquations(n Matrix, rhs []float64) []float64 {
	nt := n.Transpose()
	ntn := Multiply(nt, n)
	return ntn.Solve(rhs)
}

// approximationKnotVector builds the knot vector used by least-squares
// approximation: clamped ends, each interior knot j a linear blend of the
// two parameters around the fractional index j*d, where d is the ratio of
// sample count to the number of knot spans (Piegl & Tiller eq. 9.68/9.69).
func approximationKnotVector(us []float64, degree, numControlPoints int) KnotVec {
	n := numControlPoints - 1
	m := len(us) - 1

	knots := make(KnotVec, n+degree+2)
	for i := 0; i <= degree; i++ {
		knots[i] = 0
		knots[len(knots)-1-i] = 1
	}

	d := float64(m+1) / float64(n-degree+1)

	for j := 1; j <= n-degree; j++ {
		i := int(float64(j) * d)
		alpha := float64(j)*d - float64(i)
		knots[j+degree] = (1-alpha)*us[i-1] + alpha*us[i]
	}

	return knots
}

// ApproximateByErrorBound runs Approximate at the given degree with a
// growing control-point count until every sample point lies within tol of
// the fitted curve, then greedily removes knots that keep it within tol
// (a simplified form of Piegl & Tiller's error-bounded global
// approximation, reusing Approximate/RemoveKnot/ParamAt rather than a
// bespoke removal-with-budget sweep). The degree stays fixed, and every
// round uses chord-length parameters: ParamAt only measures the deviation,
// and the parameters are not recomputed from it. If no control-point count
// meets tol, the points are interpolated instead.
func ApproximateByErrorBound(points []vec3.T, degree int, tol float64) (*Curve, error) {
	if err := checkEnoughPoints(points, degree); err != nil {
		return nil, err
	}

	minCtrl := degree + 1
	maxCtrl := len(points) - 1
	if maxCtrl < minCtrl {
		maxCtrl = minCtrl
	}

	for numCtrl := minCtrl; numCtrl <= maxCtrl; numCtrl++ {
		curve, err := Approximate(points, degree, numCtrl)
		if err != nil {
			continue
		}

		if maxDeviation(curve, points) <= tol {
			return removeRemovableKnots(curve, points, tol), nil
		}
	}

	// No approximation at any control-point count met tol; interpolating
	// exactly (zero deviation) always satisfies it, at the cost of a much
	// larger control polygon than a true error-bounded fit would use.
	return Interpolate(points, degree)
}

func maxDeviation(curve *Curve, points []vec3.T) float64 {
	var maxErr float64
	for _, p := range points {
		u := curve.ParamAt(p)
		cp := curve.PointAt(u)
		d := vec3.Distance(&cp, &p)
		if d > maxErr {
			maxErr = d
		}
	}
	return maxErr
}

// removeRemovableKnots greedily removes interior knots one at a time as
// long as doing so keeps every sample point within tol of the curve.
func removeRemovableKnots(curve *Curve, points []vec3.T, tol float64) *Curve {
	current := curve

	for {
		mults := current.knots.Multiplicities()
		removedAny := false

		for i := 1; i < len(mults)-1; i++ {
			candidate, removed := current.RemoveKnot(mults[i].Knot, 1)
			if removed == 0 {
				continue
			}

			if maxDeviation(candidate, points) <= tol {
				current = candidate
				removedAny = true
				break
			}
		}

		if !removedAny {
			break
		}
	}

	return current
}
