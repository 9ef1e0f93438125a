package nurbs

import (
	"math"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/pkg/errors"
	"github.com/ungerik/go3d/float64/vec3"
)

// CreateArc builds a circular arc of the given radius about center, with
// startAngle and endAngle measured (in radians) from xaxis towards yaxis,
// both of which must be orthogonal unit vectors (Algorithm A7.1, Piegl &
// Tiller).
func CreateArc(center, xaxis, yaxis vec3.T, radius, startAngle, endAngle float64) *Curve {
	xaxisScaled, yaxisScaled := xaxis.Scaled(radius), yaxis.Scaled(radius)
	return CreateEllipticArc(center, xaxisScaled, yaxisScaled, startAngle, endAngle)
}

// CreateCircle builds a full circle of the given radius about center.
func CreateCircle(center, xaxis, yaxis vec3.T, radius float64) *Curve {
	return CreateArc(center, xaxis, yaxis, radius, 0, 2*math.Pi)
}

// CreateEllipse builds a full ellipse about center, where xaxis and yaxis
// are already scaled to their respective radii.
func CreateEllipse(center, xaxis, yaxis vec3.T) *Curve {
	return CreateEllipticArc(center, xaxis, yaxis, 0, 2*math.Pi)
}

// CreateEllipticArc builds an elliptical arc about center, where xaxis and
// yaxis are already scaled to their respective radii. The result is always
// a degree-2 rational curve made of 1 to 4 conic Bezier segments, each
// subtending at most 90 degrees, with each segment's middle control point
// found as the intersection of the tangent rays at its endpoints.
func CreateEllipticArc(center, xaxis, yaxis vec3.T, startAngle, endAngle float64) *Curve {
	xradius, yradius := xaxis.Length(), yaxis.Length()
	xaxisNorm, yaxisNorm := xaxis.Normalized(), yaxis.Normalized()

	if endAngle < startAngle {
		endAngle = 2.0*math.Pi + startAngle
	}

	theta := endAngle - startAngle

	var numArcs int
	switch {
	case theta <= math.Pi/2:
		numArcs = 1
	case theta <= math.Pi:
		numArcs = 2
	case theta <= 3*math.Pi/2:
		numArcs = 3
	default:
		numArcs = 4
	}

	dtheta := theta / float64(numArcs)
	w1 := math.Cos(dtheta / 2)

	xCompon := xaxisNorm.Scaled(xradius * math.Cos(startAngle))
	yCompon := yaxisNorm.Scaled(yradius * math.Sin(startAngle))
	offset0 := vec3.Add(&xCompon, &yCompon)
	p0 := vec3.Add(&center, &offset0)

	temp0 := yaxisNorm.Scaled(yradius * math.Cos(startAngle))
	temp1 := xaxisNorm.Scaled(xradius * math.Sin(startAngle))
	t0 := vec3.Sub(&temp0, &temp1)

	controlPoints := make([]vec3.T, 2*numArcs+1)
	knots := make([]float64, 2*numArcs+4)
	weights := make([]float64, 2*numArcs+1)

	controlPoints[0] = p0
	weights[0] = 1.0

	index := 0
	angle := startAngle

	for i := 1; i <= numArcs; i++ {
		angle += dtheta
		xCompon = xaxisNorm.Scaled(xradius * math.Cos(angle))
		yCompon = yaxisNorm.Scaled(yradius * math.Sin(angle))
		offset := vec3.Add(&xCompon, &yCompon)
		p2 := vec3.Add(&center, &offset)

		weights[index+2] = 1
		controlPoints[index+2] = p2

		temp0 := yaxisNorm.Scaled(yradius * math.Cos(angle))
		temp1 := xaxisNorm.Scaled(xradius * math.Sin(angle))
		t2 := vec3.Sub(&temp0, &temp1)

		t0Norm := t0.Normalized()
		t2Norm := t2.Normalized()
		inters := Rays(p0, t0Norm, p2, t2Norm)

		t0Scaled := t0Norm.Scaled(inters.U0)
		p1 := vec3.Add(&p0, &t0Scaled)

		weights[index+1] = w1
		controlPoints[index+1] = p1

		index += 2

		if i < numArcs {
			p0 = p2
			t0 = t2
		}
	}

	j := 2*numArcs + 1
	for i := 0; i < 3; i++ {
		knots[i] = 0.0
		knots[i+j] = 1.0
	}

	switch numArcs {
	case 2:
		knots[3], knots[4] = 0.5, 0.5
	case 3:
		knots[3], knots[4] = 1.0/3.0, 1.0/3.0
		knots[5], knots[6] = 2.0/3.0, 2.0/3.0
	case 4:
		knots[3], knots[4] = 0.25, 0.25
		knots[5], knots[6] = 0.5, 0.5
		knots[7], knots[8] = 0.75, 0.75
	}

	return NewUnchecked(2, controlPoints, weights, knots)
}

// conicArc is the intermediate result of building a single conic segment:
// its three control points (start, shoulder, end) and the shoulder weight.
type conicArc struct {
	p0, p1, p2 vec3.T
	w          float64
}

// createOneConicArc computes the apex point and weight of the unique conic
// passing through start and end with the given end tangents and whose
// shoulder point (the point at parameter 1/2) is pm. Grounded on the
// construction a circular arc already performs one segment at a time:
// intersect the two tangent rays to find the apex, then derive the weight
// from how far pm sits from the chord midpoint toward the apex, using the
// rational-quadratic-Bezier identity that the weighted midpoint control
// point pulls the shoulder a fraction w/(1+w) of the way from the chord
// midpoint to the apex.
func createOneConicArc(start, tanStart, end, tanEnd, pm vec3.T) (conicArc, bool) {
	inters := Rays(start, tanStart, end, tanEnd)

	switch inters.Type {
	case Intersecting:
		p1 := inters.Point0

		a0 := vec3.Distance(&p1, &start)
		a1 := vec3.Distance(&p1, &end)
		if a0 < Epsilon || a1 < Epsilon {
			return conicArc{}, false
		}

		mid := vec3.Interpolate(&start, &end, 0.5)
		apexDist := vec3.Distance(&p1, &mid)
		if apexDist < Epsilon {
			return conicArc{}, false
		}

		a := vec3.Distance(&pm, &mid) / apexDist
		if a >= 1 {
			return conicArc{}, false
		}
		w := a / (1 - a)

		return conicArc{start, p1, end, w}, true

	case Parallel:
		// Tangents meet at infinity, so there is no finite apex to anchor
		// the midpoint-to-apex fraction identity the intersecting case
		// uses. Approximated by placing the middle control point at pm
		// itself with unit weight; exact treatment would need the conic's
		// affine parametrization solved directly rather than via an apex.
		return conicArc{start, pm, end, 1}, true

	default:
		return conicArc{}, false
	}
}

// splitArc divides a conic arc with shoulder weight w into two conic arcs
// that together trace the same curve, following the standard rational
// Bezier subdivision formulas for a 3-point weighted conic: the new
// endpoint-side control points are weighted averages with the shoulder, the
// split point is their midpoint, and the new shared weight is
// sqrt((1+w)/2).
func splitArc(arc conicArc) (conicArc, conicArc) {
	w := arc.w

	s0 := arc.p1.Scaled(w)
	s0.Add(&arc.p0)
	s0.Scale(1 / (1 + w))

	s1 := arc.p1.Scaled(w)
	s1.Add(&arc.p2)
	s1.Scale(1 / (1 + w))

	splitPoint := s0
	splitPoint.Add(&s1)
	splitPoint.Scale(0.5)

	newWeight := math.Sqrt((1 + w) / 2)

	left := conicArc{arc.p0, s0, splitPoint, newWeight}
	right := conicArc{splitPoint, s1, arc.p2, newWeight}

	return left, right
}

// CreateOpenConic builds the conic curve through pStart and pEnd tangent to
// tanStart/tanEnd respectively and passing through the interior point pMid,
// subdividing into 2 or 4 Bezier segments when the single-segment weight or
// subtended angle would make one segment ill-conditioned (mirroring Piegl &
// Tiller's CreateOpenConic/SplitArc, entirely new relative to the reference
// B-spline port this engine started from, which has no conic construction
// at all).
func CreateOpenConic(pStart, tanStart, pEnd, tanEnd, pMid vec3.T) (*Curve, error) {
	arc, ok := createOneConicArc(pStart, tanStart, pEnd, tanEnd, pMid)
	if !ok {
		return nil, errors.New("cannot construct a conic through the given tangents and midpoint: the tangent rays are skew or coincident, or the midpoint is not closer to the chord midpoint than the tangents' intersection is")
	}

	v1 := vec3.Sub(&pEnd, &arc.p1)
	v0 := vec3.Sub(&arc.p1, &pStart)
	cosAngle := vec3.Dot(&v0, &v1) / (v0.Length() * v1.Length() + Epsilon)
	angle := math.Acos(math.Max(-1, math.Min(1, cosAngle)))

	// w = a/(1-a) with a in [0,1) is always nonnegative here, so the segment
	// count depends only on how large the weight and subtended angle are:
	// a parabola or hyperbola (w >= 1) stays a single conic; an elliptic arc
	// is split in half, or in quarters when the tangent turns by more than a
	// right angle.
	var nsegs int
	switch {
	case arc.w >= 1:
		nsegs = 1
	case angle > math.Pi/2:
		nsegs = 4
	default:
		nsegs = 2
	}

	switch nsegs {
	case 1:
		controlPoints := []vec3.T{arc.p0, arc.p1, arc.p2}
		weights := []float64{1, arc.w, 1}
		knots := []float64{0, 0, 0, 1, 1, 1}
		return NewUnchecked(2, controlPoints, weights, knots), nil

	case 2:
		left, right := splitArc(arc)
		controlPoints := []vec3.T{left.p0, left.p1, left.p2, right.p1, right.p2}
		weights := []float64{1, left.w, 1, right.w, 1}
		knots := []float64{0, 0, 0, 0.5, 0.5, 1, 1, 1}
		return NewUnchecked(2, controlPoints, weights, knots), nil

	default: // 4
		left, right := splitArc(arc)
		ll, lr := splitArc(left)
		rl, rr := splitArc(right)

		controlPoints := []vec3.T{ll.p0, ll.p1, ll.p2, lr.p1, lr.p2, rl.p1, rl.p2, rr.p1, rr.p2}
		weights := []float64{1, ll.w, 1, lr.w, 1, rl.w, 1, rr.w, 1}
		knots := []float64{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1, 1, 1}
		return NewUnchecked(2, controlPoints, weights, knots), nil
	}
}
