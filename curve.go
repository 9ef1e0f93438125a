// Package nurbs implements a NURBS (Non-Uniform Rational B-Spline) curve
// engine: point and derivative evaluation, knot insertion/removal/
// refinement, Bezier decomposition, degree elevation/reduction,
// interpolation and least-squares approximation from sample data, conic
// and circular-arc construction, and inverse point-projection.
//
// The engine is a pure, stateless library. Every mutating operation
// returns freshly allocated buffers rather than touching its receiver, so
// curves may be shared freely across goroutines as long as callers don't
// race on a single returned value.
package nurbs

import (
	"math"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/pkg/errors"
	"github.com/ungerik/go3d/float64/vec3"
)

// CurvePoint pairs a parameter value with the point sampled there.
type CurvePoint struct {
	U  float64
	Pt vec3.T
}

// Curve is an immutable NURBS curve: a degree, a nondecreasing knot vector,
// and a parallel sequence of weighted control points satisfying
// len(knots) == len(controlPoints) + degree + 1.
type Curve struct {
	degree int

	controlPoints []Vec4w

	knots KnotVec
}

// New builds a Curve from plain control points, per-point weights, and a
// knot vector, validating the NURBS invariants before returning.
func New(degree int, controlPoints []vec3.T, weights []float64, knots []float64) (*Curve, error) {
	this := NewUnchecked(degree, controlPoints, weights, knots)
	if err := this.check(); err != nil {
		return nil, err
	}

	return this, nil
}

// NewUnchecked builds a Curve without validating its invariants. Used
// internally by factories (arc/conic construction, interpolation) that
// already know their output is well-formed and want to skip the redundant
// check.
func NewUnchecked(degree int, controlPoints []vec3.T, weights []float64, knots []float64) *Curve {
	return &Curve{degree, Homogenize1d(controlPoints, weights), KnotVec(knots).Clone()}
}

func newFromHomogeneous(degree int, controlPoints []Vec4w, knots KnotVec) *Curve {
	return &Curve{degree, controlPoints, knots}
}

func (this *Curve) Degree() int {
	return this.degree
}

func (this *Curve) ControlPoints() []vec3.T {
	return Dehomogenize1d(this.controlPoints)
}

func (this *Curve) Weights() []float64 {
	return Weight1d(this.controlPoints)
}

func (this *Curve) Knots() []float64 {
	return []float64(this.knots.Clone())
}

// clone is not exported because Curve is immutable to the client, so there
// is no point in making a deep copy other than for internal bookkeeping
// that needs to mutate a buffer before handing it back.
func (this *Curve) clone() *Curve {
	return &Curve{
		degree:        this.degree,
		controlPoints: append([]Vec4w(nil), this.controlPoints...),
		knots:         this.knots.Clone(),
	}
}

// Domain returns the parametric range [min, max] over which the curve is
// defined.
func (this *Curve) Domain() (min, max float64) {
	min = this.knots[0]
	max = this.knots[len(this.knots)-1]
	return
}

// Tangent computes the first derivative of the curve at u.
func (this *Curve) Tangent(u float64) vec3.T {
	return this.Derivatives(u, 1)[1]
}

// Derivatives computes the first numDerivs rational derivatives of the
// curve at u, applying the rational-derivative recurrence to the
// homogeneous (non-rational) derivatives of the underlying B-spline.
func (this *Curve) Derivatives(u float64, numDerivs int) []vec3.T {
	ders := this.nonRationalDerivatives(u, numDerivs)
	ck := make([]vec3.T, 0, numDerivs+1)

	for k := 0; k <= numDerivs; k++ {
		v := ders[k].Vec3

		for i := 1; i <= k; i++ {
			scaled := ck[k-i].Scaled(Binomial(k, i) * ders[i].W)
			v.Sub(&scaled)
		}
		v.Scale(1 / ders[0].W)
		ck = append(ck, v)
	}

	return ck
}

// PointAt evaluates the curve at parameter u.
func (this *Curve) PointAt(u float64) vec3.T {
	homoPt := this.nonRationalPoint(u)
	return homoPt.Dehomogenized()
}

func (this *Curve) nonRationalDerivatives(u float64, numDerivs int) []Vec4w {
	n := len(this.knots) - this.degree - 2
	return this.nonRationalDerivativesGivenNM(n, u, numDerivs)
}

// nonRationalDerivativesGivenNM corresponds to algorithm 3.2 from The NURBS
// Book (Piegl & Tiller, 2nd edition).
func (this *Curve) nonRationalDerivativesGivenNM(n int, u float64, numDerivs int) []Vec4w {
	degree := this.degree
	controlPoints := this.controlPoints
	knots := this.knots

	if !isValidNurbs(degree, len(controlPoints), len(knots)) {
		panic("invalid relations between control points, knot vector, and n")
	}

	var du int
	if numDerivs < degree {
		du = numDerivs
	} else {
		du = degree
	}

	ck := make([]Vec4w, numDerivs+1)
	knotSpanIndex := knots.SpanGivenN(n, degree, u)
	nders := DerivativeBasisFunctionsGivenNI(knotSpanIndex, u, degree, du, knots)

	for k := 0; k <= du; k++ {
		for j := 0; j <= degree; j++ {
			scaled := controlPoints[knotSpanIndex-degree+j]
			scaled.Scale(nders[k][j])
			ck[k].Add(&scaled)
		}
	}

	return ck
}

func (this *Curve) nonRationalPoint(u float64) Vec4w {
	n := len(this.knots) - this.degree - 2
	return this.nonRationalPointGivenN(n, u)
}

// nonRationalPointGivenN corresponds to algorithm 3.1 from The NURBS Book
// (Piegl & Tiller, 2nd edition).
func (this *Curve) nonRationalPointGivenN(n int, u float64) Vec4w {
	degree := this.degree
	controlPoints := this.controlPoints
	knots := this.knots

	if !isValidNurbs(degree, len(controlPoints), len(knots)) {
		panic("invalid relations between control points, knot vector, and n")
	}

	knotSpanIndex := knots.SpanGivenN(n, degree, u)
	basisValues := BasisFunctionsGivenKnotSpanIndex(knotSpanIndex, u, degree, knots)
	var position Vec4w

	for j := 0; j <= degree; j++ {
		scaled := controlPoints[knotSpanIndex-degree+j]
		scaled.Scale(basisValues[j])
		position.Add(&scaled)
	}

	return position
}

// check validates the NURBS invariants of a curve.
func (this *Curve) check() error {
	if this.controlPoints == nil {
		return errors.New("control points cannot be nil")
	}

	if this.degree < 1 {
		return errors.New("degree must be at least 1")
	}

	if this.knots == nil {
		return errors.New("knots cannot be nil")
	}

	if len(this.knots) != len(this.controlPoints)+this.degree+1 {
		return errors.New("len(controlPoints) + degree + 1 must equal len(knots)")
	}

	if !this.knots.IsValid(this.degree) {
		return errors.New("invalid knot vector: must be clamped with degree+1 repeated endpoints")
	}

	return nil
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
