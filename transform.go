package nurbs

import (
	. "github.com/gocurvelib/nurbs/internal"

	"github.com/ungerik/go3d/float64/mat4"
)

// Reverse returns a curve tracing the same geometry in the opposite
// parameter direction: the knot vector is reflected and the control points
// are reversed in order.
func (this *Curve) Reverse() *Curve {
	reversed := Curve{
		degree:        this.degree,
		controlPoints: make([]Vec4w, 0, len(this.controlPoints)),
		knots:         this.knots.Reversed(),
	}

	for i := len(this.controlPoints) - 1; i >= 0; i-- {
		reversed.controlPoints = append(reversed.controlPoints, this.controlPoints[i])
	}

	return &reversed
}

// Transform applies a 4x4 affine transform to the curve's control points,
// preserving their weights.
func (this *Curve) Transform(mat *mat4.T) *Curve {
	pts := Dehomogenize1d(this.controlPoints)

	for i := range pts {
		pts[i] = mat.MulVec3(&pts[i])
	}

	return &Curve{
		this.degree,
		Homogenize1d(pts, Weight1d(this.controlPoints)),
		this.knots,
	}
}
