package internal

import "github.com/ungerik/go3d/float64/vec3"

// Vec4w is a weighted control point (x, y, z, w) stored as a homogeneous
// coordinate: Vec3 already holds (w*x, w*y, w*z), so ordinary vector
// arithmetic on the Vec3 field is the correct way to blend homogeneous
// points, and Dehomogenized projects back to Euclidean space.
type Vec4w struct {
	Vec3 vec3.T
	W    float64
}

func (this *Vec4w) Add(pt *Vec4w) *Vec4w {
	this.Vec3.Add(&pt.Vec3)
	this.W += pt.W

	return this
}

func (this *Vec4w) Scale(scale float64) *Vec4w {
	this.Vec3.Scale(scale)
	this.W *= scale

	return this
}

// Homogenized builds a Vec4w from an ordinary point and its weight.
func Homogenized(pt vec3.T, w float64) Vec4w {
	return Vec4w{pt.Scaled(w), w}
}

// Homogenize1d converts a set of control points and parallel weights into
// their homogeneous equivalents.
func Homogenize1d(pts []vec3.T, weights []float64) []Vec4w {
	homoPts := make([]Vec4w, 0, len(pts))
	for i, pt := range pts {
		homoPts = append(homoPts, Homogenized(pt, weights[i]))
	}

	return homoPts
}

// Dehomogenized projects a Vec4w back to a Euclidean Vec3.
func (this *Vec4w) Dehomogenized() vec3.T {
	return this.Vec3.Scaled(1 / this.W)
}

// Dehomogenize1d projects a slice of Vec4w back to ordinary points.
func Dehomogenize1d(homoPoints []Vec4w) []vec3.T {
	result := make([]vec3.T, 0, len(homoPoints))
	for _, homoPt := range homoPoints {
		result = append(result, homoPt.Dehomogenized())
	}

	return result
}

// Weight1d extracts the weight component of each point in a homogeneous slice.
func Weight1d(homoPoints []Vec4w) (weights []float64) {
	weights = make([]float64, len(homoPoints))
	for i := range weights {
		weights[i] = homoPoints[i].W
	}

	return
}

// Interpolated linearly blends two homogeneous points, used by knot
// insertion, refinement, and degree elevation/removal, all of which
// interpolate adjacent control points by a scalar alpha.
func Interpolated(hpt0, hpt1 *Vec4w, t float64) Vec4w {
	return Vec4w{
		vec3.Interpolate(&hpt0.Vec3, &hpt1.Vec3, t),
		(1-t)*hpt0.W + t*hpt1.W,
	}
}
