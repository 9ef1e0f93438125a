package internal

import "github.com/ungerik/go3d/float64/vec3"

type Ray struct {
	Origin, Dir vec3.T
}

// Find the closest point on a ray
//
// **params**
// + point to project
// + origin for ray
// + direction of ray 1, assumed normalized
//
// **returns**
// + pt
func (this Ray) ClosestPoint(pt vec3.T) vec3.T {
	o2pt := vec3.Sub(&pt, &this.Origin)
	do2ptr := vec3.Dot(&o2pt, &this.Dir)
	dirScaled := this.Dir.Scaled(do2ptr)
	proj := vec3.Add(&this.Origin, &dirScaled)

	return proj
}

// Find the distance of a point to a ray
//
// **params**
// + point to project
// + origin for ray
// + direction of ray 1, assumed normalized
//
// **returns**
// + the distance
func (this Ray) DistToPoint(pt vec3.T) float64 {
	d := this.ClosestPoint(pt)

	return vec3.Distance(&d, &pt)
}

type IntersectionType int

const (
	Skew IntersectionType = iota
	Intersecting
	Parallel
	Coincident
)

// RayIntersection is the outcome of intersecting two rays/lines in 3D: the
// classification, the parameter along each ray at closest approach, and the
// intersection (or midpoint-of-closest-approach) point.
type RayIntersection struct {
	Type   IntersectionType
	U0, U1 float64
	Point0 vec3.T
	Point1 vec3.T
}

// Rays classifies and, where possible, solves the intersection of two rays
// given by origin/direction pairs. Directions need not be normalized. This
// is the general closest-point-between-two-lines construction: set up the
// 2x2 normal-equation system in the two ray parameters by minimizing
// |o1 + t0*d0 - (o2 + t1*d1)|^2, then classify by the resulting residual.
func Rays(o0 vec3.T, d0 vec3.T, o1 vec3.T, d1 vec3.T) RayIntersection {
	w0 := vec3.Sub(&o0, &o1)

	a := vec3.Dot(&d0, &d0)
	b := vec3.Dot(&d0, &d1)
	c := vec3.Dot(&d1, &d1)
	d := vec3.Dot(&d0, &w0)
	e := vec3.Dot(&d1, &w0)

	denom := a*c - b*b

	if denom < Epsilon {
		// Directions are parallel (or one is degenerate). Coincident if the
		// origin offset also lies along the shared direction.
		cross := vec3.Cross(&d0, &w0)
		if vec3.Dot(&cross, &cross) < Epsilon {
			return RayIntersection{Type: Coincident, Point0: o0, Point1: o1}
		}
		return RayIntersection{Type: Parallel}
	}

	t0 := (b*e - c*d) / denom
	t1 := (a*e - b*d) / denom

	d0Scaled := d0.Scaled(t0)
	p0 := vec3.Add(&o0, &d0Scaled)

	d1Scaled := d1.Scaled(t1)
	p1 := vec3.Add(&o1, &d1Scaled)

	diff := vec3.Sub(&p0, &p1)
	if diff.Length() < DistanceEpsilon {
		return RayIntersection{Type: Intersecting, U0: t0, U1: t1, Point0: p0, Point1: p1}
	}

	return RayIntersection{Type: Skew, U0: t0, U1: t1, Point0: p0, Point1: p1}
}
