package nurbs

import (
	"math"

	. "github.com/gocurvelib/nurbs/internal"

	"github.com/ungerik/go3d/float64/vec3"
)

// ParamAt finds the parameter t whose curve point is closest to p, by
// sampling the curve to find a good starting segment and then refining with
// Newton iteration on f(t) = C'(t) . (C(t) - p) (Piegl & Tiller's inverse
// point-projection, bounded to 10 iterations).
func (this *Curve) ParamAt(p vec3.T) float64 {
	min := math.MaxFloat64
	var u float64

	pts := this.regularSample(len(this.controlPoints) * this.degree)

	for i := 0; i < len(pts)-1; i++ {
		u0, u1 := pts[i].U, pts[i+1].U
		p0, p1 := pts[i].Pt, pts[i+1].Pt

		proj := segmentClosestPoint(&p, &p0, &p1, u0, u1)
		dv := vec3.Sub(&p, &proj.Pt)
		d := dv.Length()

		if d < min {
			min = d
			u = proj.U
		}
	}

	const maxIterations = 10
	eps1, eps2 := DistanceEpsilon, DistanceEpsilon
	minu, maxu := this.knots[0], this.knots[len(this.knots)-1]

	firstCtrlPt := this.controlPoints[0].Dehomogenized()
	lastCtrlPt := this.controlPoints[len(this.controlPoints)-1].Dehomogenized()
	closed := vec3.SquareDistance(&firstCtrlPt, &lastCtrlPt) < Epsilon

	cu := u

	for i := 0; i < maxIterations; i++ {
		e := this.Derivatives(cu, 2)
		dif := vec3.Sub(&e[0], &p)

		c1v := dif.Length()

		c2n := vec3.Dot(&e[1], &dif)
		c2d := e[1].Length() * c1v
		var c2v float64
		if c2d > Epsilon {
			c2v = c2n / c2d
		}

		if c1v < eps1 && math.Abs(c2v) < eps2 {
			return cu
		}

		f := c2n
		s0 := vec3.Dot(&e[2], &dif)
		s1 := vec3.Dot(&e[1], &e[1])
		df := s0 + s1

		if math.Abs(df) < Epsilon {
			return cu
		}

		ct := cu - f/df

		if ct < minu {
			if closed {
				ct = maxu - (ct - minu)
			} else {
				ct = minu
			}
		} else if ct > maxu {
			if closed {
				ct = minu + (ct - maxu)
			} else {
				ct = maxu
			}
		}

		step := e[1].Scaled(ct - cu)
		if step.Length() < eps1 {
			return cu
		}

		cu = ct
	}

	return cu
}

// regularSample samples the curve at evenly spaced parameters across its
// domain; used only to seed ParamAt's Newton iteration with a reasonable
// starting segment.
func (this *Curve) regularSample(numSamples int) []CurvePoint {
	return this.regularSampleRange(this.knots[0], this.knots[len(this.knots)-1], numSamples)
}

func (this *Curve) regularSampleRange(start, end float64, numSamples int) []CurvePoint {
	if numSamples < 1 {
		numSamples = 2
	}

	samples := make([]CurvePoint, numSamples)
	span := (end - start) / float64(numSamples-1)

	for i := range samples {
		u := start + span*float64(i)
		samples[i] = CurvePoint{u, this.PointAt(u)}
	}

	return samples
}

// segmentClosestPoint finds the closest point on a line segment to pt,
// clamped to the segment's endpoints, reporting the corresponding curve
// parameter by linear interpolation between u0 and u1.
func segmentClosestPoint(pt, segpt0, segpt1 *vec3.T, u0, u1 float64) CurvePoint {
	dif := vec3.Sub(segpt1, segpt0)
	l := dif.Length()

	if l < Epsilon {
		return CurvePoint{u0, *segpt0}
	}

	o := segpt0
	r := dif.Normalize()
	o2pt := vec3.Sub(pt, o)
	do2ptr := vec3.Dot(&o2pt, r)

	if do2ptr < 0 {
		return CurvePoint{u0, *segpt0}
	} else if do2ptr > l {
		return CurvePoint{u1, *segpt1}
	}

	return CurvePoint{
		u0 + (u1-u0)*do2ptr/l,
		vec3.Add(o, r.Scale(do2ptr)),
	}
}
