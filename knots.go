package nurbs

import (
	. "github.com/gocurvelib/nurbs/internal"

	"github.com/ungerik/go3d/float64/vec3"
)

// InsertKnot inserts the value u into the curve's knot vector up to r times,
// clamped so the resulting multiplicity never exceeds degree (Algorithm
// A5.1, Piegl & Tiller). Returns a new curve; the receiver is untouched.
func (this *Curve) InsertKnot(u float64, r int) (*Curve, error) {
	if r <= 0 {
		return this.clone(), nil
	}
	if err := checkParamInDomain(this, u); err != nil {
		return nil, err
	}

	degree := this.degree
	knots := this.knots
	controlPoints := this.controlPoints

	s := knots.Multiplicity(u, Epsilon)
	if r > degree-s {
		r = degree - s
	}
	if r <= 0 {
		return this.clone(), nil
	}

	k := knots.Span(degree, u)
	n := len(controlPoints) - 1

	newKnots := make(KnotVec, len(knots)+r)
	newControlPoints := make([]Vec4w, n+1+r)

	// Knot vector: copy unaffected knots, insert r new copies of u, copy the
	// remainder shifted by r.
	for i := 0; i <= k; i++ {
		newKnots[i] = knots[i]
	}
	for i := 1; i <= r; i++ {
		newKnots[k+i] = u
	}
	for i := k + 1; i < len(knots); i++ {
		newKnots[i+r] = knots[i]
	}

	// Control points: copy those before and after the affected window
	// unchanged (the latter shifted by r), then sweep the affected window.
	for i := 0; i <= k-degree; i++ {
		newControlPoints[i] = controlPoints[i]
	}
	for i := k - s; i <= n; i++ {
		newControlPoints[i+r] = controlPoints[i]
	}

	temp := make([]Vec4w, degree-s+1)
	for i := 0; i <= degree-s; i++ {
		temp[i] = controlPoints[k-degree+i]
	}

	var L int
	for j := 1; j <= r; j++ {
		L = k - degree + j
		for i := 0; i <= degree-j-s; i++ {
			alpha := (u - knots[L+i]) / (knots[i+k+1] - knots[L+i])
			temp[i] = Interpolated(&temp[i], &temp[i+1], alpha)
		}

		newControlPoints[L] = temp[0]
		newControlPoints[k+r-j-s] = temp[degree-j-s]
	}

	for i := L + 1; i < k-s; i++ {
		newControlPoints[i] = temp[i-L]
	}

	return newFromHomogeneous(degree, newControlPoints, newKnots), nil
}

// PointAtByCornerCut evaluates the curve at t by repeated corner-cutting
// (inserting t until its multiplicity reaches degree); the resulting shared
// control point is the curve point. Endpoint parameters take the documented
// shortcut of returning the first/last control point directly.
func (this *Curve) PointAtByCornerCut(t float64) (vec3.T, error) {
	min, max := this.Domain()
	if almostEqualFloat(t, min, Epsilon) {
		return this.controlPoints[0].Dehomogenized(), nil
	}
	if almostEqualFloat(t, max, Epsilon) {
		return this.controlPoints[len(this.controlPoints)-1].Dehomogenized(), nil
	}

	s := this.knots.Multiplicity(t, Epsilon)
	times := this.degree - s
	if times <= 0 {
		return this.PointAt(t), nil
	}

	k := this.knots.Span(this.degree, t)
	refined, err := this.InsertKnot(t, times)
	if err != nil {
		return vec3.T{}, err
	}

	// With t at multiplicity degree, refined control point k-s is the one
	// shared by both sides of the cut corner.
	return refined.controlPoints[k-s].Dehomogenized(), nil
}

// Refine inserts every value of x (assumed sorted ascending) into the knot
// vector in a single pass using Boehm's algorithm (Algorithm A5.4, Piegl &
// Tiller). This is equivalent to calling InsertKnot once per value but runs
// in O((len(U)+len(x))*p) instead of O(len(x)*len(U)*p).
func (this *Curve) Refine(x []float64) (*Curve, error) {
	if len(x) == 0 {
		return this.clone(), nil
	}

	degree := this.degree
	controlPoints := this.controlPoints
	knots := this.knots

	n := len(controlPoints) - 1
	m := n + degree + 1
	r := len(x) - 1
	a := knots.Span(degree, x[0])
	b := knots.Span(degree, x[r])

	newControlPoints := make([]Vec4w, n+r+2)
	newKnots := make(KnotVec, m+r+2)

	for i := 0; i <= a-degree; i++ {
		newControlPoints[i] = controlPoints[i]
	}
	for i := b - 1; i <= n; i++ {
		newControlPoints[i+r+1] = controlPoints[i]
	}

	for i := 0; i <= a; i++ {
		newKnots[i] = knots[i]
	}
	for i := b + degree; i <= m; i++ {
		newKnots[i+r+1] = knots[i]
	}

	i := b + degree - 1
	k := b + degree + r
	j := r

	for j >= 0 {
		for x[j] <= knots[i] && i > a {
			newControlPoints[k-degree-1] = controlPoints[i-degree-1]
			newKnots[k] = knots[i]
			k--
			i--
		}

		newControlPoints[k-degree-1] = newControlPoints[k-degree]

		for l := 1; l <= degree; l++ {
			ind := k - degree + l
			alfa := newKnots[k+l] - x[j]

			if almostEqualFloat(alfa, 0, Epsilon) {
				newControlPoints[ind-1] = newControlPoints[ind]
			} else {
				alfa /= newKnots[k+l] - knots[i-degree+l]
				newControlPoints[ind-1] = Interpolated(&newControlPoints[ind], &newControlPoints[ind-1], alfa)
			}
		}

		newKnots[k] = x[j]
		k--
		j--
	}

	return newFromHomogeneous(degree, newControlPoints, newKnots), nil
}

// homogeneousCombo computes (a - s*b) / d on homogeneous points: the closed
// form that inverts the linear blend used by knot insertion, needed to run
// that blend backwards during knot removal.
func homogeneousCombo(a, b Vec4w, s, d float64) Vec4w {
	bs := b
	bs.Scale(s)

	r := a
	r.Vec3.Sub(&bs.Vec3)
	r.W -= bs.W
	r.Scale(1 / d)

	return r
}

func homogeneousDistance(a, b Vec4w) float64 {
	pa, pb := a.Dehomogenized(), b.Dehomogenized()
	return vec3.Distance(&pa, &pb)
}

// RemoveKnot attempts to remove the value u from the knot vector up to r
// times, reporting how many removals actually succeeded. Each attempt
// reconstructs the control points the removal would discard from both ends
// of the affected window and checks whether they agree with the original
// control points within the curve's modification tolerance; this is the
// exact inverse of the blend InsertKnot performs (Algorithm A5.8, Piegl &
// Tiller), generalized here since the reference B-spline port this engine
// started from never implemented a degree-preserving knot removal at all.
func (this *Curve) RemoveKnot(u float64, r int) (*Curve, int) {
	degree := this.degree
	knots := this.knots.Clone()
	pw := append([]Vec4w(nil), this.controlPoints...)
	n := len(pw) - 1

	tol := computeModifyTolerance(pw)

	s := knots.Multiplicity(u, Epsilon)
	ord := degree + 1
	knotIndex := knots.Span(degree, u)

	first := knotIndex - degree
	last := knotIndex - s

	removed := 0
	for t := 0; t < r; t++ {
		off := first - 1
		temp := make([]Vec4w, last-off+2)
		temp[0] = pw[off]
		temp[last+1-off] = pw[last+1]

		i, j := first, last
		ii, jj := 1, last-off

		for j-i > t {
			alfi := (u - knots[i]) / (knots[i+ord+t] - knots[i])
			alfj := (u - knots[j-t]) / (knots[j+ord] - knots[j-t])

			temp[ii] = homogeneousCombo(pw[i], temp[ii-1], 1-alfi, alfi)
			temp[jj] = homogeneousCombo(pw[j], temp[jj+1], alfj, 1-alfj)

			i++
			ii++
			j--
			jj--
		}

		var removable bool
		if j-i < t {
			removable = homogeneousDistance(temp[ii-1], temp[jj+1]) <= tol
		} else {
			alfi := (u - knots[i]) / (knots[i+ord+t] - knots[i])
			blended := Interpolated(&temp[ii-1], &temp[ii+t+1], alfi)
			removable = homogeneousDistance(pw[i], blended) <= tol
		}

		if !removable {
			break
		}

		i, j = first, last
		for j-i > t {
			pw[i] = temp[i-off]
			pw[j] = temp[j-off]
			i++
			j--
		}

		first--
		last++
		removed++
	}

	if removed == 0 {
		return this.clone(), 0
	}

	// Shift the knot vector down over the gap left by the removed knots.
	for k := knotIndex + 1; k <= n+degree+1; k++ {
		knots[k-removed] = knots[k]
	}
	newKnots := knots[:len(knots)-removed]

	// Shift the control points down over the same gap.
	fout := (2*knotIndex - s - degree) / 2
	jIdx := fout
	iIdx := fout
	for k := 1; k < removed; k++ {
		if k%2 == 1 {
			iIdx++
		} else {
			jIdx--
		}
	}

	newControlPoints := make([]Vec4w, len(pw)-removed)
	copy(newControlPoints, pw[:jIdx])
	for k := iIdx + 1; k <= n; k++ {
		newControlPoints[jIdx] = pw[k]
		jIdx++
	}

	return newFromHomogeneous(degree, newControlPoints, newKnots), removed
}
