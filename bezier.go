package nurbs

import (
	. "github.com/gocurvelib/nurbs/internal"
)

// DecomposeToBeziers splits the curve into its constituent Bezier segments,
// one per nonzero knot span, by raising every interior knot's multiplicity
// to degree+1 and slicing the resulting control points into degree+1-sized
// windows.
func (this *Curve) DecomposeToBeziers() []*Curve {
	degree := this.degree
	reqMult := degree + 1

	mults := this.knots.Multiplicities()

	var toInsert []float64
	for _, km := range mults {
		if km.Mult < reqMult {
			for i := 0; i < reqMult-km.Mult; i++ {
				toInsert = append(toInsert, km.Knot)
			}
		}
	}

	refined := this
	if len(toInsert) > 0 {
		refined, _ = this.Refine(toInsert)
	}

	crvKnotLength := reqMult * 2
	segments := make([]*Curve, 0, len(refined.controlPoints)/reqMult)

	for i := 0; i < len(refined.controlPoints); i += reqMult {
		kts := refined.knots[i : i+crvKnotLength : i+crvKnotLength]
		pts := refined.controlPoints[i : i+reqMult : i+reqMult]

		segments = append(segments, newFromHomogeneous(degree, append([]Vec4w(nil), pts...), kts.Clone()))
	}

	return segments
}

// ElevateDegree raises the curve's degree to finalDegree. Bezier segments
// are elevated in place (the classical Bezier degree-elevation blend
// Q_i = sum_j alpha_{i,j} P_j) and rejoined, trimming the extra interior
// knot multiplicity the per-segment elevation introduces back down to the
// minimum needed for the new degree (Piegl & Tiller's algorithm).
func (this *Curve) ElevateDegree(finalDegree int) *Curve {
	if finalDegree <= this.degree {
		return this.clone()
	}

	n := len(this.knots) - this.degree - 2
	newDegree := this.degree
	knots := this.knots
	controlPoints := this.controlPoints
	degreeInc := finalDegree - newDegree

	rows, cols := newDegree+degreeInc+1, newDegree+1
	bezalfs := make([][]float64, rows)
	for i := range bezalfs {
		bezalfs[i] = make([]float64, cols)
	}

	m := n + newDegree + 1
	ph := finalDegree
	ph2 := ph / 2

	maxNewPts := n + n*degreeInc + ph + 1
	Qw := make([]Vec4w, maxNewPts)
	Uh := make(KnotVec, maxNewPts+ph+1)

	bpts := make([]Vec4w, newDegree+1)
	ebpts := make([]Vec4w, ph+1)
	nextBpts := make([]Vec4w, newDegree-1+1)

	bezalfs[0][0] = 1
	bezalfs[ph][newDegree] = 1

	for i := 1; i <= ph2; i++ {
		inv := 1 / Binomial(ph, i)
		mpi := imin(newDegree, i)
		for j := imax(0, i-degreeInc); j <= mpi; j++ {
			bezalfs[i][j] = inv * Binomial(newDegree, j) * Binomial(degreeInc, i-j)
		}
	}
	for i := ph2 + 1; i < ph; i++ {
		mpi := imin(newDegree, i)
		for j := imax(0, i-degreeInc); j <= mpi; j++ {
			bezalfs[i][j] = bezalfs[ph-i][newDegree-j]
		}
	}

	kind := ph + 1
	r := -1
	a := newDegree
	b := newDegree + 1
	cind := 1
	ua := knots[0]

	Qw[0] = controlPoints[0]
	for i := 0; i <= ph; i++ {
		Uh[i] = ua
	}
	for i := 0; i <= newDegree; i++ {
		bpts[i] = controlPoints[i]
	}

	for b < m {
		i := b
		for b < m && knots[b] == knots[b+1] {
			b++
		}
		mul := b - i + 1
		ub := knots[b]
		oldr := r
		r = newDegree - mul

		var lbz int
		if oldr > 0 {
			lbz = (oldr + 2) / 2
		} else {
			lbz = 1
		}
		var rbz int
		if r > 0 {
			rbz = ph - (r+1)/2
		} else {
			rbz = ph
		}

		if r > 0 {
			numer := ub - ua
			alfs := make([]float64, newDegree)
			k := newDegree
			for k > mul {
				alfs[k-mul-1] = numer / (knots[a+k] - ua)
				k--
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mul + j
				k := newDegree
				for k >= s {
					bpts[k] = Interpolated(&bpts[k-1], &bpts[k], alfs[k-s])
					k--
				}
				nextBpts[save] = bpts[newDegree]
			}
		}

		for i := lbz; i <= ph; i++ {
			ebpts[i] = Vec4w{}
			mpi := imin(newDegree, i)
			for j := imax(0, i-degreeInc); j <= mpi; j++ {
				alf := bezalfs[i][j]
				bptsj := bpts[j]
				bptsj.Scale(alf)
				ebpts[i].Add(&bptsj)
			}
		}

		if oldr > 1 {
			first := kind - 2
			last := kind
			den := ub - ua
			bet := (ub - Uh[kind-1]) / den
			for tr := 1; tr < oldr; tr++ {
				i := first
				j := last
				kj := j - kind + 1
				for j-i > tr {
					if i < cind {
						alf := (ub - Uh[i]) / (ua - Uh[i])
						Qw[i] = Interpolated(&Qw[i-1], &Qw[i], alf)
					}
					if j >= lbz {
						if j-tr <= kind-ph+oldr {
							gam := (ub - Uh[j-tr]) / den
							ebpts[kj] = Interpolated(&ebpts[kj+1], &ebpts[kj], gam)
						}
					} else {
						ebpts[kj] = Interpolated(&ebpts[kj+1], &ebpts[kj], bet)
					}
					i++
					j--
					kj--
				}
				first--
				last++
			}
		}

		if a != newDegree {
			for i := 0; i < ph-oldr; i++ {
				Uh[kind] = ua
				kind++
			}
		}

		for j := lbz; j <= rbz; j++ {
			Qw[cind] = ebpts[j]
			cind++
		}

		if b < m {
			for j := 0; j < r; j++ {
				bpts[j] = nextBpts[j]
			}
			for j := r; j <= newDegree; j++ {
				bpts[j] = controlPoints[b-newDegree+j]
			}
			a = b
			b++
			ua = ub
		} else {
			for i := 0; i <= ph; i++ {
				Uh[kind+i] = ub
			}
		}
	}

	return newFromHomogeneous(finalDegree, Qw[:cind], Uh[:kind+ph+1])
}

// ReduceDegree lowers the curve's degree by one, only defined for degree >=
// 2. It decomposes the curve into Bezier segments, reduces each directly in
// homogeneous space via the classical closed-form Bezier degree-reduction
// blend (so weighted control points reduce correctly rather than having
// their weights separately guessed), accumulates each segment's deviation
// against the whole curve's modification tolerance, and rejoins the
// segments. If the accumulated error ever exceeds tolerance the reduction
// fails and the original curve is returned unchanged.
func (this *Curve) ReduceDegree() (*Curve, bool) {
	if !isValidDegreeReduction(this.degree) {
		return this, false
	}

	tol := computeModifyTolerance(this.controlPoints)

	beziers := this.DecomposeToBeziers()
	reducedSegments := make([][]Vec4w, len(beziers))

	var accumulatedErr float64
	for i, bez := range beziers {
		original := bez.controlPoints
		reduced, ok := reduceBezierDegree(original)
		if !ok {
			return this, false
		}

		accumulatedErr += computeMaxErrorOfBezierReduction(this.degree, original, reduced)
		if accumulatedErr > tol {
			return this, false
		}

		reducedSegments[i] = reduced
	}

	newDegree := this.degree - 1
	var controlPoints []Vec4w
	knots := make(KnotVec, 0)

	for i, seg := range reducedSegments {
		start := 0
		if i > 0 {
			start = 1 // shared endpoint with previous segment
		}
		controlPoints = append(controlPoints, seg[start:]...)

		segKnots := beziers[i].knots
		if i == 0 {
			knots = append(knots, segKnots[:newDegree+1]...)
		}
	}

	for i := 1; i < len(beziers); i++ {
		u := beziers[i].knots[0]
		for k := 0; k < newDegree; k++ {
			knots = append(knots, u)
		}
	}
	last := beziers[len(beziers)-1].knots
	for k := 0; k < newDegree+1; k++ {
		knots = append(knots, last[len(last)-1])
	}

	reducedCurve := newFromHomogeneous(newDegree, controlPoints, knots)
	return reducedCurve, true
}

// reduceBezierDegree computes the best degree p-1 Bezier approximation of a
// degree-p Bezier segment by averaging the two classical one-sided
// reduction recurrences (matching endpoints exactly from either end), which
// is the standard closed-form used when no continuity constraint beyond the
// segment endpoints is required. Operates on homogeneous control points
// directly, since the reduction recurrence is an affine combination and so
// is valid in homogeneous space exactly like knot insertion and degree
// elevation already are.
func reduceBezierDegree(pts []Vec4w) ([]Vec4w, bool) {
	n := len(pts) - 1
	if n < 2 {
		return nil, false
	}

	fwd := make([]Vec4w, n)
	fwd[0] = pts[0]
	for i := 1; i < n; i++ {
		scaled0 := pts[i]
		scaled0.Scale(float64(n))
		scaled1 := fwd[i-1]
		scaled1.Scale(-float64(i))
		scaled0.Add(&scaled1)
		scaled0.Scale(1 / float64(n-i))
		fwd[i] = scaled0
	}

	bwd := make([]Vec4w, n)
	bwd[n-1] = pts[n]
	for i := n - 2; i >= 0; i-- {
		scaled0 := pts[i+1]
		scaled0.Scale(float64(n))
		scaled1 := bwd[i+1]
		scaled1.Scale(-float64(n - i - 1))
		scaled0.Add(&scaled1)
		scaled0.Scale(1 / float64(i + 1))
		bwd[i] = scaled0
	}

	result := make([]Vec4w, n)
	for i := range result {
		a := fwd[i]
		b := bwd[i]
		a.Scale(0.5)
		b.Scale(0.5)
		a.Add(&b)
		result[i] = a
	}
	result[0] = pts[0]
	result[n-1] = pts[n]

	return result, true
}
