package internal

import "sync"

var binomCache map[[2]int]float64

// binomMu guards binomCache, which Binomial fills from concurrent
// evaluations.
var binomMu sync.Mutex

func init() {
	binomCache = make(map[[2]int]float64)
}

// Binomial returns the binomial coefficient C(n, k), cached across calls
// since degree elevation and rational-derivative evaluation both call it
// repeatedly for the same small (n, k) pairs.
func Binomial(n, k int) float64 {
	if k == 0 {
		return 1
	}

	if n == 0 || k > n {
		return 0
	}

	if k > n-k {
		k = n - k // optimization
	}

	binomMu.Lock()
	defer binomMu.Unlock()

	if result, ok := binomCache[[2]int{n, k}]; ok {
		return result
	}

	nO := n
	r := 1.0
	for d := 1; d <= k; d++ {
		if cacheR, ok := binomCache[[2]int{nO, d}]; ok {
			n--
			r = cacheR
			continue
		}

		r *= float64(n) / float64(d)
		n--

		binomCache[[2]int{nO, d}] = r
	}

	return r
}

// BinomialNoCache computes C(n, k) without reading or writing the package
// cache.
func BinomialNoCache(n, k int) float64 {
	if k == 0 {
		return 1
	}

	if n == 0 || k > n {
		return 0
	}

	if k > n-k {
		k = n - k
	}

	r := 1.0
	for d := 1; d <= k; d++ {
		r *= float64(n) / float64(d)
		n--
	}

	return r
}
