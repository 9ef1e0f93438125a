package internal

// Epsilon is the default tolerance for coordinate and knot-value equality.
const Epsilon = 1e-10

// DistanceEpsilon is the default tolerance for convergence tests that compare
// point distances or angle cosines (Newton iteration, knot removal).
const DistanceEpsilon = 1e-6

// Tolerance is kept as an alias of DistanceEpsilon for call sites that only
// need "a small distance", mirroring how loosely the teacher codebase used
// the two names interchangeably.
const Tolerance = DistanceEpsilon
