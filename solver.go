package motion

import "math"

// Polynomial root finding for curve extrema and easing inversion.

// SolveQuadratic returns the real roots of a*x^2 + b*x + c = 0 in ascending
// order. A vanishing leading coefficient degrades to the linear case; an
// all-zero equation reports the single root 0.
func SolveQuadratic(a, b, c float64) []float64 {
	p, q := b/a, c/a
	if !isFinite(p) || !isFinite(q) {
		return solveLinear(b, c)
	}
	disc := p*p - 4*q
	switch {
	case !isFinite(disc):
		return sortedPair(-p, q/-p)
	case disc < 0:
		return nil
	case disc == 0:
		return []float64{-p / 2}
	}
	// Citardauq form keeps the smaller root accurate.
	r1 := -(p + math.Copysign(math.Sqrt(disc), p)) / 2
	return sortedPair(r1, q/r1)
}

func solveLinear(b, c float64) []float64 {
	if r := -c / b; isFinite(r) {
		return []float64{r}
	}
	if b == 0 && c == 0 {
		return []float64{0}
	}
	return nil
}

func sortedPair(r1, r2 float64) []float64 {
	if !isFinite(r2) {
		return []float64{r1}
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return []float64{r1, r2}
}

// SolveCubic returns the real roots of a*x^3 + b*x^2 + c*x + d = 0 in no
// particular order. It follows Blinn's formulation, falling back to
// SolveQuadratic when the cubic term vanishes.
func SolveCubic(a, b, c, d float64) []float64 {
	c2, c1, c0 := b/(3*a), c/(3*a), d/a
	if !isFinite(c2) || !isFinite(c1) || !isFinite(c0) {
		return SolveQuadratic(b, c, d)
	}

	d0 := c1 - c2*c2
	d1 := c0 - c1*c2
	d2 := c2*c0 - c1*c1
	disc := 4*d0*d2 - d1*d1
	de := d1 - 2*c2*d0

	if disc < 0 {
		sq := math.Sqrt(-disc / 4)
		r := -de / 2
		return []float64{math.Cbrt(r+sq) + math.Cbrt(r-sq) - c2}
	}
	if disc == 0 {
		t := math.Copysign(math.Sqrt(-d0), de)
		return []float64{t - c2, -2*t - c2}
	}

	theta := math.Atan2(math.Sqrt(disc), -de) / 3
	sin, cos := math.Sincos(theta)
	scale := 2 * math.Sqrt(-d0)
	sq3 := sin * math.Sqrt(3)
	return []float64{
		scale*cos - c2,
		scale*(-cos+sq3)/2 - c2,
		scale*(-cos-sq3)/2 - c2,
	}
}

// SolveQuadraticInUnitInterval returns the roots of the quadratic in [0, 1].
func SolveQuadraticInUnitInterval(a, b, c float64) []float64 {
	return unitRoots(SolveQuadratic(a, b, c))
}

// SolveCubicInUnitInterval returns the roots of the cubic in [0, 1].
func SolveCubicInUnitInterval(a, b, c, d float64) []float64 {
	return unitRoots(SolveCubic(a, b, c, d))
}

// unitRoots keeps roots within a hair of [0, 1], snapping them onto it.
func unitRoots(roots []float64) []float64 {
	const eps = 1e-12
	var out []float64
	for _, r := range roots {
		if r < -eps || r > 1+eps {
			continue
		}
		out = append(out, math.Max(0, math.Min(1, r)))
	}
	return out
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
