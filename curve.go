package motion

import (
	"math"
	"sort"
)

// CubicBez represents a cubic Bezier curve with control points P0, P1, P2, P3.
// P0 is the start point, P1 and P2 are control points, P3 is the end point.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// NewCubicBez creates a new cubic Bezier curve.
func NewCubicBez(p0, p1, p2, p3 Point) CubicBez {
	return CubicBez{P0: p0, P1: p1, P2: p2, P3: p3}
}

// Eval evaluates the curve at parameter t (0 to 1).
func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	// (1-t)^3 * P0 + 3(1-t)^2*t * P1 + 3(1-t)*t^2 * P2 + t^3 * P3
	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}

// Deriv returns the first derivative at parameter t.
func (c CubicBez) Deriv(t float64) Point {
	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)
	mt := 1.0 - t
	return Point{
		X: 3 * (d0.X*mt*mt + 2*d1.X*mt*t + d2.X*t*t),
		Y: 3 * (d0.Y*mt*mt + 2*d1.Y*mt*t + d2.Y*t*t),
	}
}

// Subdivide splits the curve at t=0.5 into two halves using de Casteljau.
func (c CubicBez) Subdivide() (CubicBez, CubicBez) {
	return c.Split(0.5)
}

// Split splits the curve at t using de Casteljau's algorithm.
func (c CubicBez) Split(t float64) (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)

	return CubicBez{P0: c.P0, P1: p01, P2: p012, P3: mid},
		CubicBez{P0: mid, P1: p123, P2: p23, P3: c.P3}
}

// Subsegment returns the portion of the curve from t0 to t1.
func (c CubicBez) Subsegment(t0, t1 float64) CubicBez {
	p0 := c.Eval(t0)
	p3 := c.Eval(t1)

	// The hodograph of the sub-curve is the original derivative scaled by (t1-t0).
	scale := (t1 - t0) / 3.0
	p1 := p0.Add(c.Deriv(t0).Mul(scale))
	p2 := p3.Sub(c.Deriv(t1).Mul(scale))

	return CubicBez{P0: p0, P1: p1, P2: p2, P3: p3}
}

// Extrema returns parameter values where the derivative is zero on either axis.
// For a cubic Bezier, there can be up to 4 extrema (2 for x, 2 for y).
func (c CubicBez) Extrema() []float64 {
	result := make([]float64, 0, 4)

	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)

	// B'(t)/3 = (d0 - 2d1 + d2) t^2 + 2(d1 - d0) t + d0
	result = append(result, SolveQuadraticInUnitInterval(d0.X-2*d1.X+d2.X, 2*(d1.X-d0.X), d0.X)...)
	result = append(result, SolveQuadraticInUnitInterval(d0.Y-2*d1.Y+d2.Y, 2*(d1.Y-d0.Y), d0.Y)...)

	sort.Float64s(result)
	return result
}

// BoundingBox returns the tight axis-aligned bounding box of the curve.
// It may be degenerate (zero width or height) for straight curves.
func (c CubicBez) BoundingBox() Rect {
	bbox := Rect{Min: c.P0, Max: c.P0}.extend(c.P3)
	for _, t := range c.Extrema() {
		bbox = bbox.extend(c.Eval(t))
	}
	return bbox
}

// gauss5 holds 5-point Gauss-Legendre abscissae and weights on [-1, 1].
var gauss5 = [5][2]float64{
	{0, 0.5688888888888889},
	{-0.5384693101056831, 0.47862867049936647},
	{0.5384693101056831, 0.47862867049936647},
	{-0.906179845938664, 0.23692688505618908},
	{0.906179845938664, 0.23692688505618908},
}

// arcLengthRange integrates the speed of the curve on [t0, t1].
func (c CubicBez) arcLengthRange(t0, t1 float64) float64 {
	half := (t1 - t0) / 2
	mid := (t1 + t0) / 2
	var sum float64
	for _, g := range gauss5 {
		sum += g[1] * c.Deriv(mid+half*g[0]).Length()
	}
	return sum * half
}

// ArcLength approximates the length of the curve by adaptive subdivision:
// a piece is accepted once its chord and control polygon agree within
// accuracy.
func (c CubicBez) ArcLength(accuracy float64) float64 {
	if accuracy <= 0 {
		accuracy = 1e-3
	}
	return cubicLengthRecursive(c, accuracy*accuracy, 0)
}

func cubicLengthRecursive(c CubicBez, accuracySq float64, depth int) float64 {
	chord := c.P0.Distance(c.P3)
	polygon := c.P0.Distance(c.P1) + c.P1.Distance(c.P2) + c.P2.Distance(c.P3)

	diff := polygon - chord
	if diff*diff <= accuracySq || depth > 16 {
		return (chord + polygon) / 2
	}

	c1, c2 := c.Subdivide()
	return cubicLengthRecursive(c1, accuracySq, depth+1) + cubicLengthRecursive(c2, accuracySq, depth+1)
}

// flatness returns the squared distance metric of the control points
// from the chord, scaled by 16.
func (c CubicBez) flatness() float64 {
	ux := 3.0*c.P1.X - 2.0*c.P0.X - c.P3.X
	uy := 3.0*c.P1.Y - 2.0*c.P0.Y - c.P3.Y
	vx := 3.0*c.P2.X - c.P0.X - 2.0*c.P3.X
	vy := 3.0*c.P2.Y - c.P0.Y - 2.0*c.P3.Y

	return math.Max(ux*ux+uy*uy, vx*vx+vy*vy)
}

// flatten emits the end points of line segments approximating the curve.
func (c CubicBez) flatten(toleranceSq float64, depth int, fn func(Point)) {
	if c.flatness() <= toleranceSq*16 || depth > 16 {
		fn(c.P3)
		return
	}
	c1, c2 := c.Subdivide()
	c1.flatten(toleranceSq, depth+1, fn)
	c2.flatten(toleranceSq, depth+1, fn)
}
