package timeline

import (
	"math"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// maxControlY bounds the y control values of a timing curve. Exporters
// occasionally write huge values that make the curve useless.
const maxControlY = 100

// Ease maps linear keyframe progress x in [0, 1] to eased progress.
// Hold easing always returns 0; Bezier easing clamps its control points
// before solving.
func Ease(e model.Easing, x float64) float64 {
	switch e.Kind {
	case model.EaseHold:
		return 0
	case model.EaseLinear:
		return x
	}
	x1 := clamp(e.Out.X, 0, 1)
	y1 := clamp(e.Out.Y, -maxControlY, maxControlY)
	x2 := clamp(e.In.X, 0, 1)
	y2 := clamp(e.In.Y, -maxControlY, maxControlY)
	if x1 == y1 && x2 == y2 {
		return x
	}
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	t := solveBezierX(x1, x2, x)
	return bezierComponent(y1, y2, t)
}

// bezierComponent evaluates one axis of the timing curve whose end points
// are 0 and 1.
func bezierComponent(c1, c2, t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*c1 + 3*mt*t*t*c2 + t*t*t
}

// solveBezierX finds t with x(t) = x. With x1 and x2 in [0, 1] x(t) is
// monotonic, so the root in [0, 1] is unique.
func solveBezierX(x1, x2, x float64) float64 {
	a := 1 + 3*x1 - 3*x2
	b := 3*x2 - 6*x1
	c := 3 * x1
	for _, t := range motion.SolveCubicInUnitInterval(a, b, c, -x) {
		if math.Abs(bezierComponent(x1, x2, t)-x) < 1e-7 {
			return t
		}
	}
	// Bisection when the closed form loses precision.
	lo, hi := 0.0, 1.0
	for range 64 {
		mid := (lo + hi) / 2
		if bezierComponent(x1, x2, mid) < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
