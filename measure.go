package motion

import (
	"math"
	"sort"
)

// measureSteps is the number of sub-intervals used to build the arc-length
// table of a cubic or elliptical segment.
const measureSteps = 16

// PathMeasure measures the arc length of a path and extracts pieces of it
// by distance. Distances run over all contours in order, so a path made of
// two contours of length 10 has a total length of 20 and distance 15 lies
// in the middle of the second contour.
//
// A PathMeasure is a snapshot: later changes to the path are not seen.
type PathMeasure struct {
	contours []measuredContour
	length   float64
}

type measuredContour struct {
	start  Point
	segs   []measuredSeg
	offset float64
	length float64
	closed bool
}

type measuredSeg struct {
	segment
	offset float64
	length float64
	// table holds cumulative lengths at parameters i/measureSteps.
	// Nil for lines and circular arcs, whose parameter is linear in length.
	table []float64
}

// NewPathMeasure measures p.
func NewPathMeasure(p *Path) *PathMeasure {
	m := &PathMeasure{}
	for _, c := range p.contours() {
		mc := measuredContour{start: c.start, offset: m.length, closed: c.closed}
		for _, s := range c.segs {
			ms := measureSegment(s)
			ms.offset = m.length + mc.length
			mc.length += ms.length
			mc.segs = append(mc.segs, ms)
		}
		m.length += mc.length
		m.contours = append(m.contours, mc)
	}
	return m
}

// Length returns the total length of all contours.
func (m *PathMeasure) Length() float64 {
	return m.length
}

// ContourCount returns the number of measured contours.
func (m *PathMeasure) ContourCount() int {
	return len(m.contours)
}

func measureSegment(s segment) measuredSeg {
	ms := measuredSeg{segment: s}
	switch s.kind {
	case segLine:
		ms.length = s.p0.Distance(s.p1)
	case segCubic:
		ms.table = buildTable(s.cubic.arcLengthRange)
		ms.length = ms.table[measureSteps]
	case segArc:
		rx, ry := s.arc.Oval.Width()/2, s.arc.Oval.Height()/2
		sweep := math.Abs(s.arc.SweepAngle) * math.Pi / 180
		if math.Abs(rx-ry) <= 1e-9*math.Max(rx, ry) {
			ms.length = rx * sweep
			break
		}
		ms.table = buildTable(func(u0, u1 float64) float64 {
			return ellipseArcLength(s.arc, u0, u1)
		})
		ms.length = ms.table[measureSteps]
	}
	return ms
}

func buildTable(lengthRange func(t0, t1 float64) float64) []float64 {
	table := make([]float64, measureSteps+1)
	for i := 1; i <= measureSteps; i++ {
		t0 := float64(i-1) / measureSteps
		t1 := float64(i) / measureSteps
		table[i] = table[i-1] + lengthRange(t0, t1)
	}
	return table
}

// ellipseArcLength integrates the speed of the arc between the normalized
// parameters u0 and u1 with Gauss-Legendre quadrature.
func ellipseArcLength(a ArcTo, u0, u1 float64) float64 {
	rx, ry := a.Oval.Width()/2, a.Oval.Height()/2
	sweep := a.SweepAngle * math.Pi / 180
	start := a.StartAngle * math.Pi / 180
	half := (u1 - u0) / 2
	mid := (u1 + u0) / 2
	var sum float64
	for _, g := range gauss5 {
		theta := start + (mid+half*g[0])*sweep
		sin, cos := math.Sincos(theta)
		sum += g[1] * math.Abs(sweep) * math.Hypot(rx*sin, ry*cos)
	}
	return sum * half
}

// param converts a distance along the segment into its curve parameter.
func (s *measuredSeg) param(d float64) float64 {
	if s.length <= 0 {
		return 0
	}
	if s.table == nil {
		return clamp01(d / s.length)
	}
	i := sort.SearchFloat64s(s.table, d)
	if i <= 0 {
		return 0
	}
	if i > measureSteps {
		return 1
	}
	lo, hi := s.table[i-1], s.table[i]
	frac := 0.0
	if hi > lo {
		frac = (d - lo) / (hi - lo)
	}
	t0 := float64(i-1) / measureSteps
	t := t0 + frac/measureSteps
	// Newton steps on the arc-length function, kept inside the interval.
	for range 3 {
		v := s.speed(t)
		if v <= 0 {
			break
		}
		t -= (lo + s.rangeLength(t0, t) - d) / v
		t = math.Max(t0, math.Min(t, t0+1.0/measureSteps))
	}
	return t
}

func (s *measuredSeg) rangeLength(t0, t1 float64) float64 {
	if s.kind == segArc {
		return ellipseArcLength(s.arc, t0, t1)
	}
	return s.cubic.arcLengthRange(t0, t1)
}

func (s *measuredSeg) speed(t float64) float64 {
	if s.kind == segArc {
		rx, ry := s.arc.Oval.Width()/2, s.arc.Oval.Height()/2
		sweep := s.arc.SweepAngle * math.Pi / 180
		sin, cos := math.Sincos(s.arc.StartAngle*math.Pi/180 + t*sweep)
		return math.Abs(sweep) * math.Hypot(rx*sin, ry*cos)
	}
	return s.cubic.Deriv(t).Length()
}

func (s *measuredSeg) pointAt(t float64) Point {
	switch s.kind {
	case segCubic:
		return s.cubic.Eval(t)
	case segArc:
		return s.arc.pointAt(s.arc.StartAngle + t*s.arc.SweepAngle)
	default:
		return s.p0.Lerp(s.p1, t)
	}
}

func (s *measuredSeg) tangentAt(t float64) Point {
	switch s.kind {
	case segCubic:
		return s.cubic.Deriv(t).Normalize()
	case segArc:
		theta := (s.arc.StartAngle + t*s.arc.SweepAngle) * math.Pi / 180
		sin, cos := math.Sincos(theta)
		d := Point{X: -s.arc.Oval.Width() / 2 * sin, Y: s.arc.Oval.Height() / 2 * cos}
		if s.arc.SweepAngle < 0 {
			d = d.Mul(-1)
		}
		return d.Normalize()
	default:
		return s.p1.Sub(s.p0).Normalize()
	}
}

// emit appends the piece of the segment between local distances a and b,
// assuming dst's current point is already at distance a.
func (s *measuredSeg) emit(dst *Path, a, b float64) {
	t0, t1 := s.param(a), s.param(b)
	switch s.kind {
	case segLine:
		pt := s.p0.Lerp(s.p1, t1)
		dst.LineTo(pt.X, pt.Y)
	case segCubic:
		c := s.cubic.Subsegment(t0, t1)
		dst.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	case segArc:
		start := s.arc.StartAngle + t0*s.arc.SweepAngle
		dst.ArcTo(s.arc.Oval, start, (t1-t0)*s.arc.SweepAngle)
	}
}

// Segment appends the part of the path between distances d0 and d1 to dst.
// Each contour touched by the range starts a new contour in dst. Distances
// are clamped to [0, Length]. It reports whether anything was appended.
func (m *PathMeasure) Segment(d0, d1 float64, dst *Path) bool {
	d0 = math.Max(d0, 0)
	d1 = math.Min(d1, m.length)
	if d0 >= d1 {
		return false
	}
	appended := false
	for ci := range m.contours {
		c := &m.contours[ci]
		if c.offset+c.length <= d0 {
			continue
		}
		if c.offset >= d1 {
			break
		}
		moved := false
		for si := range c.segs {
			s := &c.segs[si]
			end := s.offset + s.length
			if s.length == 0 || end <= d0 {
				continue
			}
			if s.offset >= d1 {
				break
			}
			a := math.Max(d0, s.offset) - s.offset
			b := math.Min(d1, end) - s.offset
			if !moved {
				pt := s.pointAt(s.param(a))
				dst.MoveTo(pt.X, pt.Y)
				moved = true
			}
			s.emit(dst, a, b)
			appended = true
		}
	}
	return appended
}

// PosTan returns the point and unit tangent at distance d along the path.
// The distance is clamped to [0, Length]. ok is false for an empty path.
func (m *PathMeasure) PosTan(d float64) (pos, tan Point, ok bool) {
	if len(m.contours) == 0 {
		return Point{}, Point{}, false
	}
	d = math.Max(0, math.Min(d, m.length))
	var last *measuredSeg
	for ci := range m.contours {
		c := &m.contours[ci]
		for si := range c.segs {
			s := &c.segs[si]
			if s.length == 0 {
				continue
			}
			last = s
			if d <= s.offset+s.length {
				t := s.param(d - s.offset)
				return s.pointAt(t), s.tangentAt(t), true
			}
		}
	}
	if last == nil {
		return m.contours[0].start, Point{}, true
	}
	return last.pointAt(1), last.tangentAt(1), true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
