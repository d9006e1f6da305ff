package motion

import "math"

// PathElement represents a single contour primitive of a Path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new contour at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// ArcTo draws an elliptical arc inscribed in Oval, starting at StartAngle
// and sweeping SweepAngle (both in degrees, positive sweep is clockwise in
// y-down coordinates). If the path has a current point that differs from
// the arc start, a straight line joins them first.
type ArcTo struct {
	Oval       Rect
	StartAngle float64
	SweepAngle float64
}

func (ArcTo) isPathElement() {}

// pointAt returns the point on the oval at the given angle in degrees.
func (a ArcTo) pointAt(deg float64) Point {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	c := a.Oval.Center()
	return Point{
		X: c.X + a.Oval.Width()/2*cos,
		Y: c.Y + a.Oval.Height()/2*sin,
	}
}

// Start returns the first point of the arc.
func (a ArcTo) Start() Point { return a.pointAt(a.StartAngle) }

// End returns the last point of the arc.
func (a ArcTo) End() Point { return a.pointAt(a.StartAngle + a.SweepAngle) }

// cubics approximates the arc with cubic Beziers of at most 90 degrees each.
func (a ArcTo) cubics() []CubicBez {
	if a.SweepAngle == 0 {
		return nil
	}
	n := int(math.Ceil(math.Abs(a.SweepAngle) / 90))
	step := a.SweepAngle / float64(n)
	rx, ry := a.Oval.Width()/2, a.Oval.Height()/2

	out := make([]CubicBez, 0, n)
	for i := 0; i < n; i++ {
		t1 := (a.StartAngle + float64(i)*step) * math.Pi / 180
		t2 := (a.StartAngle + float64(i+1)*step) * math.Pi / 180
		k := 4.0 / 3.0 * math.Tan((t2-t1)/4)
		s1, c1 := math.Sincos(t1)
		s2, c2 := math.Sincos(t2)
		p0 := a.pointAt(t1 * 180 / math.Pi)
		p3 := a.pointAt(t2 * 180 / math.Pi)
		out = append(out, CubicBez{
			P0: p0,
			P1: Point{X: p0.X - k*rx*s1, Y: p0.Y + k*ry*c1},
			P2: Point{X: p3.X + k*rx*s2, Y: p3.Y - k*ry*c2},
			P3: p3,
		})
	}
	return out
}

// Close closes the current contour.
type Close struct{}

func (Close) isPathElement() {}

// Path represents a vector path: an ordered list of contour primitives.
type Path struct {
	elements []PathElement
	start    Point // Starting point of current contour
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo starts a new contour at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	if len(p.elements) == 0 {
		p.MoveTo(x, y)
		return
	}
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.elements) == 0 {
		p.MoveTo(p.current.X, p.current.Y)
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
}

// ArcTo appends an elliptical arc (angles in degrees).
func (p *Path) ArcTo(oval Rect, startAngle, sweepAngle float64) {
	arc := ArcTo{Oval: oval, StartAngle: startAngle, SweepAngle: sweepAngle}
	if len(p.elements) == 0 {
		s := arc.Start()
		p.MoveTo(s.X, s.Y)
	}
	p.elements = append(p.elements, arc)
	p.current = arc.End()
}

// Close closes the current contour by drawing a line to its start point.
func (p *Path) Close() {
	if len(p.elements) == 0 {
		return
	}
	if _, ok := p.elements[len(p.elements)-1].(Close); ok {
		return
	}
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Reset removes all elements from the path.
func (p *Path) Reset() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.elements) == 0
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// AddPath appends every contour of q to p.
func (p *Path) AddPath(q *Path) {
	if q.IsEmpty() {
		return
	}
	p.elements = append(p.elements, q.elements...)
	p.start = q.start
	p.current = q.current
}

// AddPathTransformed appends q mapped through m.
func (p *Path) AddPathTransformed(q *Path, m Matrix) {
	p.AddPath(q.Transform(m))
}

// Transform returns a copy of the path with every control point mapped
// through m. Arcs stay arcs under axis-aligned matrices and are converted
// to cubics otherwise.
func (p *Path) Transform(m Matrix) *Path {
	result := NewPath()
	if p.IsEmpty() {
		return result
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			pt := m.TransformPoint(e.Point)
			result.MoveTo(pt.X, pt.Y)
		case LineTo:
			pt := m.TransformPoint(e.Point)
			result.LineTo(pt.X, pt.Y)
		case CubicTo:
			c1 := m.TransformPoint(e.Control1)
			c2 := m.TransformPoint(e.Control2)
			pt := m.TransformPoint(e.Point)
			result.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
		case ArcTo:
			result.transformArc(e, m)
		case Close:
			result.Close()
		}
	}
	return result
}

func (p *Path) transformArc(a ArcTo, m Matrix) {
	if m.IsAxisAligned() {
		oval := NewRect(m.TransformPoint(a.Oval.Min), m.TransformPoint(a.Oval.Max))
		start, sweep := a.StartAngle, a.SweepAngle
		// A mirrored axis mirrors the angle on that axis.
		if m.A < 0 {
			start = 180 - start
			sweep = -sweep
		}
		if m.E < 0 {
			start = -start
			sweep = -sweep
		}
		p.ArcTo(oval, start, sweep)
		return
	}
	s := m.TransformPoint(a.Start())
	if len(p.elements) == 0 {
		p.MoveTo(s.X, s.Y)
	} else if !p.current.Near(s, 1e-9) {
		p.LineTo(s.X, s.Y)
	}
	for _, c := range a.cubics() {
		c1 := m.TransformPoint(c.P1)
		c2 := m.TransformPoint(c.P2)
		pt := m.TransformPoint(c.P3)
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
	}
}

// Rectangle adds a closed rectangle contour.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	if p == nil {
		return result
	}
	result.elements = make([]PathElement, len(p.elements))
	copy(result.elements, p.elements)
	result.start = p.start
	result.current = p.current
	return result
}
