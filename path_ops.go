package motion

import "math"

// Path operations for contour decomposition, bounding box computation,
// flattening, reversal and containment testing.

// FillRule selects how the inside of a self-overlapping path is decided.
type FillRule uint8

const (
	// FillNonZero treats a point as inside when its winding number is non-zero.
	FillNonZero FillRule = iota
	// FillEvenOdd treats a point as inside when its winding number is odd.
	FillEvenOdd
)

// String returns the fill rule name.
func (r FillRule) String() string {
	if r == FillEvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

type segKind uint8

const (
	segLine segKind = iota
	segCubic
	segArc
)

// segment is one drawing primitive with its start point resolved.
type segment struct {
	kind  segKind
	p0    Point
	p1    Point
	cubic CubicBez
	arc   ArcTo
}

func (s segment) reversed() segment {
	switch s.kind {
	case segCubic:
		c := s.cubic
		return segment{kind: segCubic, p0: s.p1, p1: s.p0, cubic: CubicBez{P0: c.P3, P1: c.P2, P2: c.P1, P3: c.P0}}
	case segArc:
		a := s.arc
		a.StartAngle += a.SweepAngle
		a.SweepAngle = -a.SweepAngle
		return segment{kind: segArc, p0: s.p1, p1: s.p0, arc: a}
	default:
		return segment{kind: segLine, p0: s.p1, p1: s.p0}
	}
}

func (s segment) bounds() Rect {
	switch s.kind {
	case segCubic:
		return s.cubic.BoundingBox()
	case segArc:
		return arcBounds(s.arc)
	default:
		return Rect{Min: s.p0, Max: s.p0}.extend(s.p1)
	}
}

// contour is a run of connected segments started by a MoveTo.
type contour struct {
	start  Point
	segs   []segment
	closed bool
}

// contours decomposes the path into contours. Arcs get an explicit joining
// line and Close gets an explicit closing line when needed.
func (p *Path) contours() []contour {
	if p.IsEmpty() {
		return nil
	}
	var (
		out     []contour
		cur     contour
		current Point
		open    bool
	)
	flush := func() {
		if open {
			out = append(out, cur)
		}
		open = false
	}
	begin := func(pt Point) {
		flush()
		cur = contour{start: pt}
		current = pt
		open = true
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			begin(e.Point)
		case LineTo:
			if !open {
				begin(current)
			}
			cur.segs = append(cur.segs, segment{kind: segLine, p0: current, p1: e.Point})
			current = e.Point
		case CubicTo:
			if !open {
				begin(current)
			}
			c := CubicBez{P0: current, P1: e.Control1, P2: e.Control2, P3: e.Point}
			cur.segs = append(cur.segs, segment{kind: segCubic, p0: current, p1: e.Point, cubic: c})
			current = e.Point
		case ArcTo:
			s := e.Start()
			if !open {
				begin(s)
			} else if !current.Near(s, 1e-9) {
				cur.segs = append(cur.segs, segment{kind: segLine, p0: current, p1: s})
			}
			end := e.End()
			cur.segs = append(cur.segs, segment{kind: segArc, p0: s, p1: end, arc: e})
			current = end
		case Close:
			if !open {
				continue
			}
			if !current.Near(cur.start, 1e-9) {
				cur.segs = append(cur.segs, segment{kind: segLine, p0: current, p1: cur.start})
			}
			cur.closed = true
			current = cur.start
			flush()
		}
	}
	flush()
	return out
}

// arcBounds returns the bounding box of an elliptical arc.
func arcBounds(a ArcTo) Rect {
	b := Rect{Min: a.Start(), Max: a.Start()}.extend(a.End())
	lo, hi := a.StartAngle, a.StartAngle+a.SweepAngle
	if lo > hi {
		lo, hi = hi, lo
	}
	// Axis extremes sit at multiples of 90 degrees.
	for k := math.Ceil(lo / 90); k*90 <= hi; k++ {
		b = b.extend(a.pointAt(k * 90))
	}
	return b
}

// BoundingBox returns the tight axis-aligned bounding box of the path.
// Uses curve extrema for accuracy. An empty path has a zero Rect.
func (p *Path) BoundingBox() Rect {
	if p.IsEmpty() {
		return Rect{}
	}
	first := true
	var bbox Rect
	add := func(r Rect) {
		if first {
			bbox = r
			first = false
			return
		}
		bbox = bbox.extend(r.Min).extend(r.Max)
	}
	for _, c := range p.contours() {
		add(Rect{Min: c.start, Max: c.start})
		for _, s := range c.segs {
			add(s.bounds())
		}
	}
	return bbox
}

// Length returns the total arc length of the path: the sum of the lengths
// of its contours, closing lines included.
func (p *Path) Length() float64 {
	return NewPathMeasure(p).Length()
}

// Polygons flattens every contour into a polyline with the given tolerance.
// Each polygon starts with its contour start point; polygons are implicitly
// closed for filling purposes.
func (p *Path) Polygons(tolerance float64) [][]Point {
	if tolerance <= 0 {
		tolerance = 0.1
	}
	tolSq := tolerance * tolerance
	var out [][]Point
	for _, c := range p.contours() {
		pts := []Point{c.start}
		emit := func(pt Point) { pts = append(pts, pt) }
		for _, s := range c.segs {
			switch s.kind {
			case segLine:
				emit(s.p1)
			case segCubic:
				s.cubic.flatten(tolSq, 0, emit)
			case segArc:
				for _, cb := range s.arc.cubics() {
					cb.flatten(tolSq, 0, emit)
				}
			}
		}
		if len(pts) > 1 && c.closed && pts[len(pts)-1].Near(pts[0], 1e-9) {
			pts = pts[:len(pts)-1]
		}
		out = append(out, pts)
	}
	return out
}

// Reversed returns a new path with every contour traversed backwards.
func (p *Path) Reversed() *Path {
	result := NewPath()
	for _, c := range p.contours() {
		end := c.start
		if n := len(c.segs); n > 0 {
			end = c.segs[n-1].p1
		}
		result.MoveTo(end.X, end.Y)
		for i := len(c.segs) - 1; i >= 0; i-- {
			result.appendSegment(c.segs[i].reversed())
		}
		if c.closed {
			result.Close()
		}
	}
	return result
}

// appendSegment appends s assuming the current point is s.p0.
func (p *Path) appendSegment(s segment) {
	switch s.kind {
	case segLine:
		p.LineTo(s.p1.X, s.p1.Y)
	case segCubic:
		c := s.cubic
		p.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	case segArc:
		p.ArcTo(s.arc.Oval, s.arc.StartAngle, s.arc.SweepAngle)
	}
}

// Winding returns the winding number of a point relative to the path.
// Every contour is treated as closed. Uses ray casting with a horizontal
// ray to the right over the flattened contours.
func (p *Path) Winding(pt Point) int {
	return polygonsWinding(p.Polygons(0.1), pt)
}

// Contains tests if a point is inside the path using the given fill rule.
func (p *Path) Contains(pt Point, rule FillRule) bool {
	w := p.Winding(pt)
	if rule == FillEvenOdd {
		return w%2 != 0
	}
	return w != 0
}

func polygonsWinding(polys [][]Point, pt Point) int {
	var winding int
	for _, poly := range polys {
		n := len(poly)
		for i := 0; i < n; i++ {
			winding += lineWinding(poly[i], poly[(i+1)%n], pt)
		}
	}
	return winding
}

// lineWinding computes the winding contribution of a line segment.
func lineWinding(p0, p1, pt Point) int {
	if p0.Y <= pt.Y && p1.Y > pt.Y {
		// Upward crossing
		if isLeft(p0, p1, pt) > 0 {
			return 1
		}
	} else if p0.Y > pt.Y && p1.Y <= pt.Y {
		// Downward crossing
		if isLeft(p0, p1, pt) < 0 {
			return -1
		}
	}
	return 0
}

// isLeft returns positive if pt is left of line p0-p1, negative if right, 0 if on.
func isLeft(p0, p1, pt Point) float64 {
	return (p1.X-p0.X)*(pt.Y-p0.Y) - (pt.X-p0.X)*(p1.Y-p0.Y)
}
