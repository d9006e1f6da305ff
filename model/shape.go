package model

import "github.com/gogpu/motion"

// CubicCurve is one segment of a ShapeData: two control points and the
// vertex the segment ends at.
type CubicCurve struct {
	Control1, Control2, Vertex motion.Point
}

// ShapeData is a single contour: a start point, cubic segments and a closed
// flag. A closed shape includes the segment back to Start among its curves.
type ShapeData struct {
	Start  motion.Point
	Curves []CubicCurve
	Closed bool
}

// NewShapeData builds a shape from vertices with in and out tangents given
// relative to their vertex, the way the document stores them.
func NewShapeData(vertices, in, out []motion.Point, closed bool) ShapeData {
	n := len(vertices)
	if n == 0 {
		return ShapeData{Closed: closed}
	}
	s := ShapeData{Start: vertices[0], Closed: closed}
	tan := func(ts []motion.Point, i int) motion.Point {
		if i < len(ts) {
			return ts[i]
		}
		return motion.Point{}
	}
	for i := 1; i < n; i++ {
		s.Curves = append(s.Curves, CubicCurve{
			Control1: vertices[i-1].Add(tan(out, i-1)),
			Control2: vertices[i].Add(tan(in, i)),
			Vertex:   vertices[i],
		})
	}
	if closed {
		s.Curves = append(s.Curves, CubicCurve{
			Control1: vertices[n-1].Add(tan(out, n-1)),
			Control2: vertices[0].Add(tan(in, 0)),
			Vertex:   vertices[0],
		})
	}
	return s
}

// Lerp interpolates vertex-wise towards other. When the curve counts
// differ, only the common prefix is interpolated, the rest is copied from
// s, and ok is false.
func (s ShapeData) Lerp(other ShapeData, t float64) (out ShapeData, ok bool) {
	ok = len(s.Curves) == len(other.Curves)
	out = ShapeData{
		Start:  s.Start.Lerp(other.Start, t),
		Curves: make([]CubicCurve, len(s.Curves)),
		Closed: s.Closed || other.Closed,
	}
	for i, c := range s.Curves {
		if i >= len(other.Curves) {
			out.Curves[i] = c
			continue
		}
		o := other.Curves[i]
		out.Curves[i] = CubicCurve{
			Control1: c.Control1.Lerp(o.Control1, t),
			Control2: c.Control2.Lerp(o.Control2, t),
			Vertex:   c.Vertex.Lerp(o.Vertex, t),
		}
	}
	return out, ok
}

// AppendTo adds the shape as a new contour of p.
func (s ShapeData) AppendTo(p *motion.Path) {
	p.MoveTo(s.Start.X, s.Start.Y)
	prev := s.Start
	for _, c := range s.Curves {
		// Straight segments stay lines so that lengths and bounds are exact.
		if c.Control1 == prev && c.Control2 == c.Vertex {
			p.LineTo(c.Vertex.X, c.Vertex.Y)
		} else {
			p.CubicTo(c.Control1.X, c.Control1.Y, c.Control2.X, c.Control2.Y, c.Vertex.X, c.Vertex.Y)
		}
		prev = c.Vertex
	}
	if s.Closed {
		p.Close()
	}
}

// Path returns the shape as a new path.
func (s ShapeData) Path() *motion.Path {
	p := motion.NewPath()
	s.AppendTo(p)
	return p
}

// Reversed returns the shape traversed in the opposite direction.
func (s ShapeData) Reversed() ShapeData {
	n := len(s.Curves)
	if n == 0 {
		return s
	}
	out := ShapeData{Closed: s.Closed, Curves: make([]CubicCurve, n)}
	out.Start = s.Curves[n-1].Vertex
	for i := 0; i < n; i++ {
		c := s.Curves[n-1-i]
		end := s.Start
		if n-2-i >= 0 {
			end = s.Curves[n-2-i].Vertex
		}
		out.Curves[i] = CubicCurve{Control1: c.Control2, Control2: c.Control1, Vertex: end}
	}
	return out
}
