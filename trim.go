package motion

import "math"

// trimEpsilon is the fraction of the path length below which a trimmed
// range counts as empty, and within which a range counts as the full path.
const trimEpsilon = 1e-4

// Trim returns the part of p between the fractions start and end of its
// total length, shifted by offset. All three are fractions of the length:
// 0.5 is the middle of the path.
//
// The range is directed from start to end and wraps around the end of the
// path, so start=0.9, end=0.2 yields the last tenth followed by the first
// fifth. Offsets shift the whole range and also wrap. A range covering the
// whole path returns a copy of p; an empty path or an empty range returns
// an empty path.
func Trim(p *Path, start, end, offset float64) *Path {
	m := NewPathMeasure(p)
	return m.Trim(start, end, offset)
}

// Trim is Trim applied to the measured path.
func (m *PathMeasure) Trim(start, end, offset float64) *Path {
	out := NewPath()
	length := m.length
	if length <= 0 {
		return out
	}
	if end < start {
		end++
	}
	span := end - start
	if span <= trimEpsilon {
		return out
	}
	if math.Abs(span-1) <= trimEpsilon || span > 1 {
		m.appendAll(out)
		return out
	}

	s := math.Mod(start+offset, 1)
	if s < 0 {
		s++
	}
	d0 := s * length
	d1 := d0 + span*length
	if d1 <= length {
		m.Segment(d0, d1, out)
		return out
	}
	m.Segment(d0, length, out)
	m.Segment(0, d1-length, out)
	return out
}

// appendAll copies every measured contour into dst.
func (m *PathMeasure) appendAll(dst *Path) {
	for _, c := range m.contours {
		dst.MoveTo(c.start.X, c.start.Y)
		for _, s := range c.segs {
			if s.kind == segArc && !dst.CurrentPoint().Near(s.p0, 1e-9) {
				dst.LineTo(s.p0.X, s.p0.Y)
			}
			dst.appendSegment(s.segment)
		}
		if c.closed {
			dst.Close()
		}
	}
}
