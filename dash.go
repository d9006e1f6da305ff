package motion

import "math"

// Dash is a stroke dash pattern of alternating dash and gap lengths.
// An odd-length array repeats once to form an even cycle, so [5] reads as
// [5, 5].
type Dash struct {
	Array  []float64
	Offset float64
}

// NewDash builds a pattern from dash/gap lengths. Negative lengths are made
// positive. It returns nil when no length is positive.
func NewDash(lengths ...float64) *Dash {
	out := make([]float64, len(lengths))
	positive := false
	for i, l := range lengths {
		out[i] = math.Abs(l)
		positive = positive || out[i] > 0
	}
	if !positive {
		return nil
	}
	return &Dash{Array: out}
}

// IsDashed reports whether the pattern breaks the stroke at all.
func (d *Dash) IsDashed() bool {
	return d.PatternLength() > 0
}

// PatternLength returns the length of one full cycle.
func (d *Dash) PatternLength() float64 {
	var total float64
	for _, l := range d.cycle() {
		total += l
	}
	return total
}

// Scale returns the pattern with every length and the offset multiplied by
// factor. Dash lengths live in user space and follow the stroke transform.
func (d *Dash) Scale(factor float64) *Dash {
	if d == nil || factor <= 0 {
		return d
	}
	out := &Dash{Array: make([]float64, len(d.Array)), Offset: d.Offset * factor}
	for i, l := range d.Array {
		out.Array[i] = l * factor
	}
	return out
}

func (d *Dash) cycle() []float64 {
	if d == nil {
		return nil
	}
	if len(d.Array)%2 == 0 {
		return d.Array
	}
	return append(append(make([]float64, 0, 2*len(d.Array)), d.Array...), d.Array...)
}

// Apply returns the dashed pieces of p. Each contour restarts the pattern at
// Offset. A nil or solid pattern returns a copy of p.
func (d *Dash) Apply(p *Path) *Path {
	total := d.PatternLength()
	if total <= 0 {
		return p.Clone()
	}
	pattern := d.cycle()
	out := NewPath()
	m := NewPathMeasure(p)
	for ci := range m.contours {
		c := &m.contours[ci]
		if c.length <= 0 {
			continue
		}
		phase := math.Mod(d.Offset, total)
		if phase < 0 {
			phase += total
		}
		// Walk back so that the first interval covers the contour start.
		i := 0
		for phase >= pattern[i] {
			phase -= pattern[i]
			i = (i + 1) % len(pattern)
		}
		pos := -phase
		for pos < c.length {
			next := pos + pattern[i]
			if i%2 == 0 && next > 0 {
				m.Segment(c.offset+math.Max(pos, 0), c.offset+math.Min(next, c.length), out)
			}
			pos = next
			i = (i + 1) % len(pattern)
		}
	}
	return out
}
