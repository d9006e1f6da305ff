package model

import "github.com/gogpu/motion"

// GradientType is linear or radial.
type GradientType uint8

const (
	GradientLinear GradientType = iota
	GradientRadial
)

func (g GradientType) String() string {
	if g == GradientRadial {
		return "radial"
	}
	return "linear"
}

// GradientColor is a set of color stops. Positions are in [0, 1] and
// ascending; Colors has the same length.
type GradientColor struct {
	Positions []float64
	Colors    []motion.RGBA
}

// Size returns the number of stops.
func (g GradientColor) Size() int {
	return len(g.Colors)
}

// Lerp interpolates stop positions and colors towards other. Colors are
// mixed in linear light. Mismatched stop counts return g unchanged and ok
// false.
func (g GradientColor) Lerp(other GradientColor, t float64) (out GradientColor, ok bool) {
	if g.Size() != other.Size() {
		return g, false
	}
	out = GradientColor{
		Positions: make([]float64, g.Size()),
		Colors:    make([]motion.RGBA, g.Size()),
	}
	for i := range g.Colors {
		out.Positions[i] = g.Positions[i] + (other.Positions[i]-g.Positions[i])*t
		out.Colors[i] = g.Colors[i].LerpLinear(other.Colors[i], t)
	}
	return out, true
}

// ColorAt samples the gradient at offset in [0, 1] in encoded space,
// clamping outside the first and last stop.
func (g GradientColor) ColorAt(offset float64) motion.RGBA {
	n := g.Size()
	if n == 0 {
		return motion.Transparent
	}
	if offset <= g.Positions[0] {
		return g.Colors[0]
	}
	for i := 1; i < n; i++ {
		if offset <= g.Positions[i] {
			span := g.Positions[i] - g.Positions[i-1]
			if span <= 0 {
				return g.Colors[i]
			}
			return g.Colors[i-1].Lerp(g.Colors[i], (offset-g.Positions[i-1])/span)
		}
	}
	return g.Colors[n-1]
}
