package recording

import (
	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/scene"
)

// Brush is the paint of a fill or stroke command. It is a sealed interface;
// only types in this package implement it.
//
// Unlike scene.Paint, a Brush has the paint alpha folded into its colors so
// that backends never need to combine them.
type Brush interface {
	// brushMarker is an unexported method that seals this interface.
	brushMarker()
}

// SolidBrush is a solid color brush.
type SolidBrush struct {
	Color motion.RGBA
}

func (SolidBrush) brushMarker() {}

// NewSolidBrush creates a solid color brush.
func NewSolidBrush(color motion.RGBA) SolidBrush {
	return SolidBrush{Color: color}
}

// GradientStop is a color at a position along a gradient.
type GradientStop struct {
	Offset float64
	Color  motion.RGBA
}

// LinearGradientBrush blends its stops along the line from Start to End.
// Start and End are mapped to device space by Transform.
type LinearGradientBrush struct {
	Start     motion.Point
	End       motion.Point
	Stops     []GradientStop
	Transform motion.Matrix
}

func (LinearGradientBrush) brushMarker() {}

// RadialGradientBrush blends its stops outwards from Focus to the circle of
// Radius around Center. The geometry is mapped to device space by
// Transform.
type RadialGradientBrush struct {
	Center    motion.Point
	Focus     motion.Point
	Radius    float64
	Stops     []GradientStop
	Transform motion.Matrix
}

func (RadialGradientBrush) brushMarker() {}

// BrushFromPaint converts a scene paint into a brush with the paint alpha
// applied to every color.
func BrushFromPaint(p scene.Paint) Brush {
	g := p.Gradient
	if g == nil {
		return NewSolidBrush(p.Color.WithAlpha(p.Alpha))
	}
	stops := gradientStops(g.Stops, p.Alpha)
	if g.Type == model.GradientRadial {
		return &RadialGradientBrush{
			Center:    g.Start,
			Focus:     g.Focal,
			Radius:    g.Radius,
			Stops:     stops,
			Transform: p.GradientTransform,
		}
	}
	return &LinearGradientBrush{
		Start:     g.Start,
		End:       g.End,
		Stops:     stops,
		Transform: p.GradientTransform,
	}
}

func gradientStops(c model.GradientColor, alpha float64) []GradientStop {
	stops := make([]GradientStop, c.Size())
	for i := range stops {
		stops[i] = GradientStop{
			Offset: clamp01(c.Positions[i]),
			Color:  c.Colors[i].WithAlpha(alpha),
		}
	}
	return stops
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
