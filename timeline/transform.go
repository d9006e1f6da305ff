package timeline

import (
	"math"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// Transform evaluates a model.Transform. Each component has its own
// timeline; optional components are nil when absent from the document.
type Transform struct {
	Anchor    *Timeline[motion.Point]
	Position  *Timeline[motion.Point]
	PositionX *Timeline[float64]
	PositionY *Timeline[float64]
	Scale     *Timeline[motion.Point]
	Rotation  *Timeline[float64]
	Opacity   *Timeline[float64]
	Skew      *Timeline[float64]
	SkewAxis  *Timeline[float64]

	StartOpacity *Timeline[float64]
	EndOpacity   *Timeline[float64]
}

// NewTransform builds the component timelines of t.
func NewTransform(comp *model.Composition, t model.Transform) *Transform {
	tr := &Transform{
		Anchor:       Vector(comp, t.Anchor),
		Scale:        Vector(comp, t.Scale),
		Rotation:     Float(comp, t.Rotation),
		Opacity:      Float(comp, t.Opacity),
		Skew:         OptionalFloat(comp, t.Skew),
		SkewAxis:     OptionalFloat(comp, t.SkewAxis),
		StartOpacity: OptionalFloat(comp, t.StartOpacity),
		EndOpacity:   OptionalFloat(comp, t.EndOpacity),
	}
	if t.SplitPosition {
		tr.PositionX = Float(comp, t.PositionX)
		tr.PositionY = Float(comp, t.PositionY)
	} else {
		tr.Position = Point(comp, t.Position)
	}
	return tr
}

// SetProgress moves every component and reports whether any changed.
func (tr *Transform) SetProgress(p float64) bool {
	changed := false
	set := func(tl interface{ SetProgress(float64) bool }) {
		if tl != nil && tl.SetProgress(p) {
			changed = true
		}
	}
	if tr.Anchor != nil {
		set(tr.Anchor)
	}
	if tr.Position != nil {
		set(tr.Position)
	}
	if tr.PositionX != nil {
		set(tr.PositionX)
		set(tr.PositionY)
	}
	if tr.Scale != nil {
		set(tr.Scale)
	}
	if tr.Rotation != nil {
		set(tr.Rotation)
	}
	if tr.Opacity != nil {
		set(tr.Opacity)
	}
	if tr.Skew != nil {
		set(tr.Skew)
	}
	if tr.SkewAxis != nil {
		set(tr.SkewAxis)
	}
	if tr.StartOpacity != nil {
		set(tr.StartOpacity)
	}
	if tr.EndOpacity != nil {
		set(tr.EndOpacity)
	}
	return changed
}

// PositionValue returns the current position.
func (tr *Transform) PositionValue() motion.Point {
	if tr.PositionX != nil {
		return motion.Pt(tr.PositionX.Value(), tr.PositionY.Value())
	}
	if tr.Position != nil {
		return tr.Position.Value()
	}
	return motion.Point{}
}

// Matrix returns the current transform. A local point is moved by minus
// the anchor, scaled, skewed, rotated and finally moved by the position.
func (tr *Transform) Matrix() motion.Matrix {
	m := motion.Identity()
	if pos := tr.PositionValue(); !pos.IsZero() {
		m = m.Multiply(motion.Translate(pos.X, pos.Y))
	}
	if tr.Rotation != nil {
		if r := tr.Rotation.Value(); r != 0 {
			m = m.Multiply(motion.RotateDegrees(r))
		}
	}
	if tr.Skew != nil {
		if sk := tr.Skew.Value(); sk != 0 {
			axis := 0.0
			if tr.SkewAxis != nil {
				axis = tr.SkewAxis.Value()
			}
			m = m.Multiply(skewMatrix(sk, axis))
		}
	}
	if tr.Scale != nil {
		if s := tr.Scale.Value(); s.X != 100 || s.Y != 100 {
			m = m.Multiply(motion.Scale(s.X/100, s.Y/100))
		}
	}
	if tr.Anchor != nil {
		if a := tr.Anchor.Value(); !a.IsZero() {
			m = m.Multiply(motion.Translate(-a.X, -a.Y))
		}
	}
	return m
}

// skewMatrix shears by skew degrees along the direction axis degrees from
// the vertical.
func skewMatrix(skew, axis float64) motion.Matrix {
	sin, cos := math.Sincos((90 - axis) * math.Pi / 180)
	toAxis := motion.Matrix{A: cos, B: sin, D: -sin, E: cos}
	shear := motion.Matrix{A: 1, D: math.Tan(skew * math.Pi / 180), E: 1}
	fromAxis := motion.Matrix{A: cos, B: -sin, D: sin, E: cos}
	return fromAxis.Multiply(shear).Multiply(toAxis)
}

// RepeaterMatrix returns the transform of repeater copy number amount:
// position times amount, scale to the power amount and rotation times
// amount around the anchor.
func (tr *Transform) RepeaterMatrix(amount float64) motion.Matrix {
	pos := tr.PositionValue()
	m := motion.Translate(pos.X*amount, pos.Y*amount)
	if tr.Scale != nil {
		s := tr.Scale.Value()
		m = m.Multiply(motion.Scale(math.Pow(s.X/100, amount), math.Pow(s.Y/100, amount)))
	}
	if tr.Rotation != nil {
		var anchor motion.Point
		if tr.Anchor != nil {
			anchor = tr.Anchor.Value()
		}
		m = m.Multiply(motion.RotateAbout(tr.Rotation.Value()*amount, anchor))
	}
	return m
}

// OpacityValue returns the opacity as a fraction in [0, 1].
func (tr *Transform) OpacityValue() float64 {
	if tr.Opacity == nil {
		return 1
	}
	return clamp(tr.Opacity.Value()/100, 0, 1)
}

// RepeaterOpacity returns the start and end copy opacities as fractions,
// defaulting to 1.
func (tr *Transform) RepeaterOpacity() (start, end float64) {
	start, end = 1, 1
	if tr.StartOpacity != nil {
		start = clamp(tr.StartOpacity.Value()/100, 0, 1)
	}
	if tr.EndOpacity != nil {
		end = clamp(tr.EndOpacity.Value()/100, 0, 1)
	}
	return start, end
}
