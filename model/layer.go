package model

import "github.com/gogpu/motion"

// LayerType is the kind of a layer.
type LayerType uint8

const (
	LayerPreComp LayerType = iota
	LayerSolid
	LayerImage
	LayerNull
	LayerShape
	LayerText
	LayerUnknown
)

var layerTypeNames = [...]string{"precomp", "solid", "image", "null", "shape", "text", "unknown"}

func (t LayerType) String() string {
	if int(t) < len(layerTypeNames) {
		return layerTypeNames[t]
	}
	return "unknown"
}

// MatteType says how a layer uses the layer before it as a track matte.
type MatteType uint8

const (
	MatteNone MatteType = iota
	// MatteAdd keeps the layer where the matte is opaque.
	MatteAdd
	// MatteInvert keeps the layer where the matte is transparent.
	MatteInvert
)

func (m MatteType) String() string {
	switch m {
	case MatteAdd:
		return "add"
	case MatteInvert:
		return "invert"
	}
	return "none"
}

// NoParent is the ParentID of a root layer.
const NoParent int64 = -1

// Layer is one entry of a composition or precomposition layer list.
type Layer struct {
	Name     string
	ID       int64
	ParentID int64
	Type     LayerType

	Transform Transform
	Masks     []Mask
	Matte     MatteType
	// IsMatte marks a layer that only serves as the matte of the next layer.
	IsMatte bool
	Hidden  bool

	// TimeStretch divides the layer's local progress (1 when unset).
	TimeStretch float64
	// StartFrame is the st offset of the layer's local time.
	StartFrame float64
	// InFrame and OutFrame delimit where the layer is visible.
	InFrame, OutFrame float64
	// InOut are the derived visibility keyframes: 0 before InFrame, 1 until
	// OutFrame, 0 afterwards.
	InOut []Keyframe[float64]

	// RefID names the precomposition or image asset of the layer.
	RefID string
	// Width and Height are the precomposition clip size.
	Width, Height float64
	// TimeRemap replaces the progress of a precomposition's children.
	TimeRemap *Animatable[float64]

	SolidColor               motion.RGBA
	SolidWidth, SolidHeight float64

	Shapes []Content
	Text   *TextLayer
}

// HasParent reports whether the layer is parented.
func (l *Layer) HasParent() bool {
	return l.ParentID != NoParent
}

// StartProgress returns StartFrame in composition progress units.
func (l *Layer) StartProgress(c *Composition) float64 {
	d := c.DurationFrames()
	if d <= 0 {
		return 0
	}
	return l.StartFrame / d
}

// Stretch returns TimeStretch, defaulting to 1.
func (l *Layer) Stretch() float64 {
	if l.TimeStretch == 0 {
		return 1
	}
	return l.TimeStretch
}

// VisibilityKeyframes builds InOut for a layer visible in [in, out) of a
// composition whose frames span [start, end].
func VisibilityKeyframes(in, out, start, end float64) []Keyframe[float64] {
	var kfs []Keyframe[float64]
	if in > start {
		kfs = append(kfs, Keyframe[float64]{StartValue: 0, EndValue: 0, HasEnd: true, StartFrame: start, Easing: Hold})
	}
	o := out
	if o <= 0 {
		o = end
	}
	kfs = append(kfs, Keyframe[float64]{StartValue: 1, EndValue: 1, HasEnd: true, StartFrame: in, Easing: Hold})
	kfs = append(kfs, Keyframe[float64]{StartValue: 0, EndValue: 0, HasEnd: true, StartFrame: o, Easing: Hold})
	kfs = SetEndFrames(kfs)
	return kfs
}

// Transform is the animated affine transform of a layer, a group or a
// repeater.
type Transform struct {
	Anchor Animatable[motion.Point]
	// Position is used unless SplitPosition is set, in which case the X and
	// Y components animate independently.
	Position      Animatable[motion.Point]
	SplitPosition bool
	PositionX     Animatable[float64]
	PositionY     Animatable[float64]
	// Scale is in percent.
	Scale Animatable[motion.Point]
	// Rotation is in degrees, clockwise on screen.
	Rotation Animatable[float64]
	// Opacity is in percent.
	Opacity  Animatable[float64]
	Skew     *Animatable[float64]
	SkewAxis *Animatable[float64]
	// StartOpacity and EndOpacity are the first and last copy opacity of a
	// repeater, in percent.
	StartOpacity *Animatable[float64]
	EndOpacity   *Animatable[float64]
}

// DefaultTransform returns the identity transform: no anchor offset, 100%
// scale and opacity.
func DefaultTransform() Transform {
	return Transform{
		Anchor:   Static(motion.Point{}),
		Position: Static(motion.Point{}),
		Scale:    Static(motion.Pt(100, 100)),
		Rotation: Static(0.0),
		Opacity:  Static(100.0),
	}
}

// MaskMode combines a mask with the masks before it.
type MaskMode uint8

const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
	MaskNone
)

func (m MaskMode) String() string {
	switch m {
	case MaskAdd:
		return "add"
	case MaskSubtract:
		return "subtract"
	case MaskIntersect:
		return "intersect"
	}
	return "none"
}

// Mask clips the content of a single layer.
type Mask struct {
	Name     string
	Mode     MaskMode
	Path     Animatable[ShapeData]
	Opacity  Animatable[float64]
	Inverted bool
}

// TextLayer is the text payload of a text layer. It is kept so documents
// round-trip through the model, but it is not rendered.
type TextLayer struct {
	Document   Animatable[DocumentData]
	Properties TextProperties
}

// TextProperties are the animatables of the first text animator.
type TextProperties struct {
	FillColor   *Animatable[motion.RGBA]
	StrokeColor *Animatable[motion.RGBA]
	StrokeWidth *Animatable[float64]
	Tracking    *Animatable[float64]
	Opacity     *Animatable[float64]
}
