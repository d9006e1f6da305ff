package model

import "github.com/gogpu/motion"

// Content is one item of a shape layer or group. The set of kinds is fixed
// by the document format; a type switch over the concrete types in this
// file is exhaustive.
type Content interface {
	// ContentName returns the item's name, used for key paths.
	ContentName() string
	// IsHidden reports whether the item was hidden in the source.
	IsHidden() bool

	content()
}

// Base carries the fields shared by all content items.
type Base struct {
	Name   string
	Hidden bool
}

func (b Base) ContentName() string { return b.Name }
func (b Base) IsHidden() bool      { return b.Hidden }
func (Base) content()              {}

// ShapeGroup is a nested list of items with its own transform.
type ShapeGroup struct {
	Base
	Items     []Content
	Transform *Transform
}

// ShapePath is a free-form animated contour.
type ShapePath struct {
	Base
	Shape Animatable[ShapeData]
}

// Rectangle is a possibly rounded rectangle centered on Position.
type Rectangle struct {
	Base
	Position  Animatable[motion.Point]
	Size      Animatable[motion.Point]
	Roundness Animatable[float64]
	Reversed  bool
}

// Ellipse is an ellipse centered on Position.
type Ellipse struct {
	Base
	Position Animatable[motion.Point]
	Size     Animatable[motion.Point]
	Reversed bool
}

// PolyStarKind distinguishes stars from regular polygons.
type PolyStarKind uint8

const (
	Star PolyStarKind = iota + 1
	Polygon
)

// PolyStar is a star or a regular polygon.
type PolyStar struct {
	Base
	Kind           PolyStarKind
	Points         Animatable[float64]
	Position       Animatable[motion.Point]
	Rotation       Animatable[float64]
	OuterRadius    Animatable[float64]
	OuterRoundness Animatable[float64]
	// InnerRadius and InnerRoundness are set for stars only.
	InnerRadius    *Animatable[float64]
	InnerRoundness *Animatable[float64]
	Reversed       bool
}

// Fill paints the paths before it with a solid color.
type Fill struct {
	Base
	Color   Animatable[motion.RGBA]
	Opacity Animatable[float64]
	Rule    motion.FillRule
}

// LineCap is the shape of stroke ends.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is the shape of stroke corners.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// DashKind is the role of a stroke dash entry.
type DashKind uint8

const (
	DashLength DashKind = iota
	DashGap
	DashOffset
)

// DashEntry is one animated entry of a stroke dash pattern.
type DashEntry struct {
	Kind  DashKind
	Value Animatable[float64]
}

// StrokeStyle holds what solid and gradient strokes share.
type StrokeStyle struct {
	Width      Animatable[float64]
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dashes     []DashEntry
}

// Stroke outlines the paths before it with a solid color.
type Stroke struct {
	Base
	StrokeStyle
	Color   Animatable[motion.RGBA]
	Opacity Animatable[float64]
}

// GradientPaint holds what gradient fills and strokes share.
type GradientPaint struct {
	Type    GradientType
	Colors  Animatable[GradientColor]
	Start   Animatable[motion.Point]
	End     Animatable[motion.Point]
	Opacity Animatable[float64]
	// HighlightLength (percent of the radius) and HighlightAngle (degrees)
	// move the focal point of a radial gradient.
	HighlightLength *Animatable[float64]
	HighlightAngle  *Animatable[float64]
}

// GradientFill paints the paths before it with a gradient.
type GradientFill struct {
	Base
	GradientPaint
	Rule motion.FillRule
}

// GradientStroke outlines the paths before it with a gradient.
type GradientStroke struct {
	Base
	GradientPaint
	StrokeStyle
}

// TrimMode says whether a trim treats all paths as one or each separately.
type TrimMode uint8

const (
	TrimSimultaneously TrimMode = iota + 1
	TrimIndividually
)

// TrimPath reveals part of the length of the paths before it. Start and End
// are percentages, Offset is in degrees (360 = one full length).
type TrimPath struct {
	Base
	Start  Animatable[float64]
	End    Animatable[float64]
	Offset Animatable[float64]
	Mode   TrimMode
}

// Repeater draws Copies transformed copies of the items before it.
type Repeater struct {
	Base
	Copies    Animatable[float64]
	Offset    Animatable[float64]
	Transform Transform
}

// MergeMode selects how merged paths combine.
type MergeMode uint8

const (
	MergeMerge MergeMode = iota + 1
	MergeAdd
	MergeSubtract
	MergeIntersect
	MergeExcludeIntersections
)

func (m MergeMode) String() string {
	switch m {
	case MergeMerge:
		return "merge"
	case MergeAdd:
		return "add"
	case MergeSubtract:
		return "subtract"
	case MergeIntersect:
		return "intersect"
	case MergeExcludeIntersections:
		return "exclude"
	}
	return "unknown"
}

// MergePaths combines the paths before it into one.
type MergePaths struct {
	Base
	Mode MergeMode
}
