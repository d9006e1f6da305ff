package scene

import (
	"image"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// CompositeMode selects how an offscreen layer is merged back on Restore.
type CompositeMode uint8

const (
	// SourceOver draws the layer over the destination.
	SourceOver CompositeMode = iota
	// DestinationIn keeps the destination where the layer is opaque.
	DestinationIn
	// DestinationOut keeps the destination where the layer is transparent.
	DestinationOut
)

// String returns the mode name.
func (m CompositeMode) String() string {
	switch m {
	case SourceOver:
		return "source-over"
	case DestinationIn:
		return "destination-in"
	case DestinationOut:
		return "destination-out"
	}
	return "unknown"
}

// Surface receives the draw calls of a scene. Paths and rectangles are in
// device space.
//
// SaveLayer starts an offscreen layer limited to bounds; the matching
// Restore composites it with the given alpha and mode. Save and Restore
// otherwise save and restore the clip.
type Surface interface {
	Save()
	Restore()
	SaveLayer(bounds motion.Rect, alpha float64, mode CompositeMode)
	ClipRect(r motion.Rect)
	FillPath(p *motion.Path, paint Paint)
	StrokePath(p *motion.Path, paint Paint, stroke Stroke)
	DrawImage(img image.Image, m motion.Matrix, alpha float64)
}

// Gradient is a gradient shader. Points are in the local space of the
// content that paints it; Paint.GradientTransform maps them to device
// space.
type Gradient struct {
	Type       model.GradientType
	Start, End motion.Point
	// Focal and Radius are set for radial gradients. Radius is the distance
	// from Start to End.
	Focal  motion.Point
	Radius float64
	Stops  model.GradientColor
}

// Paint describes how a path is filled or stroked: a solid color, or a
// gradient when Gradient is non-nil.
type Paint struct {
	Color             motion.RGBA
	Gradient          *Gradient
	GradientTransform motion.Matrix
	// Alpha multiplies the alpha of the color or of every gradient stop.
	Alpha float64
	Rule  motion.FillRule
}

// Stroke describes the outline of a stroked path. Width and Dash are in
// device units.
type Stroke struct {
	Width      float64
	Cap        model.LineCap
	Join       model.LineJoin
	MiterLimit float64
	Dash       *motion.Dash
}

// fillRect fills r with opaque black.
func fillRect(dst Surface, r motion.Rect) {
	p := motion.NewPath()
	p.Rectangle(r.Min.X, r.Min.Y, r.Width(), r.Height())
	dst.FillPath(p, Paint{Color: motion.Black, Alpha: 1})
}
