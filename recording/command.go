package recording

import (
	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/scene"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave      CommandType = iota // Save clip state
	CmdRestore                      // Restore clip state or composite a layer
	CmdSaveLayer                    // Start an offscreen layer
	CmdClipRect                     // Intersect the clip with a rectangle

	// Drawing commands
	CmdFillPath   // Fill a path
	CmdStrokePath // Stroke a path
	CmdDrawImage  // Draw an image
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSave:       "Save",
	CmdRestore:    "Restore",
	CmdSaveLayer:  "SaveLayer",
	CmdClipRect:   "ClipRect",
	CmdFillPath:   "FillPath",
	CmdStrokePath: "StrokePath",
	CmdDrawImage:  "DrawImage",
}

// String returns the name of the command type.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return "Unknown"
}

// Command is a single recorded operation.
type Command interface {
	Type() CommandType
}

// InvalidRef marks a reference that points at nothing.
const InvalidRef = ^uint32(0)

// PathRef is a reference to a pooled path.
type PathRef uint32

// IsValid reports whether the reference is not InvalidRef.
func (r PathRef) IsValid() bool { return uint32(r) != InvalidRef }

// BrushRef is a reference to a pooled brush.
type BrushRef uint32

// IsValid reports whether the reference is not InvalidRef.
func (r BrushRef) IsValid() bool { return uint32(r) != InvalidRef }

// ImageRef is a reference to a pooled image.
type ImageRef uint32

// IsValid reports whether the reference is not InvalidRef.
func (r ImageRef) IsValid() bool { return uint32(r) != InvalidRef }

// SaveCommand saves the clip state.
type SaveCommand struct{}

// Type implements Command.
func (SaveCommand) Type() CommandType { return CmdSave }

// RestoreCommand restores the state pushed by the matching Save or
// SaveLayer.
type RestoreCommand struct{}

// Type implements Command.
func (RestoreCommand) Type() CommandType { return CmdRestore }

// SaveLayerCommand starts an offscreen layer limited to Bounds. The
// matching Restore composites it with Alpha and Mode.
type SaveLayerCommand struct {
	Bounds motion.Rect
	Alpha  float64
	Mode   scene.CompositeMode
}

// Type implements Command.
func (SaveLayerCommand) Type() CommandType { return CmdSaveLayer }

// ClipRectCommand intersects the clip with a device-space rectangle.
type ClipRectCommand struct {
	Rect motion.Rect
}

// Type implements Command.
func (ClipRectCommand) Type() CommandType { return CmdClipRect }

// FillPathCommand fills a device-space path.
type FillPathCommand struct {
	Path  PathRef
	Brush BrushRef
	Rule  motion.FillRule
}

// Type implements Command.
func (FillPathCommand) Type() CommandType { return CmdFillPath }

// StrokePathCommand strokes a device-space path.
type StrokePathCommand struct {
	Path   PathRef
	Brush  BrushRef
	Stroke Stroke
}

// Type implements Command.
func (StrokePathCommand) Type() CommandType { return CmdStrokePath }

// DrawImageCommand draws an image whose pixel grid is mapped to device
// space by Matrix.
type DrawImageCommand struct {
	Image  ImageRef
	Matrix motion.Matrix
	Alpha  float64
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// LineCap specifies the shape of stroke end points.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// String returns the SVG name of the cap.
func (c LineCap) String() string {
	switch c {
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return "butt"
	}
}

// LineJoin specifies the shape of stroke corners.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// String returns the SVG name of the join.
func (j LineJoin) String() string {
	switch j {
	case LineJoinRound:
		return "round"
	case LineJoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// Stroke holds the stroke style captured with a StrokePath command.
// DashPattern and DashOffset are in device units; an empty pattern is a
// solid line.
type Stroke struct {
	Width       float64
	Cap         LineCap
	Join        LineJoin
	MiterLimit  float64
	DashPattern []float64
	DashOffset  float64
}

// IsDashed reports whether the stroke has a dash pattern.
func (s Stroke) IsDashed() bool {
	return len(s.DashPattern) > 0
}

// strokeFrom copies a scene stroke so that later changes to its dash do not
// reach the recording.
func strokeFrom(s scene.Stroke) Stroke {
	out := Stroke{
		Width:      s.Width,
		MiterLimit: s.MiterLimit,
	}
	switch s.Cap {
	case model.CapRound:
		out.Cap = LineCapRound
	case model.CapSquare:
		out.Cap = LineCapSquare
	}
	switch s.Join {
	case model.JoinRound:
		out.Join = LineJoinRound
	case model.JoinBevel:
		out.Join = LineJoinBevel
	}
	if s.Dash.IsDashed() {
		out.DashPattern = append([]float64(nil), s.Dash.Array...)
		out.DashOffset = s.Dash.Offset
	}
	return out
}
