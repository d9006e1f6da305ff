package recording

import (
	"image"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/scene"
)

// Recorder captures scene draw calls as commands. It implements
// scene.Surface; use FinishRecording to obtain an immutable Recording that
// can be replayed to different backends.
//
// Example:
//
//	rec := recording.NewRecorder(512, 512)
//	s.Draw(rec, motion.Identity(), 1)
//	r := rec.FinishRecording()
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	resources     *ResourcePool

	// depth counts the Save and SaveLayer calls not yet restored.
	depth int
}

var _ scene.Surface = (*Recorder)(nil)

// NewRecorder creates a new Recorder for a canvas of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		commands:  make([]Command, 0, 256),
		resources: NewResourcePool(),
	}
}

// Width returns the width of the recording canvas.
func (r *Recorder) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recorder) Height() int {
	return r.height
}

// Save records a clip state save.
func (r *Recorder) Save() {
	r.depth++
	r.commands = append(r.commands, SaveCommand{})
}

// Restore records the end of the innermost Save or SaveLayer. A Restore
// without a matching save is ignored.
func (r *Recorder) Restore() {
	if r.depth == 0 {
		return
	}
	r.depth--
	r.commands = append(r.commands, RestoreCommand{})
}

// SaveLayer records the start of an offscreen layer.
func (r *Recorder) SaveLayer(bounds motion.Rect, alpha float64, mode scene.CompositeMode) {
	r.depth++
	r.commands = append(r.commands, SaveLayerCommand{Bounds: bounds, Alpha: alpha, Mode: mode})
}

// ClipRect records a clip to a device-space rectangle.
func (r *Recorder) ClipRect(rect motion.Rect) {
	r.commands = append(r.commands, ClipRectCommand{Rect: rect})
}

// FillPath records a fill. The path is copied.
func (r *Recorder) FillPath(p *motion.Path, paint scene.Paint) {
	if p == nil {
		return
	}
	r.commands = append(r.commands, FillPathCommand{
		Path:  r.resources.AddPath(p),
		Brush: r.resources.AddBrush(BrushFromPaint(paint)),
		Rule:  paint.Rule,
	})
}

// StrokePath records a stroke. The path and dash pattern are copied.
func (r *Recorder) StrokePath(p *motion.Path, paint scene.Paint, stroke scene.Stroke) {
	if p == nil {
		return
	}
	r.commands = append(r.commands, StrokePathCommand{
		Path:   r.resources.AddPath(p),
		Brush:  r.resources.AddBrush(BrushFromPaint(paint)),
		Stroke: strokeFrom(stroke),
	})
}

// DrawImage records an image draw. The image itself is not copied and must
// not change while the recording is in use.
func (r *Recorder) DrawImage(img image.Image, m motion.Matrix, alpha float64) {
	if img == nil {
		return
	}
	r.commands = append(r.commands, DrawImageCommand{
		Image:  r.resources.AddImage(img),
		Matrix: m,
		Alpha:  alpha,
	})
}

// FinishRecording returns an immutable Recording containing all recorded
// commands. Saves left open are closed. The Recorder should not be used
// afterwards.
func (r *Recorder) FinishRecording() *Recording {
	for r.depth > 0 {
		r.Restore()
	}
	return &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands,
		resources: r.resources,
	}
}

// Recording is an immutable container for recorded drawing commands.
// It can be replayed to any Backend implementation.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Count returns the number of commands of type t.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.width, r.height); err != nil {
		return err
	}

	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case SaveCommand:
			backend.Save()
		case RestoreCommand:
			backend.Restore()
		case SaveLayerCommand:
			backend.SaveLayer(c.Bounds, c.Alpha, c.Mode)
		case ClipRectCommand:
			backend.ClipRect(c.Rect)
		case FillPathCommand:
			path := r.resources.GetPath(c.Path)
			brush := r.resources.GetBrush(c.Brush)
			backend.FillPath(path, brush, c.Rule)
		case StrokePathCommand:
			path := r.resources.GetPath(c.Path)
			brush := r.resources.GetBrush(c.Brush)
			backend.StrokePath(path, brush, c.Stroke)
		case DrawImageCommand:
			img := r.resources.GetImage(c.Image)
			backend.DrawImage(img, c.Matrix, c.Alpha)
		}
	}

	return backend.End()
}
