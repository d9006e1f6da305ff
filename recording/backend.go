package recording

import (
	"image"
	"io"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/scene"
)

// Backend is the interface that all export backends must implement.
// Backends receive device-space drawing commands and translate them to
// their output format.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Handle all Backend methods (even if no-op for some)
//  3. Manage its own stack for Save, SaveLayer and Restore
//  4. Composite a layer on the Restore matching its SaveLayer
//
// # Example Backend Registration
//
//	func init() {
//	    recording.Register("svg", func() recording.Backend {
//	        return svg.NewBackend()
//	    })
//	}
type Backend interface {
	// Begin initializes the backend for rendering at the given dimensions.
	// This must be called before any drawing operations.
	Begin(width, height int) error

	// End finalizes the rendering and prepares the output.
	// After End is called, output methods (WriteTo, SaveToFile) can be used.
	End() error

	// Save saves the clip onto a stack.
	Save()

	// Restore pops the state pushed by the matching Save or SaveLayer. For a
	// layer it composites the layer content with the layer alpha and mode.
	// If the stack is empty, this is a no-op.
	Restore()

	// SaveLayer starts an offscreen layer limited to bounds.
	SaveLayer(bounds motion.Rect, alpha float64, mode scene.CompositeMode)

	// ClipRect intersects the clip with a rectangle.
	ClipRect(r motion.Rect)

	// FillPath fills the given path with the brush.
	FillPath(path *motion.Path, brush Brush, rule motion.FillRule)

	// StrokePath strokes the given path with the brush and stroke style.
	StrokePath(path *motion.Path, brush Brush, stroke Stroke)

	// DrawImage draws the image with its pixel grid mapped through m.
	DrawImage(img image.Image, m motion.Matrix, alpha float64)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}
