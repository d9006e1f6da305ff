package recording

import (
	"image"
	"reflect"
	"testing"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/scene"
)

// logBackend records the name of every call it receives.
type logBackend struct {
	calls  []string
	width  int
	height int
	fills  []*motion.Path
	brush  Brush
	stroke Stroke
}

func (b *logBackend) Begin(width, height int) error {
	b.width, b.height = width, height
	b.calls = append(b.calls, "Begin")
	return nil
}

func (b *logBackend) End() error {
	b.calls = append(b.calls, "End")
	return nil
}

func (b *logBackend) Save()    { b.calls = append(b.calls, "Save") }
func (b *logBackend) Restore() { b.calls = append(b.calls, "Restore") }

func (b *logBackend) SaveLayer(_ motion.Rect, _ float64, mode scene.CompositeMode) {
	b.calls = append(b.calls, "SaveLayer:"+mode.String())
}

func (b *logBackend) ClipRect(motion.Rect) { b.calls = append(b.calls, "ClipRect") }

func (b *logBackend) FillPath(p *motion.Path, brush Brush, _ motion.FillRule) {
	b.calls = append(b.calls, "FillPath")
	b.fills = append(b.fills, p)
	b.brush = brush
}

func (b *logBackend) StrokePath(_ *motion.Path, brush Brush, stroke Stroke) {
	b.calls = append(b.calls, "StrokePath")
	b.brush = brush
	b.stroke = stroke
}

func (b *logBackend) DrawImage(image.Image, motion.Matrix, float64) {
	b.calls = append(b.calls, "DrawImage")
}

func square(x, y, size float64) *motion.Path {
	p := motion.NewPath()
	p.Rectangle(x, y, size, size)
	return p
}

func TestNewRecorder(t *testing.T) {
	rec := NewRecorder(800, 600)
	if rec.Width() != 800 || rec.Height() != 600 {
		t.Errorf("size = %dx%d, want 800x600", rec.Width(), rec.Height())
	}
	r := rec.FinishRecording()
	if len(r.Commands()) != 0 {
		t.Errorf("empty recorder produced %d commands", len(r.Commands()))
	}
	if r.Resources() == nil {
		t.Error("Resources() should not be nil")
	}
}

func TestRecorderCapturesSurfaceCalls(t *testing.T) {
	rec := NewRecorder(100, 100)
	rec.Save()
	rec.ClipRect(motion.XYWH(0, 0, 50, 50))
	rec.SaveLayer(motion.XYWH(0, 0, 50, 50), 0.5, scene.SourceOver)
	rec.FillPath(square(0, 0, 10), scene.Paint{Color: motion.Black, Alpha: 1})
	rec.StrokePath(square(0, 0, 10), scene.Paint{Color: motion.White, Alpha: 1}, scene.Stroke{Width: 2})
	rec.DrawImage(image.NewRGBA(image.Rect(0, 0, 2, 2)), motion.Identity(), 1)
	rec.Restore()
	rec.Restore()
	r := rec.FinishRecording()

	want := []CommandType{
		CmdSave, CmdClipRect, CmdSaveLayer, CmdFillPath,
		CmdStrokePath, CmdDrawImage, CmdRestore, CmdRestore,
	}
	cmds := r.Commands()
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, c := range cmds {
		if c.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Type(), want[i])
		}
	}
	if got := r.Resources().PathCount(); got != 2 {
		t.Errorf("PathCount() = %d, want 2", got)
	}
	if got := r.Count(CmdRestore); got != 2 {
		t.Errorf("Count(Restore) = %d, want 2", got)
	}
}

func TestRecorderBalancesSaves(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Restore() // ignored
	rec.Save()
	rec.SaveLayer(motion.XYWH(0, 0, 10, 10), 1, scene.DestinationIn)
	r := rec.FinishRecording()

	if got, want := r.Count(CmdRestore), 2; got != want {
		t.Errorf("Count(Restore) = %d, want %d", got, want)
	}
	if got := len(r.Commands()); got != 4 {
		t.Errorf("got %d commands, want 4", got)
	}
}

func TestRecorderCopiesPaths(t *testing.T) {
	rec := NewRecorder(10, 10)
	p := square(0, 0, 5)
	rec.FillPath(p, scene.Paint{Color: motion.Black, Alpha: 1})
	p.LineTo(100, 100)

	r := rec.FinishRecording()
	cmd := r.Commands()[0].(FillPathCommand)
	if got := r.Resources().GetPath(cmd.Path).BoundingBox(); got != motion.XYWH(0, 0, 5, 5) {
		t.Errorf("recorded path bounds = %v, changed with the source path", got)
	}
}

func TestRecorderIgnoresNil(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.FillPath(nil, scene.Paint{})
	rec.StrokePath(nil, scene.Paint{}, scene.Stroke{Width: 1})
	rec.DrawImage(nil, motion.Identity(), 1)
	if n := len(rec.FinishRecording().Commands()); n != 0 {
		t.Errorf("got %d commands, want 0", n)
	}
}

func TestRecorderStrokeStyle(t *testing.T) {
	rec := NewRecorder(10, 10)
	dash := motion.NewDash(4, 2)
	dash.Offset = 1
	rec.StrokePath(square(0, 0, 5), scene.Paint{Color: motion.Black, Alpha: 1}, scene.Stroke{
		Width:      3,
		Cap:        model.CapRound,
		Join:       model.JoinBevel,
		MiterLimit: 4,
		Dash:       dash,
	})
	dash.Array[0] = 100

	got := rec.FinishRecording().Commands()[0].(StrokePathCommand).Stroke
	want := Stroke{
		Width:       3,
		Cap:         LineCapRound,
		Join:        LineJoinBevel,
		MiterLimit:  4,
		DashPattern: []float64{4, 2},
		DashOffset:  1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stroke = %+v, want %+v", got, want)
	}
}

func TestPlayback(t *testing.T) {
	rec := NewRecorder(40, 30)
	rec.Save()
	rec.ClipRect(motion.XYWH(0, 0, 10, 10))
	rec.SaveLayer(motion.XYWH(0, 0, 10, 10), 1, scene.DestinationOut)
	rec.FillPath(square(0, 0, 10), scene.Paint{Color: motion.Black, Alpha: 1})
	rec.Restore()
	rec.StrokePath(square(0, 0, 10), scene.Paint{Color: motion.Black, Alpha: 1}, scene.Stroke{Width: 1})
	rec.DrawImage(image.NewGray(image.Rect(0, 0, 1, 1)), motion.Identity(), 1)
	rec.Restore()
	r := rec.FinishRecording()

	// A recording replays the same way every time.
	for range 2 {
		var b logBackend
		if err := r.Playback(&b); err != nil {
			t.Fatalf("Playback: %v", err)
		}
		want := []string{
			"Begin", "Save", "ClipRect", "SaveLayer:destination-out", "FillPath",
			"Restore", "StrokePath", "DrawImage", "Restore", "End",
		}
		if !reflect.DeepEqual(b.calls, want) {
			t.Errorf("calls = %v, want %v", b.calls, want)
		}
		if b.width != 40 || b.height != 30 {
			t.Errorf("Begin size = %dx%d, want 40x30", b.width, b.height)
		}
	}
}

func TestRecordScene(t *testing.T) {
	comp := &model.Composition{
		Width: 100, Height: 100, EndFrame: 30, FrameRate: 30,
		Layers: []*model.Layer{solidLayer()},
	}
	s := scene.New(comp)
	rec := NewRecorder(int(comp.Width), int(comp.Height))
	s.Draw(rec, motion.Identity(), 1)
	r := rec.FinishRecording()

	var b logBackend
	if err := r.Playback(&b); err != nil {
		t.Fatal(err)
	}
	if len(b.fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(b.fills))
	}
	if got := b.fills[0].BoundingBox(); got != motion.XYWH(0, 0, 40, 20) {
		t.Errorf("solid bounds = %v", got)
	}
	if got := b.brush.(SolidBrush).Color; got != motion.RGB(1, 0, 0) {
		t.Errorf("brush = %v, want red", got)
	}
}

func solidLayer() *model.Layer {
	return &model.Layer{
		Name:        "Solid",
		ID:          1,
		ParentID:    model.NoParent,
		Type:        model.LayerSolid,
		Transform:   model.DefaultTransform(),
		SolidWidth:  40,
		SolidHeight: 20,
		SolidColor:  motion.RGB(1, 0, 0),
	}
}
