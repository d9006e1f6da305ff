package scene

import (
	"bytes"
	"image"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// op is one call received by fakeSurface.
type op struct {
	kind   string
	rect   motion.Rect
	alpha  float64
	mode   CompositeMode
	path   *motion.Path
	paint  Paint
	stroke Stroke
}

// fakeSurface records draw calls.
type fakeSurface struct {
	ops []op
}

func (s *fakeSurface) Save()    { s.ops = append(s.ops, op{kind: "save"}) }
func (s *fakeSurface) Restore() { s.ops = append(s.ops, op{kind: "restore"}) }

func (s *fakeSurface) SaveLayer(r motion.Rect, alpha float64, mode CompositeMode) {
	s.ops = append(s.ops, op{kind: "layer:" + mode.String(), rect: r, alpha: alpha, mode: mode})
}

func (s *fakeSurface) ClipRect(r motion.Rect) {
	s.ops = append(s.ops, op{kind: "clip", rect: r})
}

func (s *fakeSurface) FillPath(p *motion.Path, paint Paint) {
	s.ops = append(s.ops, op{kind: "fill", path: p, paint: paint})
}

func (s *fakeSurface) StrokePath(p *motion.Path, paint Paint, st Stroke) {
	s.ops = append(s.ops, op{kind: "stroke", path: p, paint: paint, stroke: st})
}

func (s *fakeSurface) DrawImage(_ image.Image, m motion.Matrix, alpha float64) {
	s.ops = append(s.ops, op{kind: "image", rect: m.TransformRect(motion.XYWH(0, 0, 1, 1)), alpha: alpha})
}

func (s *fakeSurface) kinds() []string {
	out := make([]string, len(s.ops))
	for i, o := range s.ops {
		out[i] = o.kind
	}
	return out
}

func (s *fakeSurface) only(kind string) []op {
	var out []op
	for _, o := range s.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func testComp(layers ...*model.Layer) *model.Composition {
	return &model.Composition{Width: 100, Height: 100, EndFrame: 60, FrameRate: 30, Layers: layers}
}

func shapeLayer(name string, id int64, items ...model.Content) *model.Layer {
	return &model.Layer{
		Name:      name,
		ID:        id,
		ParentID:  model.NoParent,
		Type:      model.LayerShape,
		Transform: model.DefaultTransform(),
		Shapes:    items,
	}
}

func rectAt(name string, x, y, w, h float64) *model.Rectangle {
	return &model.Rectangle{
		Base:      model.Base{Name: name},
		Position:  model.Static(motion.Pt(x+w/2, y+h/2)),
		Size:      model.Static(motion.Pt(w, h)),
		Roundness: model.Static(0.0),
	}
}

func solidFill(name string, c motion.RGBA) *model.Fill {
	return &model.Fill{
		Base:    model.Base{Name: name},
		Color:   model.Static(c),
		Opacity: model.Static(100.0),
	}
}

func solidStroke(name string, width float64) *model.Stroke {
	return &model.Stroke{
		Base:        model.Base{Name: name},
		StrokeStyle: model.StrokeStyle{Width: model.Static(width), MiterLimit: 4},
		Color:       model.Static(motion.Black),
		Opacity:     model.Static(100.0),
	}
}

func line(name string, x0, y0, x1, y1 float64) *model.ShapePath {
	pts := []motion.Point{motion.Pt(x0, y0), motion.Pt(x1, y1)}
	return &model.ShapePath{
		Base:  model.Base{Name: name},
		Shape: model.Static(model.NewShapeData(pts, nil, nil, false)),
	}
}

func square(x, y, size float64) model.ShapeData {
	pts := []motion.Point{
		motion.Pt(x, y), motion.Pt(x+size, y), motion.Pt(x+size, y+size), motion.Pt(x, y+size),
	}
	return model.NewShapeData(pts, nil, nil, true)
}

// movingX animates a point from x0 to x1 over the whole composition.
func movingX(x0, x1, y float64) model.Animatable[motion.Point] {
	return model.Animated([]model.Keyframe[motion.Point]{{
		StartValue: motion.Pt(x0, y),
		EndValue:   motion.Pt(x1, y),
		HasEnd:     true,
		Easing:     model.Linear,
	}})
}

func rectNear(t *testing.T, name string, got, want motion.Rect) {
	t.Helper()
	const eps = 1e-6
	if math.Abs(got.Min.X-want.Min.X) > eps || math.Abs(got.Min.Y-want.Min.Y) > eps ||
		math.Abs(got.Max.X-want.Max.X) > eps || math.Abs(got.Max.Y-want.Max.Y) > eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestSetProgressReportsChangesOnce(t *testing.T) {
	r := rectAt("Rect", 0, 0, 10, 10)
	r.Position = movingX(0, 60, 5)
	invalidated := 0
	s := New(testComp(shapeLayer("Shape", 1, r, solidFill("Fill", motion.Black))),
		WithInvalidate(func() { invalidated++ }))

	if !s.SetProgress(0.5) {
		t.Error("first SetProgress(0.5) reported no change")
	}
	if s.SetProgress(0.5) {
		t.Error("second SetProgress(0.5) reported a change")
	}
	if invalidated != 1 {
		t.Errorf("invalidate called %d times, want 1", invalidated)
	}

	s.SetProgress(2)
	if got := s.Progress(); got != 1 {
		t.Errorf("progress after SetProgress(2) = %v, want 1", got)
	}
	s.SetProgress(math.NaN())
	if got := s.Progress(); got != 0 {
		t.Errorf("progress after SetProgress(NaN) = %v, want 0", got)
	}
}

func TestStaticSceneNeverChanges(t *testing.T) {
	invalidated := 0
	s := New(testComp(shapeLayer("Shape", 1, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black))),
		WithInvalidate(func() { invalidated++ }))
	for _, p := range []float64{0.1, 0.5, 1} {
		if s.SetProgress(p) {
			t.Errorf("SetProgress(%v) reported a change", p)
		}
	}
	if invalidated != 0 {
		t.Errorf("invalidate called %d times, want 0", invalidated)
	}
}

func TestMovedGeometryFollowsProgress(t *testing.T) {
	r := rectAt("Rect", 0, 0, 10, 10)
	r.Position = movingX(5, 65, 5)
	s := New(testComp(shapeLayer("Shape", 1, r, solidFill("Fill", motion.Black))))

	tests := []struct {
		progress float64
		want     motion.Rect
	}{
		{0, motion.XYWH(0, 0, 10, 10)},
		{0.5, motion.XYWH(30, 0, 10, 10)},
		{0.25, motion.XYWH(15, 0, 10, 10)},
	}
	for _, tt := range tests {
		s.SetProgress(tt.progress)
		var dst fakeSurface
		s.Draw(&dst, motion.Identity(), 1)
		fills := dst.only("fill")
		if len(fills) != 1 {
			t.Fatalf("progress %v: got %d fills, want 1", tt.progress, len(fills))
		}
		rectNear(t, "fill bounds", fills[0].path.BoundingBox(), tt.want)
	}
}

func TestLayersDrawBottomUp(t *testing.T) {
	red, blue := motion.RGB(1, 0, 0), motion.RGB(0, 0, 1)
	s := New(testComp(
		shapeLayer("Top", 1, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", red)),
		shapeLayer("Bottom", 2, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", blue)),
	))
	var dst fakeSurface
	s.Draw(&dst, motion.Identity(), 1)

	fills := dst.only("fill")
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}
	if fills[0].paint.Color != blue || fills[1].paint.Color != red {
		t.Errorf("fill colors = %v, %v; want bottom layer first", fills[0].paint.Color, fills[1].paint.Color)
	}
	if got := dst.kinds(); got[0] != "save" || got[1] != "clip" || got[len(got)-1] != "restore" {
		t.Errorf("ops = %v, want the layers inside a clipped save", got)
	}
}

func TestLayerVisibility(t *testing.T) {
	late := shapeLayer("Late", 1, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black))
	late.InFrame, late.OutFrame = 30, 60
	late.InOut = model.VisibilityKeyframes(30, 60, 0, 60)
	hidden := shapeLayer("Hidden", 2, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black))
	hidden.Hidden = true
	s := New(testComp(late, hidden))

	tests := []struct {
		progress float64
		fills    int
	}{
		{0, 0},
		{0.25, 0},
		{0.5, 1},
		{0.75, 1},
		{1, 0},
	}
	for _, tt := range tests {
		s.SetProgress(tt.progress)
		var dst fakeSurface
		s.Draw(&dst, motion.Identity(), 1)
		if got := len(dst.only("fill")); got != tt.fills {
			t.Errorf("progress %v: %d fills, want %d", tt.progress, got, tt.fills)
		}
		if tt.fills == 0 && !s.Bounds(motion.Identity()).IsEmpty() {
			t.Errorf("progress %v: bounds = %v, want empty", tt.progress, s.Bounds(motion.Identity()))
		}
	}
}

func TestSceneAlpha(t *testing.T) {
	one := testComp(shapeLayer("A", 1, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black)))
	two := testComp(
		shapeLayer("A", 1, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black)),
		shapeLayer("B", 2, rectAt("Rect", 5, 5, 10, 10), solidFill("Fill", motion.Black)),
	)

	var dst fakeSurface
	New(one).Draw(&dst, motion.Identity(), 0.5)
	if got := dst.only("fill")[0].paint.Alpha; got != 0.5 {
		t.Errorf("single layer fill alpha = %v, want 0.5", got)
	}
	if len(dst.only("layer:source-over")) != 0 {
		t.Error("single layer drawn offscreen")
	}

	dst = fakeSurface{}
	New(two).Draw(&dst, motion.Identity(), 0.5)
	if dst.ops[0].kind != "layer:source-over" || dst.ops[0].alpha != 0.5 {
		t.Errorf("first op = %+v, want an offscreen layer at alpha 0.5", dst.ops[0])
	}
	for _, f := range dst.only("fill") {
		if f.paint.Alpha != 1 {
			t.Errorf("overlapping layer fill alpha = %v, want 1", f.paint.Alpha)
		}
	}

	dst = fakeSurface{}
	New(two).Draw(&dst, motion.Identity(), 0)
	if len(dst.ops) != 0 {
		t.Errorf("alpha 0 drew %d ops", len(dst.ops))
	}
}

func matteComp(mt model.MatteType) *model.Composition {
	matte := shapeLayer("Matte", 1, rectAt("Rect", 0, 0, 20, 20), solidFill("Fill", motion.Black))
	matte.IsMatte = true
	matted := shapeLayer("Content", 2, rectAt("Rect", 10, 10, 20, 20), solidFill("Fill", motion.White))
	matted.Matte = mt
	return testComp(matte, matted)
}

func TestMatteBounds(t *testing.T) {
	tests := []struct {
		name string
		mt   model.MatteType
		want motion.Rect
	}{
		{"alpha", model.MatteAdd, motion.XYWH(10, 10, 10, 10)},
		{"inverted", model.MatteInvert, motion.XYWH(10, 10, 20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(matteComp(tt.mt))
			rectNear(t, "bounds", s.Bounds(motion.Identity()), tt.want)
		})
	}
}

func TestMatteDraw(t *testing.T) {
	s := New(matteComp(model.MatteAdd))
	var dst fakeSurface
	s.Draw(&dst, motion.Identity(), 1)

	want := []string{
		"save", "clip",
		"layer:source-over", "fill",
		"layer:destination-in", "fill", "restore",
		"restore",
		"restore",
	}
	got := dst.kinds()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	rectNear(t, "layer bounds", dst.ops[2].rect, motion.XYWH(10, 10, 10, 10))
	if c := dst.ops[3].paint.Color; c != motion.White {
		t.Errorf("content fill = %v, want white", c)
	}
	if c := dst.ops[5].paint.Color; c != motion.Black {
		t.Errorf("matte fill = %v, want black", c)
	}
}

func TestMaskBounds(t *testing.T) {
	tests := []struct {
		name string
		mask model.Mask
		want motion.Rect
	}{
		{"add", model.Mask{Mode: model.MaskAdd}, motion.XYWH(0, 0, 15, 15)},
		{"subtract", model.Mask{Mode: model.MaskSubtract}, motion.XYWH(0, 0, 20, 20)},
		{"inverted", model.Mask{Mode: model.MaskAdd, Inverted: true}, motion.XYWH(0, 0, 20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := shapeLayer("Masked", 1, rectAt("Rect", 0, 0, 20, 20), solidFill("Fill", motion.Black))
			mk := tt.mask
			mk.Path = model.Static(square(0, 0, 15))
			mk.Opacity = model.Static(100.0)
			l.Masks = []model.Mask{mk}
			s := New(testComp(l))
			rectNear(t, "bounds", s.Bounds(motion.Identity()), tt.want)

			var dst fakeSurface
			s.Draw(&dst, motion.Identity(), 1)
			if len(dst.only("layer:destination-in")) == 0 {
				t.Error("mask not composited")
			}
		})
	}
}

func TestParentTransform(t *testing.T) {
	parent := &model.Layer{Name: "Null", ID: 7, ParentID: model.NoParent, Type: model.LayerNull, Transform: model.DefaultTransform()}
	parent.Transform.Position = model.Static(motion.Pt(30, 0))
	child := shapeLayer("Child", 2, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black))
	child.ParentID = 7
	s := New(testComp(child, parent))
	rectNear(t, "bounds", s.Bounds(motion.Identity()), motion.XYWH(30, 0, 10, 10))
}

func TestParentCycleWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	a := shapeLayer("A", 1, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black))
	b := shapeLayer("B", 2, rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black))
	a.ParentID, b.ParentID = 2, 1
	s := New(testComp(a, b), WithLogger(logger))

	if !strings.Contains(buf.String(), "layer parent cycle") {
		t.Errorf("log = %q, want a parent cycle warning", buf.String())
	}
	rectNear(t, "bounds", s.Bounds(motion.Identity()), motion.XYWH(0, 0, 10, 10))
}

func precompComp(outer *model.Layer) *model.Composition {
	r := rectAt("Rect", 0, 0, 10, 10)
	r.Position = movingX(5, 65, 5)
	inner := shapeLayer("Inner", 1, r, solidFill("Fill", motion.Black))
	c := testComp(outer)
	c.Precomps = map[string][]*model.Layer{"comp_0": {inner}}
	return c
}

func precompLayer() *model.Layer {
	return &model.Layer{
		Name:      "Pre",
		ID:        1,
		ParentID:  model.NoParent,
		Type:      model.LayerPreComp,
		Transform: model.DefaultTransform(),
		RefID:     "comp_0",
		Width:     100,
		Height:    100,
	}
}

func TestPrecompProgress(t *testing.T) {
	l := precompLayer()
	l.StartFrame = 30
	s := New(precompComp(l))
	s.SetProgress(0.75)

	var dst fakeSurface
	s.Draw(&dst, motion.Identity(), 1)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	rectNear(t, "fill bounds", fills[0].path.BoundingBox(), motion.XYWH(15, 0, 10, 10))
}

func TestPrecompTimeRemap(t *testing.T) {
	l := precompLayer()
	remap := model.Static(1.0)
	l.TimeRemap = &remap
	s := New(precompComp(l))

	var dst fakeSurface
	s.Draw(&dst, motion.Identity(), 1)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	rectNear(t, "fill bounds", fills[0].path.BoundingBox(), motion.XYWH(30, 0, 10, 10))
}

func TestPrecompClip(t *testing.T) {
	l := precompLayer()
	l.Width, l.Height = 20, 20
	s := New(precompComp(l))
	s.SetProgress(0.5)
	if got := s.Bounds(motion.Identity()); !got.IsEmpty() {
		t.Errorf("bounds = %v, want empty outside the precomp clip", got)
	}
}

func TestBrokenReferencesWarn(t *testing.T) {
	tests := []struct {
		name  string
		layer *model.Layer
		want  string
	}{
		{"missing precomp", &model.Layer{Name: "P", ParentID: model.NoParent, Type: model.LayerPreComp, RefID: "nope", Transform: model.DefaultTransform()}, "missing precomposition"},
		{"missing image", &model.Layer{Name: "I", ParentID: model.NoParent, Type: model.LayerImage, RefID: "nope", Transform: model.DefaultTransform()}, "missing image asset"},
		{"text", &model.Layer{Name: "T", ParentID: model.NoParent, Type: model.LayerText, Transform: model.DefaultTransform()}, "text layers are not drawn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := New(testComp(tt.layer), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want %q", buf.String(), tt.want)
			}
			var dst fakeSurface
			s.Draw(&dst, motion.Identity(), 1)
			if n := len(dst.only("fill")) + len(dst.only("image")); n != 0 {
				t.Errorf("drew %d items", n)
			}
		})
	}
}

func TestPrecompSelfReference(t *testing.T) {
	var buf bytes.Buffer
	l := precompLayer()
	c := testComp(l)
	c.Precomps = map[string][]*model.Layer{"comp_0": {precompLayer()}}
	New(c, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	if !strings.Contains(buf.String(), "precomposition contains itself") {
		t.Errorf("log = %q, want a self reference warning", buf.String())
	}
}

func TestSolidLayer(t *testing.T) {
	l := &model.Layer{
		Name:       "Solid",
		ParentID:   model.NoParent,
		Type:       model.LayerSolid,
		Transform:  model.DefaultTransform(),
		SolidColor: motion.RGB(0, 1, 0),
		SolidWidth: 40, SolidHeight: 30,
	}
	s := New(testComp(l))
	var dst fakeSurface
	s.Draw(&dst, motion.Scale(2, 2), 1)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	rectNear(t, "solid", fills[0].path.BoundingBox(), motion.XYWH(0, 0, 80, 60))
}

func TestImageLayer(t *testing.T) {
	asset := &model.ImageAsset{ID: "image_0", Width: 50, Height: 40, FileName: "img.png"}
	l := &model.Layer{Name: "Image", ParentID: model.NoParent, Type: model.LayerImage, Transform: model.DefaultTransform(), RefID: "image_0"}
	c := testComp(l)
	c.Images = map[string]*model.ImageAsset{"image_0": asset}

	calls := 0
	provider := func(a *model.ImageAsset) image.Image {
		calls++
		return image.NewRGBA(image.Rect(0, 0, 5, 4))
	}
	s := New(c, WithImageProvider(provider))
	for range 2 {
		var dst fakeSurface
		s.Draw(&dst, motion.Identity(), 1)
		imgs := dst.only("image")
		if len(imgs) != 1 {
			t.Fatalf("got %d images, want 1", len(imgs))
		}
		// The unit square of the 5x4 bitmap maps to a 10x10 square.
		rectNear(t, "pixel", imgs[0].rect, motion.XYWH(0, 0, 10, 10))
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
	rectNear(t, "bounds", s.Bounds(motion.Identity()), motion.XYWH(0, 0, 50, 40))
}
