package scene

import (
	"math"
	"testing"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

func drawShapes(t *testing.T, m motion.Matrix, items ...model.Content) *fakeSurface {
	t.Helper()
	s := New(testComp(shapeLayer("Shape", 1, items...)))
	var dst fakeSurface
	s.Draw(&dst, m, 1)
	return &dst
}

func TestFillPaintsPrecedingPaths(t *testing.T) {
	red, blue := motion.RGB(1, 0, 0), motion.RGB(0, 0, 1)
	dst := drawShapes(t, motion.Identity(),
		rectAt("A", 0, 0, 10, 10),
		solidFill("Red", red),
		rectAt("B", 50, 50, 10, 10),
		solidFill("Blue", blue),
	)
	fills := dst.only("fill")
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}
	if fills[0].paint.Color != blue {
		t.Errorf("first fill = %v, want the later fill drawn first", fills[0].paint.Color)
	}
	rectNear(t, "blue", fills[0].path.BoundingBox(), motion.XYWH(0, 0, 60, 60))
	rectNear(t, "red", fills[1].path.BoundingBox(), motion.XYWH(0, 0, 10, 10))
}

func TestFillOpacityAndRule(t *testing.T) {
	f := solidFill("Fill", motion.Black)
	f.Opacity = model.Static(40.0)
	f.Rule = motion.FillEvenOdd
	dst := drawShapes(t, motion.Identity(), rectAt("Rect", 0, 0, 10, 10), f)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	if math.Abs(fills[0].paint.Alpha-0.4) > 1e-9 {
		t.Errorf("alpha = %v, want 0.4", fills[0].paint.Alpha)
	}
	if fills[0].paint.Rule != motion.FillEvenOdd {
		t.Errorf("rule = %v, want even-odd", fills[0].paint.Rule)
	}
}

func TestHiddenItemsAreSkipped(t *testing.T) {
	r := rectAt("Rect", 0, 0, 10, 10)
	r.Hidden = true
	dst := drawShapes(t, motion.Identity(), r, solidFill("Fill", motion.Black))
	if n := len(dst.only("fill")); n != 0 {
		t.Errorf("got %d fills, want 0", n)
	}
}

func TestGroupTransform(t *testing.T) {
	tr := model.DefaultTransform()
	tr.Position = model.Static(motion.Pt(5, 5))
	tr.Opacity = model.Static(50.0)
	g := &model.ShapeGroup{
		Base:      model.Base{Name: "Group"},
		Items:     []model.Content{rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black)},
		Transform: &tr,
	}
	dst := drawShapes(t, motion.Identity(), g)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	rectNear(t, "fill", fills[0].path.BoundingBox(), motion.XYWH(5, 5, 10, 10))
	if fills[0].paint.Alpha != 0.5 {
		t.Errorf("alpha = %v, want 0.5", fills[0].paint.Alpha)
	}
}

func TestGroupPathFeedsOuterFill(t *testing.T) {
	tr := model.DefaultTransform()
	tr.Position = model.Static(motion.Pt(20, 0))
	g := &model.ShapeGroup{Items: []model.Content{rectAt("Rect", 0, 0, 10, 10)}, Transform: &tr}
	dst := drawShapes(t, motion.Identity(), g, solidFill("Fill", motion.Black))
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	rectNear(t, "fill", fills[0].path.BoundingBox(), motion.XYWH(20, 0, 10, 10))
}

func TestStrokeScalesWithTransform(t *testing.T) {
	st := solidStroke("Stroke", 2)
	st.Cap = model.CapRound
	st.Dashes = []model.DashEntry{
		{Kind: model.DashLength, Value: model.Static(4.0)},
		{Kind: model.DashGap, Value: model.Static(2.0)},
		{Kind: model.DashOffset, Value: model.Static(1.0)},
	}
	dst := drawShapes(t, motion.Scale(3, 3), line("Line", 0, 0, 10, 0), st)
	strokes := dst.only("stroke")
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	got := strokes[0].stroke
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !near(got.Width, 6) {
		t.Errorf("width = %v, want 6", got.Width)
	}
	if got.Cap != model.CapRound {
		t.Errorf("cap = %v, want round", got.Cap)
	}
	if got.Dash == nil || len(got.Dash.Array) != 2 ||
		!near(got.Dash.Array[0], 12) || !near(got.Dash.Array[1], 6) || !near(got.Dash.Offset, 3) {
		t.Errorf("dash = %+v, want [12 6] offset 3", got.Dash)
	}
}

func TestStrokeBounds(t *testing.T) {
	s := New(testComp(shapeLayer("Shape", 1, rectAt("Rect", 10, 10, 10, 10), solidStroke("Stroke", 4))))
	rectNear(t, "bounds", s.Bounds(motion.Identity()), motion.XYWH(8, 8, 14, 14))
}

func TestZeroWidthStrokeDrawsNothing(t *testing.T) {
	dst := drawShapes(t, motion.Identity(), line("Line", 0, 0, 10, 0), solidStroke("Stroke", 0))
	if n := len(dst.only("stroke")); n != 0 {
		t.Errorf("got %d strokes, want 0", n)
	}
}

func trimPath(mode model.TrimMode, start, end, offset float64) *model.TrimPath {
	return &model.TrimPath{
		Base:   model.Base{Name: "Trim"},
		Start:  model.Static(start),
		End:    model.Static(end),
		Offset: model.Static(offset),
		Mode:   mode,
	}
}

func TestTrimModes(t *testing.T) {
	tests := []struct {
		name string
		mode model.TrimMode
		want motion.Rect
	}{
		// Each line keeps its first half.
		{"simultaneous", model.TrimSimultaneously, motion.Rect{Min: motion.Pt(0, 0), Max: motion.Pt(50, 10)}},
		// The first half of the combined length is the first line.
		{"individual", model.TrimIndividually, motion.Rect{Min: motion.Pt(0, 0), Max: motion.Pt(100, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := drawShapes(t, motion.Identity(),
				line("A", 0, 0, 100, 0),
				line("B", 0, 10, 100, 10),
				solidStroke("Stroke", 1),
				trimPath(tt.mode, 0, 50, 0),
			)
			strokes := dst.only("stroke")
			if len(strokes) != 1 {
				t.Fatalf("got %d strokes, want 1", len(strokes))
			}
			p := strokes[0].path
			if l := p.Length(); math.Abs(l-100) > 1e-6 {
				t.Errorf("length = %v, want 100", l)
			}
			rectNear(t, "bounds", p.BoundingBox(), tt.want)
		})
	}
}

func TestTrimStartAfterEnd(t *testing.T) {
	dst := drawShapes(t, motion.Identity(),
		line("A", 0, 0, 100, 0),
		solidStroke("Stroke", 1),
		trimPath(model.TrimSimultaneously, 75, 25, 0),
	)
	strokes := dst.only("stroke")
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	rectNear(t, "bounds", strokes[0].path.BoundingBox(), motion.Rect{Min: motion.Pt(25, 0), Max: motion.Pt(75, 0)})
}

func TestTrimEmptyRangeDrawsNothing(t *testing.T) {
	dst := drawShapes(t, motion.Identity(),
		line("A", 0, 0, 100, 0),
		solidStroke("Stroke", 1),
		trimPath(model.TrimSimultaneously, 40, 40, 0),
	)
	if n := len(dst.only("stroke")); n != 0 {
		t.Errorf("got %d strokes, want 0", n)
	}
}

func TestTrimBeforeStrokeGroupsPaths(t *testing.T) {
	// The trim only covers A; B is stroked in full.
	dst := drawShapes(t, motion.Identity(),
		line("A", 0, 0, 100, 0),
		trimPath(model.TrimIndividually, 0, 50, 0),
		line("B", 0, 10, 100, 10),
		solidStroke("Stroke", 1),
	)
	strokes := dst.only("stroke")
	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want 2", len(strokes))
	}
	var total float64
	for _, s := range strokes {
		total += s.path.Length()
	}
	if math.Abs(total-150) > 1e-6 {
		t.Errorf("stroked length = %v, want 150", total)
	}
}

func repeater(copies float64) *model.Repeater {
	tr := model.DefaultTransform()
	tr.Position = model.Static(motion.Pt(10, 0))
	start, end := model.Static(100.0), model.Static(50.0)
	tr.StartOpacity, tr.EndOpacity = &start, &end
	return &model.Repeater{
		Base:      model.Base{Name: "Repeater"},
		Copies:    model.Static(copies),
		Offset:    model.Static(0.0),
		Transform: tr,
	}
}

func TestRepeaterCopies(t *testing.T) {
	dst := drawShapes(t, motion.Identity(),
		rectAt("Rect", 0, 0, 10, 10),
		solidFill("Fill", motion.Black),
		repeater(3),
	)
	fills := dst.only("fill")
	if len(fills) != 3 {
		t.Fatalf("got %d fills, want 3", len(fills))
	}
	want := []struct {
		x     float64
		alpha float64
	}{
		{20, 1 - 0.5*2.0/3},
		{10, 1 - 0.5*1.0/3},
		{0, 1},
	}
	for i, w := range want {
		rectNear(t, "copy", fills[i].path.BoundingBox(), motion.XYWH(w.x, 0, 10, 10))
		if math.Abs(fills[i].paint.Alpha-w.alpha) > 1e-9 {
			t.Errorf("copy %d alpha = %v, want %v", i, fills[i].paint.Alpha, w.alpha)
		}
	}

	s := New(testComp(shapeLayer("Shape", 1,
		rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black), repeater(3))))
	rectNear(t, "bounds", s.Bounds(motion.Identity()), motion.XYWH(0, 0, 30, 10))
}

func TestRepeaterPathFeedsLaterFill(t *testing.T) {
	dst := drawShapes(t, motion.Identity(),
		rectAt("Rect", 0, 0, 10, 10),
		repeater(2),
		solidFill("Fill", motion.Black),
	)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	rectNear(t, "fill", fills[0].path.BoundingBox(), motion.XYWH(0, 0, 20, 10))
}

func TestRepeaterNoCopies(t *testing.T) {
	dst := drawShapes(t, motion.Identity(),
		rectAt("Rect", 0, 0, 10, 10), solidFill("Fill", motion.Black), repeater(0))
	if n := len(dst.only("fill")); n != 0 {
		t.Errorf("got %d fills, want 0", n)
	}
}

func TestMergePaths(t *testing.T) {
	var (
		onlyA = motion.Pt(5, 10)
		both  = motion.Pt(15, 10)
		onlyB = motion.Pt(25, 10)
		above = motion.Pt(15, -2)
		out   = motion.Pt(35, 10)
	)
	outer := motion.Rect{Min: motion.Pt(0, -5), Max: motion.Pt(30, 25)}
	tests := []struct {
		mode    model.MergeMode
		rules   []motion.FillRule
		bounds  motion.Rect
		inside  []motion.Point
		outside []motion.Point
	}{
		{model.MergeMerge, []motion.FillRule{motion.FillNonZero}, outer,
			[]motion.Point{onlyA, both, onlyB, above}, []motion.Point{out}},
		{model.MergeAdd, []motion.FillRule{motion.FillNonZero, motion.FillEvenOdd}, outer,
			[]motion.Point{onlyA, both, onlyB, above}, []motion.Point{out}},
		{model.MergeSubtract, []motion.FillRule{motion.FillNonZero, motion.FillEvenOdd}, motion.XYWH(0, 0, 10, 20),
			[]motion.Point{onlyA}, []motion.Point{both, onlyB, above, out}},
		{model.MergeIntersect, []motion.FillRule{motion.FillNonZero, motion.FillEvenOdd}, motion.XYWH(10, 0, 10, 20),
			[]motion.Point{both}, []motion.Point{onlyA, onlyB, above, out}},
		{model.MergeExcludeIntersections, []motion.FillRule{motion.FillNonZero, motion.FillEvenOdd}, outer,
			[]motion.Point{onlyA, onlyB, above}, []motion.Point{both, out}},
	}
	for _, tt := range tests {
		for _, rule := range tt.rules {
			t.Run(tt.mode.String()+"/"+rule.String(), func(t *testing.T) {
				fill := solidFill("Fill", motion.Black)
				fill.Rule = rule
				dst := drawShapes(t, motion.Identity(),
					rectAt("A", 0, 0, 20, 20),
					rectAt("B", 10, -5, 20, 30),
					&model.MergePaths{Base: model.Base{Name: "Merge"}, Mode: tt.mode},
					fill,
				)
				fills := dst.only("fill")
				if len(fills) != 1 {
					t.Fatalf("got %d fills, want 1", len(fills))
				}
				got := fills[0]
				rectNear(t, "merged", got.path.BoundingBox(), tt.bounds)
				for _, pt := range tt.inside {
					if !got.path.Contains(pt, got.paint.Rule) {
						t.Errorf("%v not covered", pt)
					}
				}
				for _, pt := range tt.outside {
					if got.path.Contains(pt, got.paint.Rule) {
						t.Errorf("%v covered", pt)
					}
				}
			})
		}
	}
}

func TestMergeAddOverlappingOperands(t *testing.T) {
	fill := solidFill("Fill", motion.Black)
	fill.Rule = motion.FillEvenOdd
	dst := drawShapes(t, motion.Identity(),
		rectAt("B", 20, 0, 10, 10),
		rectAt("C", 25, 0, 10, 10),
		rectAt("A", 0, 0, 10, 10),
		&model.MergePaths{Base: model.Base{Name: "Merge"}, Mode: model.MergeAdd},
		fill,
	)
	fills := dst.only("fill")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	p := fills[0].path
	for _, pt := range []motion.Point{motion.Pt(5, 5), motion.Pt(22, 5), motion.Pt(27, 5), motion.Pt(33, 5)} {
		if !p.Contains(pt, motion.FillEvenOdd) {
			t.Errorf("%v not covered", pt)
		}
	}
	if p.Contains(motion.Pt(15, 5), motion.FillEvenOdd) {
		t.Error("gap between A and B covered")
	}
}

func gradientStops(a, b motion.RGBA) model.GradientColor {
	return model.GradientColor{Positions: []float64{0, 1}, Colors: []motion.RGBA{a, b}}
}

func gradientFill(typ model.GradientType) *model.GradientFill {
	return &model.GradientFill{
		Base: model.Base{Name: "Gradient"},
		GradientPaint: model.GradientPaint{
			Type: typ,
			Colors: model.Animated([]model.Keyframe[model.GradientColor]{{
				StartValue: gradientStops(motion.Black, motion.White),
				EndValue:   gradientStops(motion.White, motion.Black),
				HasEnd:     true,
				Easing:     model.Linear,
			}}),
			Start:   model.Static(motion.Pt(0, 0)),
			End:     model.Static(motion.Pt(10, 0)),
			Opacity: model.Static(100.0),
		},
	}
}

func drawnGradient(t *testing.T, s *Scene) *Gradient {
	t.Helper()
	var dst fakeSurface
	s.Draw(&dst, motion.Identity(), 1)
	fills := dst.only("fill")
	if len(fills) != 1 || fills[0].paint.Gradient == nil {
		t.Fatalf("got %d fills, want one gradient fill", len(fills))
	}
	return fills[0].paint.Gradient
}

func TestGradientShaderCache(t *testing.T) {
	// Two seconds at 30 steps per second: buckets are 1/60 wide.
	s := New(testComp(shapeLayer("Shape", 1, rectAt("Rect", 0, 0, 10, 10), gradientFill(model.GradientLinear))))

	s.SetProgress(0.5)
	first := drawnGradient(t, s)
	if again := drawnGradient(t, s); again != first {
		t.Error("same progress built a new shader")
	}
	s.SetProgress(0.505)
	if same := drawnGradient(t, s); same != first {
		t.Error("progress in the same bucket built a new shader")
	}
	s.SetProgress(0.6)
	next := drawnGradient(t, s)
	if next == first {
		t.Error("progress in another bucket reused the shader")
	}
	if next.Stops.Colors[0] == first.Stops.Colors[0] {
		t.Error("shader stops did not follow the progress")
	}
}

func TestRadialGradientFocus(t *testing.T) {
	g := gradientFill(model.GradientRadial)
	length, angle := model.Static(50.0), model.Static(90.0)
	g.HighlightLength, g.HighlightAngle = &length, &angle
	s := New(testComp(shapeLayer("Shape", 1, rectAt("Rect", 0, 0, 10, 10), g)))

	got := drawnGradient(t, s)
	if got.Radius != 10 {
		t.Errorf("radius = %v, want 10", got.Radius)
	}
	if !got.Focal.Near(motion.Pt(0, 5), 1e-9) {
		t.Errorf("focal = %v, want (0, 5)", got.Focal)
	}
}

func TestGradientStroke(t *testing.T) {
	gs := &model.GradientStroke{
		Base:          model.Base{Name: "Gradient Stroke"},
		GradientPaint: gradientFill(model.GradientLinear).GradientPaint,
		StrokeStyle:   model.StrokeStyle{Width: model.Static(2.0)},
	}
	gs.Opacity = model.Static(50.0)
	dst := drawShapes(t, motion.Translate(5, 0), line("Line", 0, 0, 10, 0), gs)
	strokes := dst.only("stroke")
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	got := strokes[0]
	if got.paint.Gradient == nil || got.paint.Alpha != 0.5 {
		t.Errorf("paint = %+v, want a gradient at alpha 0.5", got.paint)
	}
	if got.paint.GradientTransform != motion.Translate(5, 0) {
		t.Errorf("gradient transform = %v, want the content transform", got.paint.GradientTransform)
	}
}

func TestShapeGeometry(t *testing.T) {
	star := &model.PolyStar{
		Kind:           model.Star,
		Points:         model.Static(5.0),
		Position:       model.Static(motion.Pt(50, 50)),
		Rotation:       model.Static(0.0),
		OuterRadius:    model.Static(20.0),
		OuterRoundness: model.Static(0.0),
	}
	inner, innerRound := model.Static(10.0), model.Static(0.0)
	star.InnerRadius, star.InnerRoundness = &inner, &innerRound

	tests := []struct {
		name string
		item model.Content
		want motion.Rect
	}{
		{"rect", rectAt("Rect", 10, 20, 30, 40), motion.XYWH(10, 20, 30, 40)},
		{"ellipse", &model.Ellipse{
			Position: model.Static(motion.Pt(50, 50)),
			Size:     model.Static(motion.Pt(40, 20)),
		}, motion.XYWH(30, 40, 40, 20)},
		{"polygon", &model.PolyStar{
			Kind:           model.Polygon,
			Points:         model.Static(4.0),
			Position:       model.Static(motion.Pt(50, 50)),
			Rotation:       model.Static(0.0),
			OuterRadius:    model.Static(10.0),
			OuterRoundness: model.Static(0.0),
		}, motion.XYWH(40, 40, 20, 20)},
		{"star", star, motion.Rect{
			Min: motion.Pt(50-20*math.Cos(18*math.Pi/180), 30),
			Max: motion.Pt(50+20*math.Cos(18*math.Pi/180), 50+20*math.Sin(54*math.Pi/180)),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := drawShapes(t, motion.Identity(), tt.item, solidFill("Fill", motion.Black))
			fills := dst.only("fill")
			if len(fills) != 1 {
				t.Fatalf("got %d fills, want 1", len(fills))
			}
			rectNear(t, "bounds", fills[0].path.BoundingBox(), tt.want)
		})
	}
}

func TestRoundedRectLength(t *testing.T) {
	r := rectAt("Rect", 0, 0, 40, 20)
	r.Roundness = model.Static(5.0)
	dst := drawShapes(t, motion.Identity(), r, solidFill("Fill", motion.Black))
	p := dst.only("fill")[0].path
	want := 2*(40+20) - 8*5 + 2*math.Pi*5
	if l := p.Length(); math.Abs(l-want) > 1e-3 {
		t.Errorf("length = %v, want %v", l, want)
	}
	rectNear(t, "bounds", p.BoundingBox(), motion.XYWH(0, 0, 40, 20))

	// Roundness larger than half the short side is clamped.
	r.Roundness = model.Static(50.0)
	dst = drawShapes(t, motion.Identity(), r, solidFill("Fill", motion.Black))
	want = 2*(40-20) + 2*math.Pi*10
	if l := dst.only("fill")[0].path.Length(); math.Abs(l-want) > 1e-3 {
		t.Errorf("clamped length = %v, want %v", l, want)
	}
}

func TestStarPointCount(t *testing.T) {
	star := &model.PolyStar{
		Kind:           model.Star,
		Points:         model.Static(5.0),
		Rotation:       model.Static(0.0),
		OuterRadius:    model.Static(20.0),
		OuterRoundness: model.Static(0.0),
	}
	inner, innerRound := model.Static(10.0), model.Static(0.0)
	star.InnerRadius, star.InnerRoundness = &inner, &innerRound
	dst := drawShapes(t, motion.Identity(), star, solidFill("Fill", motion.Black))

	var lines int
	for _, e := range dst.only("fill")[0].path.Elements() {
		if _, ok := e.(motion.LineTo); ok {
			lines++
		}
	}
	if lines != 10 {
		t.Errorf("got %d line segments, want 10", lines)
	}
}
