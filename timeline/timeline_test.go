package timeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

func testComp() *model.Composition {
	return &model.Composition{StartFrame: 0, EndFrame: 100, FrameRate: 25}
}

func floatKeyframes(pairs ...[3]float64) model.Animatable[float64] {
	// pairs: start frame, start value, end value
	kfs := make([]model.Keyframe[float64], len(pairs))
	for i, p := range pairs {
		kfs[i] = model.Keyframe[float64]{StartFrame: p[0], StartValue: p[1], EndValue: p[2], HasEnd: true, Easing: model.Linear}
	}
	return model.Animated(kfs)
}

func TestEase(t *testing.T) {
	tests := []struct {
		name string
		e    model.Easing
		x    float64
		want float64
	}{
		{"linear", model.Linear, 0.3, 0.3},
		{"hold", model.Hold, 0.7, 0},
		{"bezier start", model.Bezier(0.42, 0, 0.58, 1), 0, 0},
		{"bezier end", model.Bezier(0.42, 0, 0.58, 1), 1, 1},
		{"ease in out middle", model.Bezier(0.42, 0, 0.58, 1), 0.5, 0.5},
		{"identity curve", model.Bezier(0.25, 0.25, 0.75, 0.75), 0.4, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ease(tt.e, tt.x); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Ease(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}

	// Ease-in starts slow.
	if got := Ease(model.Bezier(0.42, 0, 1, 1), 0.25); got >= 0.25 {
		t.Errorf("ease-in at 0.25 = %v, want < 0.25", got)
	}
}

func TestEaseClampsControlPoints(t *testing.T) {
	e := model.Bezier(-3, 1e6, 4, -1e6)
	for _, x := range []float64{0.1, 0.5, 0.9} {
		got := Ease(e, x)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("Ease(%v) = %v", x, got)
		}
	}
}

func TestEaseMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		e := model.Bezier(rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64())
		prevT := -1.0
		for i := 0; i <= 200; i++ {
			x := float64(i) / 200
			t0 := solveBezierX(clamp(e.Out.X, 0, 1), clamp(e.In.X, 0, 1), x)
			if t0 < prevT-1e-9 {
				t.Fatalf("curve %+v: t went backward at x=%v (%v < %v)", e, x, t0, prevT)
			}
			prevT = t0
		}
	}
}

func TestTimelineLinear(t *testing.T) {
	tl := Float(testComp(), floatKeyframes([3]float64{0, 0, 10}, [3]float64{50, 10, 30}, [3]float64{100, 30, 30}))
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.25, 5},
		{0.5, 10},
		{0.75, 20},
		{1, 30},
	}
	for _, tt := range tests {
		tl.SetProgress(tt.p)
		if got := tl.Value(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Value at %v = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestTimelineClampsOutsideKeyframes(t *testing.T) {
	tl := Float(testComp(), floatKeyframes([3]float64{20, 5, 15}, [3]float64{60, 15, 15}))
	tl.SetProgress(0)
	if got := tl.Value(); got != 5 {
		t.Errorf("before first keyframe = %v, want 5", got)
	}
	if tl.SetProgress(0.1) {
		t.Error("moving inside the clamped region should not report a change")
	}
	tl.SetProgress(1)
	if got := tl.Value(); got != 15 {
		t.Errorf("after last keyframe = %v, want 15", got)
	}
}

func TestTimelineHold(t *testing.T) {
	a := model.Animated([]model.Keyframe[float64]{
		{StartFrame: 0, StartValue: 7, EndValue: 7, HasEnd: true, Easing: model.Hold},
		{StartFrame: 50, StartValue: 42, EndValue: 42, HasEnd: true, Easing: model.Linear},
		{StartFrame: 100, StartValue: 42},
	})
	tl := Float(testComp(), a)
	for _, p := range []float64{0, 0.1, 0.25, 0.49999} {
		tl.SetProgress(p)
		if got := tl.Value(); got != 7 {
			t.Fatalf("hold value at %v = %v, want exactly 7", p, got)
		}
	}
	tl.SetProgress(0.5)
	if got := tl.Value(); got != 42 {
		t.Errorf("value after hold = %v, want 42", got)
	}
}

func TestTimelineHoldReportsNoChange(t *testing.T) {
	a := model.Animated([]model.Keyframe[float64]{
		{StartFrame: 0, StartValue: 1, EndValue: 1, HasEnd: true, Easing: model.Hold},
		{StartFrame: 100, StartValue: 2},
	})
	tl := Float(testComp(), a)
	tl.SetProgress(0.1)
	tl.Value()
	if tl.SetProgress(0.2) {
		t.Error("moving inside a hold keyframe should not report a change")
	}
}

func TestTimelineProgressIdempotent(t *testing.T) {
	tl := Float(testComp(), floatKeyframes([3]float64{0, 0, 10}, [3]float64{100, 10, 10}))
	if !tl.SetProgress(0.3) {
		t.Fatal("first move should report a change")
	}
	if tl.SetProgress(0.3) {
		t.Error("same progress should not report a change")
	}
	if !tl.SetProgress(0.4) {
		t.Error("new progress should report a change")
	}

	static := NewStatic(5.0)
	if static.SetProgress(0.5) {
		t.Error("static timeline should never change without a callback")
	}
}

func TestTimelineKeyframeCacheBackwards(t *testing.T) {
	tl := Float(testComp(), floatKeyframes(
		[3]float64{0, 0, 1}, [3]float64{25, 1, 2}, [3]float64{50, 2, 3}, [3]float64{75, 3, 4}, [3]float64{100, 4, 4}))
	for _, p := range []float64{0.9, 0.1, 0.6, 0.3} {
		tl.SetProgress(p)
		if got, want := tl.Value(), p*4; math.Abs(got-want) > 1e-9 {
			t.Errorf("Value at %v = %v, want %v", p, got, want)
		}
	}
}

func TestTimelineCallback(t *testing.T) {
	tl := Float(testComp(), floatKeyframes([3]float64{0, 0, 10}, [3]float64{100, 10, 10}))
	tl.SetProgress(0.5)
	var seen FrameInfo[float64]
	tl.SetCallback(func(info FrameInfo[float64]) float64 {
		seen = info
		return info.Value * 2
	})
	if got := tl.Value(); got != 10 {
		t.Errorf("overridden value = %v, want 10", got)
	}
	if seen.StartValue != 0 || seen.EndValue != 10 || seen.LinearProgress != 0.5 || seen.OverallProgress != 0.5 {
		t.Errorf("FrameInfo = %+v", seen)
	}
	tl.SetCallback(nil)
	if got := tl.Value(); got != 5 {
		t.Errorf("value after removing callback = %v, want 5", got)
	}

	static := NewStatic(3.0)
	static.SetCallback(func(info FrameInfo[float64]) float64 { return info.OverallProgress })
	if !static.SetProgress(0.25) {
		t.Error("static timeline with callback should report changes")
	}
	if got := static.Value(); got != 0.25 {
		t.Errorf("static callback value = %v", got)
	}
}

func TestColorTimelineIsGammaCorrect(t *testing.T) {
	a := model.Animated([]model.Keyframe[motion.RGBA]{
		{StartFrame: 0, StartValue: motion.Black, EndValue: motion.White, HasEnd: true, Easing: model.Linear},
		{StartFrame: 100, StartValue: motion.White},
	})
	tl := Color(testComp(), a)
	tl.SetProgress(0.5)
	if got := tl.Value(); got.R <= 0.5 || got.R != got.G {
		t.Errorf("midpoint = %+v, want a neutral grey brighter than 0.5", got)
	}
}

func TestPointTimelineFollowsMotionPath(t *testing.T) {
	a := model.Animated([]model.Keyframe[motion.Point]{
		{
			StartFrame: 0, StartValue: motion.Pt(0, 0), EndValue: motion.Pt(100, 0), HasEnd: true,
			Easing: model.Linear, Spatial: true,
			PathOut: motion.Pt(0, 50), PathIn: motion.Pt(0, 50),
		},
		{StartFrame: 100, StartValue: motion.Pt(100, 0)},
	})
	tl := Point(testComp(), a)
	tl.SetProgress(0.5)
	mid := tl.Value()
	if math.Abs(mid.X-50) > 1e-6 || mid.Y < 30 {
		t.Errorf("midpoint = %v, want the curve apex near (50, 37.5)", mid)
	}
	tl.SetProgress(1)
	if got := tl.Value(); !got.Near(motion.Pt(100, 0), 1e-9) {
		t.Errorf("end = %v", got)
	}
}

func TestShapeTimelineMismatch(t *testing.T) {
	zero := make([]motion.Point, 3)
	tri := model.NewShapeData([]motion.Point{motion.Pt(0, 0), motion.Pt(10, 0), motion.Pt(0, 10)}, zero, zero, true)
	seg := model.NewShapeData([]motion.Point{motion.Pt(0, 0), motion.Pt(20, 0)}, zero, zero, false)
	a := model.Animated([]model.Keyframe[model.ShapeData]{
		{StartFrame: 0, StartValue: tri, EndValue: seg, HasEnd: true, Easing: model.Linear},
		{StartFrame: 100, StartValue: seg},
	})
	tl := Shape(testComp(), a)
	tl.SetProgress(0.5)
	got := tl.Value()
	if len(got.Curves) != 3 {
		t.Fatalf("curves = %d, want 3", len(got.Curves))
	}
	if got.Curves[0].Vertex != motion.Pt(15, 0) {
		t.Errorf("shared prefix not interpolated: %v", got.Curves[0].Vertex)
	}
}
