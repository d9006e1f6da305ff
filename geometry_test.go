package motion

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

func pointNear(t *testing.T, name string, got, want Point, epsilon float64) {
	t.Helper()
	if !got.Near(want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestPointOps(t *testing.T) {
	p := Pt(3, 4)
	if got := p.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	pointNear(t, "Normalize", p.Normalize(), Pt(0.6, 0.8), eps)
	pointNear(t, "Lerp", Pt(0, 0).Lerp(Pt(10, 20), 0.25), Pt(2.5, 5), eps)
	if got := Pt(1, 0).Cross(Pt(0, 1)); got != 1 {
		t.Errorf("Cross = %v, want 1", got)
	}
	if !(Point{}).Normalize().IsZero() {
		t.Error("normalizing the zero vector should stay zero")
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Multiply applies the argument first.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	pointNear(t, "translate*scale", m.TransformPoint(Pt(1, 1)), Pt(12, 2), eps)

	m = Scale(2, 2).Multiply(Translate(10, 0))
	pointNear(t, "scale*translate", m.TransformPoint(Pt(1, 1)), Pt(22, 2), eps)
}

func TestMatrixRotate(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Point
		want Point
	}{
		{"90deg", RotateDegrees(90), Pt(1, 0), Pt(0, 1)},
		{"180deg", RotateDegrees(180), Pt(1, 0), Pt(-1, 0)},
		{"about pivot", RotateAbout(90, Pt(5, 5)), Pt(10, 5), Pt(5, 10)},
		{"shear", Shear(1, 0), Pt(0, 2), Pt(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pointNear(t, "TransformPoint", tt.m.TransformPoint(tt.in), tt.want, 1e-9)
		})
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(3, -7).Multiply(RotateDegrees(30)).Multiply(Scale(2, 0.5))
	got := m.Multiply(m.Invert())
	want := Identity()
	for _, pair := range [][2]float64{{got.A, want.A}, {got.B, want.B}, {got.C, want.C}, {got.D, want.D}, {got.E, want.E}, {got.F, want.F}} {
		if !almostEqual(pair[0], pair[1], 1e-9) {
			t.Fatalf("m * m^-1 = %+v, want identity", got)
		}
	}
	if !(Matrix{}).Invert().IsIdentity() {
		t.Error("singular matrix should invert to identity")
	}
}

func TestMatrixScaleFactor(t *testing.T) {
	tests := []struct {
		m    Matrix
		want float64
	}{
		{Identity(), 1},
		{Scale(2, 2), 2},
		{RotateDegrees(45).Multiply(Scale(3, 3)), 3},
		{Translate(100, 100), 1},
	}
	for _, tt := range tests {
		if got := tt.m.ScaleFactor(); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("ScaleFactor(%+v) = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestMatrixTransformRect(t *testing.T) {
	r := XYWH(0, 0, 10, 10)
	got := RotateDegrees(45).TransformRect(r)
	h := 10 * math.Sqrt2 / 2
	pointNear(t, "Min", got.Min, Pt(-h, 0), 1e-9)
	pointNear(t, "Max", got.Max, Pt(h, 2*h), 1e-9)
}

func TestRectOps(t *testing.T) {
	a := XYWH(0, 0, 10, 10)
	b := XYWH(5, 5, 10, 10)

	if got := a.Union(b); got != XYWH(0, 0, 15, 15) {
		t.Errorf("Union = %+v", got)
	}
	if got := a.Intersect(b); got != XYWH(5, 5, 5, 5) {
		t.Errorf("Intersect = %+v", got)
	}
	if got := a.Intersect(XYWH(20, 20, 1, 1)); !got.IsEmpty() {
		t.Errorf("disjoint Intersect = %+v, want empty", got)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union with empty = %+v, want %+v", got, a)
	}
	if !a.Contains(Pt(10, 10)) || a.Contains(Pt(10.1, 0)) {
		t.Error("Contains edge handling")
	}
	if !XYWH(0, 0, 0, 10).IsEmpty() {
		t.Error("zero-width rect should be empty")
	}
}
