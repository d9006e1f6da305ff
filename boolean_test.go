package motion

import (
	"math"
	"testing"
)

func square(x, y, size float64) *Path {
	p := NewPath()
	p.Rectangle(x, y, size, size)
	return p
}

// filledArea sums the signed area of every flattened contour.
func filledArea(p *Path) float64 {
	var total float64
	for _, poly := range p.Polygons(0.01) {
		total += signedArea(poly)
	}
	return math.Abs(total)
}

func TestCombineOverlappingSquares(t *testing.T) {
	a := square(0, 0, 10)
	b := square(5, 5, 10)

	tests := []struct {
		op   PathOp
		want float64
	}{
		{OpUnion, 175},
		{OpIntersect, 25},
		{OpDifference, 75},
		{OpReverseDifference, 75},
		{OpXor, 150},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := Combine(a, b, tt.op)
			if area := filledArea(got); !almostEqual(area, tt.want, 1e-9) {
				t.Errorf("area = %v, want %v", area, tt.want)
			}
		})
	}
}

func TestCombineContainment(t *testing.T) {
	outer := square(0, 0, 10)
	inner := square(2, 2, 4)

	tests := []struct {
		op      PathOp
		want    float64
		inside  bool
		outside bool
	}{
		{OpUnion, 100, true, true},
		{OpIntersect, 16, true, false},
		{OpDifference, 84, false, true},
		{OpReverseDifference, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := Combine(outer, inner, tt.op)
			if area := filledArea(got); !almostEqual(area, tt.want, 1e-9) {
				t.Errorf("area = %v, want %v", area, tt.want)
			}
			if c := got.Contains(Pt(4, 4), FillNonZero); c != tt.inside {
				t.Errorf("Contains(inner point) = %v, want %v", c, tt.inside)
			}
			if c := got.Contains(Pt(1, 1), FillNonZero); c != tt.outside {
				t.Errorf("Contains(outer point) = %v, want %v", c, tt.outside)
			}
		})
	}
}

func TestCombineSharedEdge(t *testing.T) {
	a := square(0, 0, 10)
	b := square(10, 0, 10)

	union := Combine(a, b, OpUnion)
	if area := filledArea(union); !almostEqual(area, 200, 1e-9) {
		t.Errorf("union area = %v, want 200", area)
	}
	if !union.Contains(Pt(10, 5), FillNonZero) {
		t.Error("union should cover the shared edge")
	}
	if area := filledArea(Combine(a, b, OpIntersect)); area > 1e-9 {
		t.Errorf("intersect area = %v, want 0", area)
	}
}

func TestCombineOppositeOrientation(t *testing.T) {
	a := square(0, 0, 10)
	b := square(5, 5, 10).Reversed()
	if area := filledArea(Combine(a, b, OpUnion)); !almostEqual(area, 175, 1e-9) {
		t.Errorf("union area = %v, want 175", area)
	}
}

func TestCombineCircles(t *testing.T) {
	a := NewPath()
	a.ArcTo(XYWH(0, 0, 20, 20), 0, 360)
	a.Close()
	b := NewPath()
	b.ArcTo(XYWH(10, 0, 20, 20), 0, 360)
	b.Close()

	circle := math.Pi * 100
	// Lens area of two radius-10 circles whose centers are 10 apart. Results
	// are flattened, so allow for the lost sagitta area.
	lens := 2*100*math.Acos(0.5) - 5*math.Sqrt(400-100)

	union := filledArea(Combine(a, b, OpUnion))
	if !almostEqual(union, 2*circle-lens, 3) {
		t.Errorf("union = %v, want %v", union, 2*circle-lens)
	}
	inter := filledArea(Combine(a, b, OpIntersect))
	if !almostEqual(inter, lens, 3) {
		t.Errorf("intersect = %v, want %v", inter, lens)
	}
}

func TestCombineEmptyOperands(t *testing.T) {
	a := square(0, 0, 10)
	empty := NewPath()
	if got := Combine(a, empty, OpUnion); !almostEqual(filledArea(got), 100, 1e-9) {
		t.Error("union with empty should keep a")
	}
	if got := Combine(a, empty, OpIntersect); !got.IsEmpty() {
		t.Error("intersect with empty should be empty")
	}
	if got := Combine(empty, a, OpDifference); !got.IsEmpty() {
		t.Error("empty minus a should be empty")
	}
	if got := Combine(empty, a, OpReverseDifference); !almostEqual(filledArea(got), 100, 1e-9) {
		t.Error("a minus empty should keep a")
	}
}
