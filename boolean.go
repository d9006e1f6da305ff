package motion

import (
	"math"
	"sort"
)

// PathOp selects a boolean combination of two paths.
type PathOp uint8

const (
	// OpUnion keeps the area covered by either path.
	OpUnion PathOp = iota
	// OpDifference keeps the area of the first path not covered by the second.
	OpDifference
	// OpReverseDifference keeps the area of the second path not covered by the first.
	OpReverseDifference
	// OpIntersect keeps the area covered by both paths.
	OpIntersect
	// OpXor keeps the area covered by exactly one path.
	OpXor
)

// String returns the op name.
func (op PathOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpReverseDifference:
		return "reverse-difference"
	case OpIntersect:
		return "intersect"
	case OpXor:
		return "xor"
	}
	return "unknown"
}

// combineTolerance is the flattening tolerance for boolean operands.
const combineTolerance = 0.05

// Combine returns the boolean combination of a and b. Both paths are
// flattened and filled with the non-zero rule; the result is a polygonal
// path whose contours are closed and consistently oriented, so it fills
// the same way under either fill rule when the operands do not overlap
// themselves.
//
// Every edge of each operand is split at its crossings with the other
// operand, classified as inside or outside the other operand (or shared
// with it), and the edges the op keeps are linked back into rings.
func Combine(a, b *Path, op PathOp) *Path {
	pa := orientedPolygons(a)
	pb := orientedPolygons(b)

	switch {
	case len(pa) == 0 && len(pb) == 0:
		return NewPath()
	case len(pb) == 0:
		if op == OpIntersect || op == OpReverseDifference {
			return NewPath()
		}
		return polygonsPath(pa)
	case len(pa) == 0:
		if op == OpIntersect || op == OpDifference {
			return NewPath()
		}
		return polygonsPath(pb)
	}

	ea := ringEdges(pa)
	eb := ringEdges(pb)
	splitEdges(ea, eb)
	sa := subEdges(ea)
	sb := subEdges(eb)

	shared := make(map[[2]Point]bool, len(sb))
	for _, e := range sb {
		shared[[2]Point{e[0], e[1]}] = true
	}
	var kept [][2]Point
	keep := func(e [2]Point, reverse bool) {
		if reverse {
			e[0], e[1] = e[1], e[0]
		}
		kept = append(kept, e)
	}

	for _, e := range sa {
		same := shared[[2]Point{e[0], e[1]}]
		opp := shared[[2]Point{e[1], e[0]}]
		switch {
		case same:
			if op == OpUnion || op == OpIntersect {
				keep(e, false)
			}
		case opp:
			if op == OpDifference {
				keep(e, false)
			} else if op == OpReverseDifference {
				keep(e, true)
			}
		case polygonsWinding(pb, midpoint(e)) != 0:
			switch op {
			case OpIntersect:
				keep(e, false)
			case OpReverseDifference, OpXor:
				keep(e, true)
			}
		default:
			if op == OpUnion || op == OpDifference || op == OpXor {
				keep(e, false)
			}
		}
	}

	sharedA := make(map[[2]Point]bool, len(sa))
	for _, e := range sa {
		sharedA[[2]Point{e[0], e[1]}] = true
		sharedA[[2]Point{e[1], e[0]}] = true
	}
	for _, e := range sb {
		if sharedA[[2]Point{e[0], e[1]}] {
			continue
		}
		if polygonsWinding(pa, midpoint(e)) != 0 {
			switch op {
			case OpIntersect:
				keep(e, false)
			case OpDifference, OpXor:
				keep(e, true)
			}
		} else if op == OpUnion || op == OpReverseDifference || op == OpXor {
			keep(e, false)
		}
	}

	return polygonsPath(linkRings(kept))
}

// orientedPolygons flattens p and reverses every ring when the total signed
// area is negative, so outer rings of both operands turn the same way.
func orientedPolygons(p *Path) [][]Point {
	var polys [][]Point
	var area float64
	for _, poly := range p.Polygons(combineTolerance) {
		poly = dedupe(poly)
		if len(poly) < 3 {
			continue
		}
		area += signedArea(poly)
		polys = append(polys, poly)
	}
	if area < 0 {
		for _, poly := range polys {
			for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
				poly[i], poly[j] = poly[j], poly[i]
			}
		}
	}
	return polys
}

func dedupe(poly []Point) []Point {
	out := poly[:0:0]
	for _, pt := range poly {
		if len(out) > 0 && out[len(out)-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

func signedArea(poly []Point) float64 {
	var sum float64
	for i := range poly {
		sum += poly[i].Cross(poly[(i+1)%len(poly)])
	}
	return sum / 2
}

func midpoint(e [2]Point) Point {
	return e[0].Lerp(e[1], 0.5)
}

// splitEdge is a directed polygon edge with the crossing points found on it.
type splitEdge struct {
	p0, p1 Point
	splits []edgeSplit
}

type edgeSplit struct {
	t  float64
	pt Point
}

func ringEdges(polys [][]Point) []*splitEdge {
	var out []*splitEdge
	for _, poly := range polys {
		for i := range poly {
			out = append(out, &splitEdge{p0: poly[i], p1: poly[(i+1)%len(poly)]})
		}
	}
	return out
}

const splitEps = 1e-9

// splitEdges records every crossing between an edge of a and an edge of b
// on both edges. Both records share the same Point so that the pieces
// link up exactly.
func splitEdges(a, b []*splitEdge) {
	for _, ea := range a {
		boxA := Rect{Min: ea.p0, Max: ea.p0}.extend(ea.p1)
		for _, eb := range b {
			boxB := Rect{Min: eb.p0, Max: eb.p0}.extend(eb.p1)
			if boxA.Max.X < boxB.Min.X || boxB.Max.X < boxA.Min.X ||
				boxA.Max.Y < boxB.Min.Y || boxB.Max.Y < boxA.Min.Y {
				continue
			}
			intersectEdges(ea, eb)
		}
	}
}

func intersectEdges(ea, eb *splitEdge) {
	d1 := ea.p1.Sub(ea.p0)
	d2 := eb.p1.Sub(eb.p0)
	denom := d1.Cross(d2)
	w := eb.p0.Sub(ea.p0)
	scale := d1.Length() * d2.Length()
	if scale == 0 {
		return
	}

	if math.Abs(denom) <= splitEps*scale {
		// Parallel: only collinear overlaps matter.
		if math.Abs(w.Cross(d1)) > splitEps*d1.Length()*math.Max(1, w.Length()) {
			return
		}
		ea.addSplitAt(eb.p0)
		ea.addSplitAt(eb.p1)
		eb.addSplitAt(ea.p0)
		eb.addSplitAt(ea.p1)
		return
	}

	t := w.Cross(d2) / denom
	u := w.Cross(d1) / denom
	const eps = 1e-9
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return
	}
	var pt Point
	switch {
	case t <= eps:
		pt = ea.p0
	case t >= 1-eps:
		pt = ea.p1
	case u <= eps:
		pt = eb.p0
	case u >= 1-eps:
		pt = eb.p1
	default:
		pt = ea.p0.Add(d1.Mul(t))
	}
	if t > eps && t < 1-eps {
		ea.splits = append(ea.splits, edgeSplit{t: t, pt: pt})
	}
	if u > eps && u < 1-eps {
		eb.splits = append(eb.splits, edgeSplit{t: u, pt: pt})
	}
}

// addSplitAt splits e at pt when pt lies strictly inside e.
func (e *splitEdge) addSplitAt(pt Point) {
	d := e.p1.Sub(e.p0)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return
	}
	t := pt.Sub(e.p0).Dot(d) / lenSq
	if t > splitEps && t < 1-splitEps {
		e.splits = append(e.splits, edgeSplit{t: t, pt: pt})
	}
}

// subEdges cuts every edge at its recorded splits.
func subEdges(edges []*splitEdge) [][2]Point {
	var out [][2]Point
	for _, e := range edges {
		sort.Slice(e.splits, func(i, j int) bool { return e.splits[i].t < e.splits[j].t })
		prev := e.p0
		for _, s := range e.splits {
			if s.pt != prev {
				out = append(out, [2]Point{prev, s.pt})
				prev = s.pt
			}
		}
		if e.p1 != prev {
			out = append(out, [2]Point{prev, e.p1})
		}
	}
	return out
}

// linkRings chains directed edges into closed rings by matching end points
// exactly. A chain that cannot be continued is closed where it stopped.
func linkRings(edges [][2]Point) [][]Point {
	byStart := make(map[Point][]int, len(edges))
	for i, e := range edges {
		byStart[e[0]] = append(byStart[e[0]], i)
	}
	used := make([]bool, len(edges))
	next := func(from Point) int {
		list := byStart[from]
		for k, idx := range list {
			if !used[idx] {
				byStart[from] = list[k+1:]
				return idx
			}
		}
		return -1
	}

	var rings [][]Point
	for i := range edges {
		if used[i] {
			continue
		}
		used[i] = true
		start := edges[i][0]
		ring := []Point{start}
		cur := edges[i][1]
		for cur != start {
			ring = append(ring, cur)
			j := next(cur)
			if j < 0 {
				break
			}
			used[j] = true
			cur = edges[j][1]
		}
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings
}

func polygonsPath(polys [][]Point) *Path {
	p := NewPath()
	for _, poly := range polys {
		if len(poly) < 2 {
			continue
		}
		p.MoveTo(poly[0].X, poly[0].Y)
		for _, pt := range poly[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		p.Close()
	}
	return p
}
