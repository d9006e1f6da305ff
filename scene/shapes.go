package scene

import (
	"math"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

// ellipseKappa is the control point distance, as a fraction of the radius,
// of a cubic quarter ellipse.
const ellipseKappa = 0.55228

// Roundness factors of polystar corners.
const (
	starRoundness    = 0.47829
	polygonRoundness = 0.25
)

// shapeBase holds what path items share: the simultaneous trims after them
// and their cached geometry.
type shapeBase struct {
	name  string
	trims []*trimContent
	cache pathCache
}

func (b *builder) shapeBase(name string) shapeBase {
	return shapeBase{name: name, cache: pathCache{gen: &b.scene.gen}}
}

func (s *shapeBase) keyName() string        { return s.name }
func (s *shapeBase) keyChildren() []element { return nil }

func (s *shapeBase) link(following, _ []content) {
	s.trims = s.trims[:0]
	for _, c := range following {
		if t, ok := c.(*trimContent); ok && t.mode != model.TrimIndividually {
			s.trims = append(s.trims, t)
		}
	}
}

// cached returns the trimmed geometry for the current generation.
func (s *shapeBase) cached(build func() *motion.Path) *motion.Path {
	return s.cache.get(func() *motion.Path {
		p := build()
		for _, t := range s.trims {
			p = t.apply(p)
		}
		return p
	})
}

// shapePathContent is a free-form contour.
type shapePathContent struct {
	shapeBase
	shape *timeline.Timeline[model.ShapeData]
}

func (b *builder) shapePath(m *model.ShapePath) *shapePathContent {
	return &shapePathContent{
		shapeBase: b.shapeBase(m.Name),
		shape:     timeline.Shape(b.comp, m.Shape),
	}
}

func (c *shapePathContent) setProgress(p float64) bool {
	return c.shape.SetProgress(p)
}

func (c *shapePathContent) path() *motion.Path {
	return c.cached(func() *motion.Path { return c.shape.Value().Path() })
}

func (c *shapePathContent) property(p Property) any {
	if p == PropShape {
		return c.shape
	}
	return nil
}

// rectContent is a rectangle with optionally rounded corners.
type rectContent struct {
	shapeBase
	position  *timeline.Timeline[motion.Point]
	size      *timeline.Timeline[motion.Point]
	roundness *timeline.Timeline[float64]
	reversed  bool
}

func (b *builder) rect(m *model.Rectangle) *rectContent {
	return &rectContent{
		shapeBase: b.shapeBase(m.Name),
		position:  timeline.Point(b.comp, m.Position),
		size:      timeline.Vector(b.comp, m.Size),
		roundness: timeline.Float(b.comp, m.Roundness),
		reversed:  m.Reversed,
	}
}

func (c *rectContent) setProgress(p float64) bool {
	a := c.position.SetProgress(p)
	b := c.size.SetProgress(p)
	r := c.roundness.SetProgress(p)
	return a || b || r
}

func (c *rectContent) path() *motion.Path {
	return c.cached(c.build)
}

// build traces the rectangle clockwise from the top of its right edge.
func (c *rectContent) build() *motion.Path {
	pos, size := c.position.Value(), c.size.Value()
	hw, hh := size.X/2, size.Y/2
	r := max(0, min(c.roundness.Value(), hw, hh))
	x, y := pos.X, pos.Y

	p := motion.NewPath()
	p.MoveTo(x+hw, y-hh+r)
	p.LineTo(x+hw, y+hh-r)
	if r > 0 {
		p.ArcTo(motion.XYWH(x+hw-2*r, y+hh-2*r, 2*r, 2*r), 0, 90)
	}
	p.LineTo(x-hw+r, y+hh)
	if r > 0 {
		p.ArcTo(motion.XYWH(x-hw, y+hh-2*r, 2*r, 2*r), 90, 90)
	}
	p.LineTo(x-hw, y-hh+r)
	if r > 0 {
		p.ArcTo(motion.XYWH(x-hw, y-hh, 2*r, 2*r), 180, 90)
	}
	p.LineTo(x+hw-r, y-hh)
	if r > 0 {
		p.ArcTo(motion.XYWH(x+hw-2*r, y-hh, 2*r, 2*r), 270, 90)
	}
	p.Close()
	if c.reversed {
		return p.Reversed()
	}
	return p
}

func (c *rectContent) property(p Property) any {
	switch p {
	case PropPosition:
		return c.position
	case PropSize:
		return c.size
	case PropRoundness:
		return c.roundness
	}
	return nil
}

// ellipseContent is an ellipse drawn as four cubic quarters.
type ellipseContent struct {
	shapeBase
	position *timeline.Timeline[motion.Point]
	size     *timeline.Timeline[motion.Point]
	reversed bool
}

func (b *builder) ellipse(m *model.Ellipse) *ellipseContent {
	return &ellipseContent{
		shapeBase: b.shapeBase(m.Name),
		position:  timeline.Point(b.comp, m.Position),
		size:      timeline.Vector(b.comp, m.Size),
		reversed:  m.Reversed,
	}
}

func (c *ellipseContent) setProgress(p float64) bool {
	a := c.position.SetProgress(p)
	b := c.size.SetProgress(p)
	return a || b
}

func (c *ellipseContent) path() *motion.Path {
	return c.cached(c.build)
}

// build starts at the top and runs clockwise, or counter-clockwise when
// reversed.
func (c *ellipseContent) build() *motion.Path {
	pos, size := c.position.Value(), c.size.Value()
	rx, ry := size.X/2, size.Y/2
	kx, ky := rx*ellipseKappa, ry*ellipseKappa
	x, y := pos.X, pos.Y

	p := motion.NewPath()
	p.MoveTo(x, y-ry)
	if c.reversed {
		p.CubicTo(x-kx, y-ry, x-rx, y-ky, x-rx, y)
		p.CubicTo(x-rx, y+ky, x-kx, y+ry, x, y+ry)
		p.CubicTo(x+kx, y+ry, x+rx, y+ky, x+rx, y)
		p.CubicTo(x+rx, y-ky, x+kx, y-ry, x, y-ry)
	} else {
		p.CubicTo(x+kx, y-ry, x+rx, y-ky, x+rx, y)
		p.CubicTo(x+rx, y+ky, x+kx, y+ry, x, y+ry)
		p.CubicTo(x-kx, y+ry, x-rx, y+ky, x-rx, y)
		p.CubicTo(x-rx, y-ky, x-kx, y-ry, x, y-ry)
	}
	p.Close()
	return p
}

func (c *ellipseContent) property(p Property) any {
	switch p {
	case PropPosition:
		return c.position
	case PropSize:
		return c.size
	}
	return nil
}

// polystarContent is a star or a regular polygon.
type polystarContent struct {
	shapeBase
	kind           model.PolyStarKind
	points         *timeline.Timeline[float64]
	position       *timeline.Timeline[motion.Point]
	rotation       *timeline.Timeline[float64]
	outerRadius    *timeline.Timeline[float64]
	outerRoundness *timeline.Timeline[float64]
	innerRadius    *timeline.Timeline[float64]
	innerRoundness *timeline.Timeline[float64]
	reversed       bool
}

func (b *builder) polystar(m *model.PolyStar) *polystarContent {
	return &polystarContent{
		shapeBase:      b.shapeBase(m.Name),
		kind:           m.Kind,
		points:         timeline.Float(b.comp, m.Points),
		position:       timeline.Point(b.comp, m.Position),
		rotation:       timeline.Float(b.comp, m.Rotation),
		outerRadius:    timeline.Float(b.comp, m.OuterRadius),
		outerRoundness: timeline.Float(b.comp, m.OuterRoundness),
		innerRadius:    timeline.OptionalFloat(b.comp, m.InnerRadius),
		innerRoundness: timeline.OptionalFloat(b.comp, m.InnerRoundness),
		reversed:       m.Reversed,
	}
}

func (c *polystarContent) setProgress(p float64) bool {
	changed := false
	for _, tl := range []*timeline.Timeline[float64]{
		c.points, c.rotation, c.outerRadius, c.outerRoundness, c.innerRadius, c.innerRoundness,
	} {
		if tl != nil && tl.SetProgress(p) {
			changed = true
		}
	}
	if c.position.SetProgress(p) {
		changed = true
	}
	return changed
}

func (c *polystarContent) path() *motion.Path {
	return c.cached(func() *motion.Path {
		var p *motion.Path
		if c.kind == model.Polygon {
			p = c.polygon()
		} else {
			p = c.star()
		}
		pos := c.position.Value()
		return p.Transform(motion.Translate(pos.X, pos.Y))
	})
}

func valueOr(tl *timeline.Timeline[float64], def float64) float64 {
	if tl == nil {
		return def
	}
	return tl.Value()
}

// star alternates between the outer and the inner radius. A fractional
// point count adds a partial point that grows from the inner radius.
func (c *polystarContent) star() *motion.Path {
	points := c.points.Value()
	angle := (c.rotation.Value() - 90) * math.Pi / 180
	perPoint := 2 * math.Pi / points
	if c.reversed {
		perPoint = -perPoint
	}
	half := perPoint / 2
	partial := points - math.Floor(points)
	if partial != 0 {
		angle += half * (1 - partial)
	}
	outer := c.outerRadius.Value()
	inner := valueOr(c.innerRadius, 0)
	outerRound := c.outerRoundness.Value() / 100
	innerRound := valueOr(c.innerRoundness, 0) / 100

	p := motion.NewPath()
	if points <= 0 || math.IsInf(perPoint, 0) || math.IsNaN(perPoint) {
		return p
	}
	var partialRadius float64
	var x, y float64
	if partial != 0 {
		partialRadius = inner + partial*(outer-inner)
		x, y = partialRadius*math.Cos(angle), partialRadius*math.Sin(angle)
		angle += perPoint * partial / 2
	} else {
		x, y = outer*math.Cos(angle), outer*math.Sin(angle)
		angle += half
	}
	p.MoveTo(x, y)

	long := false
	n := int(math.Ceil(points)) * 2
	for i := 0; i < n; i++ {
		radius := inner
		if long {
			radius = outer
		}
		step := half
		if partialRadius != 0 && i == n-2 {
			step = perPoint * partial / 2
		}
		if partialRadius != 0 && i == n-1 {
			radius = partialRadius
		}
		px, py := x, y
		x, y = radius*math.Cos(angle), radius*math.Sin(angle)
		if innerRound == 0 && outerRound == 0 {
			p.LineTo(x, y)
		} else {
			r1, round1, r2, round2 := outer, outerRound, inner, innerRound
			if long {
				r1, round1, r2, round2 = inner, innerRound, outer, outerRound
			}
			t1 := math.Atan2(py, px) - math.Pi/2
			t2 := math.Atan2(y, x) - math.Pi/2
			c1x := r1 * round1 * starRoundness * math.Cos(t1)
			c1y := r1 * round1 * starRoundness * math.Sin(t1)
			c2x := r2 * round2 * starRoundness * math.Cos(t2)
			c2y := r2 * round2 * starRoundness * math.Sin(t2)
			if partial != 0 {
				if i == 0 {
					c1x, c1y = c1x*partial, c1y*partial
				} else if i == n-1 {
					c2x, c2y = c2x*partial, c2y*partial
				}
			}
			p.CubicTo(px-c1x, py-c1y, x+c2x, y+c2y, x, y)
		}
		angle += step
		long = !long
	}
	p.Close()
	return p
}

// polygon places floor(points) corners on the outer radius.
func (c *polystarContent) polygon() *motion.Path {
	points := math.Floor(c.points.Value())
	p := motion.NewPath()
	if points <= 0 {
		return p
	}
	angle := (c.rotation.Value() - 90) * math.Pi / 180
	perPoint := 2 * math.Pi / points
	if c.reversed {
		perPoint = -perPoint
	}
	round := c.outerRoundness.Value() / 100
	radius := c.outerRadius.Value()

	x, y := radius*math.Cos(angle), radius*math.Sin(angle)
	p.MoveTo(x, y)
	angle += perPoint
	for i := 0; i < int(points); i++ {
		px, py := x, y
		x, y = radius*math.Cos(angle), radius*math.Sin(angle)
		if round != 0 {
			t1 := math.Atan2(py, px) - math.Pi/2
			t2 := math.Atan2(y, x) - math.Pi/2
			k := radius * round * polygonRoundness
			p.CubicTo(px-k*math.Cos(t1), py-k*math.Sin(t1), x+k*math.Cos(t2), y+k*math.Sin(t2), x, y)
		} else {
			p.LineTo(x, y)
		}
		angle += perPoint
	}
	p.Close()
	return p
}

func (c *polystarContent) property(p Property) any {
	switch p {
	case PropPolystarPoints:
		return c.points
	case PropPosition:
		return c.position
	case PropPolystarRotation:
		return c.rotation
	case PropPolystarOuterRadius:
		return c.outerRadius
	case PropPolystarOuterRoundness:
		return c.outerRoundness
	case PropPolystarInnerRadius:
		return timelineOf(c.innerRadius)
	case PropPolystarInnerRoundness:
		return timelineOf(c.innerRoundness)
	}
	return nil
}
