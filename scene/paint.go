package scene

import (
	"math"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

// percent converts a percentage to a fraction clamped to [0, 1].
func percent(v float64) float64 {
	return max(0, min(1, v/100))
}

// fillContent fills the paths before it with a solid color.
type fillContent struct {
	name    string
	color   *timeline.Timeline[motion.RGBA]
	opacity *timeline.Timeline[float64]
	rule    motion.FillRule
	paths   []pathContent
}

func (b *builder) fill(m *model.Fill) *fillContent {
	return &fillContent{
		name:    m.Name,
		color:   timeline.Color(b.comp, m.Color),
		opacity: timeline.Float(b.comp, m.Opacity),
		rule:    m.Rule,
	}
}

func (f *fillContent) setProgress(p float64) bool {
	a := f.color.SetProgress(p)
	b := f.opacity.SetProgress(p)
	return a || b
}

func (f *fillContent) link(_, preceding []content) {
	f.paths = painted(preceding)
}

func (f *fillContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	alpha *= percent(f.opacity.Value())
	if alpha <= 0 || len(f.paths) == 0 {
		return
	}
	p := combinedPath(f.paths, m)
	if p.IsEmpty() {
		return
	}
	dst.FillPath(p, Paint{Color: f.color.Value(), Alpha: alpha, Rule: f.rule})
}

func (f *fillContent) bounds(m motion.Matrix) motion.Rect {
	return combinedPath(f.paths, m).BoundingBox()
}

// pathGroup is a set of stroked paths sharing one individual trim.
type pathGroup struct {
	trim  *trimContent
	paths []pathContent
}

type dashEntry struct {
	kind  model.DashKind
	value *timeline.Timeline[float64]
}

// strokeStyle holds what solid and gradient strokes share.
type strokeStyle struct {
	width      *timeline.Timeline[float64]
	cap        model.LineCap
	join       model.LineJoin
	miterLimit float64
	dashes     []dashEntry
	groups     []pathGroup
}

func (b *builder) strokeStyle(s *model.StrokeStyle) strokeStyle {
	st := strokeStyle{
		width:      timeline.Float(b.comp, s.Width),
		cap:        s.Cap,
		join:       s.Join,
		miterLimit: s.MiterLimit,
	}
	for _, d := range s.Dashes {
		st.dashes = append(st.dashes, dashEntry{kind: d.Kind, value: timeline.Float(b.comp, d.Value)})
	}
	return st
}

func (s *strokeStyle) setProgress(p float64) bool {
	changed := s.width.SetProgress(p)
	for _, d := range s.dashes {
		if d.value.SetProgress(p) {
			changed = true
		}
	}
	return changed
}

// link groups the painted paths by the individual trims that apply to
// them. A trim before the stroke starts a new group for the paths before
// it; paths after the last such trim use the nearest individual trim
// after the stroke, if any.
func (s *strokeStyle) link(following, preceding []content) {
	var after *trimContent
	for i := len(following) - 1; i >= 0; i-- {
		if t, ok := following[i].(*trimContent); ok && t.mode == model.TrimIndividually {
			after = t
			break
		}
	}
	s.groups = s.groups[:0]
	current := pathGroup{trim: after}
	for i := len(preceding) - 1; i >= 0; i-- {
		switch c := preceding[i].(type) {
		case *trimContent:
			if c.mode != model.TrimIndividually {
				continue
			}
			if len(current.paths) > 0 {
				s.groups = append(s.groups, current)
			}
			current = pathGroup{trim: c}
		case pathContent:
			current.paths = append(current.paths, c)
		}
	}
	if len(current.paths) > 0 {
		s.groups = append(s.groups, current)
	}
}

// stroke returns the device-space outline parameters under m, or false
// when nothing would be drawn.
func (s *strokeStyle) stroke(m motion.Matrix) (Stroke, bool) {
	scale := m.ScaleFactor()
	w := s.width.Value() * scale
	if w <= 0 {
		return Stroke{}, false
	}
	return Stroke{
		Width:      w,
		Cap:        s.cap,
		Join:       s.join,
		MiterLimit: s.miterLimit,
		Dash:       s.dash().Scale(scale),
	}, true
}

func (s *strokeStyle) dash() *motion.Dash {
	if len(s.dashes) == 0 {
		return nil
	}
	var lengths []float64
	var offset float64
	for _, d := range s.dashes {
		if d.kind == model.DashOffset {
			offset = d.value.Value()
			continue
		}
		lengths = append(lengths, d.value.Value())
	}
	dash := motion.NewDash(lengths...)
	if dash != nil {
		dash.Offset = offset
	}
	return dash
}

// paths returns the device-space path of every group, trimmed over the
// group's combined length.
func (s *strokeStyle) paths(m motion.Matrix) []*motion.Path {
	out := make([]*motion.Path, 0, len(s.groups))
	for _, g := range s.groups {
		p := motion.NewPath()
		// Nearest first, the order the group was collected in, is the
		// reverse of document order.
		for i := len(g.paths) - 1; i >= 0; i-- {
			p.AddPathTransformed(g.paths[i].path(), m)
		}
		if g.trim != nil {
			p = g.trim.apply(p)
		}
		if !p.IsEmpty() {
			out = append(out, p)
		}
	}
	return out
}

func (s *strokeStyle) bounds(m motion.Matrix) motion.Rect {
	var r motion.Rect
	for _, g := range s.groups {
		for _, pc := range g.paths {
			p := pc.path().Transform(m)
			if p.IsEmpty() {
				continue
			}
			r = r.Union(outset(p.BoundingBox(), s.width.Value()*m.ScaleFactor()/2))
		}
	}
	return r
}

// outset grows r by d on every side.
func outset(r motion.Rect, d float64) motion.Rect {
	return motion.Rect{
		Min: motion.Pt(r.Min.X-d, r.Min.Y-d),
		Max: motion.Pt(r.Max.X+d, r.Max.Y+d),
	}
}

// strokeContent outlines the paths before it with a solid color.
type strokeContent struct {
	strokeStyle
	name    string
	color   *timeline.Timeline[motion.RGBA]
	opacity *timeline.Timeline[float64]
}

func (b *builder) stroke(m *model.Stroke) *strokeContent {
	return &strokeContent{
		strokeStyle: b.strokeStyle(&m.StrokeStyle),
		name:        m.Name,
		color:       timeline.Color(b.comp, m.Color),
		opacity:     timeline.Float(b.comp, m.Opacity),
	}
}

func (s *strokeContent) setProgress(p float64) bool {
	a := s.strokeStyle.setProgress(p)
	b := s.color.SetProgress(p)
	c := s.opacity.SetProgress(p)
	return a || b || c
}

func (s *strokeContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	alpha *= percent(s.opacity.Value())
	if alpha <= 0 {
		return
	}
	st, ok := s.stroke(m)
	if !ok {
		return
	}
	paint := Paint{Color: s.color.Value(), Alpha: alpha}
	for _, p := range s.paths(m) {
		dst.StrokePath(p, paint, st)
	}
}

// gradientPaint evaluates a gradient and caches its shader per progress
// bucket.
type gradientPaint struct {
	typ             model.GradientType
	colors          *timeline.Timeline[model.GradientColor]
	start, end      *timeline.Timeline[motion.Point]
	opacity         *timeline.Timeline[float64]
	highlightLength *timeline.Timeline[float64]
	highlightAngle  *timeline.Timeline[float64]

	steps    int
	progress float64
	bucket   int
	shader   *Gradient
}

func (b *builder) gradientPaint(g *model.GradientPaint) gradientPaint {
	return gradientPaint{
		typ:             g.Type,
		colors:          timeline.Gradient(b.comp, g.Colors),
		start:           timeline.Point(b.comp, g.Start),
		end:             timeline.Point(b.comp, g.End),
		opacity:         timeline.Float(b.comp, g.Opacity),
		highlightLength: timeline.OptionalFloat(b.comp, g.HighlightLength),
		highlightAngle:  timeline.OptionalFloat(b.comp, g.HighlightAngle),
		steps:           b.steps,
	}
}

func (g *gradientPaint) setProgress(p float64) bool {
	g.progress = p
	changed := false
	for _, tl := range []interface{ SetProgress(float64) bool }{g.colors, g.start, g.end, g.opacity} {
		if tl.SetProgress(p) {
			changed = true
		}
	}
	for _, tl := range []*timeline.Timeline[float64]{g.highlightLength, g.highlightAngle} {
		if tl != nil && tl.SetProgress(p) {
			changed = true
		}
	}
	return changed
}

// overridden reports whether a value callback feeds the shader, which
// makes the cached shader unreliable.
func (g *gradientPaint) overridden() bool {
	return g.colors.HasCallback() || g.start.HasCallback() || g.end.HasCallback() ||
		(g.highlightLength != nil && g.highlightLength.HasCallback()) ||
		(g.highlightAngle != nil && g.highlightAngle.HasCallback())
}

// gradient returns the shader for the current progress. Progress values in
// the same bucket share one shader.
func (g *gradientPaint) gradient() *Gradient {
	bucket := int(math.Round(g.progress * float64(g.steps)))
	if g.shader != nil && bucket == g.bucket && !g.overridden() {
		return g.shader
	}
	g.shader = g.build()
	g.bucket = bucket
	return g.shader
}

func (g *gradientPaint) build() *Gradient {
	start, end := g.start.Value(), g.end.Value()
	out := &Gradient{
		Type:  g.typ,
		Start: start,
		End:   end,
		Stops: g.colors.Value(),
	}
	if g.typ != model.GradientRadial {
		return out
	}
	r := math.Hypot(end.X-start.X, end.Y-start.Y)
	if r <= 0 {
		r = 0.001
	}
	out.Radius = r
	out.Focal = start
	if g.highlightLength != nil {
		h := max(-0.99, min(0.99, g.highlightLength.Value()/100))
		angle := math.Atan2(end.Y-start.Y, end.X-start.X)
		if g.highlightAngle != nil {
			angle += g.highlightAngle.Value() * math.Pi / 180
		}
		out.Focal = motion.Pt(start.X+math.Cos(angle)*r*h, start.Y+math.Sin(angle)*r*h)
	}
	return out
}

func (g *gradientPaint) paint(m motion.Matrix, alpha float64) Paint {
	return Paint{Gradient: g.gradient(), GradientTransform: m, Alpha: alpha * percent(g.opacity.Value())}
}

func (g *gradientPaint) property(p Property) any {
	switch p {
	case PropGradientColor:
		return g.colors
	case PropGradientStart:
		return g.start
	case PropGradientEnd:
		return g.end
	case PropOpacity:
		return g.opacity
	case PropGradientHighlightLength:
		return timelineOf(g.highlightLength)
	case PropGradientHighlightAngle:
		return timelineOf(g.highlightAngle)
	}
	return nil
}

// gradientFillContent fills the paths before it with a gradient.
type gradientFillContent struct {
	gradientPaint
	name  string
	rule  motion.FillRule
	paths []pathContent
}

func (b *builder) gradientFill(m *model.GradientFill) *gradientFillContent {
	return &gradientFillContent{
		gradientPaint: b.gradientPaint(&m.GradientPaint),
		name:          m.Name,
		rule:          m.Rule,
	}
}

func (f *gradientFillContent) link(_, preceding []content) {
	f.paths = painted(preceding)
}

func (f *gradientFillContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	if len(f.paths) == 0 {
		return
	}
	paint := f.paint(m, alpha)
	if paint.Alpha <= 0 {
		return
	}
	p := combinedPath(f.paths, m)
	if p.IsEmpty() {
		return
	}
	paint.Rule = f.rule
	dst.FillPath(p, paint)
}

func (f *gradientFillContent) bounds(m motion.Matrix) motion.Rect {
	return combinedPath(f.paths, m).BoundingBox()
}

// gradientStrokeContent outlines the paths before it with a gradient.
type gradientStrokeContent struct {
	gradientPaint
	strokeStyle
	name string
}

func (b *builder) gradientStroke(m *model.GradientStroke) *gradientStrokeContent {
	return &gradientStrokeContent{
		gradientPaint: b.gradientPaint(&m.GradientPaint),
		strokeStyle:   b.strokeStyle(&m.StrokeStyle),
		name:          m.Name,
	}
}

func (s *gradientStrokeContent) setProgress(p float64) bool {
	a := s.gradientPaint.setProgress(p)
	b := s.strokeStyle.setProgress(p)
	return a || b
}

func (s *gradientStrokeContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	paint := s.paint(m, alpha)
	if paint.Alpha <= 0 {
		return
	}
	st, ok := s.stroke(m)
	if !ok {
		return
	}
	for _, p := range s.paths(m) {
		dst.StrokePath(p, paint, st)
	}
}

func (s *gradientStrokeContent) bounds(m motion.Matrix) motion.Rect {
	return s.strokeStyle.bounds(m)
}

func (s *gradientStrokeContent) property(p Property) any {
	if p == PropStrokeWidth {
		return s.width
	}
	return s.gradientPaint.property(p)
}
