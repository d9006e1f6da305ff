package parse

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

type rawItem struct {
	Type   string   `json:"ty"`
	Name   string   `json:"nm"`
	Hidden flexBool `json:"hd"`
}

type rawGroup struct {
	Items []json.RawMessage `json:"it"`
}

type rawPath struct {
	Shape     *rawProp `json:"ks"`
	Direction flexInt  `json:"d"`
}

type rawRect struct {
	Position  *rawProp `json:"p"`
	Size      *rawProp `json:"s"`
	Roundness *rawProp `json:"r"`
	Direction flexInt  `json:"d"`
}

type rawEllipse struct {
	Position  *rawProp `json:"p"`
	Size      *rawProp `json:"s"`
	Direction flexInt  `json:"d"`
}

type rawStar struct {
	Kind           flexInt  `json:"sy"`
	Points         *rawProp `json:"pt"`
	Position       *rawProp `json:"p"`
	Rotation       *rawProp `json:"r"`
	OuterRadius    *rawProp `json:"or"`
	OuterRoundness *rawProp `json:"os"`
	InnerRadius    *rawProp `json:"ir"`
	InnerRoundness *rawProp `json:"is"`
	Direction      flexInt  `json:"d"`
}

type rawFill struct {
	Color   *rawProp `json:"c"`
	Opacity *rawProp `json:"o"`
	Rule    flexInt  `json:"r"`
}

type rawDash struct {
	Name  string   `json:"n"`
	Value *rawProp `json:"v"`
}

type rawStrokeStyle struct {
	Width      *rawProp  `json:"w"`
	Cap        flexInt   `json:"lc"`
	Join       flexInt   `json:"lj"`
	MiterLimit float64   `json:"ml"`
	Dashes     []rawDash `json:"d"`
}

type rawStroke struct {
	rawStrokeStyle
	Color   *rawProp `json:"c"`
	Opacity *rawProp `json:"o"`
}

type rawGradientColors struct {
	Stops flexInt  `json:"p"`
	K     *rawProp `json:"k"`
}

type rawGradient struct {
	Type      flexInt            `json:"t"`
	Colors    *rawGradientColors `json:"g"`
	Start     *rawProp           `json:"s"`
	End       *rawProp           `json:"e"`
	Opacity   *rawProp           `json:"o"`
	Highlight *rawProp           `json:"h"`
	Angle     *rawProp           `json:"a"`
}

type rawGradientFill struct {
	rawGradient
	Rule flexInt `json:"r"`
}

type rawGradientStroke struct {
	rawGradient
	rawStrokeStyle
}

type rawTrim struct {
	Start  *rawProp `json:"s"`
	End    *rawProp `json:"e"`
	Offset *rawProp `json:"o"`
	Mode   flexInt  `json:"m"`
}

type rawRepeater struct {
	Copies    *rawProp      `json:"c"`
	Offset    *rawProp      `json:"o"`
	Transform *rawTransform `json:"tr"`
}

type rawMerge struct {
	Mode flexInt `json:"mm"`
}

// contents decodes a shape item list. Unknown items are skipped with a
// warning.
func (d *decoder) contents(path string, raws []json.RawMessage) ([]model.Content, error) {
	items := make([]model.Content, 0, len(raws))
	for i, raw := range raws {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		c, err := d.content(ipath, raw)
		if err != nil {
			return nil, err
		}
		if c != nil {
			items = append(items, c)
		}
	}
	return items, nil
}

func (d *decoder) content(path string, raw json.RawMessage) (model.Content, error) {
	var it rawItem
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, malformed(path, err)
	}
	base := model.Base{Name: it.Name, Hidden: bool(it.Hidden)}
	decode := func(v any) error {
		if err := json.Unmarshal(raw, v); err != nil {
			return malformed(path, err)
		}
		return nil
	}

	switch it.Type {
	case "gr":
		var rg rawGroup
		if err := decode(&rg); err != nil {
			return nil, err
		}
		return d.group(path, base, &rg)
	case "sh":
		var rp rawPath
		if err := decode(&rp); err != nil {
			return nil, err
		}
		shape, err := shapeProp(d, path+".ks", rp.Shape)
		if err != nil {
			return nil, err
		}
		if rp.Direction == 3 {
			shape = reverseShape(shape)
		}
		return &model.ShapePath{Base: base, Shape: shape}, nil
	case "rc":
		var rr rawRect
		if err := decode(&rr); err != nil {
			return nil, err
		}
		return d.rect(path, base, &rr)
	case "el":
		var re rawEllipse
		if err := decode(&re); err != nil {
			return nil, err
		}
		e := &model.Ellipse{Base: base, Reversed: re.Direction == 3}
		var err error
		if e.Position, err = pointProp(d, path+".p", re.Position); err != nil {
			return nil, err
		}
		if e.Size, err = vectorProp(d, path+".s", re.Size, motion.Point{}); err != nil {
			return nil, err
		}
		return e, nil
	case "sr":
		var rs rawStar
		if err := decode(&rs); err != nil {
			return nil, err
		}
		return d.star(path, base, &rs)
	case "fl":
		var rf rawFill
		if err := decode(&rf); err != nil {
			return nil, err
		}
		f := &model.Fill{Base: base, Rule: fillRule(rf.Rule)}
		var err error
		if f.Color, err = colorProp(d, path+".c", rf.Color); err != nil {
			return nil, err
		}
		if f.Opacity, err = floatProp(d, path+".o", rf.Opacity, 100); err != nil {
			return nil, err
		}
		return f, nil
	case "st":
		var rs rawStroke
		if err := decode(&rs); err != nil {
			return nil, err
		}
		s := &model.Stroke{Base: base}
		var err error
		if s.StrokeStyle, err = d.strokeStyle(path, &rs.rawStrokeStyle); err != nil {
			return nil, err
		}
		if s.Color, err = colorProp(d, path+".c", rs.Color); err != nil {
			return nil, err
		}
		if s.Opacity, err = floatProp(d, path+".o", rs.Opacity, 100); err != nil {
			return nil, err
		}
		return s, nil
	case "gf":
		var rg rawGradientFill
		if err := decode(&rg); err != nil {
			return nil, err
		}
		g := &model.GradientFill{Base: base, Rule: fillRule(rg.Rule)}
		var err error
		if g.GradientPaint, err = d.gradient(path, &rg.rawGradient); err != nil {
			return nil, err
		}
		return g, nil
	case "gs":
		var rg rawGradientStroke
		if err := decode(&rg); err != nil {
			return nil, err
		}
		g := &model.GradientStroke{Base: base}
		var err error
		if g.GradientPaint, err = d.gradient(path, &rg.rawGradient); err != nil {
			return nil, err
		}
		if g.StrokeStyle, err = d.strokeStyle(path, &rg.rawStrokeStyle); err != nil {
			return nil, err
		}
		return g, nil
	case "tm":
		var rt rawTrim
		if err := decode(&rt); err != nil {
			return nil, err
		}
		t := &model.TrimPath{Base: base, Mode: model.TrimSimultaneously}
		if rt.Mode == 2 {
			t.Mode = model.TrimIndividually
		}
		var err error
		if t.Start, err = floatProp(d, path+".s", rt.Start, 0); err != nil {
			return nil, err
		}
		if t.End, err = floatProp(d, path+".e", rt.End, 100); err != nil {
			return nil, err
		}
		if t.Offset, err = floatProp(d, path+".o", rt.Offset, 0); err != nil {
			return nil, err
		}
		return t, nil
	case "rp":
		var rr rawRepeater
		if err := decode(&rr); err != nil {
			return nil, err
		}
		r := &model.Repeater{Base: base}
		var err error
		if r.Copies, err = floatProp(d, path+".c", rr.Copies, 1); err != nil {
			return nil, err
		}
		if r.Offset, err = floatProp(d, path+".o", rr.Offset, 0); err != nil {
			return nil, err
		}
		if r.Transform, err = d.transform(path+".tr", rr.Transform, false); err != nil {
			return nil, err
		}
		return r, nil
	case "mm":
		var rm rawMerge
		if err := decode(&rm); err != nil {
			return nil, err
		}
		mode := model.MergeMode(rm.Mode)
		if rm.Mode == 0 {
			mode = model.MergeMerge
		}
		if mode < model.MergeMerge || mode > model.MergeExcludeIntersections {
			d.warn(model.UnsupportedFeature, "%s: merge mode %d treated as merge", path, int(rm.Mode))
			mode = model.MergeMerge
		}
		return &model.MergePaths{Base: base, Mode: mode}, nil
	case "tr":
		var rt rawTransform
		if err := decode(&rt); err != nil {
			return nil, err
		}
		t, err := d.transform(path, &rt, false)
		if err != nil {
			return nil, err
		}
		return &groupTransform{Transform: t}, nil
	}
	d.warn(model.UnsupportedFeature, "%s: shape item %q is not supported", path, it.Type)
	return nil, nil
}

// groupTransform carries a "tr" item until its group picks it up.
type groupTransform struct {
	model.Base
	Transform model.Transform
}

// withoutTransforms drops stray transform items outside of groups.
func withoutTransforms(items []model.Content) []model.Content {
	out := items[:0]
	for _, it := range items {
		if _, ok := it.(*groupTransform); !ok {
			out = append(out, it)
		}
	}
	return out
}

func (d *decoder) group(path string, base model.Base, rg *rawGroup) (*model.ShapeGroup, error) {
	items, err := d.contents(path+".it", rg.Items)
	if err != nil {
		return nil, err
	}
	g := &model.ShapeGroup{Base: base}
	for _, it := range items {
		if tr, ok := it.(*groupTransform); ok {
			t := tr.Transform
			g.Transform = &t
		}
	}
	g.Items = withoutTransforms(items)
	return g, nil
}

func (d *decoder) rect(path string, base model.Base, rr *rawRect) (*model.Rectangle, error) {
	r := &model.Rectangle{Base: base, Reversed: rr.Direction == 3}
	var err error
	if r.Position, err = pointProp(d, path+".p", rr.Position); err != nil {
		return nil, err
	}
	if r.Size, err = vectorProp(d, path+".s", rr.Size, motion.Point{}); err != nil {
		return nil, err
	}
	if r.Roundness, err = floatProp(d, path+".r", rr.Roundness, 0); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *decoder) star(path string, base model.Base, rs *rawStar) (model.Content, error) {
	kind := model.PolyStarKind(rs.Kind)
	if kind != model.Star && kind != model.Polygon {
		d.warn(model.UnsupportedFeature, "%s: polystar type %d is not supported", path, int(rs.Kind))
		return nil, nil
	}
	s := &model.PolyStar{Base: base, Kind: kind, Reversed: rs.Direction == 3}
	var err error
	if s.Points, err = floatProp(d, path+".pt", rs.Points, 5); err != nil {
		return nil, err
	}
	if s.Position, err = pointProp(d, path+".p", rs.Position); err != nil {
		return nil, err
	}
	if s.Rotation, err = floatProp(d, path+".r", rs.Rotation, 0); err != nil {
		return nil, err
	}
	if s.OuterRadius, err = floatProp(d, path+".or", rs.OuterRadius, 0); err != nil {
		return nil, err
	}
	if s.OuterRoundness, err = floatProp(d, path+".os", rs.OuterRoundness, 0); err != nil {
		return nil, err
	}
	if kind == model.Star {
		if s.InnerRadius, err = optional(d, path+".ir", rs.InnerRadius, floatValue); err != nil {
			return nil, err
		}
		if s.InnerRoundness, err = optional(d, path+".is", rs.InnerRoundness, floatValue); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (d *decoder) strokeStyle(path string, rs *rawStrokeStyle) (model.StrokeStyle, error) {
	s := model.StrokeStyle{MiterLimit: rs.MiterLimit}
	if s.MiterLimit <= 0 {
		s.MiterLimit = 4
	}
	switch rs.Cap {
	case 2:
		s.Cap = model.CapRound
	case 3:
		s.Cap = model.CapSquare
	default:
		s.Cap = model.CapButt
	}
	switch rs.Join {
	case 2:
		s.Join = model.JoinRound
	case 3:
		s.Join = model.JoinBevel
	default:
		s.Join = model.JoinMiter
	}
	var err error
	if s.Width, err = floatProp(d, path+".w", rs.Width, 1); err != nil {
		return s, err
	}
	for i, rd := range rs.Dashes {
		dpath := fmt.Sprintf("%s.d[%d]", path, i)
		e := model.DashEntry{}
		switch rd.Name {
		case "d", "n":
			e.Kind = model.DashLength
		case "g":
			e.Kind = model.DashGap
		case "o":
			e.Kind = model.DashOffset
		default:
			d.warn(model.UnsupportedFeature, "%s: dash entry %q is ignored", dpath, rd.Name)
			continue
		}
		if e.Value, err = floatProp(d, dpath+".v", rd.Value, 0); err != nil {
			return s, err
		}
		s.Dashes = append(s.Dashes, e)
	}
	return s, nil
}

func (d *decoder) gradient(path string, rg *rawGradient) (model.GradientPaint, error) {
	g := model.GradientPaint{Type: model.GradientLinear}
	if rg.Type == 2 {
		g.Type = model.GradientRadial
	}
	if rg.Colors == nil {
		return g, missing(path + ".g")
	}
	var err error
	g.Colors, err = animatable(d, path+".g.k", rg.Colors.K, model.GradientColor{},
		gradientValue(d, path+".g", int(rg.Colors.Stops)))
	if err != nil {
		return g, err
	}
	if g.Start, err = pointProp(d, path+".s", rg.Start); err != nil {
		return g, err
	}
	if g.End, err = pointProp(d, path+".e", rg.End); err != nil {
		return g, err
	}
	if g.Opacity, err = floatProp(d, path+".o", rg.Opacity, 100); err != nil {
		return g, err
	}
	if g.Type == model.GradientRadial {
		if g.HighlightLength, err = optional(d, path+".h", rg.Highlight, floatValue); err != nil {
			return g, err
		}
		if g.HighlightAngle, err = optional(d, path+".a", rg.Angle, floatValue); err != nil {
			return g, err
		}
	}
	return g, nil
}

func fillRule(r flexInt) motion.FillRule {
	if r == 2 {
		return motion.FillEvenOdd
	}
	return motion.FillNonZero
}

// reverseShape flips the direction of every value of a path.
func reverseShape(a model.Animatable[model.ShapeData]) model.Animatable[model.ShapeData] {
	a.Value = a.Value.Reversed()
	if len(a.Keyframes) > 0 {
		kfs := make([]model.Keyframe[model.ShapeData], len(a.Keyframes))
		for i, k := range a.Keyframes {
			k.StartValue = k.StartValue.Reversed()
			k.EndValue = k.EndValue.Reversed()
			kfs[i] = k
		}
		a.Keyframes = kfs
	}
	return a
}
