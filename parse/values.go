package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// flexBool accepts true/false as well as 0/1.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*b = true
		return nil
	case "false", "null":
		*b = false
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*b = f != 0
	return nil
}

// flexInt accepts integers written as floats.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexInt(f)
	return nil
}

// flexString accepts strings and bare numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if string(data) == "null" {
		return nil
	}
	*s = flexString(data)
	return nil
}

// rawProp is an animatable property: {"a": 0|1, "k": value|keyframes}. A
// split position uses {"s": true, "x": prop, "y": prop}; any other "x" is
// an expression string.
type rawProp struct {
	K     json.RawMessage `json:"k"`
	X     json.RawMessage `json:"x"`
	Y     *rawProp        `json:"y"`
	Split flexBool        `json:"s"`
}

func (p *rawProp) expression() bool {
	if p == nil || p.Split {
		return false
	}
	x := bytes.TrimSpace(p.X)
	return len(x) > 2 && x[0] == '"'
}

type rawKeyframe struct {
	Time       float64         `json:"t"`
	Start      json.RawMessage `json:"s"`
	End        json.RawMessage `json:"e"`
	In         *rawEase        `json:"i"`
	Out        *rawEase        `json:"o"`
	Hold       flexBool        `json:"h"`
	TangentOut []float64       `json:"to"`
	TangentIn  []float64       `json:"ti"`
}

type rawEase struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
}

func (e *rawEase) point() (motion.Point, error) {
	x, err := firstNumber(e.X)
	if err != nil {
		return motion.Point{}, err
	}
	y, err := firstNumber(e.Y)
	if err != nil {
		return motion.Point{}, err
	}
	return motion.Pt(x, y), nil
}

// keyframeList reports whether k is a keyframe array and decodes it.
func keyframeList(k json.RawMessage) ([]rawKeyframe, bool, error) {
	k = bytes.TrimSpace(k)
	if len(k) == 0 || k[0] != '[' {
		return nil, false, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(k, &items); err != nil {
		return nil, false, err
	}
	if len(items) == 0 {
		return nil, false, nil
	}
	first := bytes.TrimSpace(items[0])
	if len(first) == 0 || first[0] != '{' {
		return nil, false, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(first, &probe); err != nil {
		return nil, false, err
	}
	if _, ok := probe["t"]; !ok {
		return nil, false, nil
	}
	kfs := make([]rawKeyframe, len(items))
	for i, it := range items {
		if err := json.Unmarshal(it, &kfs[i]); err != nil {
			return nil, false, err
		}
	}
	return kfs, true, nil
}

type valueFunc[T any] func(json.RawMessage) (T, error)

// animatable decodes p with value, returning def when p is absent.
func animatable[T any](d *decoder, path string, p *rawProp, def T, value valueFunc[T]) (model.Animatable[T], error) {
	return animatableWith(d, path, p, def, value, nil)
}

func animatableWith[T any](d *decoder, path string, p *rawProp, def T, value valueFunc[T],
	hook func(*model.Keyframe[T], *rawKeyframe)) (model.Animatable[T], error) {
	if p == nil {
		return model.Static(def), nil
	}
	expr := p.expression()
	if expr {
		d.warn(model.UnsupportedFeature, "%s: expression is not evaluated", path)
	}
	raws, animated, err := keyframeList(p.K)
	if err != nil {
		return model.Animatable[T]{}, malformed(path+".k", err)
	}
	if !animated {
		if len(bytes.TrimSpace(p.K)) == 0 {
			a := model.Static(def)
			a.Expression = expr
			return a, nil
		}
		v, err := value(p.K)
		if err != nil {
			return model.Animatable[T]{}, malformed(path+".k", err)
		}
		a := model.Static(v)
		a.Expression = expr
		return a, nil
	}

	kfs := make([]model.Keyframe[T], 0, len(raws))
	for i := range raws {
		rk := &raws[i]
		kpath := fmt.Sprintf("%s.k[%d]", path, i)
		kf := model.Keyframe[T]{StartFrame: rk.Time, Easing: model.Linear}
		switch {
		case len(rk.Start) > 0:
			if kf.StartValue, err = value(rk.Start); err != nil {
				return model.Animatable[T]{}, malformed(kpath+".s", err)
			}
		case len(kfs) > 0 && kfs[len(kfs)-1].HasEnd:
			kf.StartValue = kfs[len(kfs)-1].EndValue
		default:
			kf.StartValue = def
		}
		switch {
		case bool(rk.Hold):
			kf.EndValue = kf.StartValue
			kf.HasEnd = true
			kf.Easing = model.Hold
		case len(rk.End) > 0:
			if kf.EndValue, err = value(rk.End); err != nil {
				return model.Animatable[T]{}, malformed(kpath+".e", err)
			}
			kf.HasEnd = true
		}
		if !rk.Hold && rk.In != nil && rk.Out != nil {
			out, err := rk.Out.point()
			if err != nil {
				return model.Animatable[T]{}, malformed(kpath+".o", err)
			}
			in, err := rk.In.point()
			if err != nil {
				return model.Animatable[T]{}, malformed(kpath+".i", err)
			}
			kf.Easing = model.Bezier(out.X, out.Y, in.X, in.Y)
		}
		if hook != nil {
			hook(&kf, rk)
		}
		kfs = append(kfs, kf)
	}
	a := model.Animated(kfs)
	a.Expression = expr
	return a, nil
}

func optional[T any](d *decoder, path string, p *rawProp, value valueFunc[T]) (*model.Animatable[T], error) {
	if p == nil {
		return nil, nil
	}
	var zero T
	a, err := animatable(d, path, p, zero, value)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func floatProp(d *decoder, path string, p *rawProp, def float64) (model.Animatable[float64], error) {
	return animatable(d, path, p, def, floatValue)
}

func vectorProp(d *decoder, path string, p *rawProp, def motion.Point) (model.Animatable[motion.Point], error) {
	return animatable(d, path, p, def, pointValue)
}

// pointProp decodes a position whose keyframes may carry spatial tangents.
func pointProp(d *decoder, path string, p *rawProp) (model.Animatable[motion.Point], error) {
	return animatableWith(d, path, p, motion.Point{}, pointValue, func(k *model.Keyframe[motion.Point], rk *rawKeyframe) {
		if len(rk.TangentOut) < 2 || len(rk.TangentIn) < 2 {
			return
		}
		k.PathOut = motion.Pt(rk.TangentOut[0], rk.TangentOut[1])
		k.PathIn = motion.Pt(rk.TangentIn[0], rk.TangentIn[1])
		k.Spatial = !k.PathOut.IsZero() || !k.PathIn.IsZero()
	})
}

func colorProp(d *decoder, path string, p *rawProp) (model.Animatable[motion.RGBA], error) {
	return animatable(d, path, p, motion.Black, colorValue)
}

func shapeProp(d *decoder, path string, p *rawProp) (model.Animatable[model.ShapeData], error) {
	return animatable(d, path, p, model.ShapeData{}, shapeValue)
}

// numbers decodes a number or an array of numbers.
func numbers(raw json.RawMessage) ([]float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty value")
	}
	if raw[0] == '[' {
		var vs []float64
		if err := json.Unmarshal(raw, &vs); err != nil {
			return nil, err
		}
		return vs, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return []float64{v}, nil
}

func firstNumber(raw json.RawMessage) (float64, error) {
	vs, err := numbers(raw)
	if err != nil {
		return 0, err
	}
	if len(vs) == 0 {
		return 0, nil
	}
	return vs[0], nil
}

func floatValue(raw json.RawMessage) (float64, error) {
	return firstNumber(raw)
}

func pointValue(raw json.RawMessage) (motion.Point, error) {
	vs, err := numbers(raw)
	if err != nil {
		return motion.Point{}, err
	}
	switch len(vs) {
	case 0:
		return motion.Point{}, nil
	case 1:
		return motion.Pt(vs[0], vs[0]), nil
	}
	return motion.Pt(vs[0], vs[1]), nil
}

// colorValue decodes [r, g, b] or [r, g, b, a]. Components above 1 are
// taken to be on a 0..255 scale.
func colorValue(raw json.RawMessage) (motion.RGBA, error) {
	vs, err := numbers(raw)
	if err != nil {
		return motion.RGBA{}, err
	}
	return colorFromSlice(vs), nil
}

func colorFromSlice(vs []float64) motion.RGBA {
	for len(vs) < 3 {
		vs = append(vs, 0)
	}
	c := motion.RGBA{R: vs[0], G: vs[1], B: vs[2], A: 1}
	if c.R > 1 || c.G > 1 || c.B > 1 {
		c.R, c.G, c.B = c.R/255, c.G/255, c.B/255
	}
	if len(vs) > 3 {
		c.A = vs[3]
		if c.A > 1 {
			c.A /= 255
		}
	}
	return c
}

type rawShapeData struct {
	Vertices [][]float64 `json:"v"`
	In       [][]float64 `json:"i"`
	Out      [][]float64 `json:"o"`
	Closed   flexBool    `json:"c"`
}

// shapeValue decodes {"v","i","o","c"}; keyframes wrap it in an array.
func shapeValue(raw json.RawMessage) (model.ShapeData, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []rawShapeData
		if err := json.Unmarshal(raw, &list); err != nil {
			return model.ShapeData{}, err
		}
		if len(list) == 0 {
			return model.ShapeData{}, nil
		}
		return list[0].shape(), nil
	}
	var s rawShapeData
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.ShapeData{}, err
	}
	return s.shape(), nil
}

func (s rawShapeData) shape() model.ShapeData {
	return model.NewShapeData(points(s.Vertices), points(s.In), points(s.Out), bool(s.Closed))
}

func points(vs [][]float64) []motion.Point {
	pts := make([]motion.Point, len(vs))
	for i, v := range vs {
		if len(v) >= 2 {
			pts[i] = motion.Pt(v[0], v[1])
		}
	}
	return pts
}

// gradientValue decodes the flat stop array of a gradient with stops color
// stops. Malformed arrays are folded as far as possible and reported once
// through d.
func gradientValue(d *decoder, path string, stops int) valueFunc[model.GradientColor] {
	warned := false
	return func(raw json.RawMessage) (model.GradientColor, error) {
		flat, err := numbers(raw)
		if err != nil {
			return model.GradientColor{}, err
		}
		g, ok := foldGradient(stops, flat)
		if !ok && !warned {
			warned = true
			d.warn(model.GeometryInconsistency, "%s: malformed gradient stop count (%d values for %d stops)",
				path, len(flat), stops)
		}
		return g, nil
	}
}

// foldGradient splits [pos, r, g, b]*stops followed by [pos, alpha]* into
// color stops with the opacity interpolated at each color stop.
func foldGradient(stops int, flat []float64) (model.GradientColor, bool) {
	ok := true
	if stops <= 0 {
		stops = len(flat) / 4
		ok = false
	}
	if len(flat) < 4*stops {
		stops = len(flat) / 4
		ok = false
	}
	g := model.GradientColor{
		Positions: make([]float64, stops),
		Colors:    make([]motion.RGBA, stops),
	}
	for i := 0; i < stops; i++ {
		g.Positions[i] = flat[4*i]
		g.Colors[i] = motion.RGBA{R: flat[4*i+1], G: flat[4*i+2], B: flat[4*i+3], A: 1}
	}
	rest := flat[4*stops:]
	if len(rest)%2 != 0 {
		ok = false
		rest = rest[:len(rest)-1]
	}
	if len(rest) == 0 {
		return g, ok
	}
	for i, pos := range g.Positions {
		g.Colors[i].A = opacityAt(rest, pos)
	}
	return g, ok
}

// opacityAt interpolates [pos, alpha]* pairs at pos.
func opacityAt(pairs []float64, pos float64) float64 {
	n := len(pairs) / 2
	if pos <= pairs[0] {
		return pairs[1]
	}
	for i := 1; i < n; i++ {
		p0, a0 := pairs[2*i-2], pairs[2*i-1]
		p1, a1 := pairs[2*i], pairs[2*i+1]
		if pos <= p1 {
			if p1 <= p0 {
				return a1
			}
			t := (pos - p0) / (p1 - p0)
			return a0 + (a1-a0)*t
		}
	}
	return pairs[2*n-1]
}

func isDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
