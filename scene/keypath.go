package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

var (
	// ErrUnknownProperty is returned when the resolved element does not
	// expose the requested property.
	ErrUnknownProperty = errors.New("scene: unknown property")
	// ErrPropertyType is returned when a callback does not match the value
	// type of the property.
	ErrPropertyType = errors.New("scene: callback type does not match property")
)

// Property names an animated value of a layer or content item.
type Property uint8

const (
	PropTransformAnchor Property = iota + 1
	PropTransformPosition
	PropTransformPositionX
	PropTransformPositionY
	PropTransformScale
	PropTransformRotation
	PropTransformOpacity
	PropTransformSkew
	PropTransformSkewAxis
	PropTransformStartOpacity
	PropTransformEndOpacity
	PropTimeRemap

	PropColor
	PropOpacity
	PropStrokeWidth
	PropGradientColor
	PropGradientStart
	PropGradientEnd
	PropGradientHighlightLength
	PropGradientHighlightAngle

	PropShape
	PropPosition
	PropSize
	PropRoundness
	PropPolystarPoints
	PropPolystarRotation
	PropPolystarOuterRadius
	PropPolystarOuterRoundness
	PropPolystarInnerRadius
	PropPolystarInnerRoundness

	PropTrimStart
	PropTrimEnd
	PropTrimOffset
	PropRepeaterCopies
	PropRepeaterOffset
)

var propertyNames = map[Property]string{
	PropTransformAnchor:         "transform.anchor",
	PropTransformPosition:       "transform.position",
	PropTransformPositionX:      "transform.position.x",
	PropTransformPositionY:      "transform.position.y",
	PropTransformScale:          "transform.scale",
	PropTransformRotation:       "transform.rotation",
	PropTransformOpacity:        "transform.opacity",
	PropTransformSkew:           "transform.skew",
	PropTransformSkewAxis:       "transform.skew-axis",
	PropTransformStartOpacity:   "transform.start-opacity",
	PropTransformEndOpacity:     "transform.end-opacity",
	PropTimeRemap:               "time-remap",
	PropColor:                   "color",
	PropOpacity:                 "opacity",
	PropStrokeWidth:             "stroke-width",
	PropGradientColor:           "gradient.color",
	PropGradientStart:           "gradient.start",
	PropGradientEnd:             "gradient.end",
	PropGradientHighlightLength: "gradient.highlight-length",
	PropGradientHighlightAngle:  "gradient.highlight-angle",
	PropShape:                   "shape",
	PropPosition:                "position",
	PropSize:                    "size",
	PropRoundness:               "roundness",
	PropPolystarPoints:          "polystar.points",
	PropPolystarRotation:        "polystar.rotation",
	PropPolystarOuterRadius:     "polystar.outer-radius",
	PropPolystarOuterRoundness:  "polystar.outer-roundness",
	PropPolystarInnerRadius:     "polystar.inner-radius",
	PropPolystarInnerRoundness:  "polystar.inner-roundness",
	PropTrimStart:               "trim.start",
	PropTrimEnd:                 "trim.end",
	PropTrimOffset:              "trim.offset",
	PropRepeaterCopies:          "repeater.copies",
	PropRepeaterOffset:          "repeater.offset",
}

// String returns the property name.
func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Property(%d)", uint8(p))
}

// element is a node of the key path tree.
type element interface {
	keyName() string
	keyChildren() []element
	// property returns the timeline of p as an any holding a
	// *timeline.Timeline[T], or nil.
	property(p Property) any
}

// timelineOf boxes tl, keeping a nil timeline a nil interface.
func timelineOf[T any](tl *timeline.Timeline[T]) any {
	if tl == nil {
		return nil
	}
	return tl
}

// transformName is the name of the synthetic element holding a layer or
// group transform.
const transformName = "Transform"

// transformElement exposes a transform under the name "Transform".
type transformElement struct {
	tr *timeline.Transform
}

func (transformElement) keyName() string        { return transformName }
func (transformElement) keyChildren() []element { return nil }

func (e transformElement) property(p Property) any {
	return transformProperty(e.tr, p)
}

func transformProperty(tr *timeline.Transform, p Property) any {
	if tr == nil {
		return nil
	}
	switch p {
	case PropTransformAnchor:
		return timelineOf(tr.Anchor)
	case PropTransformPosition:
		return timelineOf(tr.Position)
	case PropTransformPositionX:
		return timelineOf(tr.PositionX)
	case PropTransformPositionY:
		return timelineOf(tr.PositionY)
	case PropTransformScale:
		return timelineOf(tr.Scale)
	case PropTransformRotation:
		return timelineOf(tr.Rotation)
	case PropTransformOpacity:
		return timelineOf(tr.Opacity)
	case PropTransformSkew:
		return timelineOf(tr.Skew)
	case PropTransformSkewAxis:
		return timelineOf(tr.SkewAxis)
	case PropTransformStartOpacity:
		return timelineOf(tr.StartOpacity)
	case PropTransformEndOpacity:
		return timelineOf(tr.EndOpacity)
	}
	return nil
}

func (c *container) keyChildren() []element {
	out := make([]element, len(c.all))
	for i, n := range c.all {
		out[i] = n
	}
	return out
}

func (n *layerNode) keyName() string { return n.model.Name }

func (n *layerNode) keyChildren() []element {
	out := []element{transformElement{n.transform}}
	switch c := n.content.(type) {
	case *groupContent:
		out = append(out, c.keyChildren()...)
	case *precompContent:
		out = append(out, c.layers.keyChildren()...)
	}
	return out
}

func (n *layerNode) property(p Property) any {
	if p == PropTimeRemap {
		if c, ok := n.content.(*precompContent); ok {
			return timelineOf(c.remap)
		}
		return nil
	}
	return transformProperty(n.transform, p)
}

func (g *groupContent) keyName() string { return g.name }

func (g *groupContent) keyChildren() []element {
	out := make([]element, 0, len(g.items)+1)
	if g.transform != nil {
		out = append(out, transformElement{g.transform})
	}
	for _, c := range g.items {
		out = append(out, c)
	}
	return out
}

func (g *groupContent) property(p Property) any {
	return transformProperty(g.transform, p)
}

func (f *fillContent) keyName() string        { return f.name }
func (f *fillContent) keyChildren() []element { return nil }

func (f *fillContent) property(p Property) any {
	switch p {
	case PropColor:
		return f.color
	case PropOpacity:
		return f.opacity
	}
	return nil
}

func (s *strokeContent) keyName() string        { return s.name }
func (s *strokeContent) keyChildren() []element { return nil }

func (s *strokeContent) property(p Property) any {
	switch p {
	case PropColor:
		return s.color
	case PropOpacity:
		return s.opacity
	case PropStrokeWidth:
		return s.width
	}
	return nil
}

func (f *gradientFillContent) keyName() string        { return f.name }
func (f *gradientFillContent) keyChildren() []element { return nil }

func (s *gradientStrokeContent) keyName() string        { return s.name }
func (s *gradientStrokeContent) keyChildren() []element { return nil }

func (t *trimContent) keyName() string        { return t.name }
func (t *trimContent) keyChildren() []element { return nil }

func (t *trimContent) property(p Property) any {
	switch p {
	case PropTrimStart:
		return t.start
	case PropTrimEnd:
		return t.end
	case PropTrimOffset:
		return t.offset
	}
	return nil
}

func (r *repeaterContent) keyName() string { return r.name }

func (r *repeaterContent) keyChildren() []element {
	out := make([]element, len(r.group.items))
	for i, c := range r.group.items {
		out[i] = c
	}
	return out
}

func (r *repeaterContent) property(p Property) any {
	switch p {
	case PropRepeaterCopies:
		return r.copies
	case PropRepeaterOffset:
		return r.offset
	}
	return transformProperty(r.transform, p)
}

func (c *mergeContent) keyName() string { return c.name }

func (c *mergeContent) keyChildren() []element {
	out := make([]element, len(c.paths))
	for i, pc := range c.paths {
		out[len(c.paths)-1-i] = pc
	}
	return out
}

func (c *mergeContent) property(Property) any { return nil }

// KeyPath is a dotted name pattern addressing layers and content items.
// A "*" key matches exactly one element and "**" matches any number of
// elements, none included.
type KeyPath []string

// ParseKeyPath splits a dotted pattern such as "Layer.*.Fill 1".
func ParseKeyPath(s string) KeyPath {
	if s == "" {
		return nil
	}
	return KeyPath(strings.Split(s, "."))
}

func (k KeyPath) String() string {
	return strings.Join(k, ".")
}

// ResolvedKeyPath is one element matched by a KeyPath.
type ResolvedKeyPath struct {
	// Keys are the names of the elements from the top-level layer down to
	// the matched element.
	Keys   KeyPath
	target element
}

func (r ResolvedKeyPath) String() string {
	return r.Keys.String()
}

// ResolveKeyPath returns every element matching pattern, in tree order.
// An element reached through several globstar expansions is returned
// once.
func (s *Scene) ResolveKeyPath(pattern KeyPath) []ResolvedKeyPath {
	if len(pattern) == 0 {
		return nil
	}
	r := resolver{pattern: pattern, seen: make(map[element]bool)}
	for _, child := range s.root.keyChildren() {
		r.match(child, 0, nil)
	}
	return r.out
}

type resolver struct {
	pattern KeyPath
	seen    map[element]bool
	out     []ResolvedKeyPath
}

// match matches el against pattern[i:]. trail holds the names of el's
// ancestors.
func (r *resolver) match(el element, i int, trail KeyPath) {
	if i >= len(r.pattern) {
		return
	}
	key := r.pattern[i]
	if key == "**" {
		// Zero elements: el must match what follows the globstar.
		r.match(el, i+1, trail)
		// One or more: el is consumed and the globstar stays.
		keys := append(trail[:len(trail):len(trail)], el.keyName())
		if i == len(r.pattern)-1 {
			r.add(el, keys)
		}
		for _, c := range el.keyChildren() {
			r.match(c, i, keys)
		}
		return
	}
	if key != "*" && key != el.keyName() {
		return
	}
	keys := append(trail[:len(trail):len(trail)], el.keyName())
	if i == len(r.pattern)-1 {
		r.add(el, keys)
		return
	}
	for _, c := range el.keyChildren() {
		r.match(c, i+1, keys)
	}
}

func (r *resolver) add(el element, keys KeyPath) {
	if r.seen[el] {
		return
	}
	r.seen[el] = true
	r.out = append(r.out, ResolvedKeyPath{Keys: keys, target: el})
}

// SetValueOverride installs cb on property prop of the resolved element. cb
// must be a timeline.ValueCallback[T] (or a func(timeline.FrameInfo[T]) T)
// for the property's value type T; nil removes an override.
func (s *Scene) SetValueOverride(rk ResolvedKeyPath, prop Property, cb any) error {
	if rk.target == nil {
		return fmt.Errorf("%w: %v on unresolved key path", ErrUnknownProperty, prop)
	}
	var err error
	switch tl := rk.target.property(prop).(type) {
	case *timeline.Timeline[float64]:
		err = setCallback(tl, cb)
	case *timeline.Timeline[motion.Point]:
		err = setCallback(tl, cb)
	case *timeline.Timeline[motion.RGBA]:
		err = setCallback(tl, cb)
	case *timeline.Timeline[model.GradientColor]:
		err = setCallback(tl, cb)
	case *timeline.Timeline[model.ShapeData]:
		err = setCallback(tl, cb)
	default:
		return fmt.Errorf("%w: %v on %q", ErrUnknownProperty, prop, rk.String())
	}
	if err != nil {
		return fmt.Errorf("%v on %q: %w", prop, rk.String(), err)
	}
	s.invalidate()
	return nil
}

func setCallback[T any](tl *timeline.Timeline[T], cb any) error {
	switch f := cb.(type) {
	case nil:
		tl.SetCallback(nil)
	case timeline.ValueCallback[T]:
		tl.SetCallback(f)
	case func(timeline.FrameInfo[T]) T:
		tl.SetCallback(f)
	default:
		var zero T
		return fmt.Errorf("%w: want timeline.ValueCallback[%T], got %T", ErrPropertyType, zero, cb)
	}
	return nil
}
