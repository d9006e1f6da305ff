package scene

import (
	"image"
	"log/slog"
	"slices"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

// builder turns model layers and contents into evaluation nodes.
type builder struct {
	scene *Scene
	comp  *model.Composition
	steps int
	// building holds the precompositions being expanded, to stop
	// self-referencing assets.
	building map[string]bool
}

func (b *builder) warn(kind model.WarningKind, msg string, args ...any) {
	b.scene.log.Warn(msg, append([]any{"kind", kind.String()}, args...)...)
}

// container builds a layer list, links parents and pairs mattes with the
// layers they cut.
func (b *builder) container(layers []*model.Layer, clip motion.Rect) *container {
	c := &container{clip: clip, all: make([]*layerNode, 0, len(layers))}
	byID := make(map[int64]*layerNode, len(layers))
	for _, l := range layers {
		n := b.layer(l)
		c.all = append(c.all, n)
		if _, dup := byID[l.ID]; !dup {
			byID[l.ID] = n
		}
	}
	for _, n := range c.all {
		if n.model.HasParent() {
			n.parent = byID[n.model.ParentID]
		}
	}
	for _, n := range c.all {
		seen := map[*layerNode]bool{n: true}
		for p := n.parent; p != nil; p = p.parent {
			if seen[p] {
				b.warn(model.GeometryInconsistency, "layer parent cycle", "layer", n.model.Name)
				n.parents = nil
				break
			}
			seen[p] = true
			n.parents = append(n.parents, p)
		}
	}

	// A layer with a matte type uses the layer before it as its matte.
	var matted *layerNode
	for i := len(c.all) - 1; i >= 0; i-- {
		n := c.all[i]
		if matted != nil {
			matted.matte = n
			matted = nil
			continue
		}
		c.drawn = append(c.drawn, n)
		if n.model.Matte != model.MatteNone {
			matted = n
		}
	}
	slices.Reverse(c.drawn)
	return c
}

func (b *builder) layer(l *model.Layer) *layerNode {
	n := &layerNode{
		model:     l,
		transform: timeline.NewTransform(b.comp, l.Transform),
	}
	if len(l.InOut) > 0 {
		n.inOut = timeline.Float(b.comp, model.Animatable[float64]{Keyframes: l.InOut})
	}
	for _, m := range l.Masks {
		n.masks = append(n.masks, &maskNode{
			mode:     m.Mode,
			inverted: m.Inverted,
			shape:    timeline.Shape(b.comp, m.Path),
			opacity:  timeline.Float(b.comp, m.Opacity),
			cache:    pathCache{gen: &b.scene.gen},
		})
	}

	switch l.Type {
	case model.LayerShape:
		g := b.group("", l.Shapes, nil)
		g.link(nil, nil)
		n.content = g
	case model.LayerPreComp:
		n.content = b.precomp(l)
	case model.LayerSolid:
		n.content = &solidContent{
			color: l.SolidColor,
			rect:  motion.XYWH(0, 0, l.SolidWidth, l.SolidHeight),
		}
	case model.LayerImage:
		n.content = b.image(l)
	case model.LayerText:
		b.warn(model.UnsupportedFeature, "text layers are not drawn", "layer", l.Name)
		n.content = nullContent{}
	default:
		n.content = nullContent{}
	}
	return n
}

func (b *builder) precomp(l *model.Layer) layerContent {
	layers, ok := b.comp.Precomp(l.RefID)
	if !ok {
		b.warn(model.LookupFailure, "missing precomposition", "layer", l.Name, "ref", l.RefID)
		return nullContent{}
	}
	if b.building[l.RefID] {
		b.warn(model.LookupFailure, "precomposition contains itself", "layer", l.Name, "ref", l.RefID)
		return nullContent{}
	}
	b.building[l.RefID] = true
	defer delete(b.building, l.RefID)

	c := &precompContent{
		layer:  l,
		comp:   b.comp,
		layers: b.container(layers, motion.XYWH(0, 0, l.Width, l.Height)),
	}
	if l.TimeRemap != nil {
		c.remap = timeline.Float(b.comp, *l.TimeRemap)
	}
	return c
}

func (b *builder) image(l *model.Layer) layerContent {
	asset := b.comp.Images[l.RefID]
	if asset == nil {
		b.warn(model.LookupFailure, "missing image asset", "layer", l.Name, "ref", l.RefID)
		return nullContent{}
	}
	return &imageContent{
		asset:    asset,
		provider: b.scene.opts.images,
		log:      b.scene.log,
	}
}

// precompContent draws the layers of a precomposition.
type precompContent struct {
	layer  *model.Layer
	comp   *model.Composition
	layers *container
	remap  *timeline.Timeline[float64]
}

// setProgress maps the layer's local progress to the progress of its
// children: shifted by the layer start, or replaced by the remapped time.
func (c *precompContent) setProgress(p float64) bool {
	changed := false
	child := p - c.layer.StartProgress(c.comp)/c.layer.Stretch()
	if c.remap != nil {
		changed = c.remap.SetProgress(p)
		child = 0
		if d := c.comp.DurationFrames(); d > 0 {
			child = (c.remap.Value()*c.comp.FrameRate - c.comp.StartFrame) / d
		}
	}
	if c.layers.setProgress(child) {
		changed = true
	}
	return changed
}

func (c *precompContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	c.layers.draw(dst, m, alpha)
}

func (c *precompContent) bounds(m motion.Matrix) motion.Rect {
	return c.layers.bounds(m)
}

// solidContent fills a rectangle with one color.
type solidContent struct {
	color motion.RGBA
	rect  motion.Rect
}

func (c *solidContent) setProgress(float64) bool { return false }

func (c *solidContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	if c.color.A <= 0 || c.rect.IsEmpty() {
		return
	}
	p := motion.NewPath()
	p.Rectangle(c.rect.Min.X, c.rect.Min.Y, c.rect.Width(), c.rect.Height())
	dst.FillPath(p.Transform(m), Paint{Color: c.color, Alpha: alpha})
}

func (c *solidContent) bounds(m motion.Matrix) motion.Rect {
	return m.TransformRect(c.rect)
}

// imageContent draws an image asset stretched over its declared size.
type imageContent struct {
	asset    *model.ImageAsset
	provider ImageProvider
	log      *slog.Logger

	img      image.Image
	resolved bool
}

func (c *imageContent) setProgress(float64) bool { return false }

// bitmap returns the asset bitmap, asking the provider once for assets
// that were not embedded.
func (c *imageContent) bitmap() image.Image {
	if c.resolved {
		return c.img
	}
	c.resolved = true
	c.img = c.asset.Image
	if c.img == nil && c.provider != nil {
		c.img = c.provider(c.asset)
	}
	if c.img == nil {
		c.log.Warn("image asset has no bitmap",
			"kind", model.LookupFailure.String(), "asset", c.asset.ID, "file", c.asset.FileName)
	}
	return c.img
}

func (c *imageContent) size() (w, h float64) {
	w, h = float64(c.asset.Width), float64(c.asset.Height)
	if (w <= 0 || h <= 0) && c.bitmap() != nil {
		b := c.img.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	return w, h
}

func (c *imageContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	img := c.bitmap()
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	w, h := c.size()
	fit := motion.Scale(w/float64(b.Dx()), h/float64(b.Dy())).
		Multiply(motion.Translate(-float64(b.Min.X), -float64(b.Min.Y)))
	dst.DrawImage(img, m.Multiply(fit), alpha)
}

func (c *imageContent) bounds(m motion.Matrix) motion.Rect {
	w, h := c.size()
	return m.TransformRect(motion.XYWH(0, 0, w, h))
}

// nullContent draws nothing. Null layers exist to parent other layers.
type nullContent struct{}

func (nullContent) setProgress(float64) bool             { return false }
func (nullContent) draw(Surface, motion.Matrix, float64) {}
func (nullContent) bounds(motion.Matrix) motion.Rect     { return motion.Rect{} }
