package scene

import (
	"slices"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

// layerContent is what a layer draws inside its own transform.
type layerContent interface {
	setProgress(p float64) bool
	draw(dst Surface, m motion.Matrix, alpha float64)
	bounds(m motion.Matrix) motion.Rect
}

// container is a layer list: the composition itself or a precomposition.
type container struct {
	// all holds every layer in document order, mattes included.
	all []*layerNode
	// drawn holds the layers drawn on their own, in document order.
	drawn []*layerNode
	clip  motion.Rect
}

func (c *container) setProgress(p float64) bool {
	changed := false
	for _, n := range c.all {
		if n.setProgress(p) {
			changed = true
		}
	}
	return changed
}

// visibleCount returns how many drawn layers are visible.
func (c *container) visibleCount() int {
	n := 0
	for _, l := range c.drawn {
		if l.visible() {
			n++
		}
	}
	return n
}

func (c *container) draw(dst Surface, m motion.Matrix, alpha float64) {
	clip := m.TransformRect(c.clip)
	childAlpha := alpha
	offscreen := alpha < 1 && c.visibleCount() > 1
	if offscreen {
		dst.SaveLayer(clip, alpha, SourceOver)
		childAlpha = 1
	}
	dst.Save()
	if !clip.IsEmpty() {
		dst.ClipRect(clip)
	}
	for i := len(c.drawn) - 1; i >= 0; i-- {
		c.drawn[i].draw(dst, m, childAlpha)
	}
	dst.Restore()
	if offscreen {
		dst.Restore()
	}
}

func (c *container) bounds(m motion.Matrix) motion.Rect {
	var r motion.Rect
	for _, l := range c.drawn {
		if l.visible() {
			r = r.Union(l.bounds(m))
		}
	}
	if c.clip.IsEmpty() {
		return r
	}
	return r.Intersect(m.TransformRect(c.clip))
}

// layerNode is the evaluation state of one layer.
type layerNode struct {
	model     *model.Layer
	transform *timeline.Transform
	// inOut is nil when the layer is always visible.
	inOut *timeline.Timeline[float64]
	masks []*maskNode

	// parents is the parent chain, nearest first.
	parent  *layerNode
	parents []*layerNode
	matte   *layerNode
	content layerContent
}

// setProgress moves the layer. The transform and masks follow the
// composition time; visibility and content follow the stretched time.
func (n *layerNode) setProgress(p float64) bool {
	changed := n.transform.SetProgress(p)
	for _, m := range n.masks {
		if m.setProgress(p) {
			changed = true
		}
	}
	local := p / n.model.Stretch()
	if n.inOut != nil && n.inOut.SetProgress(local) {
		changed = true
	}
	if n.content.setProgress(local) {
		changed = true
	}
	return changed
}

func (n *layerNode) visible() bool {
	if n.model.Hidden {
		return false
	}
	return n.inOut == nil || n.inOut.Value() == 1
}

// parentMatrix applies the parent chain, outermost first, to m.
func (n *layerNode) parentMatrix(m motion.Matrix) motion.Matrix {
	for i := len(n.parents) - 1; i >= 0; i-- {
		m = m.Multiply(n.parents[i].transform.Matrix())
	}
	return m
}

func (n *layerNode) draw(dst Surface, parent motion.Matrix, parentAlpha float64) {
	if !n.visible() {
		return
	}
	m := n.parentMatrix(parent).Multiply(n.transform.Matrix())
	alpha := parentAlpha * n.transform.OpacityValue()
	if alpha <= 0 {
		return
	}
	if n.matte == nil && len(n.masks) == 0 {
		n.content.draw(dst, m, alpha)
		return
	}

	r := n.content.bounds(m)
	r = n.limitByMatte(r, parent)
	r = n.limitByMasks(r, m)
	if r.IsEmpty() {
		return
	}
	dst.SaveLayer(r, 1, SourceOver)
	n.content.draw(dst, m, alpha)
	if len(n.masks) > 0 {
		n.applyMasks(dst, r, m)
	}
	if n.matte != nil {
		mode := DestinationIn
		if n.model.Matte == model.MatteInvert {
			mode = DestinationOut
		}
		dst.SaveLayer(r, 1, mode)
		n.matte.draw(dst, parent, parentAlpha)
		dst.Restore()
	}
	dst.Restore()
}

// bounds returns the device-space bounds of the layer under parent, limited
// by its matte and masks.
func (n *layerNode) bounds(parent motion.Matrix) motion.Rect {
	m := n.parentMatrix(parent).Multiply(n.transform.Matrix())
	r := n.content.bounds(m)
	r = n.limitByMatte(r, parent)
	return n.limitByMasks(r, m)
}

// limitByMatte intersects r with the bounds of an alpha matte. An inverted
// matte can keep anything, so it leaves r unchanged.
func (n *layerNode) limitByMatte(r motion.Rect, parent motion.Matrix) motion.Rect {
	if n.matte == nil || n.model.Matte == model.MatteInvert {
		return r
	}
	return r.Intersect(n.matte.bounds(parent))
}

// limitByMasks intersects r with the union of the mask paths when every
// mask is a plain add mask.
func (n *layerNode) limitByMasks(r motion.Rect, m motion.Matrix) motion.Rect {
	if len(n.masks) == 0 {
		return r
	}
	var limit motion.Rect
	for _, mk := range n.masks {
		if mk.mode != model.MaskAdd || mk.inverted {
			return r
		}
		limit = limit.Union(mk.devicePath(m).BoundingBox())
	}
	return r.Intersect(limit)
}

// applyMasks composites the masks onto the layer drawn in r. The masks are
// drawn into a destination-in layer, so what they cover is what remains.
func (n *layerNode) applyMasks(dst Surface, r motion.Rect, m motion.Matrix) {
	dst.SaveLayer(r, 1, DestinationIn)
	allNone := !slices.ContainsFunc(n.masks, func(mk *maskNode) bool {
		return mk.mode != model.MaskNone
	})
	for i, mk := range n.masks {
		switch mk.mode {
		case model.MaskNone:
			if allNone {
				fillRect(dst, r)
			}
		case model.MaskAdd:
			if mk.inverted {
				dst.SaveLayer(r, 1, SourceOver)
				fillRect(dst, r)
				mk.cutOut(dst, r, m)
				dst.Restore()
			} else {
				dst.FillPath(mk.devicePath(m), Paint{Color: motion.Black, Alpha: mk.opacityValue()})
			}
		case model.MaskSubtract:
			if i == 0 {
				fillRect(dst, r)
			}
			if mk.inverted {
				dst.SaveLayer(r, 1, DestinationOut)
				fillRect(dst, r)
				mk.cutOut(dst, r, m)
				dst.Restore()
			} else {
				mk.cutOut(dst, r, m)
			}
		case model.MaskIntersect:
			dst.SaveLayer(r, 1, DestinationIn)
			if mk.inverted {
				fillRect(dst, r)
				mk.cutOut(dst, r, m)
			} else {
				dst.FillPath(mk.devicePath(m), Paint{Color: motion.Black, Alpha: mk.opacityValue()})
			}
			dst.Restore()
		}
	}
	dst.Restore()
}

// maskNode is the evaluation state of one layer mask.
type maskNode struct {
	mode     model.MaskMode
	inverted bool
	shape    *timeline.Timeline[model.ShapeData]
	opacity  *timeline.Timeline[float64]
	cache    pathCache
}

func (mk *maskNode) setProgress(p float64) bool {
	a := mk.shape.SetProgress(p)
	b := mk.opacity.SetProgress(p)
	return a || b
}

func (mk *maskNode) opacityValue() float64 {
	return max(0, min(1, mk.opacity.Value()/100))
}

func (mk *maskNode) devicePath(m motion.Matrix) *motion.Path {
	p := mk.cache.get(func() *motion.Path { return mk.shape.Value().Path() })
	return p.Transform(m)
}

// cutOut removes the mask path, at the mask opacity, from what is drawn
// in r.
func (mk *maskNode) cutOut(dst Surface, r motion.Rect, m motion.Matrix) {
	dst.SaveLayer(r, mk.opacityValue(), DestinationOut)
	dst.FillPath(mk.devicePath(m), Paint{Color: motion.Black, Alpha: 1})
	dst.Restore()
}
