package scene

import (
	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

// content is one evaluated item of a shape layer.
type content interface {
	element
	setProgress(p float64) bool
}

// pathContent contributes geometry to the fills and strokes after it.
type pathContent interface {
	content
	// path returns the geometry in the space of the enclosing group.
	path() *motion.Path
}

// drawingContent paints.
type drawingContent interface {
	content
	draw(dst Surface, m motion.Matrix, alpha float64)
	bounds(m motion.Matrix) motion.Rect
}

// linker is implemented by contents that depend on their neighbours.
// following holds the items after the content in document order, those of
// enclosing groups first and the nearest last. preceding holds the items
// before it in its own group, in document order.
type linker interface {
	link(following, preceding []content)
}

// groupContent is a list of items with an optional transform.
type groupContent struct {
	name      string
	items     []content
	transform *timeline.Transform
	cache     pathCache
}

// group builds the items of a group. Repeaters and merge paths take over
// the items before them here; links are made once the whole tree exists.
func (b *builder) group(name string, items []model.Content, tr *model.Transform) *groupContent {
	g := &groupContent{name: name, cache: pathCache{gen: &b.scene.gen}}
	if tr != nil {
		g.transform = timeline.NewTransform(b.comp, *tr)
	}
	for _, it := range items {
		if it.IsHidden() {
			continue
		}
		if c := b.content(it); c != nil {
			g.items = append(g.items, c)
		}
	}
	g.items = absorb(g.items)
	return g
}

// absorb hands the items before every repeater and merge paths over to
// it, in document order.
func absorb(items []content) []content {
	for i := 0; i < len(items); i++ {
		switch c := items[i].(type) {
		case *repeaterContent:
			c.group.items = append([]content(nil), items[:i]...)
			items = append([]content(nil), items[i:]...)
			i = 0
		case *mergeContent:
			var keep []content
			for j := i - 1; j >= 0; j-- {
				if pc, ok := items[j].(pathContent); ok {
					c.paths = append(c.paths, pc)
				}
			}
			for _, it := range items[:i] {
				if _, ok := it.(pathContent); !ok {
					keep = append(keep, it)
				}
			}
			items = append(keep, items[i:]...)
			i = len(keep)
		}
	}
	return items
}

func (b *builder) content(it model.Content) content {
	switch c := it.(type) {
	case *model.ShapeGroup:
		return b.group(c.Name, c.Items, c.Transform)
	case *model.ShapePath:
		return b.shapePath(c)
	case *model.Rectangle:
		return b.rect(c)
	case *model.Ellipse:
		return b.ellipse(c)
	case *model.PolyStar:
		return b.polystar(c)
	case *model.Fill:
		return b.fill(c)
	case *model.Stroke:
		return b.stroke(c)
	case *model.GradientFill:
		return b.gradientFill(c)
	case *model.GradientStroke:
		return b.gradientStroke(c)
	case *model.TrimPath:
		return b.trim(c)
	case *model.Repeater:
		return b.repeater(c)
	case *model.MergePaths:
		return b.merge(c)
	}
	return nil
}

func (g *groupContent) setProgress(p float64) bool {
	changed := false
	if g.transform != nil && g.transform.SetProgress(p) {
		changed = true
	}
	for _, c := range g.items {
		if c.setProgress(p) {
			changed = true
		}
	}
	return changed
}

// link links every item with the items around it. Items after an item
// in the group are seen by it as following, after those of the enclosing
// groups.
func (g *groupContent) link(following, _ []content) {
	after := make([]content, len(following), len(following)+len(g.items))
	copy(after, following)
	for i := len(g.items) - 1; i >= 0; i-- {
		if l, ok := g.items[i].(linker); ok {
			l.link(after, g.items[:i])
		}
		after = append(after, g.items[i])
	}
}

func (g *groupContent) matrix() motion.Matrix {
	if g.transform == nil {
		return motion.Identity()
	}
	return g.transform.Matrix()
}

// path returns the geometry of every path item, in the enclosing space.
func (g *groupContent) path() *motion.Path {
	return g.cache.get(func() *motion.Path {
		out := motion.NewPath()
		m := g.matrix()
		for i := len(g.items) - 1; i >= 0; i-- {
			if pc, ok := g.items[i].(pathContent); ok {
				out.AddPathTransformed(pc.path(), m)
			}
		}
		return out
	})
}

func (g *groupContent) draw(dst Surface, parent motion.Matrix, alpha float64) {
	m := parent
	if g.transform != nil {
		m = m.Multiply(g.transform.Matrix())
		alpha *= g.transform.OpacityValue()
	}
	if alpha <= 0 {
		return
	}
	for i := len(g.items) - 1; i >= 0; i-- {
		if d, ok := g.items[i].(drawingContent); ok {
			d.draw(dst, m, alpha)
		}
	}
}

func (g *groupContent) bounds(parent motion.Matrix) motion.Rect {
	m := parent.Multiply(g.matrix())
	var r motion.Rect
	for _, c := range g.items {
		if d, ok := c.(drawingContent); ok {
			r = r.Union(d.bounds(m))
		}
	}
	return r
}

// painted collects the paths painted by a fill or a stroke: the path items
// before it in its group.
func painted(preceding []content) []pathContent {
	var paths []pathContent
	for _, c := range preceding {
		if pc, ok := c.(pathContent); ok {
			paths = append(paths, pc)
		}
	}
	return paths
}

// combinedPath maps paths through m into one device-space path.
func combinedPath(paths []pathContent, m motion.Matrix) *motion.Path {
	out := motion.NewPath()
	for _, pc := range paths {
		out.AddPathTransformed(pc.path(), m)
	}
	return out
}
