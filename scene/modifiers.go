package scene

import (
	"math"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/timeline"
)

// trimContent reveals part of the paths it applies to. It draws nothing
// itself; shapes and strokes look it up while linking.
type trimContent struct {
	name   string
	mode   model.TrimMode
	start  *timeline.Timeline[float64]
	end    *timeline.Timeline[float64]
	offset *timeline.Timeline[float64]
}

func (b *builder) trim(m *model.TrimPath) *trimContent {
	return &trimContent{
		name:   m.Name,
		mode:   m.Mode,
		start:  timeline.Float(b.comp, m.Start),
		end:    timeline.Float(b.comp, m.End),
		offset: timeline.Float(b.comp, m.Offset),
	}
}

func (t *trimContent) setProgress(p float64) bool {
	a := t.start.SetProgress(p)
	b := t.end.SetProgress(p)
	c := t.offset.SetProgress(p)
	return a || b || c
}

// values returns the trimmed range as ordered fractions of the length and
// the offset as a fraction of the length.
func (t *trimContent) values() (start, end, offset float64) {
	s, e := percent(t.start.Value()), percent(t.end.Value())
	return min(s, e), max(s, e), t.offset.Value() / 360
}

func (t *trimContent) apply(p *motion.Path) *motion.Path {
	start, end, offset := t.values()
	return motion.Trim(p, start, end, offset)
}

// repeaterContent draws copies of the items before it, each one further
// along the repeater transform.
type repeaterContent struct {
	name      string
	copies    *timeline.Timeline[float64]
	offset    *timeline.Timeline[float64]
	transform *timeline.Transform
	group     *groupContent
	cache     pathCache
}

func (b *builder) repeater(m *model.Repeater) *repeaterContent {
	return &repeaterContent{
		name:      m.Name,
		copies:    timeline.Float(b.comp, m.Copies),
		offset:    timeline.Float(b.comp, m.Offset),
		transform: timeline.NewTransform(b.comp, m.Transform),
		group:     &groupContent{name: m.Name, cache: pathCache{gen: &b.scene.gen}},
		cache:     pathCache{gen: &b.scene.gen},
	}
}

func (r *repeaterContent) setProgress(p float64) bool {
	a := r.copies.SetProgress(p)
	b := r.offset.SetProgress(p)
	c := r.transform.SetProgress(p)
	d := r.group.setProgress(p)
	return a || b || c || d
}

func (r *repeaterContent) link(following, _ []content) {
	r.group.link(following, nil)
}

// count returns the number of whole copies.
func (r *repeaterContent) count() int {
	n := r.copies.Value()
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// copyMatrix returns the transform of copy i.
func (r *repeaterContent) copyMatrix(i int) motion.Matrix {
	return r.transform.RepeaterMatrix(float64(i) + r.offset.Value())
}

func (r *repeaterContent) path() *motion.Path {
	return r.cache.get(func() *motion.Path {
		out := motion.NewPath()
		src := r.group.path()
		for i := r.count() - 1; i >= 0; i-- {
			out.AddPathTransformed(src, r.copyMatrix(i))
		}
		return out
	})
}

// draw draws the last copy first. Copy opacity moves from the start to the
// end opacity with the copy index.
func (r *repeaterContent) draw(dst Surface, m motion.Matrix, alpha float64) {
	n := r.count()
	copies := r.copies.Value()
	start, end := r.transform.RepeaterOpacity()
	for i := n - 1; i >= 0; i-- {
		t := float64(i) / copies
		r.group.draw(dst, m.Multiply(r.copyMatrix(i)), alpha*(start+(end-start)*t))
	}
}

func (r *repeaterContent) bounds(m motion.Matrix) motion.Rect {
	var out motion.Rect
	for i := r.count() - 1; i >= 0; i-- {
		out = out.Union(r.group.bounds(m.Multiply(r.copyMatrix(i))))
	}
	return out
}

// mergeContent combines the path items before it into one path.
type mergeContent struct {
	name string
	mode model.MergeMode
	// paths holds the absorbed items, nearest first.
	paths []pathContent
	cache pathCache
}

func (b *builder) merge(m *model.MergePaths) *mergeContent {
	return &mergeContent{name: m.Name, mode: m.Mode, cache: pathCache{gen: &b.scene.gen}}
}

func (c *mergeContent) setProgress(p float64) bool {
	changed := false
	for _, pc := range c.paths {
		if pc.setProgress(p) {
			changed = true
		}
	}
	return changed
}

func (c *mergeContent) link(following, preceding []content) {
	for _, pc := range c.paths {
		if l, ok := pc.(linker); ok {
			l.link(following, preceding)
		}
	}
}

var mergeOps = map[model.MergeMode]motion.PathOp{
	model.MergeAdd:                  motion.OpUnion,
	model.MergeSubtract:             motion.OpReverseDifference,
	model.MergeIntersect:            motion.OpIntersect,
	model.MergeExcludeIntersections: motion.OpXor,
}

// path concatenates the paths for MergeMerge. The boolean modes combine the
// nearest path with the union of the others; subtract removes the nearest
// path from the others. The others are unioned one by one so that overlaps
// among them leave no interior contours.
func (c *mergeContent) path() *motion.Path {
	return c.cache.get(func() *motion.Path {
		out := motion.NewPath()
		if len(c.paths) == 0 {
			return out
		}
		op, ok := mergeOps[c.mode]
		if !ok {
			for _, pc := range c.paths {
				out.AddPath(pc.path())
			}
			return out
		}
		rest := motion.NewPath()
		for i := len(c.paths) - 1; i >= 1; i-- {
			rest = motion.Combine(rest, c.paths[i].path(), motion.OpUnion)
		}
		return motion.Combine(c.paths[0].path(), rest, op)
	})
}
