package scene

import (
	"log/slog"
	"math"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// Scene is one playback instance of a composition.
type Scene struct {
	comp     *model.Composition
	opts     options
	log      *slog.Logger
	root     *container
	progress float64

	// gen advances whenever an evaluated value may have changed. Contents
	// cache geometry per generation.
	gen uint64
}

// New builds the scene graph of comp and evaluates it at progress 0.
func New(comp *model.Composition, opts ...Option) *Scene {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Scene{comp: comp, opts: o, log: o.log(), gen: 1}
	b := &builder{
		scene:    s,
		comp:     comp,
		steps:    gradientSteps(comp),
		building: make(map[string]bool),
	}
	s.root = b.container(comp.Layers, motion.XYWH(0, 0, comp.Width, comp.Height))
	s.root.setProgress(0)
	return s
}

// Composition returns the composition the scene was built from.
func (s *Scene) Composition() *model.Composition {
	return s.comp
}

// Progress returns the current progress.
func (s *Scene) Progress() float64 {
	return s.progress
}

// SetProgress moves the scene to p, clamped to [0, 1], and reports whether
// anything it draws may have changed. Setting the same progress twice
// reports no change the second time.
func (s *Scene) SetProgress(p float64) bool {
	if math.IsNaN(p) {
		p = 0
	}
	p = math.Max(0, math.Min(1, p))
	s.progress = p
	if !s.root.setProgress(p) {
		return false
	}
	s.invalidate()
	return true
}

func (s *Scene) invalidate() {
	s.gen++
	if s.opts.invalidate != nil {
		s.opts.invalidate()
	}
}

// Bounds returns the device-space bounds of everything visible at the
// current progress, clipped to the composition rectangle.
func (s *Scene) Bounds(parent motion.Matrix) motion.Rect {
	return s.root.bounds(parent)
}

// Draw draws the scene onto dst. parent maps composition units to device
// space and alpha multiplies every layer's opacity.
func (s *Scene) Draw(dst Surface, parent motion.Matrix, alpha float64) {
	alpha = math.Min(1, alpha)
	if alpha <= 0 {
		return
	}
	s.root.draw(dst, parent, alpha)
}

// gradientSteps returns how many gradient cache buckets the composition
// duration is divided into: about 30 per second.
func gradientSteps(comp *model.Composition) int {
	secs := comp.Duration().Seconds()
	return max(1, int(math.Round(secs*30)))
}

// pathCache holds a path computed for one scene generation.
type pathCache struct {
	gen *uint64
	at  uint64
	p   *motion.Path
}

func (c *pathCache) get(build func() *motion.Path) *motion.Path {
	if c.p != nil && c.at == *c.gen {
		return c.p
	}
	c.p = build()
	c.at = *c.gen
	return c.p
}
