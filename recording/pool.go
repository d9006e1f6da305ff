package recording

import (
	"image"
	"reflect"

	"github.com/gogpu/motion"
)

// ResourcePool stores resources referenced by recording commands.
// Resources are stored in slices indexed by their reference types.
// Paths are cloned on Add so that a recording never changes after the
// fact; brushes and images are treated as immutable.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	paths   []*motion.Path
	brushes []Brush
	images  []image.Image
	// imageRefs deduplicates images drawn more than once in a frame.
	imageRefs map[image.Image]ImageRef
}

// NewResourcePool creates an empty resource pool with pre-allocated capacity.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		paths:     make([]*motion.Path, 0, 64),
		brushes:   make([]Brush, 0, 32),
		images:    make([]image.Image, 0, 8),
		imageRefs: make(map[image.Image]ImageRef),
	}
}

// AddPath clones a path into the pool and returns its reference.
func (p *ResourcePool) AddPath(path *motion.Path) PathRef {
	p.paths = append(p.paths, path.Clone())
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return PathRef(uint32(len(p.paths) - 1))
}

// GetPath returns the path for the given reference, or nil.
func (p *ResourcePool) GetPath(ref PathRef) *motion.Path {
	if int(ref) >= len(p.paths) {
		return nil
	}
	return p.paths[ref]
}

// PathCount returns the number of paths in the pool.
func (p *ResourcePool) PathCount() int {
	return len(p.paths)
}

// AddBrush adds a brush to the pool and returns its reference.
func (p *ResourcePool) AddBrush(brush Brush) BrushRef {
	p.brushes = append(p.brushes, brush)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return BrushRef(uint32(len(p.brushes) - 1))
}

// GetBrush returns the brush for the given reference, or nil.
func (p *ResourcePool) GetBrush(ref BrushRef) Brush {
	if int(ref) >= len(p.brushes) {
		return nil
	}
	return p.brushes[ref]
}

// BrushCount returns the number of brushes in the pool.
func (p *ResourcePool) BrushCount() int {
	return len(p.brushes)
}

// AddImage adds an image to the pool and returns its reference. Adding the
// same image again returns the first reference.
func (p *ResourcePool) AddImage(img image.Image) ImageRef {
	key := img != nil && reflect.TypeOf(img).Comparable()
	if key {
		if ref, ok := p.imageRefs[img]; ok {
			return ref
		}
	}
	p.images = append(p.images, img)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	ref := ImageRef(uint32(len(p.images) - 1))
	if key {
		p.imageRefs[img] = ref
	}
	return ref
}

// GetImage returns the image for the given reference, or nil.
func (p *ResourcePool) GetImage(ref ImageRef) image.Image {
	if int(ref) >= len(p.images) {
		return nil
	}
	return p.images[ref]
}

// ImageCount returns the number of distinct images in the pool.
func (p *ResourcePool) ImageCount() int {
	return len(p.images)
}

// Clear removes all resources while keeping the allocated capacity.
func (p *ResourcePool) Clear() {
	clear(p.paths)
	p.paths = p.paths[:0]
	clear(p.brushes)
	p.brushes = p.brushes[:0]
	clear(p.images)
	p.images = p.images[:0]
	clear(p.imageRefs)
}
