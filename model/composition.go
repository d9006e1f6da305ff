// Package model holds the immutable description of a parsed animation: the
// composition, its layers and their content, keyframed values and assets.
//
// Values in this package are built once by the parser and never modified
// afterwards. They may be shared by any number of playback instances on any
// goroutine; per-instance state lives in package scene.
package model

import (
	"math"
	"time"

	"github.com/gogpu/motion"
)

// Composition is a parsed animation document.
type Composition struct {
	// Width and Height are the pixel bounds of the composition.
	Width, Height float64
	// StartFrame and EndFrame are the ip and op of the document.
	StartFrame, EndFrame float64
	FrameRate            float64
	// Density scales document units to device pixels (1 when unset).
	Density float64
	Version string

	Layers   []*Layer
	Precomps map[string][]*Layer
	Images   map[string]*ImageAsset
	Fonts    map[string]*Font
	Chars    map[uint64]*FontChar
	Markers  []Marker
	Warnings []Warning
}

// Bounds returns the composition rectangle scaled by the density.
func (c *Composition) Bounds() motion.Rect {
	d := c.Density
	if d <= 0 {
		d = 1
	}
	return motion.XYWH(0, 0, c.Width*d, c.Height*d)
}

// DurationFrames returns EndFrame - StartFrame.
func (c *Composition) DurationFrames() float64 {
	return c.EndFrame - c.StartFrame
}

// Duration returns the playback length.
func (c *Composition) Duration() time.Duration {
	if c.FrameRate <= 0 {
		return 0
	}
	secs := c.DurationFrames() / c.FrameRate
	return time.Duration(secs * float64(time.Second))
}

// ProgressForFrame maps a frame to progress. The result is not clamped.
func (c *Composition) ProgressForFrame(frame float64) float64 {
	d := c.DurationFrames()
	if d <= 0 {
		return 0
	}
	return (frame - c.StartFrame) / d
}

// FrameForProgress maps progress in [0, 1] to a frame.
func (c *Composition) FrameForProgress(p float64) float64 {
	return c.StartFrame + p*c.DurationFrames()
}

// Precomp returns the layers of a precomposition asset.
func (c *Composition) Precomp(id string) ([]*Layer, bool) {
	layers, ok := c.Precomps[id]
	return layers, ok
}

// LayerByID returns the top-level layer with the given id.
func (c *Composition) LayerByID(id int64) *Layer {
	return FindLayer(c.Layers, id)
}

// Marker returns the named marker. Names match after trimming a trailing
// carriage return, which some exporters append.
func (c *Composition) Marker(name string) (Marker, bool) {
	for _, m := range c.Markers {
		if m.Matches(name) {
			return m, true
		}
	}
	return Marker{}, false
}

// Char returns the glyph shapes exported for a character.
func (c *Composition) Char(ch, family, style string) (*FontChar, bool) {
	fc, ok := c.Chars[CharHash(ch, family, style)]
	return fc, ok
}

// HasImages reports whether the document references image assets.
func (c *Composition) HasImages() bool {
	return len(c.Images) > 0
}

// FrameCount returns the number of whole frames in the composition.
func (c *Composition) FrameCount() int {
	return int(math.Max(0, math.Round(c.DurationFrames())))
}

// Marker names a frame range.
type Marker struct {
	Name           string
	StartFrame     float64
	DurationFrames float64
}

// Matches reports whether the marker has the given name.
func (m Marker) Matches(name string) bool {
	n := m.Name
	if len(n) > 0 && n[len(n)-1] == '\r' {
		n = n[:len(n)-1]
	}
	return n == name
}

// FindLayer returns the layer with id in layers, or nil.
func FindLayer(layers []*Layer, id int64) *Layer {
	for _, l := range layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}
