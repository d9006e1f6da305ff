package player

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
	"github.com/gogpu/motion/scene"
)

var (
	// ErrReleased is returned by every Player method after Release.
	ErrReleased = errors.New("player: released")
	// ErrNoComposition is returned by New for a nil composition.
	ErrNoComposition = errors.New("player: no composition")
	// ErrUnknownMarker is returned when a marker name is not in the
	// composition.
	ErrUnknownMarker = errors.New("player: unknown marker")
)

// Player plays one composition. It maps frames and a playback range onto
// the progress of its scene.
//
// Progress passed to SetProgress is relative to the playback range: 0 is
// MinFrame and 1 is MaxFrame. The range defaults to the whole composition.
//
// A Player is not safe for concurrent use.
type Player struct {
	comp  *model.Composition
	scene *scene.Scene
	log   *slog.Logger

	minFrame, maxFrame float64
	frame              float64
}

// New creates a player for comp positioned at its first frame.
func New(comp *model.Composition, opts ...Option) (*Player, error) {
	if comp == nil {
		return nil, ErrNoComposition
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Player{
		comp:     comp,
		scene:    scene.New(comp, o.sceneOptions()...),
		log:      o.log(),
		minFrame: comp.StartFrame,
		maxFrame: comp.EndFrame,
		frame:    comp.StartFrame,
	}
	return p, nil
}

// Composition returns the composition being played.
func (p *Player) Composition() *model.Composition {
	return p.comp
}

// Scene returns the scene of the player, or nil after Release.
func (p *Player) Scene() *scene.Scene {
	return p.scene
}

// Release drops the scene. The composition is left untouched and may still
// be used by other players. Release is idempotent.
func (p *Player) Release() {
	if p.scene == nil {
		return
	}
	p.scene = nil
	p.log.Debug("player released", "frames", p.comp.FrameCount())
}

// Released reports whether Release was called.
func (p *Player) Released() bool {
	return p.scene == nil
}

// SetFrame moves to frame, clamped to the playback range, and reports
// whether anything drawn may have changed.
func (p *Player) SetFrame(frame float64) (bool, error) {
	if p.scene == nil {
		return false, ErrReleased
	}
	if math.IsNaN(frame) {
		frame = p.minFrame
	}
	p.frame = math.Max(p.minFrame, math.Min(p.maxFrame, frame))
	return p.scene.SetProgress(p.comp.ProgressForFrame(p.frame)), nil
}

// Frame returns the current frame.
func (p *Player) Frame() float64 {
	return p.frame
}

// SetProgress moves to progress p of the playback range, clamped to
// [0, 1].
func (p *Player) SetProgress(progress float64) (bool, error) {
	if math.IsNaN(progress) {
		progress = 0
	}
	progress = math.Max(0, math.Min(1, progress))
	return p.SetFrame(p.minFrame + progress*(p.maxFrame-p.minFrame))
}

// Progress returns the position within the playback range in [0, 1].
func (p *Player) Progress() float64 {
	span := p.maxFrame - p.minFrame
	if span <= 0 {
		return 0
	}
	return (p.frame - p.minFrame) / span
}

// MinFrame returns the first frame of the playback range.
func (p *Player) MinFrame() float64 {
	return p.minFrame
}

// MaxFrame returns the last frame of the playback range.
func (p *Player) MaxFrame() float64 {
	return p.maxFrame
}

// SetMinAndMaxFrame limits playback to [minFrame, maxFrame], clamped to the
// composition. The current frame is clamped into the new range.
func (p *Player) SetMinAndMaxFrame(minFrame, maxFrame float64) error {
	if p.scene == nil {
		return ErrReleased
	}
	if minFrame > maxFrame {
		return fmt.Errorf("player: min frame %v after max frame %v", minFrame, maxFrame)
	}
	p.minFrame = math.Max(p.comp.StartFrame, math.Min(p.comp.EndFrame, minFrame))
	p.maxFrame = math.Max(p.minFrame, math.Min(p.comp.EndFrame, maxFrame))
	_, err := p.SetFrame(p.frame)
	return err
}

// SetMinAndMaxFrameByMarker limits playback to the frames of a named
// marker.
func (p *Player) SetMinAndMaxFrameByMarker(name string) error {
	m, ok := p.comp.Marker(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMarker, name)
	}
	return p.SetMinAndMaxFrame(m.StartFrame, m.StartFrame+m.DurationFrames)
}

// Duration returns how long the playback range lasts at the composition
// frame rate.
func (p *Player) Duration() time.Duration {
	if p.comp.FrameRate <= 0 {
		return 0
	}
	secs := (p.maxFrame - p.minFrame) / p.comp.FrameRate
	return time.Duration(secs * float64(time.Second))
}

// Bounds returns the device-space bounds of the current frame.
func (p *Player) Bounds(m motion.Matrix) (motion.Rect, error) {
	if p.scene == nil {
		return motion.Rect{}, ErrReleased
	}
	return p.scene.Bounds(m), nil
}

// Draw draws the current frame onto dst.
func (p *Player) Draw(dst scene.Surface, m motion.Matrix, alpha float64) error {
	if p.scene == nil {
		return ErrReleased
	}
	p.scene.Draw(dst, m, alpha)
	return nil
}

// ResolveKeyPath returns the elements matching a key path pattern such as
// "Layer.*.Fill 1".
func (p *Player) ResolveKeyPath(pattern string) ([]scene.ResolvedKeyPath, error) {
	if p.scene == nil {
		return nil, ErrReleased
	}
	return p.scene.ResolveKeyPath(scene.ParseKeyPath(pattern)), nil
}

// SetValueOverride installs or, with a nil cb, removes a value override.
func (p *Player) SetValueOverride(rk scene.ResolvedKeyPath, prop scene.Property, cb any) error {
	if p.scene == nil {
		return ErrReleased
	}
	return p.scene.SetValueOverride(rk, prop, cb)
}
