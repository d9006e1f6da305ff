// Package timeline evaluates keyframed values at a progress position.
//
// A Timeline wraps one immutable model.Animatable and owns the mutable
// evaluation state of a single playback instance: the current progress, the
// last resolved keyframe and the cached value. Values are computed lazily
// on the first Value call after the progress changed.
//
// Timelines are not safe for concurrent use.
package timeline

import (
	"sort"

	"github.com/gogpu/motion/model"
)

// LerpFunc produces the value of keyframe k at eased progress t in [0, 1]
// (t may leave that range for overshooting timing curves).
type LerpFunc[T any] func(k *model.Keyframe[T], t float64) T

// FrameInfo is passed to value callbacks.
type FrameInfo[T any] struct {
	StartFrame, EndFrame float64
	StartValue, EndValue T
	// Value is the value the timeline computed itself.
	Value T
	// LinearProgress and EasedProgress are the position inside the current
	// keyframe before and after easing.
	LinearProgress float64
	EasedProgress  float64
	// OverallProgress is the timeline's progress.
	OverallProgress float64
}

// ValueCallback replaces a computed value.
type ValueCallback[T any] func(FrameInfo[T]) T

// Timeline evaluates one animated value.
type Timeline[T any] struct {
	keyframes []model.Keyframe[T]
	static    T
	starts    []float64
	ends      []float64
	lerp      LerpFunc[T]

	progress float64
	current  int
	value    T
	valid    bool
	callback ValueCallback[T]
}

// New builds a timeline for a. Keyframe frames are converted to progress
// against comp. lerp is not called for hold keyframes.
func New[T any](comp *model.Composition, a model.Animatable[T], lerp LerpFunc[T]) *Timeline[T] {
	tl := &Timeline[T]{
		keyframes: a.Keyframes,
		static:    a.Value,
		lerp:      lerp,
		current:   -1,
	}
	if n := len(a.Keyframes); n > 0 {
		tl.starts = make([]float64, n)
		tl.ends = make([]float64, n)
		for i := range a.Keyframes {
			k := &a.Keyframes[i]
			tl.starts[i] = k.StartProgress(comp)
			tl.ends[i] = k.EndProgress(comp)
		}
	}
	return tl
}

// NewStatic returns a timeline that always yields v.
func NewStatic[T any](v T) *Timeline[T] {
	return &Timeline[T]{static: v, current: -1}
}

// IsStatic reports whether the timeline has no keyframes.
func (tl *Timeline[T]) IsStatic() bool {
	return len(tl.keyframes) == 0
}

// Progress returns the current progress.
func (tl *Timeline[T]) Progress() float64 {
	return tl.progress
}

// SetProgress moves the timeline and reports whether its value may have
// changed. Progress outside the keyframed range is clamped to it, so
// repeated positions before the first or after the last keyframe do not
// report a change. A static timeline only reports changes when a callback
// is installed.
func (tl *Timeline[T]) SetProgress(p float64) bool {
	if tl.IsStatic() {
		if tl.callback == nil || p == tl.progress {
			tl.progress = p
			return false
		}
		tl.progress = p
		tl.valid = false
		return true
	}
	p = clamp(p, tl.starts[0], tl.ends[len(tl.ends)-1])
	if p == tl.progress && tl.current >= 0 {
		return false
	}
	prev := tl.current
	tl.progress = p
	next := tl.keyframeIndex(p)
	tl.current = next
	if prev == next && tl.keyframes[next].IsHold() && tl.valid && tl.callback == nil {
		return false
	}
	tl.valid = false
	return true
}

// keyframeIndex returns the keyframe containing p, reusing the last match
// while p stays inside it.
func (tl *Timeline[T]) keyframeIndex(p float64) int {
	n := len(tl.keyframes)
	if c := tl.current; c >= 0 && p >= tl.starts[c] && (p < tl.ends[c] || c == n-1) {
		return c
	}
	i := sort.Search(n, func(i int) bool { return tl.ends[i] > p })
	if i == n {
		i = n - 1
	}
	return i
}

// Value returns the value at the current progress.
func (tl *Timeline[T]) Value() T {
	if tl.valid {
		return tl.value
	}
	tl.value = tl.compute()
	tl.valid = true
	return tl.value
}

// SetCallback installs a value override. Passing nil removes it.
func (tl *Timeline[T]) SetCallback(cb ValueCallback[T]) {
	tl.callback = cb
	tl.valid = false
}

// HasCallback reports whether a value override is installed.
func (tl *Timeline[T]) HasCallback() bool {
	return tl.callback != nil
}

func (tl *Timeline[T]) compute() T {
	if tl.IsStatic() {
		if tl.callback == nil {
			return tl.static
		}
		return tl.callback(FrameInfo[T]{
			StartValue:      tl.static,
			EndValue:        tl.static,
			Value:           tl.static,
			OverallProgress: tl.progress,
		})
	}
	if tl.current < 0 {
		tl.current = tl.keyframeIndex(clamp(tl.progress, tl.starts[0], tl.ends[len(tl.ends)-1]))
	}
	i := tl.current
	k := &tl.keyframes[i]

	var linear, eased float64
	var v T
	if k.IsHold() {
		v = k.StartValue
	} else {
		linear = tl.linearProgress(i)
		eased = Ease(k.Easing, linear)
		v = tl.lerp(k, eased)
	}
	if tl.callback == nil {
		return v
	}
	return tl.callback(FrameInfo[T]{
		StartFrame:      k.StartFrame,
		EndFrame:        k.EndFrame,
		StartValue:      k.StartValue,
		EndValue:        k.EndValue,
		Value:           v,
		LinearProgress:  linear,
		EasedProgress:   eased,
		OverallProgress: tl.progress,
	})
}

func (tl *Timeline[T]) linearProgress(i int) float64 {
	start, end := tl.starts[i], tl.ends[i]
	if end <= start {
		return 0
	}
	return clamp((tl.progress-start)/(end-start), 0, 1)
}
