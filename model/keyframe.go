package model

import "github.com/gogpu/motion"

// EaseKind selects how a keyframe moves from its start to its end value.
type EaseKind uint8

const (
	// EaseLinear interpolates at constant speed.
	EaseLinear EaseKind = iota
	// EaseHold keeps the start value until the next keyframe.
	EaseHold
	// EaseBezier follows a cubic timing curve from (0,0) to (1,1).
	EaseBezier
)

// Easing describes the timing curve of a keyframe. For EaseBezier, Out and
// In are the two inner control points of the curve, in that order.
type Easing struct {
	Kind EaseKind
	Out  motion.Point
	In   motion.Point
}

// Linear is the identity easing.
var Linear = Easing{Kind: EaseLinear}

// Hold is the step easing.
var Hold = Easing{Kind: EaseHold}

// Bezier returns a cubic timing curve with control points (x1,y1), (x2,y2).
func Bezier(x1, y1, x2, y2 float64) Easing {
	return Easing{Kind: EaseBezier, Out: motion.Pt(x1, y1), In: motion.Pt(x2, y2)}
}

// Keyframe is one animated segment: the value moves from StartValue at
// StartFrame to EndValue at EndFrame following Easing.
//
// A keyframe without an end value (HasEnd false) only supplies its start
// value. A keyframe without an end frame (HasEndFrame false) runs to the end
// of the composition.
type Keyframe[T any] struct {
	StartValue  T
	EndValue    T
	HasEnd      bool
	StartFrame  float64
	EndFrame    float64
	HasEndFrame bool
	Easing      Easing

	// PathOut and PathIn are the spatial tangents of a point keyframe
	// (relative to StartValue and EndValue). When either is non-zero the
	// value travels along a cubic curve instead of a straight line.
	PathOut, PathIn motion.Point
	Spatial         bool
}

// StartProgress returns the position of StartFrame in composition progress.
func (k *Keyframe[T]) StartProgress(c *Composition) float64 {
	if c == nil {
		return 0
	}
	return c.ProgressForFrame(k.StartFrame)
}

// EndProgress returns the position of EndFrame in composition progress, or
// 1 when the keyframe has no end frame.
func (k *Keyframe[T]) EndProgress(c *Composition) float64 {
	if c == nil || !k.HasEndFrame {
		return 1
	}
	d := c.DurationFrames()
	if d <= 0 {
		return 1
	}
	return k.StartProgress(c) + (k.EndFrame-k.StartFrame)/d
}

// IsHold reports whether the keyframe jumps instead of interpolating.
func (k *Keyframe[T]) IsHold() bool {
	return k.Easing.Kind == EaseHold || !k.HasEnd
}

// Animatable is either a constant Value or a non-empty list of keyframes.
type Animatable[T any] struct {
	Value     T
	Keyframes []Keyframe[T]

	// Expression is set when the source carried an expression; it is not
	// evaluated.
	Expression bool
}

// Static returns a constant animatable.
func Static[T any](v T) Animatable[T] {
	return Animatable[T]{Value: v}
}

// Animated returns an animatable over the given keyframes after deriving
// their end frames with SetEndFrames.
func Animated[T any](keyframes []Keyframe[T]) Animatable[T] {
	kfs := SetEndFrames(keyframes)
	a := Animatable[T]{Keyframes: kfs}
	if len(kfs) > 0 {
		a.Value = kfs[0].StartValue
	}
	return a
}

// IsStatic reports whether the value never changes.
func (a Animatable[T]) IsStatic() bool {
	return len(a.Keyframes) == 0
}

// Initial returns the value at the first keyframe, or the constant.
func (a Animatable[T]) Initial() T {
	if len(a.Keyframes) > 0 {
		return a.Keyframes[0].StartValue
	}
	return a.Value
}

// SetEndFrames derives every keyframe's end frame from the next keyframe's
// start frame, fills a missing end value from the next start value, and
// drops a trailing keyframe that exists only to close the previous one.
// The input slice is modified in place and the trimmed slice is returned.
func SetEndFrames[T any](kfs []Keyframe[T]) []Keyframe[T] {
	n := len(kfs)
	for i := 0; i < n-1; i++ {
		k := &kfs[i]
		next := &kfs[i+1]
		k.EndFrame = next.StartFrame
		k.HasEndFrame = true
		if !k.HasEnd {
			k.EndValue = next.StartValue
			k.HasEnd = true
		}
	}
	if n > 1 && !kfs[n-1].HasEnd {
		kfs = kfs[:n-1]
	}
	return kfs
}
