package timeline

import (
	"github.com/gogpu/motion"
	"github.com/gogpu/motion/model"
)

// Float returns a timeline for a scalar value.
func Float(comp *model.Composition, a model.Animatable[float64]) *Timeline[float64] {
	return New(comp, a, func(k *model.Keyframe[float64], t float64) float64 {
		return k.StartValue + (k.EndValue-k.StartValue)*t
	})
}

// Color returns a timeline for a color value. Colors are mixed in linear
// light.
func Color(comp *model.Composition, a model.Animatable[motion.RGBA]) *Timeline[motion.RGBA] {
	return New(comp, a, func(k *model.Keyframe[motion.RGBA], t float64) motion.RGBA {
		return k.StartValue.LerpLinear(k.EndValue, t)
	})
}

// Vector returns a timeline for a 2D value that always moves in a straight
// line, such as a scale or a size.
func Vector(comp *model.Composition, a model.Animatable[motion.Point]) *Timeline[motion.Point] {
	return New(comp, a, func(k *model.Keyframe[motion.Point], t float64) motion.Point {
		return k.StartValue.Lerp(k.EndValue, t)
	})
}

// Point returns a timeline for a position. Keyframes with spatial tangents
// travel along the cubic curve they describe, at constant speed along its
// length; the measured curve is cached per keyframe.
func Point(comp *model.Composition, a model.Animatable[motion.Point]) *Timeline[motion.Point] {
	paths := make(map[*model.Keyframe[motion.Point]]*motion.PathMeasure)
	return New(comp, a, func(k *model.Keyframe[motion.Point], t float64) motion.Point {
		if !k.Spatial || k.StartValue == k.EndValue {
			return k.StartValue.Lerp(k.EndValue, t)
		}
		m, ok := paths[k]
		if !ok {
			m = motion.NewPathMeasure(keyframePath(k))
			paths[k] = m
		}
		pos, _, ok := m.PosTan(t * m.Length())
		if !ok {
			return k.StartValue.Lerp(k.EndValue, t)
		}
		return pos
	})
}

// keyframePath builds the motion path of a spatial keyframe.
func keyframePath(k *model.Keyframe[motion.Point]) *motion.Path {
	p := motion.NewPath()
	s, e := k.StartValue, k.EndValue
	c1 := s.Add(k.PathOut)
	c2 := e.Add(k.PathIn)
	p.MoveTo(s.X, s.Y)
	p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, e.X, e.Y)
	return p
}

// Gradient returns a timeline for gradient stops. Keyframes with different
// stop counts keep their start stops and log a warning once.
func Gradient(comp *model.Composition, a model.Animatable[model.GradientColor]) *Timeline[model.GradientColor] {
	warned := false
	return New(comp, a, func(k *model.Keyframe[model.GradientColor], t float64) model.GradientColor {
		g, ok := k.StartValue.Lerp(k.EndValue, t)
		if !ok && !warned {
			warned = true
			motion.Logger().Warn("gradient stop counts differ",
				"kind", model.GeometryInconsistency.String(),
				"from", k.StartValue.Size(), "to", k.EndValue.Size())
		}
		return g
	})
}

// Shape returns a timeline for a morphing contour. Keyframes with different
// vertex counts interpolate their common prefix and log a warning once.
func Shape(comp *model.Composition, a model.Animatable[model.ShapeData]) *Timeline[model.ShapeData] {
	warned := false
	return New(comp, a, func(k *model.Keyframe[model.ShapeData], t float64) model.ShapeData {
		s, ok := k.StartValue.Lerp(k.EndValue, t)
		if !ok && !warned {
			warned = true
			motion.Logger().Warn("shape vertex counts differ",
				"kind", model.GeometryInconsistency.String(),
				"from", len(k.StartValue.Curves), "to", len(k.EndValue.Curves))
		}
		return s
	})
}

// Document returns a timeline for text documents. Documents never
// interpolate; each keyframe holds until the next.
func Document(comp *model.Composition, a model.Animatable[model.DocumentData]) *Timeline[model.DocumentData] {
	return New(comp, a, func(k *model.Keyframe[model.DocumentData], _ float64) model.DocumentData {
		return k.StartValue
	})
}

// OptionalFloat is Float for an optional property; nil yields nil.
func OptionalFloat(comp *model.Composition, a *model.Animatable[float64]) *Timeline[float64] {
	if a == nil {
		return nil
	}
	return Float(comp, *a)
}
