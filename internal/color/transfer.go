// Package color holds the sRGB transfer functions used for gamma-correct
// color interpolation.
//
// Animated colors are stored gamma-encoded. Blending them component-wise in
// that space darkens midpoints, so interpolation decodes to linear light,
// mixes, and encodes again.
package color

import "math"

// decodeLUT maps an 8-bit sRGB component to linear light.
var decodeLUT [256]float64

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = decode(float64(i) / 255)
	}
}

func decode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// SRGBToLinear decodes a gamma-encoded component in [0, 1]. Inputs that
// sit exactly on an 8-bit step take the table path.
func SRGBToLinear(s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	scaled := s * 255
	if i := int(scaled); float64(i) == scaled {
		return decodeLUT[i]
	}
	return decode(s)
}

// LinearToSRGB encodes a linear-light component in [0, 1].
func LinearToSRGB(l float64) float64 {
	if l <= 0 {
		return 0
	}
	if l >= 1 {
		return 1
	}
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

// LerpComponent interpolates two gamma-encoded components in linear light.
func LerpComponent(a, b, t float64) float64 {
	la, lb := SRGBToLinear(a), SRGBToLinear(b)
	return LinearToSRGB(la + (lb-la)*t)
}
