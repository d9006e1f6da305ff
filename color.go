package motion

import (
	"image/color"

	icolor "github.com/gogpu/motion/internal/color"
)

// RGBA is a straight (non-premultiplied) color with components in [0, 1].
// Color channels are gamma-encoded sRGB; alpha is linear.
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA{}
)

// Color converts c to a standard library color.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// FromColor converts a standard library color.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A *= a
	return c
}

// Premultiply returns c with its color channels scaled by alpha.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Lerp interpolates component-wise in the encoded space.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// LerpLinear interpolates in linear light and re-encodes the result.
// Alpha is interpolated directly.
func (c RGBA) LerpLinear(other RGBA, t float64) RGBA {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return other
	}
	return RGBA{
		R: icolor.LerpComponent(c.R, other.R, t),
		G: icolor.LerpComponent(c.G, other.G, t),
		B: icolor.LerpComponent(c.B, other.B, t),
		A: c.A + (other.A-c.A)*t,
	}
}

// Hex formats the color as #rrggbb.
func (c RGBA) Hex() string {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range [3]uint8{to8(c.R), to8(c.G), to8(c.B)} {
		buf[1+2*i] = digits[v>>4]
		buf[2+2*i] = digits[v&0x0f]
	}
	return string(buf)
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
