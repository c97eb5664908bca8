package notan

import (
	"image/color"
)

// Color is an RGBA color with float32 components in the range [0, 1].
// Vertex streams are float32, so colors are kept in float32 to pack into
// vertex storage without conversion.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color to Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	}
}

// Color converts to the standard color.Color interface.
func (c Color) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
