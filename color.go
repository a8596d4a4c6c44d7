package drawbot

import (
	"fmt"
	"image/color"
)

// Color represents an RGB color with alpha.
// Each component is in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// Gray creates an opaque grayscale color.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// GrayAlpha creates a grayscale color with alpha.
func GrayAlpha(v, a float64) Color {
	return Color{R: v, G: v, B: v, A: a}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NRGBA converts the color to the standard color.Color interface.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Lerp performs linear interpolation between two colors.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// CMYKColor represents a CMYK color with alpha.
// Each component is in the range [0, 1].
type CMYKColor struct {
	C, M, Y, K, A float64
}

// CMYK creates an opaque CMYK color.
func CMYK(c, m, y, k float64) CMYKColor {
	return CMYKColor{C: c, M: m, Y: y, K: k, A: 1}
}

// CMYKAlpha creates a CMYK color with alpha.
func CMYKAlpha(c, m, y, k, a float64) CMYKColor {
	return CMYKColor{C: c, M: m, Y: y, K: k, A: a}
}

// RGB converts the CMYK color to its RGB equivalent:
//
//	r = (1-c) * (1-k)
//	g = (1-m) * (1-k)
//	b = (1-y) * (1-k)
//
// Alpha is carried over unchanged.
func (c CMYKColor) RGB() Color {
	w := 1 - c.K
	return Color{
		R: (1 - c.C) * w,
		G: (1 - c.M) * w,
		B: (1 - c.Y) * w,
		A: c.A,
	}
}

// ColorsFrom converts a list of loosely typed color values to Colors.
// Each element may be a Color, a *Color, a float64 (gray), a [2]float64
// (gray, alpha), a [3]float64 (r, g, b) or a [4]float64 (r, g, b, a).
// Any other shape returns ErrInvalidColor.
func ColorsFrom(values ...any) ([]Color, error) {
	colors := make([]Color, 0, len(values))
	for i, v := range values {
		switch c := v.(type) {
		case Color:
			colors = append(colors, c)
		case *Color:
			if c == nil {
				return nil, fmt.Errorf("%w: nil color at index %d", ErrInvalidColor, i)
			}
			colors = append(colors, *c)
		case float64:
			colors = append(colors, Gray(c))
		case [2]float64:
			colors = append(colors, GrayAlpha(c[0], c[1]))
		case [3]float64:
			colors = append(colors, RGB(c[0], c[1], c[2]))
		case [4]float64:
			colors = append(colors, RGBA(c[0], c[1], c[2], c[3]))
		default:
			return nil, fmt.Errorf("%w: unsupported color value %T at index %d", ErrInvalidColor, v, i)
		}
	}
	return colors, nil
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
