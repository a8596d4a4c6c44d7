package drawbot

import "fmt"

// GradientKind selects the gradient geometry.
type GradientKind string

const (
	GradientLinear GradientKind = "linear"
	GradientRadial GradientKind = "radial"
)

// Gradient describes a multi-stop linear or radial gradient used as the
// fill paint. Colors and Positions are parallel; CMYKColors, when present,
// is parallel too and preserved for subtractive-color backends.
type Gradient struct {
	Kind        GradientKind
	Start       Point
	End         Point
	Colors      []Color
	CMYKColors  []CMYKColor
	Positions   []float64
	StartRadius float64
	EndRadius   float64
}

// NewGradient validates and builds a gradient.
//
// The kind must be linear or radial, at least two colors are required, and
// positions must either be empty (stops spaced evenly over [0, 1]) or match
// the number of colors. CMYK colors, when given, must also match. Radii are
// only meaningful for radial gradients.
func NewGradient(kind GradientKind, start, end Point, colors []Color, cmykColors []CMYKColor, positions []float64, startRadius, endRadius float64) (*Gradient, error) {
	if kind != GradientLinear && kind != GradientRadial {
		return nil, fmt.Errorf("%w: unsupported gradient kind %q", ErrInvalidGradient, kind)
	}
	if len(colors) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 colors, got %d", ErrInvalidGradient, len(colors))
	}
	if cmykColors != nil && len(cmykColors) != len(colors) {
		return nil, fmt.Errorf("%w: %d cmyk colors for %d colors", ErrInvalidGradient, len(cmykColors), len(colors))
	}
	if positions == nil {
		positions = make([]float64, len(colors))
		step := 1.0 / float64(len(colors)-1)
		for i := range positions {
			positions[i] = float64(i) * step
		}
	} else if len(positions) != len(colors) {
		return nil, fmt.Errorf("%w: %d positions for %d colors", ErrInvalidGradient, len(positions), len(colors))
	}
	return &Gradient{
		Kind:        kind,
		Start:       start,
		End:         end,
		Colors:      append([]Color(nil), colors...),
		CMYKColors:  append([]CMYKColor(nil), cmykColors...),
		Positions:   append([]float64(nil), positions...),
		StartRadius: startRadius,
		EndRadius:   endRadius,
	}, nil
}

// Copy returns a deep copy of the gradient.
func (g *Gradient) Copy() *Gradient {
	if g == nil {
		return nil
	}
	c := *g
	c.Colors = append([]Color(nil), g.Colors...)
	c.CMYKColors = append([]CMYKColor(nil), g.CMYKColors...)
	c.Positions = append([]float64(nil), g.Positions...)
	return &c
}

// ColorAt evaluates the gradient at offset t in [0, 1], interpolating
// between the surrounding stops. Used by raster previews.
func (g *Gradient) ColorAt(t float64) Color {
	if t <= g.Positions[0] {
		return g.Colors[0]
	}
	last := len(g.Positions) - 1
	if t >= g.Positions[last] {
		return g.Colors[last]
	}
	for i := 1; i <= last; i++ {
		if t > g.Positions[i] {
			continue
		}
		span := g.Positions[i] - g.Positions[i-1]
		if span <= 0 {
			return g.Colors[i]
		}
		return g.Colors[i-1].Lerp(g.Colors[i], (t-g.Positions[i-1])/span)
	}
	return g.Colors[last]
}
