package drawbot

import "fmt"

// LineCap styles the ends of open subpaths. The zero value keeps the
// backend's default.
type LineCap int

const (
	LineCapUnset LineCap = iota
	LineCapButt
	LineCapRound
	LineCapSquare
)

// lineCapFromName parses a line cap name.
func lineCapFromName(name string) (LineCap, error) {
	switch name {
	case "butt":
		return LineCapButt, nil
	case "round":
		return LineCapRound, nil
	case "square":
		return LineCapSquare, nil
	}
	return LineCapUnset, fmt.Errorf("%w: lineCap %q (expected butt, round or square)", ErrInvalidParameter, name)
}

func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	}
	return "unset"
}

// LineJoin styles the corners of stroked paths. The zero value keeps the
// backend's default.
type LineJoin int

const (
	LineJoinUnset LineJoin = iota
	LineJoinMiter
	LineJoinRound
	LineJoinBevel
)

// lineJoinFromName parses a line join name.
func lineJoinFromName(name string) (LineJoin, error) {
	switch name {
	case "miter":
		return LineJoinMiter, nil
	case "round":
		return LineJoinRound, nil
	case "bevel":
		return LineJoinBevel, nil
	}
	return LineJoinUnset, fmt.Errorf("%w: lineJoin %q (expected miter, round or bevel)", ErrInvalidParameter, name)
}

func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "miter"
	case LineJoinRound:
		return "round"
	case LineJoinBevel:
		return "bevel"
	}
	return "unset"
}

// GraphicsState is the full drawing state snapshot managed by the
// save/restore stack. RGB and CMYK paint slots are mutually exclusive per
// pair; a gradient displaces the fill color.
type GraphicsState struct {
	Fill       *Color
	CMYKFill   *CMYKColor
	Stroke     *Color
	CMYKStroke *CMYKColor
	Gradient   *Gradient
	Shadow     *Shadow

	StrokeWidth float64
	LineDash    []float64
	LineCap     LineCap
	LineJoin    LineJoin
	MiterLimit  float64

	Text TextStyle

	// Path is the current construction path; nil until NewPath or a shape
	// helper starts one.
	Path *BezierPath

	// CTM is the accumulated transformation.
	CTM Matrix
}

// newGraphicsState returns the initial state: black fill, no stroke,
// hairline-ish width 1, miter limit 10, identity transform.
func newGraphicsState() *GraphicsState {
	black := Gray(0)
	return &GraphicsState{
		Fill:        &black,
		StrokeWidth: 1,
		MiterLimit:  10,
		CTM:         Identity(),
	}
}

// Copy deep-copies every mutable member so that a restored state is
// unaffected by mutations made after the save.
func (s *GraphicsState) Copy() *GraphicsState {
	c := *s
	c.Fill = copyColor(s.Fill)
	c.CMYKFill = copyCMYK(s.CMYKFill)
	c.Stroke = copyColor(s.Stroke)
	c.CMYKStroke = copyCMYK(s.CMYKStroke)
	c.Gradient = s.Gradient.Copy()
	c.Shadow = s.Shadow.Copy()
	c.LineDash = append([]float64(nil), s.LineDash...)
	c.Text = s.Text.Copy()
	c.Path = s.Path.Copy()
	return &c
}
