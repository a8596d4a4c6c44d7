package drawbot

// Shadow describes a drop shadow applied to subsequent fills and strokes.
// CMYKColor, when set, carries the subtractive equivalent for PDF export.
type Shadow struct {
	Offset    Point
	Blur      float64
	Color     Color
	CMYKColor *CMYKColor
}

// Copy returns a deep copy of the shadow.
func (s *Shadow) Copy() *Shadow {
	if s == nil {
		return nil
	}
	c := *s
	if s.CMYKColor != nil {
		cmyk := *s.CMYKColor
		c.CMYKColor = &cmyk
	}
	return &c
}
