package text

// FixedFace is a synthetic face with deterministic metrics and no glyph
// data: every rune maps to its own code point, advances are 0.6 times the
// size, and outlines are empty. It keeps the engine usable (and testable)
// without any registered fonts.
type FixedFace struct {
	name string
	size float64
}

// NewFixedFace creates a synthetic face.
func NewFixedFace(name string, size float64) *FixedFace {
	return &FixedFace{name: name, size: size}
}

func (f *FixedFace) Name() string  { return f.name }
func (f *FixedFace) Size() float64 { return f.size }

func (f *FixedFace) Metrics() Metrics {
	return Metrics{
		Ascent:    0.8 * f.size,
		Descent:   0.2 * f.size,
		LineGap:   0.2 * f.size,
		XHeight:   0.5 * f.size,
		CapHeight: 0.7 * f.size,
	}
}

func (f *FixedFace) GlyphAdvance(gid GlyphID) float64 {
	if zeroWidth(rune(gid)) {
		return 0
	}
	return 0.6 * f.size
}

func (f *FixedFace) GlyphIndex(r rune) (GlyphID, bool) {
	return GlyphID(r), true
}

func (f *FixedFace) GlyphByName(name string) (GlyphID, bool) {
	return 0, false
}

func (f *FixedFace) GlyphOutline(gid GlyphID) (Outline, error) {
	return Outline{Advance: f.GlyphAdvance(gid)}, nil
}

// FixedLibrary resolves every font name to a FixedFace. It is the default
// library of a drawing context so text operations work headless.
type FixedLibrary struct{}

// Resolve implements the Library interface. It never fails.
func (FixedLibrary) Resolve(name string, size float64) (Face, bool) {
	return NewFixedFace(name, size), true
}
