package text

// BuiltinEngine is a dependency-free shaping engine with fixed metrics.
// Every glyph advances by face advance when known and 0.6 times the face
// size otherwise. It performs no kerning, ligation or script shaping; it
// exists so the drawing engine works headless and deterministic without
// registered fonts.
type BuiltinEngine struct{}

// NewBuiltinEngine creates a BuiltinEngine.
func NewBuiltinEngine() *BuiltinEngine { return &BuiltinEngine{} }

// zeroWidth reports runes that never advance the pen: soft hyphen and
// zero-width space.
func zeroWidth(r rune) bool {
	return r == '\u00ad' || r == '\u200b'
}

// Shape implements the Engine interface.
func (e *BuiltinEngine) Shape(run Run) []ShapedGlyph {
	if run.Face == nil {
		return nil
	}
	if run.Glyphs != nil {
		return shapeGlyphRun(run)
	}
	var glyphs []ShapedGlyph
	var x float64
	for i, r := range []rune(run.Text) {
		gid, _ := run.Face.GlyphIndex(r)
		adv := e.runeAdvance(run, r, gid)
		glyphs = append(glyphs, ShapedGlyph{
			GID:      gid,
			Cluster:  i,
			X:        x,
			XAdvance: adv,
		})
		x += adv
	}
	return glyphs
}

// Measure implements the Engine interface.
func (e *BuiltinEngine) Measure(run Run) float64 {
	var width float64
	for _, g := range e.Shape(run) {
		width += g.XAdvance
	}
	return width
}

// LineHeight implements the Engine interface.
func (e *BuiltinEngine) LineHeight(run Run) float64 {
	if run.Face == nil {
		return 0
	}
	m := run.Face.Metrics()
	if h := m.Ascent + m.Descent + m.LineGap; h > 0 {
		return h
	}
	return 1.2 * run.Face.Size()
}

func (e *BuiltinEngine) runeAdvance(run Run, r rune, gid GlyphID) float64 {
	if zeroWidth(r) {
		return 0
	}
	adv := run.Face.GlyphAdvance(gid)
	if adv == 0 {
		adv = 0.6 * run.Face.Size()
	}
	return adv + run.Tracking
}

// shapeGlyphRun positions an explicit glyph sequence without cmap lookup.
// Shared by both engines for glyph-identity runs.
func shapeGlyphRun(run Run) []ShapedGlyph {
	glyphs := make([]ShapedGlyph, 0, len(run.Glyphs))
	var x float64
	for i, gid := range run.Glyphs {
		adv := run.Face.GlyphAdvance(gid)
		if adv == 0 {
			adv = 0.6 * run.Face.Size()
		}
		adv += run.Tracking
		glyphs = append(glyphs, ShapedGlyph{
			GID:      gid,
			Cluster:  i,
			X:        x,
			XAdvance: adv,
		})
		x += adv
	}
	return glyphs
}
