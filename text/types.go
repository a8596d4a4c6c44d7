package text

// GlyphID identifies a glyph within a font.
type GlyphID uint16

// ShapedGlyph is a positioned glyph produced by shaping.
// Positions and advances are in points at the face size, y-up.
type ShapedGlyph struct {
	// GID is the glyph ID in the font.
	GID GlyphID

	// Cluster is the rune index in the source text this glyph maps to.
	Cluster int

	// X, Y is the pen position of the glyph relative to the run origin.
	X, Y float64

	// XAdvance is the horizontal advance of the glyph.
	XAdvance float64
}

// Metrics holds vertical font metrics in points at the face size.
type Metrics struct {
	Ascent    float64
	Descent   float64 // positive distance below the baseline
	LineGap   float64
	XHeight   float64
	CapHeight float64
}

// Face is a font at a specific size. Faces are not safe for concurrent
// use; each goroutine should resolve its own.
type Face interface {
	// Name returns the name the face was registered under.
	Name() string

	// Size returns the point size of the face.
	Size() float64

	// Metrics returns the vertical metrics of the face.
	Metrics() Metrics

	// GlyphAdvance returns the horizontal advance of a glyph in points.
	GlyphAdvance(gid GlyphID) float64

	// GlyphIndex returns the glyph for a rune; ok is false when the font
	// has no mapping for it.
	GlyphIndex(r rune) (GlyphID, bool)

	// GlyphByName looks a glyph up by its PostScript name.
	GlyphByName(name string) (GlyphID, bool)

	// GlyphOutline returns the scaled outline of a glyph, y-up.
	GlyphOutline(gid GlyphID) (Outline, error)
}

// Library resolves font names to faces.
type Library interface {
	// Resolve returns a face for the named font at the given size.
	// ok is false when the library does not know the name.
	Resolve(name string, size float64) (Face, bool)
}

// Run is a single-style piece of text handed to an Engine.
type Run struct {
	// Text is the run's text.
	Text string

	// Face is the resolved font face. Never nil when handed to an Engine.
	Face Face

	// Tracking is extra spacing added after every glyph, in points.
	Tracking float64

	// Features maps OpenType feature tags to their on/off state.
	Features map[string]bool

	// Glyphs, when non-nil, bypasses cmap lookup and shaping: the run
	// consists of exactly these glyphs in order. Text then holds one
	// placeholder rune per glyph.
	Glyphs []GlyphID
}

// Engine turns runs into positioned glyphs.
type Engine interface {
	// Shape converts the run into positioned glyphs.
	Shape(run Run) []ShapedGlyph

	// Measure returns the advance width of the run in points.
	Measure(run Run) float64

	// LineHeight returns the natural line height for the run's face.
	LineHeight(run Run) float64
}

// SegmentOp is the type of outline segment operation.
type SegmentOp uint8

const (
	SegmentOpMoveTo SegmentOp = iota
	SegmentOpLineTo
	SegmentOpQuadTo
	SegmentOpCubeTo
)

// SegmentPoint is a point in a glyph outline, in points at the face size.
type SegmentPoint struct {
	X, Y float64
}

// Segment is one outline drawing operation.
//   - MoveTo, LineTo: Args[0] is the target point
//   - QuadTo: Args[0] is the control, Args[1] the target
//   - CubeTo: Args[0] and Args[1] are controls, Args[2] the target
type Segment struct {
	Op   SegmentOp
	Args [3]SegmentPoint
}

// Outline is the vector outline of a single glyph, y-up.
type Outline struct {
	Segments []Segment
	Advance  float64
}

// Empty reports whether the outline has no segments.
func (o Outline) Empty() bool { return len(o.Segments) == 0 }
