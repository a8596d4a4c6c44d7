package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontLibrary holds registered fonts and resolves them to faces.
// Each font is parsed twice on registration: once with x/image sfnt for
// glyph names, outlines and metrics, and once with go-text/typesetting
// for HarfBuzz shaping.
//
// Registration and resolution are safe for concurrent use; the returned
// faces are not.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[string]*fontEntry
}

type fontEntry struct {
	name   string
	data   []byte
	sfnt   *sfnt.Font
	gotext *gtfont.Font

	// glyph name index, built lazily on the first GlyphByName call
	nameOnce sync.Once
	names    map[string]GlyphID
}

// NewFontLibrary creates an empty font library.
func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[string]*fontEntry)}
}

// Register parses TTF/OTF font bytes and stores them under name.
// Registering the same name again replaces the previous font.
func (l *FontLibrary) Register(name string, data []byte) error {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}
	gtFace, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}
	l.mu.Lock()
	l.fonts[name] = &fontEntry{
		name:   name,
		data:   data,
		sfnt:   sf,
		gotext: gtFace.Font,
	}
	l.mu.Unlock()
	return nil
}

// RegisterFile loads a font file from disk and registers it under name.
func (l *FontLibrary) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}
	return l.Register(name, data)
}

// Names returns the registered font names.
func (l *FontLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.fonts))
	for name := range l.fonts {
		names = append(names, name)
	}
	return names
}

// Resolve implements the Library interface.
func (l *FontLibrary) Resolve(name string, size float64) (Face, bool) {
	l.mu.RLock()
	entry, ok := l.fonts[name]
	l.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &libraryFace{entry: entry, size: size}, true
}

// libraryFace is a Face backed by a registered font. It carries its own
// sfnt.Buffer, so it is not safe for concurrent use.
type libraryFace struct {
	entry *fontEntry
	size  float64
	buf   sfnt.Buffer
}

func (f *libraryFace) Name() string  { return f.entry.name }
func (f *libraryFace) Size() float64 { return f.size }

// GoTextFont exposes the typesetting font for HarfBuzz shaping.
func (f *libraryFace) GoTextFont() *gtfont.Font { return f.entry.gotext }

func (f *libraryFace) ppem() fixed.Int26_6 {
	return fixed.Int26_6(f.size * 64)
}

func (f *libraryFace) Metrics() Metrics {
	m, err := f.entry.sfnt.Metrics(&f.buf, f.ppem(), xfont.HintingNone)
	if err != nil {
		return Metrics{Ascent: 0.8 * f.size, Descent: 0.2 * f.size}
	}
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	return Metrics{
		Ascent:    ascent,
		Descent:   descent,
		LineGap:   fixedToFloat(m.Height) - ascent - descent,
		XHeight:   fixedToFloat(m.XHeight),
		CapHeight: fixedToFloat(m.CapHeight),
	}
}

func (f *libraryFace) GlyphAdvance(gid GlyphID) float64 {
	adv, err := f.entry.sfnt.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), f.ppem(), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

func (f *libraryFace) GlyphIndex(r rune) (GlyphID, bool) {
	gid, err := f.entry.sfnt.GlyphIndex(&f.buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return GlyphID(gid), true
}

func (f *libraryFace) GlyphByName(name string) (GlyphID, bool) {
	f.entry.nameOnce.Do(func() {
		var buf sfnt.Buffer
		names := make(map[string]GlyphID, f.entry.sfnt.NumGlyphs())
		for i := 0; i < f.entry.sfnt.NumGlyphs(); i++ {
			glyphName, err := f.entry.sfnt.GlyphName(&buf, sfnt.GlyphIndex(i))
			if err != nil || glyphName == "" {
				continue
			}
			if _, exists := names[glyphName]; !exists {
				names[glyphName] = GlyphID(i)
			}
		}
		f.entry.names = names
	})
	gid, ok := f.entry.names[name]
	return gid, ok
}

// GlyphOutline loads the glyph outline at the face size. sfnt outlines are
// y-down; coordinates are flipped to the engine's y-up convention.
func (f *libraryFace) GlyphOutline(gid GlyphID) (Outline, error) {
	segments, err := f.entry.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), f.ppem(), nil)
	if err != nil {
		return Outline{}, fmt.Errorf("%w: glyph %d: %v", ErrGlyphNotFound, gid, err)
	}
	outline := Outline{
		Segments: make([]Segment, 0, len(segments)),
		Advance:  f.GlyphAdvance(gid),
	}
	for _, seg := range segments {
		out := Segment{}
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			out.Op = SegmentOpMoveTo
			out.Args[0] = flipPoint(seg.Args[0])
		case sfnt.SegmentOpLineTo:
			out.Op = SegmentOpLineTo
			out.Args[0] = flipPoint(seg.Args[0])
		case sfnt.SegmentOpQuadTo:
			out.Op = SegmentOpQuadTo
			out.Args[0] = flipPoint(seg.Args[0])
			out.Args[1] = flipPoint(seg.Args[1])
		case sfnt.SegmentOpCubeTo:
			out.Op = SegmentOpCubeTo
			out.Args[0] = flipPoint(seg.Args[0])
			out.Args[1] = flipPoint(seg.Args[1])
			out.Args[2] = flipPoint(seg.Args[2])
		}
		outline.Segments = append(outline.Segments, out)
	}
	return outline, nil
}

// flipPoint converts a fixed.Point26_6 to a y-up SegmentPoint.
func flipPoint(p fixed.Point26_6) SegmentPoint {
	return SegmentPoint{
		X: fixedToFloat(p.X),
		Y: -fixedToFloat(p.Y),
	}
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
