package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// goTextSource is implemented by faces that carry a parsed typesetting
// font. Faces without one (FixedFace) are shaped by the builtin fallback.
type goTextSource interface {
	GoTextFont() *gtfont.Font
}

// GoTextEngine shapes runs with HarfBuzz via go-text/typesetting:
// kerning, ligatures, OpenType features, right-to-left scripts.
//
// HarfbuzzShaper instances have internal mutable state and are pooled.
// font.Face objects are not safe for concurrent use, so a fresh one wraps
// the cached thread-safe *font.Font on every Shape call.
type GoTextEngine struct {
	shaperPool sync.Pool
	fallback   *BuiltinEngine
}

// NewGoTextEngine creates a GoTextEngine.
func NewGoTextEngine() *GoTextEngine {
	return &GoTextEngine{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fallback: NewBuiltinEngine(),
	}
}

// Shape implements the Engine interface.
func (e *GoTextEngine) Shape(run Run) []ShapedGlyph {
	if run.Face == nil || (run.Text == "" && run.Glyphs == nil) {
		return nil
	}
	if run.Glyphs != nil {
		// Explicit glyph runs bypass cmap and shaping entirely.
		return shapeGlyphRun(run)
	}
	source, ok := run.Face.(goTextSource)
	if !ok {
		return e.fallback.Shape(run)
	}

	goTextFace := gtfont.NewFace(source.GoTextFont())
	runes := []rune(run.Text)

	input := shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Direction:    baseDirection(run.Text),
		Face:         goTextFace,
		Size:         fixed.Int26_6(run.Face.Size() * 64),
		Script:       detectScript(runes),
		Language:     language.NewLanguage("en"),
		FontFeatures: fontFeatures(run.Features),
	}

	shaper := e.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := shaper.Shape(input)
	e.shaperPool.Put(shaper)

	glyphs := make([]ShapedGlyph, len(output.Glyphs))
	var x float64
	for i, g := range output.Glyphs {
		adv := float64(g.XAdvance)/64.0 + run.Tracking
		glyphs[i] = ShapedGlyph{
			GID:      GlyphID(g.GlyphID),
			Cluster:  g.ClusterIndex,
			X:        x + float64(g.XOffset)/64.0,
			Y:        float64(g.YOffset) / 64.0,
			XAdvance: adv,
		}
		x += adv
	}
	return glyphs
}

// Measure implements the Engine interface.
func (e *GoTextEngine) Measure(run Run) float64 {
	var width float64
	for _, g := range e.Shape(run) {
		width += g.XAdvance
	}
	return width
}

// LineHeight implements the Engine interface.
func (e *GoTextEngine) LineHeight(run Run) float64 {
	return e.fallback.LineHeight(run)
}

// fontFeatures converts a tag→state map to shaping features. Tags are
// assumed validated upstream; malformed ones are skipped here.
func fontFeatures(features map[string]bool) []shaping.FontFeature {
	if len(features) == 0 {
		return nil
	}
	out := make([]shaping.FontFeature, 0, len(features))
	for tag, on := range features {
		if len(tag) != 4 {
			continue
		}
		var value uint32
		if on {
			value = 1
		}
		out = append(out, shaping.FontFeature{Tag: newTag(tag), Value: value})
	}
	return out
}

// newTag packs a 4-byte feature tag. The caller guarantees len(s) == 4.
func newTag(s string) gtfont.Tag {
	return gtfont.Tag(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3]))
}

// baseDirection determines the paragraph direction of the text.
func baseDirection(text string) di.Direction {
	var p bidi.Paragraph
	p.SetString(text)
	order, err := p.Order()
	if err != nil || order.NumRuns() == 0 {
		return di.DirectionLTR
	}
	run := order.Run(0)
	if run.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
// Mixed-script text should be split into runs before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
