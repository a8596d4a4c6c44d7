package drawbot

import (
	"fmt"
	"strings"

	"github.com/schriftgestalt/drawbot/text"
)

// glyphPlaceholder stands in for one glyph in a glyph-identity run.
// No-break space keeps line breaking from splitting glyph runs.
const glyphPlaceholder = '\u00a0'

// TextRun is a maximal piece of text sharing one set of attributes.
// Paint attributes are pointers so that "unset" is distinguishable; an
// unset fill renders black.
type TextRun struct {
	Text        string
	Style       TextStyle
	Fill        *Color
	CMYKFill    *CMYKColor
	Stroke      *Color
	CMYKStroke  *CMYKColor
	StrokeWidth float64
	Align       Align
	Face        text.Face

	// Glyphs, when non-nil, makes this a glyph-identity run: Text holds
	// one placeholder rune per glyph and shaping is bypassed.
	Glyphs []text.GlyphID
}

// Copy returns a deep copy of the run.
func (r TextRun) Copy() TextRun {
	c := r
	c.Style = r.Style.Copy()
	c.Fill = copyColor(r.Fill)
	c.CMYKFill = copyCMYK(r.CMYKFill)
	c.Stroke = copyColor(r.Stroke)
	c.CMYKStroke = copyCMYK(r.CMYKStroke)
	c.Glyphs = append([]text.GlyphID(nil), r.Glyphs...)
	if r.Glyphs != nil && c.Glyphs == nil {
		c.Glyphs = []text.GlyphID{}
	}
	return c
}

// shapingRun converts the run for the shaping engine.
func (r TextRun) shapingRun() text.Run {
	run := r.Style.run(r.Text, r.Face)
	run.Glyphs = r.Glyphs
	return run
}

func copyColor(c *Color) *Color {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func copyCMYK(c *CMYKColor) *CMYKColor {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// runAttrs is the running attribute set of a FormattedString. Every
// Append freezes a copy of it into the new run.
type runAttrs struct {
	style       TextStyle
	fill        *Color
	cmykFill    *CMYKColor
	stroke      *Color
	cmykStroke  *CMYKColor
	strokeWidth float64
	align       Align
}

func (a runAttrs) copy() runAttrs {
	c := a
	c.style = a.style.Copy()
	c.fill = copyColor(a.fill)
	c.cmykFill = copyCMYK(a.cmykFill)
	c.stroke = copyColor(a.stroke)
	c.cmykStroke = copyCMYK(a.cmykStroke)
	return c
}

// TextOption overrides one running attribute for an Append call and all
// following ones.
type TextOption func(*FormattedString)

// TextFill sets the fill color and clears any CMYK fill.
func TextFill(c Color) TextOption {
	return func(fs *FormattedString) {
		fs.attrs.fill = &c
		fs.attrs.cmykFill = nil
	}
}

// TextCMYKFill sets the CMYK fill color and clears any RGB fill.
func TextCMYKFill(c CMYKColor) TextOption {
	return func(fs *FormattedString) {
		fs.attrs.cmykFill = &c
		fs.attrs.fill = nil
	}
}

// TextStroke sets the stroke color and clears any CMYK stroke.
func TextStroke(c Color) TextOption {
	return func(fs *FormattedString) {
		fs.attrs.stroke = &c
		fs.attrs.cmykStroke = nil
	}
}

// TextCMYKStroke sets the CMYK stroke color and clears any RGB stroke.
func TextCMYKStroke(c CMYKColor) TextOption {
	return func(fs *FormattedString) {
		fs.attrs.cmykStroke = &c
		fs.attrs.stroke = nil
	}
}

// TextStrokeWidth sets the stroke width for text outlines.
func TextStrokeWidth(w float64) TextOption {
	return func(fs *FormattedString) { fs.attrs.strokeWidth = w }
}

// TextFont sets the font name.
func TextFont(name string) TextOption {
	return func(fs *FormattedString) { fs.attrs.style.Font = name }
}

// TextFontSize sets the point size.
func TextFontSize(size float64) TextOption {
	return func(fs *FormattedString) { fs.attrs.style.FontSize = size }
}

// TextLineHeight sets the baseline distance.
func TextLineHeight(h float64) TextOption {
	return func(fs *FormattedString) { fs.attrs.style.LineHeight = h }
}

// TextTracking sets per-glyph tracking.
func TextTracking(t float64) TextOption {
	return func(fs *FormattedString) { fs.attrs.style.Tracking = t }
}

// TextHyphenation toggles hyphenated line breaking.
func TextHyphenation(on bool) TextOption {
	return func(fs *FormattedString) { fs.attrs.style.Hyphenation = on }
}

// TextFeatures merges OpenType feature settings into the running style,
// with the same name handling as Context.SetOpenTypeFeatures: nil clears
// all features, a "_off" suffix inverts the value, unknown tags produce a
// warning and are skipped.
func TextFeatures(features map[string]bool) TextOption {
	return func(fs *FormattedString) {
		if features == nil {
			fs.attrs.style.Features = nil
			return
		}
		if fs.attrs.style.Features == nil {
			fs.attrs.style.Features = make(map[string]bool, len(features))
		}
		for name, value := range features {
			tag, suffixOn := text.ParseFeatureTag(name)
			if !text.KnownFeature(tag) {
				fs.warn(unknownFeatureWarning(name))
				continue
			}
			fs.attrs.style.Features[tag] = value == suffixOn
		}
	}
}

// TextAlignment sets the paragraph alignment.
func TextAlignment(align Align) TextOption {
	return func(fs *FormattedString) { fs.attrs.align = align }
}

// FormattedString is rich text: an ordered list of runs, each carrying
// its own frozen attributes, plus the running attributes applied to the
// next Append.
type FormattedString struct {
	runs     []TextRun
	attrs    runAttrs
	lib      text.Library
	warnings []Warning
}

// NewFormattedString creates an empty formatted string. A nil library
// defaults to synthetic fixed-metrics faces.
func NewFormattedString(lib text.Library, opts ...TextOption) *FormattedString {
	if lib == nil {
		lib = text.FixedLibrary{}
	}
	fs := &FormattedString{lib: lib}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Append adds txt as a new run. Options mutate the running attributes
// first; the run freezes a copy of them. The font is resolved eagerly so
// substitution warnings surface at append time.
func (fs *FormattedString) Append(txt string, opts ...TextOption) error {
	for _, opt := range opts {
		opt(fs)
	}
	if txt == "" {
		return nil
	}
	face, err := fs.resolveFace()
	if err != nil {
		return err
	}
	attrs := fs.attrs.copy()
	fs.runs = append(fs.runs, TextRun{
		Text:        txt,
		Style:       attrs.style,
		Fill:        attrs.fill,
		CMYKFill:    attrs.cmykFill,
		Stroke:      attrs.stroke,
		CMYKStroke:  attrs.cmykStroke,
		StrokeWidth: attrs.strokeWidth,
		Align:       attrs.align,
		Face:        face,
	})
	return nil
}

// AppendGlyphs adds a glyph-identity run from PostScript glyph names in
// the current font. Unknown names produce a warning and are skipped.
func (fs *FormattedString) AppendGlyphs(names ...string) error {
	face, err := fs.resolveFace()
	if err != nil {
		return err
	}
	var glyphs []text.GlyphID
	for _, name := range names {
		gid, ok := face.GlyphByName(name)
		if !ok {
			fs.warn(unknownGlyphWarning(face.Name(), name))
			continue
		}
		glyphs = append(glyphs, gid)
	}
	if len(glyphs) == 0 {
		return nil
	}
	attrs := fs.attrs.copy()
	fs.runs = append(fs.runs, TextRun{
		Text:        strings.Repeat(string(glyphPlaceholder), len(glyphs)),
		Style:       attrs.style,
		Fill:        attrs.fill,
		CMYKFill:    attrs.cmykFill,
		Stroke:      attrs.stroke,
		CMYKStroke:  attrs.cmykStroke,
		StrokeWidth: attrs.strokeWidth,
		Align:       attrs.align,
		Face:        face,
		Glyphs:      glyphs,
	})
	return nil
}

// AppendFormatted concatenates another formatted string's runs. The other
// string's running attributes become the running attributes.
func (fs *FormattedString) AppendFormatted(other *FormattedString) {
	if other == nil {
		return
	}
	for _, run := range other.runs {
		fs.runs = append(fs.runs, run.Copy())
	}
	fs.warnings = append(fs.warnings, other.warnings...)
	fs.attrs = other.attrs.copy()
}

func (fs *FormattedString) resolveFace() (text.Face, error) {
	face, warning := fs.attrs.style.resolveFace(fs.lib)
	if face == nil {
		return nil, fmt.Errorf("%w: cannot resolve font %q", ErrInvalidFont, fs.attrs.style.fontName())
	}
	if warning != nil {
		fs.warn(*warning)
	}
	return face, nil
}

func (fs *FormattedString) warn(w Warning) {
	fs.warnings = append(fs.warnings, w)
	Logger().Warn(w.Message, "kind", w.Kind)
}

// Warnings returns the warnings collected so far.
func (fs *FormattedString) Warnings() []Warning {
	return fs.warnings
}

// fontMetrics resolves the current font and returns its metrics. The zero
// value is returned when nothing resolves.
func (fs *FormattedString) fontMetrics() text.Metrics {
	face, err := fs.resolveFace()
	if err != nil {
		return text.Metrics{}
	}
	return face.Metrics()
}

// FontAscender returns the ascender of the current font, in points.
func (fs *FormattedString) FontAscender() float64 {
	return fs.fontMetrics().Ascent
}

// FontDescender returns the descender of the current font, in points.
// Descenders reach below the baseline, so the value is negative.
func (fs *FormattedString) FontDescender() float64 {
	return -fs.fontMetrics().Descent
}

// FontXHeight returns the x-height of the current font, in points.
func (fs *FormattedString) FontXHeight() float64 {
	return fs.fontMetrics().XHeight
}

// FontCapHeight returns the cap height of the current font, in points.
func (fs *FormattedString) FontCapHeight() float64 {
	return fs.fontMetrics().CapHeight
}

// FontLeading returns the line gap of the current font, in points.
func (fs *FormattedString) FontLeading() float64 {
	return fs.fontMetrics().LineGap
}

// Runs returns the frozen runs.
func (fs *FormattedString) Runs() []TextRun {
	return fs.runs
}

// Len returns the text length in runes.
func (fs *FormattedString) Len() int {
	var n int
	for _, run := range fs.runs {
		n += len([]rune(run.Text))
	}
	return n
}

// String returns the plain text of all runs.
func (fs *FormattedString) String() string {
	var b strings.Builder
	for _, run := range fs.runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// Copy returns a deep copy of the formatted string.
func (fs *FormattedString) Copy() *FormattedString {
	c := &FormattedString{
		runs:     make([]TextRun, 0, len(fs.runs)),
		attrs:    fs.attrs.copy(),
		lib:      fs.lib,
		warnings: append([]Warning(nil), fs.warnings...),
	}
	for _, run := range fs.runs {
		c.runs = append(c.runs, run.Copy())
	}
	return c
}

// Slice returns the rune range [i, j) as a new formatted string with the
// same running attributes. Bounds are clamped to the valid range, so a
// too-large j returns everything from i on.
func (fs *FormattedString) Slice(i, j int) *FormattedString {
	total := fs.Len()
	if i < 0 {
		i = 0
	}
	if j > total {
		j = total
	}
	result := &FormattedString{attrs: fs.attrs.copy(), lib: fs.lib}
	if i >= j {
		return result
	}
	var offset int
	for _, run := range fs.runs {
		runes := []rune(run.Text)
		runStart, runEnd := offset, offset+len(runes)
		offset = runEnd
		if runEnd <= i || runStart >= j {
			continue
		}
		lo, hi := 0, len(runes)
		if i > runStart {
			lo = i - runStart
		}
		if j < runEnd {
			hi = j - runStart
		}
		sub := run.Copy()
		sub.Text = string(runes[lo:hi])
		if run.Glyphs != nil {
			sub.Glyphs = append([]text.GlyphID(nil), run.Glyphs[lo:hi]...)
		}
		result.runs = append(result.runs, sub)
	}
	return result
}

// runeAt returns the rune at index i, or 0 when out of range.
func (fs *FormattedString) runeAt(i int) rune {
	if i < 0 {
		return 0
	}
	var offset int
	for _, run := range fs.runs {
		runes := []rune(run.Text)
		if i < offset+len(runes) {
			return runes[i-offset]
		}
		offset += len(runes)
	}
	return 0
}

// insertRune inserts r before rune index i, inheriting the attributes of
// the run the index falls into.
func (fs *FormattedString) insertRune(i int, r rune) {
	var offset int
	for idx := range fs.runs {
		runes := []rune(fs.runs[idx].Text)
		if i <= offset+len(runes) {
			pos := i - offset
			out := make([]rune, 0, len(runes)+1)
			out = append(out, runes[:pos]...)
			out = append(out, r)
			out = append(out, runes[pos:]...)
			fs.runs[idx].Text = string(out)
			return
		}
		offset += len(runes)
	}
}

// deleteRune removes the rune at index i.
func (fs *FormattedString) deleteRune(i int) {
	var offset int
	for idx := range fs.runs {
		runes := []rune(fs.runs[idx].Text)
		if i < offset+len(runes) {
			pos := i - offset
			fs.runs[idx].Text = string(runes[:pos]) + string(runes[pos+1:])
			return
		}
		offset += len(runes)
	}
}
