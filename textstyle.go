package drawbot

import (
	"github.com/schriftgestalt/drawbot/text"
)

// Default typesetting attributes applied when nothing is set.
const (
	DefaultFont     = "LucidaGrande"
	DefaultFontSize = 10.0
)

// TextStyle is the attribute bag for typesetting: font selection, size,
// spacing, hyphenation and OpenType features. The zero value means
// "everything unset"; defaults are applied at resolution time.
type TextStyle struct {
	// Font is the requested font name.
	Font string

	// FallbackFont is tried when Font cannot be resolved. Validated when
	// assigned through the context.
	FallbackFont string

	// FontSize is the point size. Zero means DefaultFontSize.
	FontSize float64

	// LineHeight is the distance between baselines. Zero means the face's
	// natural line height.
	LineHeight float64

	// Tracking is extra spacing after every glyph, in points.
	Tracking float64

	// Hyphenation enables hyphenated line breaking in text boxes.
	Hyphenation bool

	// Features maps OpenType feature tags to their on/off state.
	Features map[string]bool
}

// Copy returns a deep copy of the style.
func (s TextStyle) Copy() TextStyle {
	c := s
	if s.Features != nil {
		c.Features = make(map[string]bool, len(s.Features))
		for tag, on := range s.Features {
			c.Features[tag] = on
		}
	}
	return c
}

// fontName returns the effective font name of the style.
func (s TextStyle) fontName() string {
	if s.Font == "" {
		return DefaultFont
	}
	return s.Font
}

// fontSize returns the effective point size of the style.
func (s TextStyle) fontSize() float64 {
	if s.FontSize <= 0 {
		return DefaultFontSize
	}
	return s.FontSize
}

// resolveFace resolves the style's font against a library. When the
// requested font is unknown the fallback font is tried, then DefaultFont;
// each substitution is reported through the returned warning. A nil face
// is returned only when nothing resolves at all.
func (s TextStyle) resolveFace(lib text.Library) (text.Face, *Warning) {
	size := s.fontSize()
	requested := s.fontName()
	if face, ok := lib.Resolve(requested, size); ok {
		return face, nil
	}
	for _, name := range []string{s.FallbackFont, DefaultFont} {
		if name == "" || name == requested {
			continue
		}
		if face, ok := lib.Resolve(name, size); ok {
			w := fontSubstitutionWarning(requested, name)
			return face, &w
		}
	}
	return nil, nil
}

// run builds a shaping run for txt in this style using the given face.
func (s TextStyle) run(txt string, face text.Face) text.Run {
	return text.Run{
		Text:     txt,
		Face:     face,
		Tracking: s.Tracking,
		Features: s.Features,
	}
}
