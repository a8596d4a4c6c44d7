package text

import "errors"

var (
	// ErrInvalidFontData is returned when font bytes cannot be parsed.
	ErrInvalidFontData = errors.New("text: invalid font data")

	// ErrGlyphNotFound is returned when a glyph has no outline in the font.
	ErrGlyphNotFound = errors.New("text: glyph not found")
)
