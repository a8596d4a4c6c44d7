// Package text provides font management and text shaping for the drawing
// engine.
//
// A Library resolves font names to sized faces. FontLibrary parses real
// TTF/OTF fonts; FixedLibrary synthesizes deterministic faces for headless
// use. An Engine turns single-style runs into positioned glyphs:
// GoTextEngine shapes with HarfBuzz (kerning, ligatures, OpenType features,
// bidirectional text), BuiltinEngine uses fixed metrics and no shaping.
package text
