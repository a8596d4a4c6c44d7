package text

import (
	"testing"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
)

func TestBaseDirection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want di.Direction
	}{
		{"latin", "hello", di.DirectionLTR},
		{"hebrew", "שלום", di.DirectionRTL},
		{"arabic", "مرحبا", di.DirectionRTL},
		{"empty", "", di.DirectionLTR},
		{"neutral only", " .,", di.DirectionLTR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseDirection(tt.in); got != tt.want {
				t.Errorf("baseDirection(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFontFeatures(t *testing.T) {
	if got := fontFeatures(nil); got != nil {
		t.Errorf("fontFeatures(nil) = %v, want nil", got)
	}
	feats := fontFeatures(map[string]bool{
		"liga":     false,
		"smcp":     true,
		"liga_off": true, // not 4 bytes, skipped
	})
	if len(feats) != 2 {
		t.Fatalf("got %d features, want 2", len(feats))
	}
	byTag := make(map[gtfont.Tag]uint32, len(feats))
	for _, f := range feats {
		byTag[f.Tag] = f.Value
	}
	if byTag[newTag("liga")] != 0 {
		t.Error("liga should be off")
	}
	if byTag[newTag("smcp")] != 1 {
		t.Error("smcp should be on")
	}
}

func TestNewTagPacking(t *testing.T) {
	if got := newTag("kern"); got != gtfont.Tag(0x6b65726e) {
		t.Errorf("newTag(\"kern\") = %#x, want 0x6b65726e", uint32(got))
	}
}

func TestFontLibraryRoundTrip(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.Register("Go Regular", goregular.TTF); err != nil {
		t.Fatal(err)
	}
	if names := lib.Names(); len(names) != 1 || names[0] != "Go Regular" {
		t.Errorf("Names() = %v, want [Go Regular]", names)
	}

	face, ok := lib.Resolve("Go Regular", 12)
	if !ok {
		t.Fatal("Resolve() failed for a registered font")
	}
	if face.Name() != "Go Regular" || face.Size() != 12 {
		t.Errorf("face = %q at %g, want Go Regular at 12", face.Name(), face.Size())
	}

	m := face.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("metrics = %+v, want positive ascent and descent", m)
	}

	gid, ok := face.GlyphIndex('A')
	if !ok || gid == 0 {
		t.Fatalf("GlyphIndex('A') = %d, %v", gid, ok)
	}
	if adv := face.GlyphAdvance(gid); adv <= 0 {
		t.Errorf("GlyphAdvance = %g, want > 0", adv)
	}
	outline, err := face.GlyphOutline(gid)
	if err != nil {
		t.Fatal(err)
	}
	if outline.Empty() || outline.Advance <= 0 {
		t.Errorf("outline has %d segments, advance %g", len(outline.Segments), outline.Advance)
	}
	if byName, ok := face.GlyphByName("A"); !ok || byName != gid {
		t.Errorf("GlyphByName(%q) = %d, %v; want %d", "A", byName, ok, gid)
	}
}

func TestGoTextEngineShapesRegisteredFont(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.Register("Go Regular", goregular.TTF); err != nil {
		t.Fatal(err)
	}
	face, ok := lib.Resolve("Go Regular", 12)
	if !ok {
		t.Fatal("Resolve() failed")
	}

	engine := NewGoTextEngine()
	run := Run{Text: "ab", Face: face}
	glyphs := engine.Shape(run)
	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(glyphs))
	}
	if glyphs[0].Cluster != 0 || glyphs[1].Cluster != 1 {
		t.Errorf("clusters = %d, %d; want 0, 1", glyphs[0].Cluster, glyphs[1].Cluster)
	}
	if glyphs[0].XAdvance <= 0 {
		t.Errorf("first advance = %g, want > 0", glyphs[0].XAdvance)
	}
	if glyphs[1].X <= glyphs[0].X {
		t.Errorf("pen positions = %g, %g; want increasing", glyphs[0].X, glyphs[1].X)
	}
	if w := engine.Measure(run); w != glyphs[0].XAdvance+glyphs[1].XAdvance {
		t.Errorf("Measure() = %g, want sum of advances", w)
	}
}

func TestGoTextEngineFallsBackForSyntheticFaces(t *testing.T) {
	engine := NewGoTextEngine()
	glyphs := engine.Shape(Run{Text: "ab", Face: NewFixedFace("Any", 10)})
	if len(glyphs) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(glyphs))
	}
	if glyphs[0].XAdvance != 6 {
		t.Errorf("fallback advance = %g, want 6", glyphs[0].XAdvance)
	}
}

func TestGoTextEngineGlyphRunBypass(t *testing.T) {
	engine := NewGoTextEngine()
	run := Run{
		Text:   "  ",
		Face:   NewFixedFace("Any", 10),
		Glyphs: []GlyphID{117, 42},
	}
	glyphs := engine.Shape(run)
	if len(glyphs) != 2 || glyphs[0].GID != 117 || glyphs[1].GID != 42 {
		t.Errorf("glyph run = %+v, want GIDs 117, 42", glyphs)
	}
}
