package drawbot

import (
	"errors"
	"testing"

	"github.com/schriftgestalt/drawbot/text"
)

// glyphFace adds a name table to a fixed-metrics face.
type glyphFace struct {
	text.Face
	names map[string]text.GlyphID
}

func (f glyphFace) GlyphByName(name string) (text.GlyphID, bool) {
	gid, ok := f.names[name]
	return gid, ok
}

// glyphLibrary resolves every name to a glyphFace sharing one name table.
type glyphLibrary struct {
	names map[string]text.GlyphID
}

func (l glyphLibrary) Resolve(name string, size float64) (text.Face, bool) {
	return glyphFace{Face: text.NewFixedFace(name, size), names: l.names}, true
}

func TestAppendFreezesAttributes(t *testing.T) {
	fs := NewFormattedString(nil)
	red := RGB(1, 0, 0)
	if err := fs.Append("first", TextFill(red), TextFontSize(24)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Append("second", TextFontSize(12)); err != nil {
		t.Fatal(err)
	}

	runs := fs.Runs()
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Style.FontSize != 24 || runs[1].Style.FontSize != 12 {
		t.Errorf("sizes = %g, %g", runs[0].Style.FontSize, runs[1].Style.FontSize)
	}
	// Options persist until changed: the second run keeps the red fill.
	if runs[1].Fill == nil || *runs[1].Fill != red {
		t.Errorf("second run fill = %v, want %+v", runs[1].Fill, red)
	}
	// The first run's attributes are frozen against later option calls.
	if err := fs.Append("", TextFill(RGB(0, 0, 1))); err != nil {
		t.Fatal(err)
	}
	if *fs.Runs()[0].Fill != red {
		t.Error("later option mutated a frozen run")
	}
}

func TestAppendEmptyTextAppliesOptionsOnly(t *testing.T) {
	fs := NewFormattedString(nil)
	if err := fs.Append("", TextFontSize(36)); err != nil {
		t.Fatal(err)
	}
	if len(fs.Runs()) != 0 {
		t.Fatalf("empty append created a run")
	}
	if err := fs.Append("x"); err != nil {
		t.Fatal(err)
	}
	if got := fs.Runs()[0].Style.FontSize; got != 36 {
		t.Errorf("size = %g, want 36 from the earlier option", got)
	}
}

func TestPaintOptionsAreMutuallyExclusive(t *testing.T) {
	fs := NewFormattedString(nil)
	if err := fs.Append("a", TextFill(RGB(1, 0, 0)), TextCMYKFill(CMYK(1, 0, 0, 0))); err != nil {
		t.Fatal(err)
	}
	run := fs.Runs()[0]
	if run.Fill != nil {
		t.Error("RGB fill survived a CMYK fill")
	}
	if run.CMYKFill == nil {
		t.Error("CMYK fill missing")
	}

	if err := fs.Append("b", TextCMYKStroke(CMYK(0, 1, 0, 0)), TextStroke(RGB(0, 1, 0))); err != nil {
		t.Fatal(err)
	}
	run = fs.Runs()[1]
	if run.CMYKStroke != nil {
		t.Error("CMYK stroke survived an RGB stroke")
	}
	if run.Stroke == nil {
		t.Error("RGB stroke missing")
	}
}

func TestLenAndString(t *testing.T) {
	fs := NewFormattedString(nil)
	if err := fs.Append("héllo"); err != nil {
		t.Fatal(err)
	}
	if err := fs.Append(" wörld"); err != nil {
		t.Fatal(err)
	}
	if got := fs.Len(); got != 11 {
		t.Errorf("Len() = %d, want 11 runes", got)
	}
	if got := fs.String(); got != "héllo wörld" {
		t.Errorf("String() = %q", got)
	}
}

func TestSlice(t *testing.T) {
	fs := NewFormattedString(nil)
	if err := fs.Append("abc", TextFontSize(10)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Append("def", TextFontSize(20)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		i, j     int
		want     string
		wantRuns int
	}{
		{"inside one run", 0, 2, "ab", 1},
		{"across runs", 2, 4, "cd", 2},
		{"everything", 0, 6, "abcdef", 2},
		{"clamped high", 4, 100, "ef", 1},
		{"clamped low", -3, 1, "a", 1},
		{"empty", 3, 3, "", 0},
		{"inverted", 4, 2, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := fs.Slice(tt.i, tt.j)
			if got := sub.String(); got != tt.want {
				t.Errorf("Slice(%d, %d) = %q, want %q", tt.i, tt.j, got, tt.want)
			}
			if got := len(sub.Runs()); got != tt.wantRuns {
				t.Errorf("Slice(%d, %d) runs = %d, want %d", tt.i, tt.j, got, tt.wantRuns)
			}
		})
	}

	// Slicing keeps per-run attributes.
	sub := fs.Slice(2, 4)
	if sub.Runs()[0].Style.FontSize != 10 || sub.Runs()[1].Style.FontSize != 20 {
		t.Errorf("sliced run sizes = %g, %g", sub.Runs()[0].Style.FontSize, sub.Runs()[1].Style.FontSize)
	}
}

func TestAppendFormatted(t *testing.T) {
	a := NewFormattedString(nil)
	if err := a.Append("left ", TextFontSize(10)); err != nil {
		t.Fatal(err)
	}
	b := NewFormattedString(nil)
	if err := b.Append("right", TextFontSize(20)); err != nil {
		t.Fatal(err)
	}

	a.AppendFormatted(b)
	if got := a.String(); got != "left right" {
		t.Errorf("String() = %q", got)
	}
	// The other string's running attributes take over.
	if err := a.Append("!"); err != nil {
		t.Fatal(err)
	}
	if got := a.Runs()[2].Style.FontSize; got != 20 {
		t.Errorf("adopted size = %g, want 20", got)
	}
	// Runs are copied, not shared.
	b.Runs()[0].Text = "mutated"
	if a.Runs()[1].Text != "right" {
		t.Error("AppendFormatted shared run storage")
	}

	a.AppendFormatted(nil) // no-op
	if a.Len() != 11 {
		t.Errorf("Len() = %d after nil append", a.Len())
	}
}

func TestAppendGlyphs(t *testing.T) {
	lib := glyphLibrary{names: map[string]text.GlyphID{
		"a.alt":     117,
		"ampersand": 42,
	}}
	fs := NewFormattedString(lib)
	if err := fs.AppendGlyphs("a.alt", "bogus", "ampersand"); err != nil {
		t.Fatal(err)
	}

	runs := fs.Runs()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if got := runs[0].Glyphs; len(got) != 2 || got[0] != 117 || got[1] != 42 {
		t.Errorf("glyphs = %v, want [117 42]", got)
	}
	// One placeholder rune per glyph keeps rune indexing consistent.
	if got := len([]rune(runs[0].Text)); got != 2 {
		t.Errorf("placeholder text has %d runes, want 2", got)
	}
	warnings := fs.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != WarningUnknownGlyph {
		t.Errorf("warnings = %+v, want one unknown-glyph", warnings)
	}
}

func TestAppendGlyphsAllUnknown(t *testing.T) {
	fs := NewFormattedString(glyphLibrary{names: nil})
	if err := fs.AppendGlyphs("nope"); err != nil {
		t.Fatal(err)
	}
	if len(fs.Runs()) != 0 {
		t.Error("run created from zero resolved glyphs")
	}
	if len(fs.Warnings()) != 1 {
		t.Errorf("warnings = %+v", fs.Warnings())
	}
}

func TestAppendUnresolvableFont(t *testing.T) {
	fs := NewFormattedString(listLibrary{})
	if err := fs.Append("x"); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("Append() error = %v, want ErrInvalidFont", err)
	}
}

func TestCopyIsDeep(t *testing.T) {
	fs := NewFormattedString(nil)
	if err := fs.Append("abc", TextFeatures(map[string]bool{"liga": true})); err != nil {
		t.Fatal(err)
	}
	c := fs.Copy()
	c.Runs()[0].Text = "xyz"
	c.Runs()[0].Style.Features["liga"] = false
	if fs.Runs()[0].Text != "abc" {
		t.Error("copy shared run storage")
	}
	if !fs.Runs()[0].Style.Features["liga"] {
		t.Error("copy shared the feature map")
	}
}

func TestTextFeaturesTranslatesTags(t *testing.T) {
	fs := NewFormattedString(nil, TextFeatures(map[string]bool{
		"smcp":     true,
		"liga_off": true,
		"zzzz":     true,
	}))
	if err := fs.Append("x"); err != nil {
		t.Fatal(err)
	}
	features := fs.Runs()[0].Style.Features
	if !features["smcp"] {
		t.Error("smcp not enabled")
	}
	if on, present := features["liga"]; !present || on {
		t.Errorf("liga = %v, %v; want present and off", on, present)
	}
	if _, present := features["zzzz"]; present {
		t.Error("unknown tag stored")
	}
	warnings := fs.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != WarningUnknownFeature {
		t.Errorf("warnings = %+v, want one unknown-feature", warnings)
	}

	// Later settings merge; nil clears.
	if err := fs.Append("y", TextFeatures(map[string]bool{"liga_off": false})); err != nil {
		t.Fatal(err)
	}
	if features := fs.Runs()[1].Style.Features; !features["liga"] || !features["smcp"] {
		t.Errorf("merged features = %v, want liga and smcp on", features)
	}
	if err := fs.Append("z", TextFeatures(nil)); err != nil {
		t.Fatal(err)
	}
	if features := fs.Runs()[2].Style.Features; features != nil {
		t.Errorf("features after nil = %v, want nil", features)
	}
}

func TestFontMetricGetters(t *testing.T) {
	fs := NewFormattedString(nil, TextFontSize(10))
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"ascender", fs.FontAscender(), 8},
		{"descender", fs.FontDescender(), -2},
		{"x-height", fs.FontXHeight(), 5},
		{"cap height", fs.FontCapHeight(), 7},
		{"leading", fs.FontLeading(), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %g, want %g", tt.got, tt.want)
			}
		})
	}
}
