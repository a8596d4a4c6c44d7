package drawbot

import (
	"testing"

	"github.com/schriftgestalt/drawbot/text"
)

// fixedHyphenator returns canned breakpoints per word.
type fixedHyphenator map[string][]int

func (h fixedHyphenator) Breakpoints(word string) []int { return h[word] }

// Fixed metrics at size 10: every visible rune is 6pt wide.
func hyphenFixture(t *testing.T, txt string) *FormattedString {
	t.Helper()
	fs := NewFormattedString(nil, TextFontSize(10))
	if err := fs.Append(txt); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestSuggestLineBreak(t *testing.T) {
	engine := text.NewBuiltinEngine()
	tests := []struct {
		name     string
		txt      string
		location int
		width    float64
		want     int
	}{
		{"everything fits", "abc", 0, 100, 3},
		{"newline breaks immediately", "ab\ncdef", 0, 100, 3},
		{"break after space", "aa bb", 0, 24, 3},
		{"break after hyphen", "aa-bb", 0, 24, 3},
		{"forced mid-word break", "abcdefgh", 0, 12, 2},
		{"from offset", "aa bb cc", 3, 24, 3},
		{"past the end", "ab", 2, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := hyphenFixture(t, tt.txt)
			got := suggestLineBreak(fs, engine, tt.location, tt.width)
			if got != tt.want {
				t.Errorf("suggestLineBreak(%q, %d, %g) = %d, want %d",
					tt.txt, tt.location, tt.width, got, tt.want)
			}
		})
	}
}

func TestHyphenateInsertsVisibleHyphen(t *testing.T) {
	fs := hyphenFixture(t, "abcdef")
	h := fixedHyphenator{"abcdef": {3}}

	// 30pt holds five 6pt runes: "abc" plus the hyphen fit, "abcdef" not.
	out, inserted := hyphenate(fs, 30, text.NewBuiltinEngine(), h)
	if got := out.String(); got != "abc-def" {
		t.Errorf("hyphenated text = %q, want %q", got, "abc-def")
	}
	if len(inserted) != 1 || inserted[0] != 3 {
		t.Errorf("inserted = %v, want [3]", inserted)
	}
	// The input is untouched.
	if fs.String() != "abcdef" {
		t.Errorf("input mutated to %q", fs.String())
	}
}

func TestHyphenateSkipsBreakThatStillOverflows(t *testing.T) {
	fs := hyphenFixture(t, "abcdef")
	h := fixedHyphenator{"abcdef": {5}}

	// "abcde" plus a hyphen is 36pt and does not fit in 30pt, so the soft
	// hyphen is dropped and the word breaks without one.
	out, inserted := hyphenate(fs, 30, text.NewBuiltinEngine(), h)
	if got := out.String(); got != "abcdef" {
		t.Errorf("text = %q, want unhyphenated %q", got, "abcdef")
	}
	if len(inserted) != 0 {
		t.Errorf("inserted = %v, want none", inserted)
	}
}

func TestMarkSoftHyphensIgnoresWordEdges(t *testing.T) {
	fs := hyphenFixture(t, "abcdef")
	markSoftHyphens(fs, fixedHyphenator{"abcdef": {0, 3, 6}})
	want := "abc" + string(softHyphen) + "def"
	if got := fs.String(); got != want {
		t.Errorf("marked text = %q, want %q", got, want)
	}
}

func TestHyphenateWithoutBreakpoints(t *testing.T) {
	fs := hyphenFixture(t, "aa bb cc")
	out, inserted := hyphenate(fs, 24, text.NewBuiltinEngine(), fixedHyphenator{})
	if got := out.String(); got != "aa bb cc" {
		t.Errorf("text = %q", got)
	}
	if len(inserted) != 0 {
		t.Errorf("inserted = %v", inserted)
	}
}

func TestClippedTextAccountsForInsertedHyphens(t *testing.T) {
	ctx := newTestContext(WithHyphenator(fixedHyphenator{"abcdef": {3}}))
	ctx.FontSize(10)
	ctx.SetHyphenation(true)

	rest, err := ctx.ClippedText("abcdef", Box(0, 0, 30, 12), "left")
	if err != nil {
		t.Fatal(err)
	}
	// The first line shows "abc-"; the overflow resumes at the original
	// fourth rune, not after the inserted hyphen.
	if got := rest.String(); got != "def" {
		t.Errorf("overflow = %q, want %q", got, "def")
	}
}

func TestHyphenatedCopyRequiresHyphenator(t *testing.T) {
	ctx := newTestContext()
	ctx.SetHyphenation(true)
	fs := hyphenFixture(t, "abcdef")
	if got := ctx.hyphenatedCopy(fs, 30); got != fs {
		t.Error("without a hyphenator the input should pass through")
	}
}
