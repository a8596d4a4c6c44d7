package drawbot

import (
	"unicode"

	"github.com/schriftgestalt/drawbot/text"
)

// softHyphen marks a permitted hyphenation point. It measures zero wide
// and is stripped before rendering.
const softHyphen = '\u00ad'

// Hyphenator finds permitted hyphenation points inside a single word.
type Hyphenator interface {
	// Breakpoints returns ascending rune indices within word after which
	// a hyphen may be inserted.
	Breakpoints(word string) []int
}

// hasHyphenation reports whether any run asks for hyphenation.
func (fs *FormattedString) hasHyphenation() bool {
	for _, run := range fs.runs {
		if run.Style.Hyphenation {
			return true
		}
	}
	return false
}

// hyphenatedCopy returns fs broken to width with visible hyphens
// inserted. Without a hyphenator the input is returned unchanged.
func (ctx *Context) hyphenatedCopy(fs *FormattedString, width float64) *FormattedString {
	if ctx.hyphenator == nil {
		return fs
	}
	out, _ := hyphenate(fs, width, ctx.engine, ctx.hyphenator)
	return out
}

// hyphenate performs hyphenated line fitting on a copy of fs.
//
// Two passes. The mark pass walks the words back to front and inserts a
// soft hyphen at every point the hyphenator allows. The fit pass walks
// line by line: when a suggested break ends on a soft hyphen, the
// fragment is measured with a trailing "-"; if it still fits the soft
// hyphen becomes a visible hyphen, otherwise the soft hyphen is deleted
// and the line is re-fit. All remaining soft hyphens are stripped at the
// end.
//
// The returned indices locate the inserted visible hyphens in the result,
// so callers can map rune offsets back to the unhyphenated text.
func hyphenate(fs *FormattedString, width float64, engine text.Engine, h Hyphenator) (*FormattedString, []int) {
	out := fs.Copy()
	markSoftHyphens(out, h)

	var inserted []int
	length := out.Len()
	location := 0
	for location < length {
		breakIndex := suggestLineBreak(out, engine, location, width)
		if breakIndex == 0 {
			break
		}
		end := location + breakIndex
		if out.runeAt(end-1) == softHyphen {
			lineWidth := measureRange(out, engine, location, end)
			hyphenWidth := measureHyphen(out, engine, end-1)
			if lineWidth+hyphenWidth < width {
				out.insertRune(end, '-')
				inserted = append(inserted, end)
				length++
				location = end + 1
			} else {
				out.deleteRune(end - 1)
				length--
				// Re-fit the same line without this break point.
			}
		} else {
			location = end
		}
	}

	inserted = stripSoftHyphens(out, inserted)
	return out, inserted
}

// markSoftHyphens inserts soft hyphens at every hyphenation point. Words
// are processed back to front so earlier indices stay valid.
func markSoftHyphens(fs *FormattedString, h Hyphenator) {
	runes := []rune(fs.String())
	type word struct {
		start int
		text  string
	}
	var words []word
	start := -1
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			words = append(words, word{start, string(runes[start:i])})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, word{start, string(runes[start:])})
	}

	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		points := h.Breakpoints(w.text)
		for j := len(points) - 1; j >= 0; j-- {
			p := points[j]
			if p <= 0 || p >= len([]rune(w.text)) {
				continue
			}
			fs.insertRune(w.start+p, softHyphen)
		}
	}
}

// stripSoftHyphens removes all soft hyphens and shifts the inserted
// hyphen indices accordingly.
func stripSoftHyphens(fs *FormattedString, inserted []int) []int {
	adjusted := append([]int(nil), inserted...)
	for i := fs.Len() - 1; i >= 0; i-- {
		if fs.runeAt(i) != softHyphen {
			continue
		}
		fs.deleteRune(i)
		for j, idx := range adjusted {
			if idx > i {
				adjusted[j] = idx - 1
			}
		}
	}
	return adjusted
}

// suggestLineBreak returns the number of runes from location that fit
// into width, breaking after spaces, hyphens, soft hyphens or at a
// newline. A word wider than the whole line is force-broken mid-word.
func suggestLineBreak(fs *FormattedString, engine text.Engine, location int, width float64) int {
	length := fs.Len()
	if location >= length {
		return 0
	}
	var lineWidth float64
	lastBreak := 0
	for i := location; i < length; i++ {
		r := fs.runeAt(i)
		if r == '\n' {
			return i - location + 1
		}
		lineWidth += measureRange(fs, engine, i, i+1)
		if lineWidth > width && i > location {
			if lastBreak > 0 {
				return lastBreak
			}
			// Forced mid-word break.
			return i - location
		}
		if r == ' ' || r == '-' || r == softHyphen {
			lastBreak = i - location + 1
		}
	}
	return length - location
}

// measureRange measures the advance width of the rune range [i, j).
func measureRange(fs *FormattedString, engine text.Engine, i, j int) float64 {
	var w float64
	sub := fs.Slice(i, j)
	for _, run := range sub.runs {
		w += engine.Measure(run.shapingRun())
	}
	return w
}

// measureHyphen measures "-" in the attributes of the run at rune index i.
func measureHyphen(fs *FormattedString, engine text.Engine, i int) float64 {
	var offset int
	for _, run := range fs.runs {
		n := len([]rune(run.Text))
		if i < offset+n {
			probe := run.Copy()
			probe.Text = "-"
			probe.Glyphs = nil
			return engine.Measure(probe.shapingRun())
		}
		offset += n
	}
	return 0
}

// ClippedText typesets txt into the box the way TextBox would and returns
// the part that did not fit. Inserted hyphens are accounted for, so the
// remainder picks up exactly where the visible text ends.
func (ctx *Context) ClippedText(txt any, box Rect, align string) (*FormattedString, error) {
	if _, err := alignFromName(align); err != nil {
		return nil, err
	}
	fs, err := ctx.attributedString(txt)
	if err != nil {
		return nil, err
	}

	work := fs
	var inserted []int
	if (ctx.state.Text.Hyphenation || fs.hasHyphenation()) && ctx.hyphenator != nil {
		work, inserted = hyphenate(fs, box.W, ctx.engine, ctx.hyphenator)
	}

	lineH := ctx.lineHeight(work.Runs())
	if lineH <= 0 {
		return fs.Slice(fs.Len(), fs.Len()), nil
	}
	maxLines := int(box.H / lineH)

	length := work.Len()
	location := 0
	for line := 0; line < maxLines && location < length; line++ {
		breakIndex := suggestLineBreak(work, ctx.engine, location, box.W)
		if breakIndex == 0 {
			break
		}
		location += breakIndex
	}

	// Map the consumed count back to the unhyphenated text.
	consumed := location
	for _, idx := range inserted {
		if idx < location {
			consumed--
		}
	}
	return fs.Slice(consumed, fs.Len()), nil
}
