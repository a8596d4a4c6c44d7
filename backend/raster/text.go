package raster

import (
	"image"
	"image/draw"
	"strings"

	"github.com/schriftgestalt/drawbot"
	"github.com/schriftgestalt/drawbot/text"
)

// token is one unbreakable piece of a text box: a word, a space span, a
// glyph-identity run or a forced newline.
type token struct {
	run     drawbot.TextRun
	width   float64
	space   bool
	newline bool
}

// drawTextBox performs a simple greedy layout: tokens fill lines until
// the width is exceeded, lines stack downward until the box is full.
// Glyph outlines are filled per run color; runs whose faces carry no
// outlines (synthetic faces) occupy space but draw nothing.
func (b *Backend) drawTextBox(fs *drawbot.FormattedString, box drawbot.Rect, align drawbot.Align) error {
	tokens := b.tokenize(fs.Runs())
	lines := breakLines(tokens, box.W)

	top := box.Y + box.H
	for _, line := range lines {
		ascent, lineH := b.lineMetrics(line)
		baseline := top - ascent
		if baseline < box.Y {
			break
		}

		width := lineWidth(line)
		x := box.X
		switch align {
		case drawbot.AlignCenter:
			x += (box.W - width) / 2
		case drawbot.AlignRight:
			x += box.W - width
		}

		for _, tok := range line {
			b.drawToken(tok, drawbot.Point{X: x, Y: baseline})
			x += tok.width
		}
		top -= lineH
	}
	return nil
}

// drawToken shapes one token and fills its glyph outlines at pen.
func (b *Backend) drawToken(tok token, pen drawbot.Point) {
	if tok.space {
		return
	}
	fill := drawbot.Gray(0)
	if tok.run.Fill != nil {
		fill = *tok.run.Fill
	} else if tok.run.CMYKFill != nil {
		fill = tok.run.CMYKFill.RGB()
	}

	glyphs := b.engine.Shape(shapingRun(tok.run))
	path := drawbot.NewBezierPath()
	for _, g := range glyphs {
		outline, err := tok.run.Face.GlyphOutline(g.GID)
		if err != nil || outline.Empty() {
			continue
		}
		appendGlyphOutline(path, outline, drawbot.Point{X: pen.X + g.X, Y: pen.Y + g.Y})
	}
	if path.Empty() {
		return
	}
	mask := b.rasterizeMask(path)
	src := image.NewUniform(fill.NRGBA())
	draw.DrawMask(b.cur.img, b.cur.img.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}

func appendGlyphOutline(path *drawbot.BezierPath, outline text.Outline, offset drawbot.Point) {
	at := func(p text.SegmentPoint) drawbot.Point {
		return drawbot.Point{X: offset.X + p.X, Y: offset.Y + p.Y}
	}
	started := false
	for _, seg := range outline.Segments {
		switch seg.Op {
		case text.SegmentOpMoveTo:
			if started {
				_ = path.Close()
			}
			path.MoveTo(at(seg.Args[0]))
			started = true
		case text.SegmentOpLineTo:
			_ = path.LineTo(at(seg.Args[0]))
		case text.SegmentOpQuadTo:
			_ = path.QuadTo(at(seg.Args[0]), at(seg.Args[1]))
		case text.SegmentOpCubeTo:
			_ = path.CurveTo(at(seg.Args[0]), at(seg.Args[1]), at(seg.Args[2]))
		}
	}
	if started {
		_ = path.Close()
	}
}

func shapingRun(run drawbot.TextRun) text.Run {
	return text.Run{
		Text:     run.Text,
		Face:     run.Face,
		Tracking: run.Style.Tracking,
		Features: run.Style.Features,
		Glyphs:   run.Glyphs,
	}
}

// tokenize splits runs into words, space spans and newline markers.
// Glyph-identity runs stay whole.
func (b *Backend) tokenize(runs []drawbot.TextRun) []token {
	var tokens []token
	for _, run := range runs {
		if run.Glyphs != nil {
			tokens = append(tokens, token{run: run, width: b.engine.Measure(shapingRun(run))})
			continue
		}
		for _, piece := range splitPieces(run.Text) {
			if piece == "\n" {
				tokens = append(tokens, token{newline: true})
				continue
			}
			sub := run.Copy()
			sub.Text = piece
			tokens = append(tokens, token{
				run:   sub,
				width: b.engine.Measure(shapingRun(sub)),
				space: strings.TrimSpace(piece) == "",
			})
		}
	}
	return tokens
}

// splitPieces cuts s into alternating word and space pieces, with "\n"
// always its own piece.
func splitPieces(s string) []string {
	var pieces []string
	var cur []rune
	curSpace := false
	flush := func() {
		if len(cur) > 0 {
			pieces = append(pieces, string(cur))
			cur = nil
		}
	}
	for _, r := range s {
		if r == '\n' {
			flush()
			pieces = append(pieces, "\n")
			continue
		}
		isSpace := r == ' ' || r == '\t'
		if len(cur) > 0 && isSpace != curSpace {
			flush()
		}
		curSpace = isSpace
		cur = append(cur, r)
	}
	flush()
	return pieces
}

// breakLines assembles tokens into lines not exceeding width. A single
// token wider than the line stands alone.
func breakLines(tokens []token, width float64) [][]token {
	var lines [][]token
	var line []token
	var lineW float64
	flush := func() {
		lines = append(lines, line)
		line = nil
		lineW = 0
	}
	for _, tok := range tokens {
		if tok.newline {
			flush()
			continue
		}
		if len(line) > 0 && !tok.space && lineW+tok.width > width {
			flush()
		}
		line = append(line, tok)
		lineW += tok.width
	}
	if len(line) > 0 {
		flush()
	}
	return lines
}

func lineWidth(line []token) float64 {
	var w float64
	for _, tok := range line {
		w += tok.width
	}
	return w
}

// lineMetrics returns the tallest ascent and line height on the line.
func (b *Backend) lineMetrics(line []token) (ascent, lineH float64) {
	for _, tok := range line {
		if tok.run.Face == nil {
			continue
		}
		m := tok.run.Face.Metrics()
		if m.Ascent > ascent {
			ascent = m.Ascent
		}
		h := tok.run.Style.LineHeight
		if h <= 0 {
			h = b.engine.LineHeight(shapingRun(tok.run))
		}
		if h > lineH {
			lineH = h
		}
	}
	if lineH == 0 {
		lineH = 12
	}
	if ascent == 0 {
		ascent = 0.8 * lineH
	}
	return ascent, lineH
}
