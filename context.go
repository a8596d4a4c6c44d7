package drawbot

import (
	"fmt"
	"strings"

	"github.com/schriftgestalt/drawbot/text"
)

// Context is the stateful drawing surface. It owns the graphics state and
// its save/restore stack, resolves text attributes, and dispatches drawing
// hooks to its RenderBackend.
//
// A Context is not safe for concurrent use.
type Context struct {
	backend    RenderBackend
	library    text.Library
	engine     text.Engine
	hyphenator Hyphenator

	// width and height persist across pages once set.
	width   float64
	height  float64
	hasPage bool

	state    *GraphicsState
	stack    []*GraphicsState
	warnings []Warning
}

// New creates a drawing context on the given backend.
func New(backend RenderBackend, opts ...Option) *Context {
	ctx := &Context{
		backend: backend,
		library: text.FixedLibrary{},
		engine:  text.NewBuiltinEngine(),
		state:   newGraphicsState(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Warnings returns the non-fatal warnings collected so far.
func (ctx *Context) Warnings() []Warning {
	return ctx.warnings
}

func (ctx *Context) warn(w Warning) {
	ctx.warnings = append(ctx.warnings, w)
	Logger().Warn(w.Message, "kind", w.Kind)
}

// Reset discards all pages, the state stack and collected warnings.
func (ctx *Context) Reset() {
	ctx.stack = nil
	ctx.state = newGraphicsState()
	ctx.warnings = nil
	ctx.hasPage = false
	ctx.backend.Reset()
}

// Size sets the default page dimensions. Each dimension is set
// independently; a non-positive value leaves the stored one unchanged.
func (ctx *Context) Size(width, height float64) {
	if width > 0 {
		ctx.width = width
	}
	if height > 0 {
		ctx.height = height
	}
}

// Width returns the stored page width.
func (ctx *Context) Width() float64 { return ctx.width }

// Height returns the stored page height.
func (ctx *Context) Height() float64 { return ctx.height }

// NewPage starts a new page. Non-positive dimensions fall back to the
// stored size; a dimension that is set in neither place is an error. The
// arguments are one-shot overrides and do not change the stored size.
func (ctx *Context) NewPage(width, height float64) error {
	if width <= 0 {
		width = ctx.width
	}
	if height <= 0 {
		height = ctx.height
	}
	if width <= 0 {
		return fmt.Errorf("%w: a page must have a width", ErrDrawingState)
	}
	if height <= 0 {
		return fmt.Errorf("%w: a page must have a height", ErrDrawingState)
	}
	if err := ctx.backend.NewPage(width, height); err != nil {
		return err
	}
	ctx.hasPage = true
	return nil
}

// SaveImage writes the accumulated pages to path.
func (ctx *Context) SaveImage(path string, multipage bool) error {
	if !ctx.hasPage {
		return fmt.Errorf("%w: can't save image when no page is set", ErrNoPage)
	}
	return ctx.backend.SaveImage(path, multipage)
}

// PrintImage hands the accumulated pages to the backend's print hook.
func (ctx *Context) PrintImage() error {
	if !ctx.hasPage {
		return fmt.Errorf("%w: can't print image when no page is set", ErrNoPage)
	}
	return ctx.backend.PrintImage()
}

// FrameDuration sets the display duration of the current page for
// animated export formats.
func (ctx *Context) FrameDuration(seconds float64) {
	ctx.backend.FrameDuration(seconds)
}

// Save pushes a deep copy of the graphics state.
func (ctx *Context) Save() {
	ctx.stack = append(ctx.stack, ctx.state.Copy())
	ctx.backend.Save()
}

// Restore pops the most recently saved graphics state.
func (ctx *Context) Restore() error {
	if len(ctx.stack) == 0 {
		return fmt.Errorf("%w: no matching save()", ErrUnbalancedState)
	}
	ctx.state = ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	ctx.backend.Restore()
	return nil
}

// State exposes the current graphics state, mainly for tests and backends.
func (ctx *Context) State() *GraphicsState {
	return ctx.state
}

// Rect draws a rectangle with the current paint attributes.
func (ctx *Context) Rect(x, y, w, h float64) error {
	path := NewBezierPath()
	path.Rect(x, y, w, h)
	return ctx.DrawPath(path)
}

// Oval draws an ellipse inscribed in the given box.
func (ctx *Context) Oval(x, y, w, h float64) error {
	path := NewBezierPath()
	path.Oval(x, y, w, h)
	return ctx.DrawPath(path)
}

// NewPath starts a fresh construction path.
func (ctx *Context) NewPath() {
	ctx.state.Path = NewBezierPath()
}

// BezierPath returns the current construction path, or nil.
func (ctx *Context) BezierPath() *BezierPath {
	return ctx.state.Path
}

func (ctx *Context) currentPath() (*BezierPath, error) {
	if ctx.state.Path == nil {
		return nil, fmt.Errorf("%w: create a new path first", ErrDrawingState)
	}
	return ctx.state.Path, nil
}

// MoveTo starts a new contour on the current path.
func (ctx *Context) MoveTo(pt Point) error {
	path, err := ctx.currentPath()
	if err != nil {
		return err
	}
	path.MoveTo(pt)
	return nil
}

// LineTo draws a line on the current path.
func (ctx *Context) LineTo(pt Point) error {
	path, err := ctx.currentPath()
	if err != nil {
		return err
	}
	return path.LineTo(pt)
}

// CurveTo draws a cubic curve on the current path.
func (ctx *Context) CurveTo(cp1, cp2, pt Point) error {
	path, err := ctx.currentPath()
	if err != nil {
		return err
	}
	return path.CurveTo(cp1, cp2, pt)
}

// ArcTo draws a tangent arc on the current path.
func (ctx *Context) ArcTo(p1, p2 Point, radius float64) error {
	path, err := ctx.currentPath()
	if err != nil {
		return err
	}
	return path.ArcTo(p1, p2, radius)
}

// ClosePath closes the current contour.
func (ctx *Context) ClosePath() error {
	path, err := ctx.currentPath()
	if err != nil {
		return err
	}
	return path.Close()
}

// DrawPath renders a path. A non-nil argument replaces the current path
// first; nil draws the current path.
func (ctx *Context) DrawPath(path *BezierPath) error {
	if path != nil {
		ctx.state.Path = path
	}
	if ctx.state.Path == nil {
		return fmt.Errorf("%w: no path to draw", ErrDrawingState)
	}
	return ctx.backend.DrawPath(ctx.state)
}

// ClipPath intersects the clip region with a path. A non-nil argument
// replaces the current path first.
func (ctx *Context) ClipPath(path *BezierPath) error {
	if path != nil {
		ctx.state.Path = path
	}
	if ctx.state.Path == nil {
		return fmt.Errorf("%w: no path to clip with", ErrDrawingState)
	}
	return ctx.backend.ClipPath(ctx.state)
}

// SetFill sets the fill color. Nil clears both fill slots. Setting a fill
// removes any gradient.
func (ctx *Context) SetFill(c *Color) {
	if c == nil {
		ctx.state.Fill = nil
		ctx.state.CMYKFill = nil
		return
	}
	ctx.state.Fill = copyColor(c)
	ctx.state.CMYKFill = nil
	ctx.state.Gradient = nil
}

// SetCMYKFill sets the CMYK fill color; the RGB slot receives its
// conversion so RGB-only backends keep working. Nil clears both slots.
func (ctx *Context) SetCMYKFill(c *CMYKColor) {
	if c == nil {
		ctx.SetFill(nil)
		return
	}
	rgb := c.RGB()
	ctx.state.Fill = &rgb
	ctx.state.CMYKFill = copyCMYK(c)
	ctx.state.Gradient = nil
}

// SetStroke sets the stroke color. Nil clears both stroke slots.
func (ctx *Context) SetStroke(c *Color) {
	if c == nil {
		ctx.state.Stroke = nil
		ctx.state.CMYKStroke = nil
		return
	}
	ctx.state.Stroke = copyColor(c)
	ctx.state.CMYKStroke = nil
}

// SetCMYKStroke sets the CMYK stroke color and its RGB conversion.
// Nil clears both slots.
func (ctx *Context) SetCMYKStroke(c *CMYKColor) {
	if c == nil {
		ctx.SetStroke(nil)
		return
	}
	rgb := c.RGB()
	ctx.state.Stroke = &rgb
	ctx.state.CMYKStroke = copyCMYK(c)
}

// SetShadow sets the drop shadow. Nil clears it.
func (ctx *Context) SetShadow(s *Shadow) {
	ctx.state.Shadow = s.Copy()
}

// SetCMYKShadow sets a shadow with a CMYK color; the RGB slot receives
// its conversion.
func (ctx *Context) SetCMYKShadow(offset Point, blur float64, c CMYKColor) {
	ctx.state.Shadow = &Shadow{
		Offset:    offset,
		Blur:      blur,
		Color:     c.RGB(),
		CMYKColor: &c,
	}
}

// SetLinearGradient installs a linear gradient fill. The fill color is
// cleared; the gradient takes its place.
func (ctx *Context) SetLinearGradient(start, end Point, colors []Color, positions []float64) error {
	g, err := NewGradient(GradientLinear, start, end, colors, nil, positions, 0, 0)
	if err != nil {
		return err
	}
	ctx.state.Gradient = g
	ctx.state.Fill = nil
	ctx.state.CMYKFill = nil
	return nil
}

// SetRadialGradient installs a radial gradient fill.
func (ctx *Context) SetRadialGradient(start, end Point, colors []Color, positions []float64, startRadius, endRadius float64) error {
	g, err := NewGradient(GradientRadial, start, end, colors, nil, positions, startRadius, endRadius)
	if err != nil {
		return err
	}
	ctx.state.Gradient = g
	ctx.state.Fill = nil
	ctx.state.CMYKFill = nil
	return nil
}

// SetCMYKLinearGradient installs a linear gradient from CMYK stops. The
// RGB stop list is derived by conversion; the CMYK originals are kept for
// subtractive backends.
func (ctx *Context) SetCMYKLinearGradient(start, end Point, colors []CMYKColor, positions []float64) error {
	g, err := NewGradient(GradientLinear, start, end, cmykToRGBList(colors), colors, positions, 0, 0)
	if err != nil {
		return err
	}
	ctx.state.Gradient = g
	ctx.state.Fill = nil
	ctx.state.CMYKFill = nil
	return nil
}

// SetCMYKRadialGradient installs a radial gradient from CMYK stops.
func (ctx *Context) SetCMYKRadialGradient(start, end Point, colors []CMYKColor, positions []float64, startRadius, endRadius float64) error {
	g, err := NewGradient(GradientRadial, start, end, cmykToRGBList(colors), colors, positions, startRadius, endRadius)
	if err != nil {
		return err
	}
	ctx.state.Gradient = g
	ctx.state.Fill = nil
	ctx.state.CMYKFill = nil
	return nil
}

// ClearGradient removes the gradient and resets the fill to black.
func (ctx *Context) ClearGradient() {
	ctx.state.Gradient = nil
	black := Gray(0)
	ctx.SetFill(&black)
}

func cmykToRGBList(colors []CMYKColor) []Color {
	out := make([]Color, len(colors))
	for i, c := range colors {
		out[i] = c.RGB()
	}
	return out
}

// SetStrokeWidth sets the stroke width in points.
func (ctx *Context) SetStrokeWidth(w float64) {
	ctx.state.StrokeWidth = w
}

// SetMiterLimit sets the miter limit for miter joins.
func (ctx *Context) SetMiterLimit(limit float64) {
	ctx.state.MiterLimit = limit
}

// SetLineJoin sets the line join by name: miter, round or bevel.
func (ctx *Context) SetLineJoin(name string) error {
	join, err := lineJoinFromName(name)
	if err != nil {
		return err
	}
	ctx.state.LineJoin = join
	return nil
}

// SetLineCap sets the line cap by name: butt, round or square.
func (ctx *Context) SetLineCap(name string) error {
	lineCap, err := lineCapFromName(name)
	if err != nil {
		return err
	}
	ctx.state.LineCap = lineCap
	return nil
}

// SetLineDash sets the dash pattern. No arguments clears it.
func (ctx *Context) SetLineDash(dash ...float64) {
	if len(dash) == 0 {
		ctx.state.LineDash = nil
		return
	}
	ctx.state.LineDash = append([]float64(nil), dash...)
}

// Transform concatenates a matrix onto the current transformation and
// forwards it to the backend.
func (ctx *Context) Transform(m Matrix) {
	ctx.state.CTM = ctx.state.CTM.Multiply(m)
	ctx.backend.Transform(m)
}

// Translate is shorthand for a translation transform.
func (ctx *Context) Translate(x, y float64) {
	ctx.Transform(Translate(x, y))
}

// Scale is shorthand for a scaling transform.
func (ctx *Context) Scale(x, y float64) {
	ctx.Transform(Scale(x, y))
}

// Rotate is shorthand for a rotation transform (radians).
func (ctx *Context) Rotate(angle float64) {
	ctx.Transform(Rotate(angle))
}

// Font sets the font name and optionally the size (when positive).
func (ctx *Context) Font(name string, size float64) {
	ctx.state.Text.Font = name
	if size > 0 {
		ctx.state.Text.FontSize = size
	}
}

// FallbackFont sets the fallback font. The name must resolve in the
// context's library.
func (ctx *Context) FallbackFont(name string) error {
	if _, ok := ctx.library.Resolve(name, ctx.state.Text.fontSize()); !ok {
		return fmt.Errorf("%w: fallback font %q is not available", ErrInvalidFont, name)
	}
	ctx.state.Text.FallbackFont = name
	return nil
}

// FontSize sets the font size in points.
func (ctx *Context) FontSize(size float64) {
	ctx.state.Text.FontSize = size
}

// LineHeight sets the baseline distance. Zero restores the natural one.
func (ctx *Context) LineHeight(h float64) {
	ctx.state.Text.LineHeight = h
}

// Tracking sets per-glyph tracking in points.
func (ctx *Context) Tracking(t float64) {
	ctx.state.Text.Tracking = t
}

// SetHyphenation toggles hyphenated line breaking in text boxes.
func (ctx *Context) SetHyphenation(on bool) {
	ctx.state.Text.Hyphenation = on
}

// SetOpenTypeFeatures merges OpenType feature settings into the current
// style. A nil map clears all features. A "_off" name suffix inverts the
// value ("liga_off": true disables ligatures). Unknown tags produce a
// warning and are skipped.
func (ctx *Context) SetOpenTypeFeatures(features map[string]bool) {
	if features == nil {
		ctx.state.Text.Features = nil
		return
	}
	if ctx.state.Text.Features == nil {
		ctx.state.Text.Features = make(map[string]bool, len(features))
	}
	for name, value := range features {
		tag, suffixOn := text.ParseFeatureTag(name)
		if !text.KnownFeature(tag) {
			ctx.warn(unknownFeatureWarning(name))
			continue
		}
		ctx.state.Text.Features[tag] = value == suffixOn
	}
}

// attributedString coerces txt into a FormattedString. A *FormattedString
// passes through verbatim; a plain string becomes a single run carrying
// the context's current text attributes and paint.
func (ctx *Context) attributedString(txt any) (*FormattedString, error) {
	switch t := txt.(type) {
	case *FormattedString:
		if t == nil {
			return nil, fmt.Errorf("%w: nil formatted string", ErrInvalidParameter)
		}
		return t, nil
	case string:
		fs := NewFormattedString(ctx.library)
		fs.attrs.style = ctx.state.Text.Copy()
		fs.attrs.fill = copyColor(ctx.state.Fill)
		fs.attrs.cmykFill = copyCMYK(ctx.state.CMYKFill)
		fs.attrs.stroke = copyColor(ctx.state.Stroke)
		fs.attrs.cmykStroke = copyCMYK(ctx.state.CMYKStroke)
		fs.attrs.strokeWidth = ctx.state.StrokeWidth
		if err := fs.Append(t); err != nil {
			return nil, err
		}
		ctx.warnings = append(ctx.warnings, fs.Warnings()...)
		return fs, nil
	}
	return nil, fmt.Errorf("%w: text must be a string or *FormattedString, got %T", ErrInvalidParameter, txt)
}

// TextSize measures txt: the width of its widest line and the total
// height of all lines.
func (ctx *Context) TextSize(txt any) (w, h float64, err error) {
	fs, err := ctx.attributedString(txt)
	if err != nil {
		return 0, 0, err
	}
	lines := splitRunsIntoLines(fs.Runs())
	for _, line := range lines {
		var lineWidth float64
		for _, run := range line {
			lineWidth += ctx.engine.Measure(run.shapingRun())
		}
		if lineWidth > w {
			w = lineWidth
		}
		h += ctx.lineHeight(line)
	}
	return w, h, nil
}

// lineHeight returns the height of a line of runs: the tallest explicit
// or natural line height among them.
func (ctx *Context) lineHeight(line []TextRun) float64 {
	var h float64
	for _, run := range line {
		rh := run.Style.LineHeight
		if rh <= 0 {
			rh = ctx.engine.LineHeight(run.shapingRun())
		}
		if rh > h {
			h = rh
		}
	}
	return h
}

// splitRunsIntoLines cuts runs at newlines. Every inner slice is one line.
func splitRunsIntoLines(runs []TextRun) [][]TextRun {
	lines := [][]TextRun{nil}
	for _, run := range runs {
		parts := strings.Split(run.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			sub := run.Copy()
			sub.Text = part
			sub.Glyphs = nil
			if run.Glyphs != nil {
				sub.Glyphs = run.Glyphs
			}
			lines[len(lines)-1] = append(lines[len(lines)-1], sub)
		}
	}
	return lines
}

// Text draws txt with its baseline origin at pt.
func (ctx *Context) Text(txt any, pt Point) error {
	fs, err := ctx.attributedString(txt)
	if err != nil {
		return err
	}
	w, h, err := ctx.TextSize(fs)
	if err != nil {
		return err
	}
	box := Rect{X: pt.X, Y: pt.Y - h, W: w + 1, H: h + 1}
	ctx.state.Path = nil
	return ctx.backend.TextBox(fs, box, AlignLeft, ctx.state)
}

// TextBox typesets txt inside the box. The current construction path is
// discarded first. align must be a valid alignment name; the empty string
// means left.
func (ctx *Context) TextBox(txt any, box Rect, align string) error {
	a, err := alignFromName(align)
	if err != nil {
		return err
	}
	fs, err := ctx.attributedString(txt)
	if err != nil {
		return err
	}
	if ctx.state.Text.Hyphenation || fs.hasHyphenation() {
		fs = ctx.hyphenatedCopy(fs, box.W)
	}
	ctx.state.Path = nil
	return ctx.backend.TextBox(fs, box, a, ctx.state)
}

// Image draws the image file with its lower-left corner at pt, blended
// with the given alpha.
func (ctx *Context) Image(path string, pt Point, alpha float64) error {
	return ctx.backend.Image(path, pt, alpha, ctx.state)
}

// TextPath converts txt to a path: every glyph outline is appended at its
// shaped position, then the result is optimized. The first baseline is at
// pt; newlines step following lines down by their line height.
func (ctx *Context) TextPath(txt any, pt Point) (*BezierPath, error) {
	fs, err := ctx.attributedString(txt)
	if err != nil {
		return nil, err
	}
	path := NewBezierPath()
	pen := pt
	for _, line := range splitRunsIntoLines(fs.Runs()) {
		ctx.appendLineOutlines(path, line, pen)
		h := ctx.lineHeight(line)
		if h <= 0 {
			h = ctx.lineHeight(fs.Runs())
		}
		pen.Y -= h
	}
	path.Optimize()
	return path, nil
}

// TextBoxPath converts txt to a path laid out inside box, wrapping and
// clipping lines the way TextBox does.
func (ctx *Context) TextBoxPath(txt any, box Rect, align string) (*BezierPath, error) {
	a, err := alignFromName(align)
	if err != nil {
		return nil, err
	}
	fs, err := ctx.attributedString(txt)
	if err != nil {
		return nil, err
	}
	work := fs
	if ctx.state.Text.Hyphenation || fs.hasHyphenation() {
		work = ctx.hyphenatedCopy(fs, box.W)
	}

	path := NewBezierPath()
	length := work.Len()
	location := 0
	top := box.Y + box.H
	for location < length {
		breakIndex := suggestLineBreak(work, ctx.engine, location, box.W)
		if breakIndex == 0 {
			break
		}
		end := location + breakIndex
		drawEnd := end
		for drawEnd > location {
			r := work.runeAt(drawEnd - 1)
			if r != '\n' && r != ' ' {
				break
			}
			drawEnd--
		}
		runs := work.Slice(location, drawEnd).Runs()
		lineH := ctx.lineHeight(runs)
		if lineH <= 0 {
			lineH = ctx.lineHeight(work.Runs())
		}
		if lineH <= 0 {
			break
		}
		baseline := top - lineAscent(runs, lineH)
		if baseline < box.Y {
			break
		}
		x := box.X
		switch a {
		case AlignCenter:
			x += (box.W - measureRange(work, ctx.engine, location, drawEnd)) / 2
		case AlignRight:
			x += box.W - measureRange(work, ctx.engine, location, drawEnd)
		}
		ctx.appendLineOutlines(path, runs, Point{X: x, Y: baseline})
		top -= lineH
		location = end
	}
	path.Optimize()
	return path, nil
}

// appendLineOutlines shapes one line of runs and appends the glyph
// outlines starting at pen.
func (ctx *Context) appendLineOutlines(path *BezierPath, line []TextRun, pen Point) {
	for _, run := range line {
		glyphs := ctx.engine.Shape(run.shapingRun())
		for _, g := range glyphs {
			outline, err := run.Face.GlyphOutline(g.GID)
			if err != nil {
				continue
			}
			appendOutline(path, outline, Point{X: pen.X + g.X, Y: pen.Y + g.Y})
		}
		for _, g := range glyphs {
			pen.X += g.XAdvance
		}
	}
}

// lineAscent returns the tallest face ascent on the line.
func lineAscent(line []TextRun, lineH float64) float64 {
	var ascent float64
	for _, run := range line {
		if run.Face == nil {
			continue
		}
		if a := run.Face.Metrics().Ascent; a > ascent {
			ascent = a
		}
	}
	if ascent == 0 {
		ascent = 0.8 * lineH
	}
	return ascent
}

// appendOutline appends a glyph outline translated by offset. Font
// outlines close contours implicitly at the next MoveTo, so an explicit
// close is inserted before each new contour and at the end.
func appendOutline(path *BezierPath, outline text.Outline, offset Point) {
	at := func(p text.SegmentPoint) Point {
		return Point{X: offset.X + p.X, Y: offset.Y + p.Y}
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
