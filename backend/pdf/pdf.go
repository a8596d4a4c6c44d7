// Package pdf provides a multipage PDF export backend built on
// github.com/jung-kurt/gofpdf.
//
// The drawing engine's coordinate system has its origin in the lower-left
// corner; PDF pages produced by gofpdf are addressed top-down, so every
// y coordinate is flipped against the current page height. Gradients are
// approximated with the library's two-stop shading operators clipped to
// the path bounds.
package pdf

import (
	"errors"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/schriftgestalt/drawbot"
)

// curveSteps is the flattening resolution used when a cubic has to be
// approximated by a polygon (polygon clipping).
const curveSteps = 16

// regionMarks snapshots the open q/Q regions at a Save so Restore can
// unwind exactly the blocks opened since.
type regionMarks struct {
	clips      int
	transforms int
}

// Backend renders drawing hooks into a PDF document.
type Backend struct {
	doc        *gofpdf.Fpdf
	pageW      float64
	pageH      float64
	pages      int
	transforms int // open transform blocks
	clips      int // open clip regions
	saveStack  []regionMarks

	// Print receives the finished document from PrintImage. Without a
	// handler PrintImage fails.
	Print func(doc *gofpdf.Fpdf) error
}

// New creates an empty PDF backend.
func New() *Backend {
	return &Backend{}
}

// Document exposes the underlying gofpdf document, mainly for tests and
// custom print handlers. Nil before the first page.
func (b *Backend) Document() *gofpdf.Fpdf {
	return b.doc
}

// flip converts a y-up coordinate to the page's top-down system.
func (b *Backend) flip(y float64) float64 {
	return b.pageH - y
}

func (b *Backend) NewPage(width, height float64) error {
	if b.doc == nil {
		b.doc = gofpdf.NewCustom(&gofpdf.InitType{
			UnitStr: "pt",
			Size:    gofpdf.SizeType{Wd: width, Ht: height},
		})
		b.doc.SetMargins(0, 0, 0)
		b.doc.SetAutoPageBreak(false, 0)
	}
	b.closeOpenRegions()
	b.doc.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
	b.pageW, b.pageH = width, height
	b.pages++
	return b.doc.Error()
}

// closeOpenRegions ends transform and clip blocks left open on the
// previous page. PDF graphics state does not survive a page break.
func (b *Backend) closeOpenRegions() {
	if b.doc == nil {
		return
	}
	for ; b.transforms > 0; b.transforms-- {
		b.doc.TransformEnd()
	}
	for ; b.clips > 0; b.clips-- {
		b.doc.ClipEnd()
	}
	b.saveStack = nil
}

func (b *Backend) Save() {
	b.saveStack = append(b.saveStack, regionMarks{clips: b.clips, transforms: b.transforms})
}

// Restore closes every transform and clip block opened since the matching
// Save. Transforms unwind before clips so the emitted Q operators stay
// LIFO with the q operators of the enclosed blocks.
func (b *Backend) Restore() {
	if len(b.saveStack) == 0 {
		return
	}
	marks := b.saveStack[len(b.saveStack)-1]
	b.saveStack = b.saveStack[:len(b.saveStack)-1]
	for b.transforms > marks.transforms {
		b.doc.TransformEnd()
		b.transforms--
	}
	for b.clips > marks.clips {
		b.doc.ClipEnd()
		b.clips--
	}
}

func (b *Backend) requirePage() error {
	if b.doc == nil {
		return errors.New("pdf: no page started")
	}
	return nil
}

// applyStroke sets the document's stroking attributes from the state.
func (b *Backend) applyStroke(state *drawbot.GraphicsState) {
	s := state.Stroke
	b.doc.SetDrawColor(toByte(s.R), toByte(s.G), toByte(s.B))
	b.doc.SetLineWidth(state.StrokeWidth)
	b.doc.SetDashPattern(append([]float64(nil), state.LineDash...), 0)
	switch state.LineCap {
	case drawbot.LineCapRound:
		b.doc.SetLineCapStyle("round")
	case drawbot.LineCapSquare:
		b.doc.SetLineCapStyle("square")
	default:
		b.doc.SetLineCapStyle("butt")
	}
	switch state.LineJoin {
	case drawbot.LineJoinRound:
		b.doc.SetLineJoinStyle("round")
	case drawbot.LineJoinBevel:
		b.doc.SetLineJoinStyle("bevel")
	default:
		b.doc.SetLineJoinStyle("miter")
	}
}

// tracePath replays the path into the document's path buffer.
func (b *Backend) tracePath(path *drawbot.BezierPath) {
	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case drawbot.MoveTo:
			b.doc.MoveTo(e.Point.X, b.flip(e.Point.Y))
		case drawbot.LineTo:
			b.doc.LineTo(e.Point.X, b.flip(e.Point.Y))
		case drawbot.CurveTo:
			b.doc.CurveBezierCubicTo(
				e.Control1.X, b.flip(e.Control1.Y),
				e.Control2.X, b.flip(e.Control2.Y),
				e.Point.X, b.flip(e.Point.Y),
			)
		case drawbot.ClosePath:
			b.doc.ClosePath()
		}
	}
}

func (b *Backend) DrawPath(state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	if state.Gradient != nil {
		b.fillGradient(state)
	}

	var style string
	if state.Fill != nil && state.Gradient == nil {
		b.doc.SetFillColor(toByte(state.Fill.R), toByte(state.Fill.G), toByte(state.Fill.B))
		b.doc.SetAlpha(state.Fill.A, "Normal")
		style = "F"
	}
	if state.Stroke != nil {
		b.applyStroke(state)
		style += "D"
	}
	if style == "" {
		return b.doc.Error()
	}
	b.tracePath(state.Path)
	b.doc.DrawPath(style)
	b.doc.SetAlpha(1, "Normal")
	return b.doc.Error()
}

// fillGradient paints a two-stop approximation of the gradient, clipped
// to the path's polygon outline. Intermediate stops are dropped; PDF
// export keeps the first and last color.
func (b *Backend) fillGradient(state *drawbot.GraphicsState) {
	g := state.Gradient
	first := g.Colors[0]
	last := g.Colors[len(g.Colors)-1]

	pts := flattenPath(state.Path)
	if len(pts) < 3 {
		return
	}
	poly := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		poly[i] = gofpdf.PointType{X: p.X, Y: b.flip(p.Y)}
	}
	b.doc.ClipPolygon(poly, false)

	min, max, ok := state.Path.Bounds()
	if !ok {
		b.doc.ClipEnd()
		return
	}
	w := max.X - min.X
	h := max.Y - min.Y
	if w <= 0 || h <= 0 {
		b.doc.ClipEnd()
		return
	}
	// Gradient vectors are given relative to the shaded rect.
	relX := func(x float64) float64 { return (x - min.X) / w }
	relY := func(y float64) float64 { return (b.flip(y) - b.flip(max.Y)) / h }
	if g.Kind == drawbot.GradientLinear {
		b.doc.LinearGradient(min.X, b.flip(max.Y), w, h,
			toByte(first.R), toByte(first.G), toByte(first.B),
			toByte(last.R), toByte(last.G), toByte(last.B),
			relX(g.Start.X), relY(g.Start.Y), relX(g.End.X), relY(g.End.Y))
	} else {
		r := relX(g.End.X+g.EndRadius) - relX(g.End.X)
		b.doc.RadialGradient(min.X, b.flip(max.Y), w, h,
			toByte(first.R), toByte(first.G), toByte(first.B),
			toByte(last.R), toByte(last.G), toByte(last.B),
			relX(g.Start.X), relY(g.Start.Y), relX(g.End.X), relY(g.End.Y), r)
	}
	b.doc.ClipEnd()
}

func (b *Backend) ClipPath(state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	pts := flattenPath(state.Path)
	if len(pts) < 3 {
		return nil
	}
	poly := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		poly[i] = gofpdf.PointType{X: p.X, Y: b.flip(p.Y)}
	}
	b.doc.ClipPolygon(poly, false)
	b.clips++
	return b.doc.Error()
}

func (b *Backend) Transform(m drawbot.Matrix) {
	if b.doc == nil {
		return
	}
	// Conjugate by the y-flip so a y-up matrix acts correctly on the
	// top-down page.
	flip := drawbot.Matrix{A: 1, E: -1, F: b.pageH}
	fm := flip.Multiply(m).Multiply(flip)
	b.doc.TransformBegin()
	b.doc.Transform(gofpdf.TransformMatrix{
		A: fm.A, B: fm.D, C: fm.B, D: fm.E, E: fm.C, F: fm.F,
	})
	b.transforms++
}

var alignMap = map[drawbot.Align]string{
	drawbot.AlignLeft:      "L",
	drawbot.AlignCenter:    "C",
	drawbot.AlignRight:     "R",
	drawbot.AlignJustified: "J",
}

// TextBox typesets the string with the PDF core fonts. Runs keep their
// own color and size but each starts on its own cell; embedding the
// engine's shaped glyphs is out of scope for this backend.
func (b *Backend) TextBox(fs *drawbot.FormattedString, box drawbot.Rect, align drawbot.Align, state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	y := b.flip(box.Y + box.H)
	for _, run := range fs.Runs() {
		size := run.Style.FontSize
		if size <= 0 {
			size = drawbot.DefaultFontSize
		}
		lineH := run.Style.LineHeight
		if lineH <= 0 {
			lineH = 1.2 * size
		}
		fill := run.Fill
		if fill == nil {
			black := drawbot.Gray(0)
			fill = &black
		}
		b.doc.SetFont("Helvetica", "", size)
		b.doc.SetTextColor(toByte(fill.R), toByte(fill.G), toByte(fill.B))
		b.doc.SetXY(box.X, y)
		b.doc.MultiCell(box.W, lineH, run.Text, "", alignMap[align], false)
		y = b.doc.GetY()
	}
	return b.doc.Error()
}

func (b *Backend) Image(path string, pt drawbot.Point, alpha float64, state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ReadDpi: true}
	info := b.doc.RegisterImageOptions(path, opts)
	if info == nil {
		return b.doc.Error()
	}
	if alpha < 1 {
		b.doc.SetAlpha(alpha, "Normal")
	}
	top := b.flip(pt.Y) - info.Height()
	b.doc.ImageOptions(path, pt.X, top, info.Width(), info.Height(), false, opts, 0, "")
	if alpha < 1 {
		b.doc.SetAlpha(1, "Normal")
	}
	return b.doc.Error()
}

// FrameDuration is meaningless for PDF output.
func (b *Backend) FrameDuration(seconds float64) {}

// SaveImage writes the document to path. PDF always keeps all pages;
// the multipage flag is ignored.
func (b *Backend) SaveImage(path string, multipage bool) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	b.closeOpenRegions()
	return b.doc.OutputFileAndClose(path)
}

func (b *Backend) PrintImage() error {
	if err := b.requirePage(); err != nil {
		return err
	}
	if b.Print == nil {
		return fmt.Errorf("pdf: no print handler configured")
	}
	b.closeOpenRegions()
	return b.Print(b.doc)
}

func (b *Backend) Reset() {
	b.doc = nil
	b.pages = 0
	b.pageW, b.pageH = 0, 0
	b.transforms = 0
	b.clips = 0
	b.saveStack = nil
}

// toByte converts a [0, 1] component to the library's 0-255 range.
func toByte(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// flattenPath converts the path to a polygon by sampling cubics.
func flattenPath(path *drawbot.BezierPath) []drawbot.Point {
	var pts []drawbot.Point
	var current drawbot.Point
	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case drawbot.MoveTo:
			pts = append(pts, e.Point)
			current = e.Point
		case drawbot.LineTo:
			pts = append(pts, e.Point)
			current = e.Point
		case drawbot.CurveTo:
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				pts = append(pts, cubicAt(current, e.Control1, e.Control2, e.Point, t))
			}
			current = e.Point
		}
	}
	return pts
}

func cubicAt(p0, p1, p2, p3 drawbot.Point, t float64) drawbot.Point {
	u := 1 - t
	a := u * u * u
	bb := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return drawbot.Point{
		X: a*p0.X + bb*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + bb*p1.Y + c*p2.Y + d*p3.Y,
	}
}
