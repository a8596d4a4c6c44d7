// Package raster provides a preview-quality raster backend. Paths are
// filled through the x/image/vector rasterizer; strokes are flattened and
// painted as quads, which is good enough for previews but makes no claim
// to print-quality joins. Pages export as PNG or JPEG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/vector"

	"github.com/schriftgestalt/drawbot"
	"github.com/schriftgestalt/drawbot/text"
)

// flattenSteps is the cubic sampling resolution for stroking and dashing.
const flattenSteps = 16

// pageState is the backend-side state mirrored by Save/Restore: the clip
// mask and the accumulated transformation.
type pageState struct {
	clip *image.Alpha
	ctm  drawbot.Matrix
}

type page struct {
	img      *image.RGBA
	w, h     float64
	clip     *image.Alpha
	ctm      drawbot.Matrix
	stack    []pageState
	duration float64
}

// Backend rasterizes drawing hooks into in-memory pages.
type Backend struct {
	pages  []*page
	cur    *page
	scale  float64
	engine text.Engine

	// Print receives the last page from PrintImage. Without a handler
	// PrintImage fails.
	Print func(img image.Image) error
}

// Option configures the raster backend.
type Option func(*Backend)

// WithScale sets the pixels-per-point resolution. The default is 1.
func WithScale(scale float64) Option {
	return func(b *Backend) {
		if scale > 0 {
			b.scale = scale
		}
	}
}

// WithEngine sets the shaping engine used for text boxes. The default is
// the builtin fixed-metrics engine; pass the context's engine so preview
// and measurement agree.
func WithEngine(engine text.Engine) Option {
	return func(b *Backend) {
		if engine != nil {
			b.engine = engine
		}
	}
}

// New creates a raster backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		scale:  1,
		engine: text.NewBuiltinEngine(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Page returns the n-th rendered page image, or nil.
func (b *Backend) Page(n int) image.Image {
	if n < 0 || n >= len(b.pages) {
		return nil
	}
	return b.pages[n].img
}

// Pages returns the number of pages rendered since the last reset.
func (b *Backend) Pages() int { return len(b.pages) }

func (b *Backend) NewPage(width, height float64) error {
	p := &page{
		img: image.NewRGBA(image.Rect(0, 0, int(math.Ceil(width*b.scale)), int(math.Ceil(height*b.scale)))),
		w:   width,
		h:   height,
		ctm: drawbot.Identity(),
	}
	b.pages = append(b.pages, p)
	b.cur = p
	return nil
}

func (b *Backend) requirePage() error {
	if b.cur == nil {
		return fmt.Errorf("raster: no page started")
	}
	return nil
}

func (b *Backend) Save() {
	if b.cur == nil {
		return
	}
	b.cur.stack = append(b.cur.stack, pageState{clip: b.cur.clip, ctm: b.cur.ctm})
}

func (b *Backend) Restore() {
	p := b.cur
	if p == nil || len(p.stack) == 0 {
		return
	}
	s := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.clip = s.clip
	p.ctm = s.ctm
}

func (b *Backend) Transform(m drawbot.Matrix) {
	if b.cur == nil {
		return
	}
	b.cur.ctm = b.cur.ctm.Multiply(m)
}

// device maps a user-space point to pixel coordinates: the page CTM
// first, then the y-flip into the image grid.
func (p *page) device(pt drawbot.Point, scale float64) (float32, float32) {
	t := p.ctm.TransformPoint(pt)
	return float32(t.X * scale), float32((p.h - t.Y) * scale)
}

// rasterizeMask renders path coverage into an alpha mask, intersected
// with the page clip when one is set.
func (b *Backend) rasterizeMask(path *drawbot.BezierPath) *image.Alpha {
	p := b.cur
	bounds := p.img.Bounds()
	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	r.DrawOp = draw.Src

	var started bool
	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case drawbot.MoveTo:
			if started {
				r.ClosePath()
			}
			x, y := p.device(e.Point, b.scale)
			r.MoveTo(x, y)
			started = true
		case drawbot.LineTo:
			x, y := p.device(e.Point, b.scale)
			r.LineTo(x, y)
		case drawbot.CurveTo:
			c1x, c1y := p.device(e.Control1, b.scale)
			c2x, c2y := p.device(e.Control2, b.scale)
			x, y := p.device(e.Point, b.scale)
			r.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case drawbot.ClosePath:
			r.ClosePath()
		}
	}
	if started {
		r.ClosePath()
	}

	mask := image.NewAlpha(bounds)
	r.Draw(mask, bounds, image.Opaque, image.Point{})
	if p.clip != nil {
		intersectMask(mask, p.clip)
	}
	return mask
}

// intersectMask multiplies dst by clip in place.
func intersectMask(dst, clip *image.Alpha) {
	for i := range dst.Pix {
		dst.Pix[i] = uint8(uint16(dst.Pix[i]) * uint16(clip.Pix[i]) / 255)
	}
}

func (b *Backend) DrawPath(state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	p := b.cur
	if state.Gradient != nil {
		mask := b.rasterizeMask(state.Path)
		src := newGradientImage(state.Gradient, p, b.scale)
		draw.DrawMask(p.img, p.img.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
	} else if state.Fill != nil {
		mask := b.rasterizeMask(state.Path)
		src := image.NewUniform(state.Fill.NRGBA())
		draw.DrawMask(p.img, p.img.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
	}
	if state.Stroke != nil && state.StrokeWidth > 0 {
		outline := strokeOutline(state.Path, state.StrokeWidth, state.LineDash, state.LineCap, state.LineJoin)
		mask := b.rasterizeMask(outline)
		src := image.NewUniform(state.Stroke.NRGBA())
		draw.DrawMask(p.img, p.img.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
	}
	return nil
}

func (b *Backend) ClipPath(state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	// rasterizeMask already intersects with the current clip.
	b.cur.clip = b.rasterizeMask(state.Path)
	return nil
}

func (b *Backend) TextBox(fs *drawbot.FormattedString, box drawbot.Rect, align drawbot.Align, state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	return b.drawTextBox(fs, box, align)
}

func (b *Backend) Image(path string, pt drawbot.Point, alpha float64, state *drawbot.GraphicsState) error {
	if err := b.requirePage(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("raster: decode %s: %w", path, err)
	}

	p := b.cur
	w := float64(img.Bounds().Dx()) / b.scale
	h := float64(img.Bounds().Dy()) / b.scale
	x0, y0 := p.device(drawbot.Point{X: pt.X, Y: pt.Y + h}, b.scale)
	rect := image.Rect(int(x0), int(y0), int(x0)+int(w*b.scale), int(y0)+int(h*b.scale))

	if alpha >= 1 {
		draw.Draw(p.img, rect, img, img.Bounds().Min, draw.Over)
		return nil
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Max(0, alpha) * 255)})
	draw.DrawMask(p.img, rect, img, img.Bounds().Min, mask, image.Point{}, draw.Over)
	return nil
}

func (b *Backend) FrameDuration(seconds float64) {
	if b.cur != nil {
		b.cur.duration = seconds
	}
}

// SaveImage writes pages to disk. The extension selects the format (.png,
// .jpg, .jpeg). With multipage, every page is written with a _N suffix;
// otherwise only the last page is saved.
func (b *Backend) SaveImage(path string, multipage bool) error {
	if len(b.pages) == 0 {
		return fmt.Errorf("raster: no page started")
	}
	if !multipage || len(b.pages) == 1 {
		return writeImage(path, b.pages[len(b.pages)-1].img)
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i, p := range b.pages {
		name := fmt.Sprintf("%s_%d%s", base, i+1, ext)
		if err := writeImage(name, p.img); err != nil {
			return err
		}
	}
	return nil
}

func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	}
	return fmt.Errorf("raster: unsupported image format %q", filepath.Ext(path))
}

func (b *Backend) PrintImage() error {
	if len(b.pages) == 0 {
		return fmt.Errorf("raster: no page started")
	}
	if b.Print == nil {
		return fmt.Errorf("raster: no print handler configured")
	}
	return b.Print(b.pages[len(b.pages)-1].img)
}

func (b *Backend) Reset() {
	b.pages = nil
	b.cur = nil
}
