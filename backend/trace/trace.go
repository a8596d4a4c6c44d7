// Package trace provides a backend that writes one line per drawing hook
// to an io.Writer. It is the quickest way to see what a script does and a
// convenient fixture for golden-output tests.
package trace

import (
	"fmt"
	"io"

	"github.com/schriftgestalt/drawbot"
)

// Backend prints every hook it receives.
type Backend struct {
	w io.Writer
}

// New creates a trace backend writing to w.
func New(w io.Writer) *Backend {
	return &Backend{w: w}
}

func (b *Backend) printf(format string, args ...any) {
	fmt.Fprintf(b.w, format+"\n", args...)
}

func (b *Backend) NewPage(width, height float64) error {
	b.printf("newPage %g %g", width, height)
	return nil
}

func (b *Backend) Save() {
	b.printf("save")
}

func (b *Backend) Restore() {
	b.printf("restore")
}

func (b *Backend) DrawPath(state *drawbot.GraphicsState) error {
	b.printf("drawPath %d elements", len(state.Path.Elements()))
	return nil
}

func (b *Backend) ClipPath(state *drawbot.GraphicsState) error {
	b.printf("clipPath %d elements", len(state.Path.Elements()))
	return nil
}

func (b *Backend) Transform(m drawbot.Matrix) {
	b.printf("transform [%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}

func (b *Backend) TextBox(fs *drawbot.FormattedString, box drawbot.Rect, align drawbot.Align, state *drawbot.GraphicsState) error {
	b.printf("textBox %q (%g, %g, %g, %g) %s", fs.String(), box.X, box.Y, box.W, box.H, align)
	return nil
}

func (b *Backend) Image(path string, pt drawbot.Point, alpha float64, state *drawbot.GraphicsState) error {
	b.printf("image %s %g %g %g", path, pt.X, pt.Y, alpha)
	return nil
}

func (b *Backend) FrameDuration(seconds float64) {
	b.printf("frameDuration %g", seconds)
}

func (b *Backend) SaveImage(path string, multipage bool) error {
	b.printf("saveImage %s %t", path, multipage)
	return nil
}

func (b *Backend) PrintImage() error {
	b.printf("printImage")
	return nil
}

func (b *Backend) Reset() {
	b.printf("reset")
}
