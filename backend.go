package drawbot

import "fmt"

// Align is the paragraph alignment inside a text box.
type Align string

const (
	AlignLeft      Align = "left"
	AlignCenter    Align = "center"
	AlignRight     Align = "right"
	AlignJustified Align = "justified"
)

// alignFromName validates an alignment name. The empty string means left.
func alignFromName(name string) (Align, error) {
	switch Align(name) {
	case "", AlignLeft:
		return AlignLeft, nil
	case AlignCenter:
		return AlignCenter, nil
	case AlignRight:
		return AlignRight, nil
	case AlignJustified:
		return AlignJustified, nil
	}
	return AlignLeft, fmt.Errorf("%w: align %q (expected left, center, right or justified)", ErrInvalidParameter, name)
}

// RenderBackend receives the drawing hooks of a Context. The context
// validates all arguments before dispatching; backends may assume
// structural sanity (a page exists, paths are well formed) and translate
// state into their output format.
type RenderBackend interface {
	// NewPage starts a new page of the given size in points.
	NewPage(width, height float64) error

	// Save and Restore bracket the context's state stack so backends with
	// native state stacks (PDF) can mirror it.
	Save()
	Restore()

	// DrawPath renders state.Path with the state's paint attributes.
	DrawPath(state *GraphicsState) error

	// ClipPath intersects the clip region with state.Path.
	ClipPath(state *GraphicsState) error

	// Transform concatenates the matrix onto the backend's CTM.
	Transform(m Matrix)

	// TextBox typesets the formatted string inside the box.
	TextBox(fs *FormattedString, box Rect, align Align, state *GraphicsState) error

	// Image places the image file with its lower-left corner at pt.
	Image(path string, pt Point, alpha float64, state *GraphicsState) error

	// FrameDuration sets the display duration of the current page when
	// exporting animations.
	FrameDuration(seconds float64)

	// SaveImage writes the accumulated output to path. multipage selects
	// between all pages and just the last one, for formats that support it.
	SaveImage(path string, multipage bool) error

	// PrintImage hands the accumulated output to a printing hook.
	PrintImage() error

	// Reset discards all accumulated pages and state.
	Reset()
}
