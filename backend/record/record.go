// Package record provides a backend that captures drawing hooks as typed
// operation structures instead of producing output.
//
// The recorded log is inspectable and replayable: tests assert on it, and
// other backends can be driven from it. State snapshots are deep copies,
// so later mutations of the context state do not alter recorded ops.
package record

import (
	"github.com/schriftgestalt/drawbot"
)

// OpType identifies the type of a recorded operation.
type OpType uint8

const (
	OpNewPage OpType = iota
	OpSave
	OpRestore
	OpDrawPath
	OpClipPath
	OpTransform
	OpTextBox
	OpImage
	OpFrameDuration
	OpSaveImage
	OpPrintImage
	OpReset
)

// opTypeNames maps OpType values to their string representation.
var opTypeNames = [...]string{
	OpNewPage:       "NewPage",
	OpSave:          "Save",
	OpRestore:       "Restore",
	OpDrawPath:      "DrawPath",
	OpClipPath:      "ClipPath",
	OpTransform:     "Transform",
	OpTextBox:       "TextBox",
	OpImage:         "Image",
	OpFrameDuration: "FrameDuration",
	OpSaveImage:     "SaveImage",
	OpPrintImage:    "PrintImage",
	OpReset:         "Reset",
}

func (t OpType) String() string {
	if int(t) < len(opTypeNames) {
		return opTypeNames[t]
	}
	return "Unknown"
}

// Op is one recorded drawing operation. Only the fields relevant to its
// type are set.
type Op struct {
	Type OpType

	// NewPage
	Width, Height float64

	// DrawPath, ClipPath, TextBox, Image: deep state snapshot
	State *drawbot.GraphicsState

	// Transform
	Matrix drawbot.Matrix

	// TextBox
	Text  *drawbot.FormattedString
	Box   drawbot.Rect
	Align drawbot.Align

	// Image, SaveImage
	Path string

	// Image
	Point drawbot.Point
	Alpha float64

	// FrameDuration
	Seconds float64

	// SaveImage
	Multipage bool
}

// Backend records every hook it receives.
type Backend struct {
	ops   []Op
	pages int
}

// New creates an empty recording backend.
func New() *Backend {
	return &Backend{}
}

// Ops returns the recorded operations in order.
func (b *Backend) Ops() []Op {
	return b.ops
}

// Pages returns the number of pages started since the last reset.
func (b *Backend) Pages() int {
	return b.pages
}

func (b *Backend) NewPage(width, height float64) error {
	b.pages++
	b.ops = append(b.ops, Op{Type: OpNewPage, Width: width, Height: height})
	return nil
}

func (b *Backend) Save() {
	b.ops = append(b.ops, Op{Type: OpSave})
}

func (b *Backend) Restore() {
	b.ops = append(b.ops, Op{Type: OpRestore})
}

func (b *Backend) DrawPath(state *drawbot.GraphicsState) error {
	b.ops = append(b.ops, Op{Type: OpDrawPath, State: state.Copy()})
	return nil
}

func (b *Backend) ClipPath(state *drawbot.GraphicsState) error {
	b.ops = append(b.ops, Op{Type: OpClipPath, State: state.Copy()})
	return nil
}

func (b *Backend) Transform(m drawbot.Matrix) {
	b.ops = append(b.ops, Op{Type: OpTransform, Matrix: m})
}

func (b *Backend) TextBox(fs *drawbot.FormattedString, box drawbot.Rect, align drawbot.Align, state *drawbot.GraphicsState) error {
	b.ops = append(b.ops, Op{
		Type:  OpTextBox,
		Text:  fs.Copy(),
		Box:   box,
		Align: align,
		State: state.Copy(),
	})
	return nil
}

func (b *Backend) Image(path string, pt drawbot.Point, alpha float64, state *drawbot.GraphicsState) error {
	b.ops = append(b.ops, Op{
		Type:  OpImage,
		Path:  path,
		Point: pt,
		Alpha: alpha,
		State: state.Copy(),
	})
	return nil
}

func (b *Backend) FrameDuration(seconds float64) {
	b.ops = append(b.ops, Op{Type: OpFrameDuration, Seconds: seconds})
}

func (b *Backend) SaveImage(path string, multipage bool) error {
	b.ops = append(b.ops, Op{Type: OpSaveImage, Path: path, Multipage: multipage})
	return nil
}

func (b *Backend) PrintImage() error {
	b.ops = append(b.ops, Op{Type: OpPrintImage})
	return nil
}

func (b *Backend) Reset() {
	b.ops = nil
	b.pages = 0
}
